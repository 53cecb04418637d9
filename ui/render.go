package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const wrapWidth = 80

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

// Renderer formats chat output. Styling and markdown rendering are only
// applied when Styled is set, so piped output stays plain.
type Renderer struct {
	Styled   bool
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer; styled enables colors and markdown
func NewRenderer(styled bool) *Renderer {
	r := &Renderer{Styled: styled}
	if styled {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrapWidth),
		)
		if err == nil {
			r.markdown = md
		}
	}
	return r
}

// UserPrefix is the input prompt label
func (r *Renderer) UserPrefix() string {
	return r.style(userStyle, "You:") + " "
}

// AssistantPrefix labels the assistant's replies
func (r *Renderer) AssistantPrefix() string {
	return r.style(assistantStyle, "PersonaOS:") + " "
}

// Error formats an error line
func (r *Renderer) Error(msg string) string {
	return r.style(errorStyle, "Error: "+msg)
}

// Dim formats secondary text such as banners and hints
func (r *Renderer) Dim(msg string) string {
	return r.style(dimStyle, msg)
}

// Markdown renders model output. Falls back to the raw text on error or
// when styling is off.
func (r *Renderer) Markdown(text string) string {
	if r.markdown == nil || text == "" {
		return text
	}
	rendered, err := r.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n ")
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}
