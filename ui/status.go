package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

// StatusLine manages an in-place updating status line in the terminal
type StatusLine struct {
	mu          sync.Mutex
	out         io.Writer
	isTTY       bool
	active      bool
	message     string
	spinner     []string
	spinnerIdx  int
	stopCh      chan struct{}
	done        chan struct{}
	lastLineLen int
}

// NewStatusLine creates a status line writing to out. When tty is false
// messages are printed once on their own line and nothing animates.
func NewStatusLine(out io.Writer, tty bool) *StatusLine {
	return &StatusLine{
		out:     out,
		isTTY:   tty,
		spinner: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Show displays a static status message (no spinner)
func (s *StatusLine) Show(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTTY {
		fmt.Fprintln(s.out, msg)
		return
	}

	s.clear()
	s.message = msg
	s.active = true
	s.print(msg)
}

// ShowWithSpinner displays a status message with an animated spinner
// until Clear is called
func (s *StatusLine) ShowWithSpinner(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTTY {
		fmt.Fprintln(s.out, msg)
		return
	}

	s.message = msg
	s.active = true
	if s.stopCh != nil {
		return // already animating; the next frame picks up msg
	}
	s.spinnerIdx = 0
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.animate(s.stopCh, s.done)
}

// Clear removes the status line and stops any animation
func (s *StatusLine) Clear() {
	s.mu.Lock()
	stop, done := s.stopCh, s.done
	s.stopCh, s.done = nil, nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isTTY {
		s.clear()
	}
	s.active = false
	s.message = ""
}

func (s *StatusLine) animate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.active {
				s.spinnerIdx = (s.spinnerIdx + 1) % len(s.spinner)
				s.clear()
				s.print(fmt.Sprintf("%s %s", spinnerStyle.Render(s.spinner[s.spinnerIdx]), s.message))
			}
			s.mu.Unlock()
		}
	}
}

// print outputs text without newline
func (s *StatusLine) print(text string) {
	fmt.Fprint(s.out, text)
	s.lastLineLen = lipgloss.Width(text)
}

// clear erases the current line
func (s *StatusLine) clear() {
	if s.lastLineLen > 0 {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.lastLineLen)+"\r")
		s.lastLineLen = 0
	}
}
