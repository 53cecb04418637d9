// Package chat is the terminal front end of the interactive session.
package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"personaos/ui"
)

// Interface handles chat I/O operations
type Interface struct {
	scanner  *bufio.Scanner
	out      io.Writer
	status   *ui.StatusLine
	renderer *ui.Renderer
}

// NewInterface creates a chat interface. tty enables the spinner, colors
// and markdown rendering.
func NewInterface(in io.Reader, out io.Writer, tty bool) *Interface {
	return &Interface{
		scanner:  bufio.NewScanner(in),
		out:      out,
		status:   ui.NewStatusLine(out, tty),
		renderer: ui.NewRenderer(tty),
	}
}

// ReadInput prompts for and reads one line. ok is false at end of input.
func (i *Interface) ReadInput() (line string, ok bool, err error) {
	fmt.Fprint(i.out, i.renderer.UserPrefix())

	if !i.scanner.Scan() {
		if err := i.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("error reading input: %w", err)
		}
		return "", false, nil
	}

	return strings.TrimSpace(i.scanner.Text()), true, nil
}

// ShowThinking displays a thinking indicator
func (i *Interface) ShowThinking(message string) {
	i.status.ShowWithSpinner(message)
}

// ClearStatus clears the status line
func (i *Interface) ClearStatus() {
	i.status.Clear()
}

// DisplayResponse prints a reply. Model replies are rendered as markdown.
func (i *Interface) DisplayResponse(response string, markdown bool) {
	if markdown {
		response = i.renderer.Markdown(response)
	}
	fmt.Fprintln(i.out, i.renderer.AssistantPrefix()+response)
}

// DisplayError displays an error message
func (i *Interface) DisplayError(err error) {
	fmt.Fprintln(i.out, "\n"+i.renderer.Error(err.Error()))
}

// PrintSeparator prints a line separator for readability
func (i *Interface) PrintSeparator() {
	fmt.Fprintln(i.out)
}

// PrintWelcome prints the startup banner
func (i *Interface) PrintWelcome(model string) {
	fmt.Fprintln(i.out, "PersonaOS is running... (type 'exit' to quit)")
	if model != "" {
		fmt.Fprintln(i.out, i.renderer.Dim("Model: "+model))
	}
	fmt.Fprintln(i.out, i.renderer.Dim("Type 'help' to see available tools"))
}
