package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const bannerWidth = 60

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1")).
			Padding(0, 1)

	loaderStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1)
)

// Terminal renders playback state as banners on a writer.
// All transitions are idempotent: re-showing the current state writes nothing.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer

	errorMessage string
	loader       bool
}

// NewTerminal creates a terminal surface writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) ShowError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if message == "" || message == t.errorMessage {
		return
	}
	t.errorMessage = message

	wrapped := wordwrap.String(message, bannerWidth)
	fmt.Fprintln(t.w, errorStyle.Render(wrapped))
}

func (t *Terminal) HideError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorMessage = ""
}

func (t *Terminal) ShowLoader() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loader {
		return
	}
	t.loader = true

	fmt.Fprintln(t.w, loaderStyle.Render("Loading…"))
}

func (t *Terminal) HideLoader() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loader = false
}

// ErrorMessage returns the currently visible error, if any.
func (t *Terminal) ErrorMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errorMessage
}

// Loading reports whether the buffering indicator is visible.
func (t *Terminal) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loader
}
