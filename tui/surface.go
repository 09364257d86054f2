package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// errorMsg carries a surface error banner; an empty text hides it.
type errorMsg struct {
	text string
}

// loaderMsg toggles the surface loading indicator.
type loaderMsg struct {
	visible bool
}

// surface adapts the bubbletea program to the playback core's UI surface.
// Core callbacks arrive on engine and resolver goroutines; messages are
// handed to the program so all state mutation stays inside Update.
type surface struct {
	mu      sync.Mutex
	program *tea.Program

	// pending buffers messages emitted before the program is attached.
	pending []tea.Msg
}

func newSurface() *surface {
	return &surface{}
}

// attach binds the program and flushes any buffered messages.
func (s *surface) attach(program *tea.Program) {
	s.mu.Lock()
	s.program = program
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, msg := range pending {
		program.Send(msg)
	}
}

func (s *surface) send(msg tea.Msg) {
	s.mu.Lock()
	program := s.program
	if program == nil {
		s.pending = append(s.pending, msg)
	}
	s.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

func (s *surface) ShowError(message string) {
	if message == "" {
		return
	}
	s.send(errorMsg{text: message})
}

func (s *surface) HideError() {
	s.send(errorMsg{})
}

func (s *surface) ShowLoader() {
	s.send(loaderMsg{visible: true})
}

func (s *surface) HideLoader() {
	s.send(loaderMsg{visible: false})
}
