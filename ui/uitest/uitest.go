// Package uitest provides a recording surface for tests of the playback core.
package uitest

import "sync"

// Surface records every state transition it receives.
type Surface struct {
	mu sync.Mutex

	Errors      []string
	ErrorHides  int
	LoaderShows int
	LoaderHides int

	casting bool
}

// New returns an empty recording surface.
func New() *Surface {
	return &Surface{}
}

func (s *Surface) ShowError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, message)
}

func (s *Surface) HideError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ErrorHides++
}

func (s *Surface) ShowLoader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoaderShows++
}

func (s *Surface) HideLoader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoaderHides++
}

// LastError returns the most recent error message, or "".
func (s *Surface) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Errors) == 0 {
		return ""
	}
	return s.Errors[len(s.Errors)-1]
}

// SetCasting scripts the cast state.
func (s *Surface) SetCasting(casting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.casting = casting
}

// Casting implements ui.CastStatus.
func (s *Surface) Casting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.casting
}
