// Package mediatest provides an in-memory media element for tests of the
// playback core. The fake records every mutation and lets tests script
// playback-resume failures.
package mediatest

import "sync"

// Element is an in-memory media.Element.
type Element struct {
	mu sync.Mutex

	// PlayErr, when set, is returned by the next Play call.
	PlayErr error

	// Playable controls CanPlayType; keys are content types.
	Playable map[string]bool

	paused   bool
	muted    bool
	volume   float64
	position float64
	duration float64

	Source       string
	SourceClears int
	PlayCalls    int
	PauseCalls   int
	Closed       bool
}

// New returns a paused element at full volume.
func New() *Element {
	return &Element{
		paused: true,
		volume: 100,
	}
}

func (e *Element) CanPlayType(mimeType string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Playable[mimeType]
}

func (e *Element) SetSource(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Source = url
	return nil
}

func (e *Element) ClearSource() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Source = ""
	e.SourceClears++
	return nil
}

func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.PlayCalls++
	if e.PlayErr != nil {
		err := e.PlayErr
		e.PlayErr = nil
		return err
	}
	e.paused = false
	return nil
}

func (e *Element) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.PauseCalls++
	e.paused = true
	return nil
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetPaused scripts the suspension state without counting a Play or Pause call.
func (e *Element) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
}

func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *Element) SeekTo(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = seconds
	return nil
}

// SetDuration scripts the media duration.
func (e *Element) SetDuration(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.duration = seconds
}

func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Element) SetVolume(volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = volume
	return nil
}

func (e *Element) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *Element) SetMuted(muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	return nil
}

func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Closed = true
	return nil
}
