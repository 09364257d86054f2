// Package enginetest provides a scripted engine implementation for tests of
// the playback core. The fake records every command it receives and lets the
// test emit events as if the real engine dispatched them.
package enginetest

import (
	"sync"

	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/media"
)

// Fake is a scripted engine.Engine. All fields are safe to inspect after the
// scenario ran; mutate them only before handing the fake to the code under test.
type Fake struct {
	mu       sync.Mutex
	handlers map[engine.Event][]*registration
	nextID   int

	ManifestLevels []engine.Level
	Audio          []engine.AudioTrack
	Subtitles      []engine.SubtitleTrack

	AttachErr error

	Attached       media.Element
	LoadedURL      string
	Level          int
	Auto           bool
	StartLoads     int
	StopLoads      int
	MediaRecovers  int
	AudioTrack     int
	SubtitleTrack  int
	LevelRequests  []int
	AutoRequests   int
	Destroyed      bool
	DestroyedCount int
}

type registration struct {
	id int
	h  engine.Handler
}

// NewFake returns a fake engine in auto-level mode with no manifest.
func NewFake() *Fake {
	return &Fake{
		handlers:      make(map[engine.Event][]*registration),
		Level:         -1,
		Auto:          true,
		AudioTrack:    -1,
		SubtitleTrack: -1,
	}
}

func (f *Fake) AttachMedia(el media.Element) error {
	if f.AttachErr != nil {
		return f.AttachErr
	}
	f.Attached = el
	return nil
}

func (f *Fake) LoadSource(url string) { f.LoadedURL = url }
func (f *Fake) StartLoad()            { f.StartLoads++ }
func (f *Fake) StopLoad()             { f.StopLoads++ }
func (f *Fake) RecoverMediaError()    { f.MediaRecovers++ }

func (f *Fake) Levels() []engine.Level { return f.ManifestLevels }
func (f *Fake) CurrentLevel() int      { return f.Level }

func (f *Fake) SetCurrentLevel(index int) {
	f.Level = index
	f.Auto = false
	f.LevelRequests = append(f.LevelRequests, index)
}

func (f *Fake) SetAutoLevel() {
	f.Auto = true
	f.Level = -1
	f.AutoRequests++
}

func (f *Fake) AutoLevel() bool { return f.Auto }

func (f *Fake) AudioTracks() []engine.AudioTrack       { return f.Audio }
func (f *Fake) SetAudioTrack(index int)                { f.AudioTrack = index }
func (f *Fake) SubtitleTracks() []engine.SubtitleTrack { return f.Subtitles }
func (f *Fake) SetSubtitleTrack(index int)             { f.SubtitleTrack = index }

func (f *Fake) On(ev engine.Event, h engine.Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	reg := &registration{id: f.nextID, h: h}
	f.handlers[ev] = append(f.handlers[ev], reg)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		regs := f.handlers[ev]
		for i, r := range regs {
			if r.id == reg.id {
				f.handlers[ev] = append(regs[:i], regs[i+1:]...)
				return
			}
		}
	}
}

func (f *Fake) Destroy() {
	f.mu.Lock()
	f.Destroyed = true
	f.DestroyedCount++
	f.handlers = make(map[engine.Event][]*registration)
	f.mu.Unlock()
}

// Emit synchronously dispatches an event to the currently bound handlers,
// mimicking the engine's dispatch goroutine.
func (f *Fake) Emit(ev engine.Event, data any) {
	f.mu.Lock()
	regs := make([]*registration, len(f.handlers[ev]))
	copy(regs, f.handlers[ev])
	f.mu.Unlock()

	for _, r := range regs {
		r.h(data)
	}
}

// HandlerCount reports how many handlers are bound to an event.
func (f *Fake) HandlerCount(ev engine.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers[ev])
}

// Factory hands out prepared fakes and records how many were built.
type Factory struct {
	IsSupported bool
	Built       []*Fake

	// Prepare, when set, customizes each fake before it is returned.
	Prepare func(*Fake)
}

func (f *Factory) Supported() bool { return f.IsSupported }

func (f *Factory) New(_ engine.Config) engine.Engine {
	fake := NewFake()
	if f.Prepare != nil {
		f.Prepare(fake)
	}
	f.Built = append(f.Built, fake)
	return fake
}
