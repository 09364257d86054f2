// Package engine defines the contract between the playback core and a pluggable
// adaptive-bitrate streaming engine.
//
// The engine itself (fragment fetching, ABR heuristics, manifest parsing) is an
// external dependency and is never reimplemented here; the core only consumes
// its event stream and issues level/track selection and load-control commands.
package engine

import "github.com/vidra-player/vidra/media"

// Engine is one live attachment of an adaptive streaming client.
// Exactly one engine instance is alive per stream session; a destroyed
// engine must never be reused.
type Engine interface {
	// AttachMedia binds the engine output to a media element.
	AttachMedia(el media.Element) error

	// LoadSource starts loading the manifest at the given URL.
	LoadSource(url string)

	// StartLoad resumes fragment loading after a stop or a recoverable error.
	StartLoad()

	// StopLoad suspends fragment loading without detaching the media element.
	StopLoad()

	// RecoverMediaError asks the engine to re-initialize the media pipeline
	// after a non-fatal media error.
	RecoverMediaError()

	// Levels returns the quality levels of the current manifest.
	// Indices are stable references for the lifetime of one manifest.
	Levels() []Level

	// CurrentLevel returns the engine index of the active level, or -1 in auto mode.
	CurrentLevel() int

	// SetCurrentLevel pins playback to the level at the given engine index.
	// The engine flushes the buffer and emits a buffer-flushed event once
	// segments of the new level can be appended.
	SetCurrentLevel(index int)

	// SetAutoLevel returns level selection to the engine's adaptive heuristics.
	SetAutoLevel()

	// AutoLevel reports whether adaptive level selection is active.
	AutoLevel() bool

	// AudioTracks returns the audio renditions of the current manifest.
	AudioTracks() []AudioTrack

	// SetAudioTrack activates the audio rendition at the given engine index.
	SetAudioTrack(index int)

	// SubtitleTracks returns the subtitle renditions of the current manifest.
	SubtitleTracks() []SubtitleTrack

	// SetSubtitleTrack activates the subtitle rendition at the given engine
	// index; -1 disables subtitles.
	SetSubtitleTrack(index int)

	// On subscribes a handler to an engine event and returns an unsubscribe
	// function. Handlers are invoked on the engine's dispatch goroutine.
	On(ev Event, h Handler) (off func())

	// Destroy detaches the media element, aborts loading and releases all
	// engine resources. The instance must not be used afterwards.
	Destroy()
}

// Factory constructs engines and reports platform support.
type Factory interface {
	// Supported reports whether the adaptive engine can run on this platform
	// against the attached media backend.
	Supported() bool

	// New constructs a fresh engine instance. Each stream session calls New
	// exactly once.
	New(cfg Config) Engine
}

// Unavailable is the Factory for embeddings that ship no adaptive engine.
// Sessions constructed with it fall back to the element's native playback path.
type Unavailable struct{}

// Supported always reports false.
func (Unavailable) Supported() bool { return false }

// New must never be called; sessions check Supported first.
func (Unavailable) New(Config) Engine { return nil }

// Config carries the engine construction parameters a session forwards verbatim.
// Sessions created for the same player must pass identical configuration.
type Config struct {
	// Debug enables verbose engine diagnostics.
	Debug bool

	// AutoStartLoad begins fragment loading immediately after LoadSource.
	AutoStartLoad bool

	// StartLevel is the engine index to begin playback at; -1 lets the
	// engine pick based on bandwidth estimation.
	StartLevel int
}
