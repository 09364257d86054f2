// Package session owns the lifecycle of one stream attachment.
//
// A session binds exactly one engine instance (or the native playback path)
// to a media element for exactly one resolved URL. Changing the source means
// destroying the session and creating a new one; engines are never reused
// across sources.
package session

import (
	"errors"

	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/media"
	"github.com/vidra-player/vidra/stream"
)

var (
	// ErrDestroyed is returned when a destroyed session is asked to load.
	ErrDestroyed = errors.New("session: already destroyed")

	// ErrAlreadyLoaded is returned on a second Load; sessions are single-use.
	ErrAlreadyLoaded = errors.New("session: source already loaded")

	// ErrUnsupportedFormat is returned when neither the adaptive engine nor
	// the media element can play the stream.
	ErrUnsupportedFormat = errors.New("session: no playback path supports this format")
)

// Session is one live stream attachment.
type Session struct {
	element media.Element
	factory engine.Factory
	cfg     engine.Config

	signals *Signals

	// eng is nil on the native playback path.
	eng engine.Engine

	loaded    bool
	destroyed bool
}

// New creates an idle session around a media element. Nothing is loaded and
// no engine exists until Load.
func New(element media.Element, factory engine.Factory, cfg engine.Config) *Session {
	return &Session{
		element: element,
		factory: factory,
		cfg:     cfg,
		signals: newSignals(),
	}
}

// Load attaches a resolved URL through the first supported playback path:
// the adaptive engine when the platform supports it, otherwise native
// playback when the element can play manifests directly.
// Load is single-use; a session never loads a second source.
func (s *Session) Load(resolved stream.ResolvedURL) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if s.loaded {
		return ErrAlreadyLoaded
	}

	if s.factory.Supported() {
		eng := s.factory.New(s.cfg)
		if err := eng.AttachMedia(s.element); err != nil {
			eng.Destroy()
			return err
		}

		s.eng = eng
		s.signals.bind(eng)
		eng.LoadSource(resolved.URL)
		s.loaded = true

		log.Debugf("session: engine playback for %s", resolved.URL)
		return nil
	}

	if s.element.CanPlayType(constant.MimeHLS) {
		if err := s.element.SetSource(resolved.URL); err != nil {
			return err
		}
		s.loaded = true

		log.Debugf("session: native playback for %s", resolved.URL)
		return nil
	}

	return ErrUnsupportedFormat
}

// Signals returns the session's listener arena.
func (s *Session) Signals() *Signals {
	return s.signals
}

// Engine returns the bound engine, or nil on the native playback path.
func (s *Session) Engine() engine.Engine {
	return s.eng
}

// Native reports whether the session plays through the element directly.
func (s *Session) Native() bool {
	return s.loaded && s.eng == nil
}

// Destroyed reports whether the session has been torn down.
func (s *Session) Destroyed() bool {
	return s.destroyed
}

// Destroy tears the session down: the listener arena closes first so the
// engine cannot fire into stale handlers during its own teardown, then the
// engine is destroyed. Destroy is idempotent.
func (s *Session) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	s.signals.Close()

	if s.eng != nil {
		s.eng.Destroy()
		s.eng = nil
	}
}
