package session

import (
	"sync"

	"github.com/vidra-player/vidra/engine"
)

// Signal identifies one session-scoped event stream. Signals mirror the
// engine events a session forwards, so consumers never hold a direct engine
// subscription that could outlive the session.
type Signal string

const (
	SignalMediaAttached    Signal = "media-attached"
	SignalManifestParsed   Signal = "manifest-parsed"
	SignalFragmentLoaded   Signal = "fragment-loaded"
	SignalFragmentBuffered Signal = "fragment-buffered"
	SignalBufferFlushed    Signal = "buffer-flushed"
	SignalLevelSwitched    Signal = "level-switched"
	SignalError            Signal = "error"
)

// forwarded is the fixed mapping from engine events to session signals.
var forwarded = map[engine.Event]Signal{
	engine.EventMediaAttached:    SignalMediaAttached,
	engine.EventManifestParsed:   SignalManifestParsed,
	engine.EventFragmentLoaded:   SignalFragmentLoaded,
	engine.EventFragmentBuffered: SignalFragmentBuffered,
	engine.EventBufferFlushed:    SignalBufferFlushed,
	engine.EventLevelSwitched:    SignalLevelSwitched,
	engine.EventError:            SignalError,
}

// Handler receives a signal payload, matching the engine payload of the
// forwarded event.
type Handler func(data any)

// Signals is the listener arena of one session. Every engine subscription a
// session takes is registered here, so closing the arena severs them all in
// one step regardless of how many consumers subscribed.
type Signals struct {
	mu       sync.Mutex
	closed   bool
	nextID   int
	handlers map[Signal][]*binding
	offs     []func()
}

type binding struct {
	id int
	h  Handler
}

func newSignals() *Signals {
	return &Signals{handlers: make(map[Signal][]*binding)}
}

// bind subscribes the arena to every forwarded engine event.
func (s *Signals) bind(eng engine.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for ev, sig := range forwarded {
		sig := sig
		off := eng.On(ev, func(data any) {
			s.emit(sig, data)
		})
		s.offs = append(s.offs, off)
	}
}

// On subscribes a handler and returns its unsubscribe function. Subscribing
// on a closed arena is a no-op; the returned function is still safe to call.
func (s *Signals) On(sig Signal, h Handler) (off func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}

	s.nextID++
	b := &binding{id: s.nextID, h: h}
	s.handlers[sig] = append(s.handlers[sig], b)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		bindings := s.handlers[sig]
		for i, candidate := range bindings {
			if candidate.id == b.id {
				s.handlers[sig] = append(bindings[:i], bindings[i+1:]...)
				return
			}
		}
	}
}

// emit dispatches a payload to the handlers bound at call time.
func (s *Signals) emit(sig Signal, data any) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	bindings := make([]*binding, len(s.handlers[sig]))
	copy(bindings, s.handlers[sig])
	s.mu.Unlock()

	for _, b := range bindings {
		b.h(data)
	}
}

// Close unsubscribes every engine listener and drops all handlers.
// A closed arena never emits again.
func (s *Signals) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	offs := s.offs
	s.offs = nil
	s.handlers = make(map[Signal][]*binding)
	s.mu.Unlock()

	for _, off := range offs {
		off()
	}
}
