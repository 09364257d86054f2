// Package quality coordinates manual quality switches against the engine's
// buffer-flush cycle.
//
// Selecting a level makes the engine flush its buffer and refill it with
// segments of the new rendition. While that happens playback is paused behind
// a loading indicator, then resumed exactly as the user left it. A switching
// episode may span several rapid requests; it settles at most once, on the
// first buffer flush after the latest request.
package quality

import (
	"sync"

	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/media"
	"github.com/vidra-player/vidra/ui"
)

const msgResumeFailed = "Could not resume playback after the quality change."

// Target selects either a pinned level or adaptive selection.
type Target struct {
	// Auto returns level selection to the engine's heuristics.
	Auto bool

	// Level is the engine index to pin when Auto is false.
	Level int
}

// Auto targets adaptive level selection.
func Auto() Target {
	return Target{Auto: true}
}

// Level targets the rendition at the given engine index.
func Level(index int) Target {
	return Target{Level: index}
}

// Coordinator serializes quality switches for one session.
type Coordinator struct {
	eng     engine.Engine
	element media.Element
	surface ui.Surface

	mu sync.Mutex
	// settled flips false on the first request of a switching episode and
	// back on its first buffer flush; later flushes are unrelated.
	settled bool
	// pausedBefore is the element state at the start of the switching
	// episode, captured once so our own pause never masks the user's intent.
	pausedBefore bool
}

// New creates a coordinator for one engine and element pair.
func New(eng engine.Engine, element media.Element, surface ui.Surface) *Coordinator {
	return &Coordinator{
		eng:     eng,
		element: element,
		surface: surface,
		settled: true,
	}
}

// Request initiates a quality switch. During playback the element is paused
// behind the loading indicator until the engine flushes its buffer; when the
// element was already paused the switch happens silently.
func (c *Coordinator) Request(target Target) {
	c.mu.Lock()
	if c.settled {
		c.pausedBefore = c.element.Paused()
		c.settled = false
	}
	pausedBefore := c.pausedBefore
	c.mu.Unlock()

	if !pausedBefore {
		if err := c.element.Pause(); err != nil {
			log.Debugf("quality: pause before switch: %v", err)
		}
		c.surface.ShowLoader()
	}

	if target.Auto {
		log.Debugf("quality: switch to auto")
		c.eng.SetAutoLevel()
		return
	}

	log.Debugf("quality: switch to level %d", target.Level)
	c.eng.SetCurrentLevel(target.Level)
}

// HandleBufferFlushed settles the pending switching episode, if any.
// Flushes arriving after the episode settled are unrelated and ignored.
func (c *Coordinator) HandleBufferFlushed() {
	c.mu.Lock()
	if c.settled {
		c.mu.Unlock()
		return
	}
	c.settled = true
	resume := !c.pausedBefore
	c.mu.Unlock()

	if !resume {
		c.surface.HideLoader()
		return
	}

	if err := c.element.Play(); err != nil {
		log.Errorf("quality: resume after switch: %v", err)
		c.surface.HideLoader()
		c.surface.ShowError(msgResumeFailed)
		return
	}
	c.surface.HideLoader()
}

// Pending reports whether a switching episode awaits its buffer flush.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.settled
}
