// Package recovery classifies engine errors and drives the recovery policy.
//
// A classifier lives exactly as long as its stream session: its flags track
// what this session already surfaced and must never leak into a successor.
// Fatal errors follow a fixed decision table mapping the engine's detail code
// to a message and, for unrecoverable states, engine destruction. Non-fatal
// errors retry, recover the media pipeline, or wait for connectivity.
package recovery

import (
	"strings"
	"sync"
	"time"

	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/ui"
)

// retryDelay spaces the single retry after a non-fatal media error, so a
// still-failing path is not hammered in a tight loop.
var retryDelay = time.Second

// Classifier applies the recovery policy for one stream session.
type Classifier struct {
	eng        engine.Engine
	surface    ui.Surface
	cast       ui.CastStatus
	streamType stream.Type

	// destroy tears down the owning session when a fatal error is unrecoverable.
	destroy func()

	mu sync.Mutex

	online bool

	// Per-session flags, reset only by session recreation.
	networkErrorShown bool
	suspendedOffline  bool
	fatalFragmentLoad bool

	retryTimer *time.Timer
	closed     bool
}

// New creates a classifier bound to one session's engine.
// destroy is invoked at most once per fatal unrecoverable error.
func New(eng engine.Engine, surface ui.Surface, cast ui.CastStatus, streamType stream.Type, destroy func()) *Classifier {
	if cast == nil {
		cast = ui.NeverCasting{}
	}
	return &Classifier{
		eng:        eng,
		surface:    surface,
		cast:       cast,
		streamType: streamType,
		destroy:    destroy,
		online:     true,
	}
}

// HandleError classifies one engine error event and applies its action.
func (c *Classifier) HandleError(data engine.ErrorData) {
	// A stalled buffer is a wait state, not a failure, whatever the engine
	// thinks about its severity.
	if data.Details == engine.DetailBufferStalled {
		c.surface.ShowLoader()
		return
	}

	if data.Fatal {
		c.handleFatal(data)
		return
	}
	c.handleNonFatal(data)
}

func (c *Classifier) handleFatal(data engine.ErrorData) {
	log.Errorf("recovery: fatal engine error %s (%s)", data.Details, data.Type)

	switch {
	case data.Details == engine.DetailKeySessionUpdateFailed:
		c.show(data, msgDRMFatal)

	case strings.HasPrefix(data.Details, engine.KeySystemPrefix):
		c.show(data, msgDRMFatal)

	case data.Details == engine.DetailFragLoadError:
		c.mu.Lock()
		c.fatalFragmentLoad = true
		c.mu.Unlock()
		c.show(data, msgFragmentLoad)
		c.destroy()

	case data.Details == engine.DetailLevelLoadError || data.Details == engine.DetailLevelEmpty:
		c.show(data, msgStreamLoad)

	case data.Details == engine.DetailLevelLoadTimeout:
		c.show(data, msgStreamLoad)
		c.destroy()

	case data.Details == engine.DetailAudioTrackLoadTimeout || data.Details == engine.DetailManifestParsingError:
		c.show(data, msgVideoLoad)
		c.destroy()

	default:
		c.show(data, msgFatalGeneric)
		c.destroy()
	}
}

func (c *Classifier) handleNonFatal(data engine.ErrorData) {
	switch {
	case strings.HasPrefix(data.Details, engine.KeySystemPrefix):
		c.surface.ShowError(msgDRMRecovering)
		c.eng.RecoverMediaError()

	case data.Type == engine.ErrorTypeMedia:
		c.scheduleRetry()

	case data.Type == engine.ErrorTypeNetwork:
		c.mu.Lock()
		offline := !c.online
		shown := c.networkErrorShown
		if offline && !shown {
			c.networkErrorShown = true
		} else {
			c.networkErrorShown = false
		}
		c.mu.Unlock()

		if offline && !shown {
			c.showUnlessCasting(msgOffline)
			return
		}
		c.eng.StartLoad()

	default:
		log.Debugf("recovery: ignoring non-fatal %s (%s)", data.Details, data.Type)
	}
}

// scheduleRetry arms the single delayed startLoad retry, if none is pending.
func (c *Classifier) scheduleRetry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.retryTimer != nil {
		return
	}

	c.retryTimer = time.AfterFunc(retryDelay, func() {
		c.mu.Lock()
		c.retryTimer = nil
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		c.eng.StartLoad()
	})
}

// HandleOffline suspends loading and surfaces the offline state.
func (c *Classifier) HandleOffline() {
	casting := c.cast.Casting()

	c.mu.Lock()
	c.online = false
	c.suspendedOffline = true
	if !casting {
		c.networkErrorShown = true
	}
	c.mu.Unlock()

	c.eng.StopLoad()
	if casting {
		log.Debugf("recovery: suppressing offline message while casting")
		return
	}
	c.surface.ShowError(msgOffline)
}

// HandleOnline resumes after connectivity returns. A prior fatal fragment
// load means the engine tore down mid-stream and cannot silently recover; a
// refresh is required instead.
func (c *Classifier) HandleOnline() {
	c.mu.Lock()
	c.online = true
	suspended := c.suspendedOffline
	c.suspendedOffline = false
	fatalFrag := c.fatalFragmentLoad
	c.mu.Unlock()

	if fatalFrag {
		c.surface.ShowError(msgRefreshRequired)
		return
	}

	c.surface.HideError()
	if suspended {
		c.eng.StartLoad()
	}
}

// show surfaces the fatal-table message, letting a stream-type overlay
// override it when the HTTP status carries a more specific meaning.
func (c *Classifier) show(data engine.ErrorData, message string) {
	if overlay, ok := overlayMessage(c.streamType, data); ok {
		message = overlay
	}
	c.surface.ShowError(message)
}

// showUnlessCasting suppresses connectivity messaging during a cast session;
// the cast device streams independently of local connectivity.
func (c *Classifier) showUnlessCasting(message string) {
	if c.cast.Casting() {
		log.Debugf("recovery: suppressing message while casting: %s", message)
		return
	}
	c.surface.ShowError(message)
}

// Close cancels any pending retry. The classifier must not act after Close.
func (c *Classifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}
