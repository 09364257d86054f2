// Package player is the externally visible playback facade.
//
// A Player owns exactly one media element, one playback source and one stream
// session at a time. Source replacement is a strict sequence: the old session
// is fully destroyed before the successor is built, so two engines never
// interleave events against the same element. Every other component acts
// through the facade; nothing else touches the media element directly.
package player

import (
	"context"
	"sync"

	"github.com/samber/mo"
	"github.com/vidra-player/vidra/catalog"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/log"
	"github.com/vidra-player/vidra/media"
	"github.com/vidra-player/vidra/quality"
	"github.com/vidra-player/vidra/recovery"
	"github.com/vidra-player/vidra/resolve"
	"github.com/vidra-player/vidra/session"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/ui"
)

const msgLoadFailed = "The stream failed to load."

// Options configure a Player. Element, Factory, Resolver and Surface are
// required; the rest default to sensible zero values.
type Options struct {
	Element  media.Element
	Factory  engine.Factory
	Resolver *resolve.Resolver
	Surface  ui.Surface

	// Cast reports whether playback is remoted; nil means never casting.
	Cast ui.CastStatus

	// Engine is forwarded verbatim to every session the player creates.
	Engine engine.Config

	// Autoplay starts playback as soon as a source is attached.
	Autoplay bool

	// SubtitleLanguage preselects a matching subtitle track per manifest.
	SubtitleLanguage string
}

// Player composes resolution, session lifecycle, quality switching and error
// recovery behind one control surface.
type Player struct {
	element  media.Element
	factory  engine.Factory
	resolver *resolve.Resolver
	surface  ui.Surface
	cast     ui.CastStatus

	engineCfg        engine.Config
	autoplay         bool
	subtitleLanguage string

	mu sync.Mutex

	source stream.Source
	sess   *session.Session
	coord  *quality.Coordinator
	class  *recovery.Classifier
	cat    *catalog.Catalog

	// resolveGen detects superseded resolutions: a resolution finishing
	// after a newer one was issued is discarded, never attached.
	resolveGen uint64

	destroyed bool

	onManifestParsed func(*catalog.Catalog)
	onFragmentLoaded func()
	onError          func(engine.ErrorData)
}

// New creates a player around a media element.
func New(opts Options) *Player {
	cast := opts.Cast
	if cast == nil {
		cast = ui.NeverCasting{}
	}
	return &Player{
		element:          opts.Element,
		factory:          opts.Factory,
		resolver:         opts.Resolver,
		surface:          opts.Surface,
		cast:             cast,
		engineCfg:        opts.Engine,
		autoplay:         opts.Autoplay,
		subtitleLanguage: opts.SubtitleLanguage,
	}
}

// Load attaches the first source. It is the same operation as ChangeSource;
// the name exists for call-site clarity.
func (p *Player) Load(ctx context.Context, src stream.Source) error {
	return p.ChangeSource(ctx, src)
}

// ChangeSource replaces the active source, running the full replacement
// sequence in order: pause, loader, destroy the old session, clear the
// element source, resolve, attach a fresh session, rebind listeners, restore
// the volume snapshot, then conditionally autoplay. Any failure converges on
// a hidden loader and a visible load error; the loader is never left stuck.
func (p *Player) ChangeSource(ctx context.Context, src stream.Source) error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return session.ErrDestroyed
	}

	if err := p.element.Pause(); err != nil {
		log.Debugf("player: pause before source change: %v", err)
	}
	p.surface.ShowLoader()

	volume := p.element.Volume()
	muted := p.element.Muted()

	p.teardownLocked()
	if err := p.element.ClearSource(); err != nil {
		log.Debugf("player: clear source: %v", err)
	}

	p.source = src
	p.resolveGen++
	gen := p.resolveGen
	p.mu.Unlock()

	resolved, err := p.resolver.Resolve(ctx, src)
	if err != nil {
		p.loadFailed(err)
		return err
	}

	p.mu.Lock()
	if gen != p.resolveGen || p.destroyed {
		p.mu.Unlock()
		log.Debugf("player: discarding stale resolution for %s", src)
		return nil
	}

	sess := session.New(p.element, p.factory, p.engineCfg)
	if err := sess.Load(resolved); err != nil {
		p.mu.Unlock()
		p.loadFailed(err)
		return err
	}

	p.sess = sess
	p.bindLocked(sess, src)

	if err := p.element.SetVolume(volume); err != nil {
		log.Debugf("player: restore volume: %v", err)
	}
	if err := p.element.SetMuted(muted); err != nil {
		log.Debugf("player: restore mute: %v", err)
	}
	p.mu.Unlock()

	p.surface.HideLoader()

	if p.autoplay {
		if err := p.element.Play(); err != nil {
			log.Warnf("player: autoplay rejected: %v", err)
		}
	}
	return nil
}

// bindLocked wires the session's signals into the coordinator, the
// classifier and the facade hooks. Native sessions have no engine and get no
// adaptive collaborators.
func (p *Player) bindLocked(sess *session.Session, src stream.Source) {
	eng := sess.Engine()
	if eng == nil {
		return
	}

	p.coord = quality.New(eng, p.element, p.surface)
	p.class = recovery.New(eng, p.surface, p.cast, src.Type, p.teardown)

	signals := sess.Signals()

	signals.On(session.SignalBufferFlushed, func(any) {
		p.mu.Lock()
		coord := p.coord
		p.mu.Unlock()
		if coord != nil {
			coord.HandleBufferFlushed()
		}
	})

	signals.On(session.SignalError, func(data any) {
		errData, ok := data.(engine.ErrorData)
		if !ok {
			return
		}

		p.mu.Lock()
		class := p.class
		hook := p.onError
		p.mu.Unlock()

		if hook != nil {
			hook(errData)
		}
		if class != nil {
			class.HandleError(errData)
		}
	})

	signals.On(session.SignalManifestParsed, func(data any) {
		manifest, ok := data.(engine.Manifest)
		if !ok {
			return
		}
		p.handleManifest(eng, manifest, src)
	})

	signals.On(session.SignalFragmentLoaded, func(any) {
		p.mu.Lock()
		hook := p.onFragmentLoaded
		p.mu.Unlock()
		if hook != nil {
			hook()
		}
	})
}

func (p *Player) handleManifest(eng engine.Engine, manifest engine.Manifest, src stream.Source) {
	cat := catalog.New(manifest, src.Constraints.RenditionOrder)

	p.mu.Lock()
	p.cat = cat
	hook := p.onManifestParsed
	lang := p.subtitleLanguage
	p.mu.Unlock()

	if track := cat.PreferredSubtitle(lang); track.IsPresent() {
		eng.SetSubtitleTrack(track.MustGet().Index)
	}

	if hook != nil {
		hook(cat)
	}
}

// loadFailed converges every replacement failure on the same terminal state.
func (p *Player) loadFailed(err error) {
	log.Errorf("player: source load failed: %v", err)
	p.surface.HideLoader()
	p.surface.ShowError(msgLoadFailed)
}

// SwitchQuality requests a quality change on the active session.
// It is a no-op on the native playback path, where the element owns selection.
func (p *Player) SwitchQuality(target quality.Target) {
	p.mu.Lock()
	coord := p.coord
	p.mu.Unlock()

	if coord == nil {
		log.Debugf("player: ignoring quality switch without an adaptive session")
		return
	}
	coord.Request(target)
}

// SelectAudioTrack activates the audio rendition at the given engine index.
// Like SwitchQuality it is a no-op on the native playback path.
func (p *Player) SelectAudioTrack(index int) {
	eng := p.activeEngine()
	if eng == nil {
		log.Debugf("player: ignoring audio selection without an adaptive session")
		return
	}
	eng.SetAudioTrack(index)
}

// SelectSubtitleTrack activates the subtitle rendition at the given engine
// index; -1 disables subtitles. No-op on the native playback path.
func (p *Player) SelectSubtitleTrack(index int) {
	eng := p.activeEngine()
	if eng == nil {
		log.Debugf("player: ignoring subtitle selection without an adaptive session")
		return
	}
	eng.SetSubtitleTrack(index)
}

// activeEngine returns the engine of the attached session, or nil without an
// adaptive session.
func (p *Player) activeEngine() engine.Engine {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return nil
	}
	return p.sess.Engine()
}

// Catalog returns the track catalog of the current manifest, when one parsed.
func (p *Player) Catalog() mo.Option[*catalog.Catalog] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cat == nil {
		return mo.None[*catalog.Catalog]()
	}
	return mo.Some(p.cat)
}

// Source returns the active playback source.
func (p *Player) Source() stream.Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// OnManifestParsed registers the manifest hook, replacing any previous one.
func (p *Player) OnManifestParsed(fn func(*catalog.Catalog)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onManifestParsed = fn
}

// OnFragmentLoaded registers the fragment hook, replacing any previous one.
func (p *Player) OnFragmentLoaded(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFragmentLoaded = fn
}

// OnError registers the error hook, replacing any previous one. The hook
// observes every engine error before the recovery policy acts on it.
func (p *Player) OnError(fn func(engine.ErrorData)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

// Play resumes playback.
func (p *Player) Play() error { return p.element.Play() }

// Pause suspends playback.
func (p *Player) Pause() error { return p.element.Pause() }

// Paused reports the suspension state.
func (p *Player) Paused() bool { return p.element.Paused() }

// SeekTo moves the playback position.
func (p *Player) SeekTo(seconds float64) error { return p.element.SeekTo(seconds) }

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 { return p.element.CurrentTime() }

// Duration returns the media duration in seconds, zero when unknown.
func (p *Player) Duration() float64 { return p.element.Duration() }

// SetVolume assigns the playback volume (0-100).
func (p *Player) SetVolume(volume float64) error { return p.element.SetVolume(volume) }

// Volume returns the playback volume (0-100).
func (p *Player) Volume() float64 { return p.element.Volume() }

// SetMuted toggles audio muting.
func (p *Player) SetMuted(muted bool) error { return p.element.SetMuted(muted) }

// Muted reports the muting state.
func (p *Player) Muted() bool { return p.element.Muted() }

// HandleOffline forwards a connectivity loss to the active session's recovery
// policy.
func (p *Player) HandleOffline() {
	p.mu.Lock()
	class := p.class
	p.mu.Unlock()
	if class != nil {
		class.HandleOffline()
	}
}

// HandleOnline forwards a connectivity return to the active session's
// recovery policy.
func (p *Player) HandleOnline() {
	p.mu.Lock()
	class := p.class
	p.mu.Unlock()
	if class != nil {
		class.HandleOnline()
	}
}

// teardown destroys the active session and its collaborators.
func (p *Player) teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownLocked()
}

func (p *Player) teardownLocked() {
	if p.class != nil {
		p.class.Close()
		p.class = nil
	}
	p.coord = nil
	p.cat = nil
	if p.sess != nil {
		p.sess.Destroy()
		p.sess = nil
	}
}

// Destroy tears down the player. The media element stays open; closing it
// belongs to whoever created it.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.resolveGen++
	p.teardownLocked()
}
