package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/catalog"
	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/engine/enginetest"
	"github.com/vidra-player/vidra/media/mediatest"
	"github.com/vidra-player/vidra/quality"
	"github.com/vidra-player/vidra/resolve"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/ui/uitest"
)

// manifestServer accepts every validation fetch.
func manifestServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", constant.MimeHLS)
		_, _ = w.Write([]byte("#EXTM3U\n"))
	}))
}

func testSource(baseURL, id string) stream.Source {
	return stream.Source{PlaybackID: id, Type: stream.OnDemand, BaseURL: baseURL}
}

type harness struct {
	element *mediatest.Element
	factory *enginetest.Factory
	surface *uitest.Surface
	player  *Player
	server  *httptest.Server
}

func newHarness(opts func(*Options)) *harness {
	h := &harness{
		element: mediatest.New(),
		factory: &enginetest.Factory{IsSupported: true},
		surface: uitest.New(),
		server:  manifestServer(),
	}

	o := Options{
		Element:  h.element,
		Factory:  h.factory,
		Resolver: resolve.New(h.server.Client()),
		Surface:  h.surface,
		Cast:     h.surface,
	}
	if opts != nil {
		opts(&o)
	}
	h.player = New(o)
	return h
}

func (h *harness) engine() *enginetest.Fake {
	return h.factory.Built[len(h.factory.Built)-1]
}

func TestChangeSource(t *testing.T) {
	Convey("Player.ChangeSource", t, func() {
		ctx := context.Background()
		h := newHarness(nil)
		defer h.server.Close()

		Convey("Should attach a fresh session and hide the loader", func() {
			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

			So(h.factory.Built, ShouldHaveLength, 1)
			So(h.engine().LoadedURL, ShouldEqual, h.server.URL+"/first.m3u8")
			So(h.surface.LoaderShows, ShouldEqual, 1)
			So(h.surface.LoaderHides, ShouldEqual, 1)
			So(h.surface.Errors, ShouldBeEmpty)
		})

		Convey("Should fully destroy the old session before building the new one", func() {
			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)
			first := h.engine()

			So(h.player.ChangeSource(ctx, testSource(h.server.URL, "second")), ShouldBeNil)

			So(first.Destroyed, ShouldBeTrue)
			So(h.element.SourceClears, ShouldEqual, 2)
			So(h.factory.Built, ShouldHaveLength, 2)

			// The dead engine reaches nobody, even if it misbehaves and emits.
			first.Emit(engine.EventError, engine.ErrorData{Fatal: true})
			So(h.surface.Errors, ShouldBeEmpty)
		})

		Convey("Should restore the volume snapshot across the switch", func() {
			So(h.element.SetVolume(35), ShouldBeNil)
			So(h.element.SetMuted(true), ShouldBeNil)

			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

			So(h.element.Volume(), ShouldEqual, 35)
			So(h.element.Muted(), ShouldBeTrue)
		})

		Convey("Should surface a load error and hide the loader on resolution failure", func() {
			missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer missing.Close()

			h := newHarness(func(o *Options) {
				o.Resolver = resolve.New(missing.Client())
			})
			defer h.server.Close()

			err := h.player.Load(ctx, testSource(missing.URL, "ghost"))

			So(err, ShouldNotBeNil)
			So(h.surface.LoaderHides, ShouldEqual, 1)
			So(h.surface.LastError(), ShouldEqual, msgLoadFailed)
			So(h.factory.Built, ShouldBeEmpty)
		})

		Convey("Should autoplay when configured", func() {
			h := newHarness(func(o *Options) { o.Autoplay = true })
			defer h.server.Close()

			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)
			So(h.element.Paused(), ShouldBeFalse)
		})

		Convey("Should stay paused without autoplay", func() {
			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)
			So(h.element.Paused(), ShouldBeTrue)
		})

		Convey("Should refuse to load after Destroy", func() {
			h.player.Destroy()
			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldNotBeNil)
		})
	})
}

func TestStaleResolution(t *testing.T) {
	Convey("Player resolution generations", t, func() {
		ctx := context.Background()

		Convey("Should discard a resolution superseded mid-flight", func() {
			var hits int32
			release := make(chan struct{})
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&hits, 1) == 1 {
					<-release
				}
				w.Header().Set("Content-Type", constant.MimeHLS)
			}))
			defer srv.Close()

			h := newHarness(func(o *Options) {
				o.Resolver = resolve.New(srv.Client())
			})
			defer h.server.Close()

			firstDone := make(chan error, 1)
			go func() {
				firstDone <- h.player.ChangeSource(ctx, testSource(srv.URL, "slow"))
			}()

			// Wait for the slow resolution to be in flight, then supersede it.
			for atomic.LoadInt32(&hits) == 0 {
				time.Sleep(time.Millisecond)
			}
			So(h.player.ChangeSource(ctx, testSource(srv.URL, "fast")), ShouldBeNil)
			close(release)

			So(<-firstDone, ShouldBeNil)
			So(h.factory.Built, ShouldHaveLength, 1)
			So(h.engine().LoadedURL, ShouldEqual, srv.URL+"/fast.m3u8")
			So(h.player.Source().PlaybackID, ShouldEqual, "fast")
		})
	})
}

func TestManifestWiring(t *testing.T) {
	Convey("Player manifest handling", t, func() {
		ctx := context.Background()
		h := newHarness(func(o *Options) { o.SubtitleLanguage = "en" })
		defer h.server.Close()

		So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

		manifest := engine.Manifest{
			Levels: []engine.Level{{Index: 0, Height: 480}, {Index: 1, Height: 1080}},
			SubtitleTracks: []engine.SubtitleTrack{
				{Index: 0, Label: "Deutsch", Language: "de"},
				{Index: 1, Label: "English", Language: "en"},
			},
		}

		Convey("Should expose the catalog and fire the hook", func() {
			var got *catalog.Catalog
			h.player.OnManifestParsed(func(c *catalog.Catalog) { got = c })

			h.engine().Emit(engine.EventManifestParsed, manifest)

			So(got, ShouldNotBeNil)
			So(h.player.Catalog().IsPresent(), ShouldBeTrue)
			So(h.player.Catalog().MustGet().Levels(), ShouldHaveLength, 2)
		})

		Convey("Should preselect the preferred subtitle track", func() {
			h.engine().Emit(engine.EventManifestParsed, manifest)
			So(h.engine().SubtitleTrack, ShouldEqual, 1)
		})

		Convey("Should have no catalog before a manifest parses", func() {
			So(h.player.Catalog().IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestTrackSelection(t *testing.T) {
	Convey("Player track selection", t, func() {
		ctx := context.Background()

		Convey("Should forward audio and subtitle selection to the engine", func() {
			h := newHarness(nil)
			defer h.server.Close()
			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

			h.player.SelectAudioTrack(1)
			So(h.engine().AudioTrack, ShouldEqual, 1)

			h.player.SelectSubtitleTrack(0)
			So(h.engine().SubtitleTrack, ShouldEqual, 0)

			// -1 disables subtitles.
			h.player.SelectSubtitleTrack(-1)
			So(h.engine().SubtitleTrack, ShouldEqual, -1)
		})

		Convey("Should ignore track selection on the native playback path", func() {
			h := newHarness(nil)
			defer h.server.Close()
			h.factory.IsSupported = false
			h.element.Playable = map[string]bool{constant.MimeHLS: true}

			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

			h.player.SelectAudioTrack(1)
			h.player.SelectSubtitleTrack(0)
			So(h.factory.Built, ShouldBeEmpty)
		})

		Convey("Should ignore track selection after Destroy", func() {
			h := newHarness(nil)
			defer h.server.Close()
			So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

			h.player.Destroy()
			h.player.SelectAudioTrack(1)
			So(h.engine().AudioTrack, ShouldEqual, -1)
		})
	})
}

func TestEventWiring(t *testing.T) {
	Convey("Player event wiring", t, func() {
		ctx := context.Background()
		h := newHarness(nil)
		defer h.server.Close()

		So(h.player.Load(ctx, testSource(h.server.URL, "first")), ShouldBeNil)

		Convey("Should drive the quality coordinator from buffer flushes", func() {
			h.element.SetPaused(false)
			h.player.SwitchQuality(quality.Level(1))

			So(h.element.Paused(), ShouldBeTrue)
			h.engine().Emit(engine.EventBufferFlushed, nil)
			So(h.element.Paused(), ShouldBeFalse)
		})

		Convey("Should feed engine errors to the hook and the recovery policy", func() {
			var seen []engine.ErrorData
			h.player.OnError(func(d engine.ErrorData) { seen = append(seen, d) })

			h.engine().Emit(engine.EventError, engine.ErrorData{
				Type:    engine.ErrorTypeNetwork,
				Details: "somethingUnheardOf",
				Fatal:   true,
			})

			So(seen, ShouldHaveLength, 1)
			// The fatal table destroyed the session.
			So(h.engine().Destroyed, ShouldBeTrue)
			So(h.surface.LastError(), ShouldNotBeEmpty)
		})

		Convey("Should fire the fragment hook", func() {
			var fragments int
			h.player.OnFragmentLoaded(func() { fragments++ })

			h.engine().Emit(engine.EventFragmentLoaded, nil)
			h.engine().Emit(engine.EventFragmentLoaded, nil)

			So(fragments, ShouldEqual, 2)
		})

		Convey("Should ignore quality switches on a destroyed session", func() {
			h.player.Destroy()
			h.player.SwitchQuality(quality.Auto())
			So(h.engine().AutoRequests, ShouldEqual, 0)
		})
	})
}
