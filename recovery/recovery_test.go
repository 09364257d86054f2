package recovery

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/engine/enginetest"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/ui/uitest"
)

type fixture struct {
	eng       *enginetest.Fake
	surface   *uitest.Surface
	destroyed int
}

func newFixture(st stream.Type) (*fixture, *Classifier) {
	f := &fixture{
		eng:     enginetest.NewFake(),
		surface: uitest.New(),
	}
	c := New(f.eng, f.surface, f.surface, st, func() { f.destroyed++ })
	return f, c
}

func fatal(details string) engine.ErrorData {
	return engine.ErrorData{Type: engine.ErrorTypeNetwork, Details: details, Fatal: true}
}

func TestFatalTable(t *testing.T) {
	Convey("Classifier fatal decision table", t, func() {
		f, c := newFixture(stream.OnDemand)

		Convey("Should not destroy on a failed DRM session update", func() {
			c.HandleError(fatal(engine.DetailKeySessionUpdateFailed))
			So(f.surface.LastError(), ShouldEqual, msgDRMFatal)
			So(f.destroyed, ShouldEqual, 0)
		})

		Convey("Should treat a stalled buffer as buffering, not failure", func() {
			c.HandleError(fatal(engine.DetailBufferStalled))
			So(f.surface.LoaderShows, ShouldEqual, 1)
			So(f.surface.Errors, ShouldBeEmpty)
			So(f.destroyed, ShouldEqual, 0)
		})

		Convey("Should show the DRM message for any key-system detail", func() {
			c.HandleError(fatal(engine.KeySystemPrefix + "NoAccess"))
			So(f.surface.LastError(), ShouldEqual, msgDRMFatal)
			So(f.destroyed, ShouldEqual, 0)
		})

		Convey("Should destroy and mark the session on a fragment load error", func() {
			c.HandleError(fatal(engine.DetailFragLoadError))
			So(f.surface.LastError(), ShouldEqual, msgFragmentLoad)
			So(f.destroyed, ShouldEqual, 1)
		})

		Convey("Should keep the engine on level load errors", func() {
			c.HandleError(fatal(engine.DetailLevelLoadError))
			c.HandleError(fatal(engine.DetailLevelEmpty))
			So(f.surface.LastError(), ShouldEqual, msgStreamLoad)
			So(f.destroyed, ShouldEqual, 0)
		})

		Convey("Should destroy on a level load timeout", func() {
			c.HandleError(fatal(engine.DetailLevelLoadTimeout))
			So(f.surface.LastError(), ShouldEqual, msgStreamLoad)
			So(f.destroyed, ShouldEqual, 1)
		})

		Convey("Should destroy on audio-track timeout and manifest parse failures", func() {
			c.HandleError(fatal(engine.DetailAudioTrackLoadTimeout))
			So(f.surface.LastError(), ShouldEqual, msgVideoLoad)
			So(f.destroyed, ShouldEqual, 1)

			c.HandleError(fatal(engine.DetailManifestParsingError))
			So(f.destroyed, ShouldEqual, 2)
		})

		Convey("Should destroy with a generic message for anything else", func() {
			c.HandleError(fatal("somethingUnheardOf"))
			So(f.surface.LastError(), ShouldEqual, msgFatalGeneric)
			So(f.destroyed, ShouldEqual, 1)
		})
	})
}

func TestStreamTypeOverlays(t *testing.T) {
	Convey("Classifier stream-type overlays", t, func() {
		withStatus := func(details string, code int) engine.ErrorData {
			d := fatal(details)
			d.Response = &engine.Response{Code: code}
			return d
		}

		Convey("Should tailor on-demand 404 and 500 messages", func() {
			f, c := newFixture(stream.OnDemand)

			c.HandleError(withStatus("unknown", 404))
			So(f.surface.LastError(), ShouldEqual, msgNotAvailable)

			c.HandleError(withStatus("unknown", 500))
			So(f.surface.LastError(), ShouldEqual, msgServerError)
		})

		Convey("Should tailor live manifest-404 and 403 messages", func() {
			f, c := newFixture(stream.Live)

			c.HandleError(withStatus(engine.DetailManifestLoadError, 404))
			So(f.surface.LastError(), ShouldEqual, msgNoLiveStream)

			c.HandleError(withStatus("unknown", 403))
			So(f.surface.LastError(), ShouldEqual, msgInvalidToken)
		})

		Convey("Should fall back to the table message without a status", func() {
			f, c := newFixture(stream.OnDemand)
			c.HandleError(fatal("somethingUnheardOf"))
			So(f.surface.LastError(), ShouldEqual, msgFatalGeneric)
		})
	})
}

func TestNonFatal(t *testing.T) {
	Convey("Classifier non-fatal handling", t, func() {
		f, c := newFixture(stream.OnDemand)

		Convey("Should recover the media pipeline on key-system errors", func() {
			c.HandleError(engine.ErrorData{
				Type:    engine.ErrorTypeKeySystem,
				Details: engine.KeySystemPrefix + "InternalError",
			})

			So(f.surface.LastError(), ShouldEqual, msgDRMRecovering)
			So(f.eng.MediaRecovers, ShouldEqual, 1)
			So(f.destroyed, ShouldEqual, 0)
		})

		Convey("Should retry a media error once after the delay", func() {
			original := retryDelay
			retryDelay = time.Millisecond
			defer func() { retryDelay = original }()

			c.HandleError(engine.ErrorData{Type: engine.ErrorTypeMedia, Details: "bufferAppendError"})
			// A second error while the retry is pending arms nothing new.
			c.HandleError(engine.ErrorData{Type: engine.ErrorTypeMedia, Details: "bufferAppendError"})

			So(f.eng.StartLoads, ShouldEqual, 0)
			time.Sleep(20 * time.Millisecond)
			So(f.eng.StartLoads, ShouldEqual, 1)
		})

		Convey("Should not fire a pending retry after Close", func() {
			original := retryDelay
			retryDelay = time.Millisecond
			defer func() { retryDelay = original }()

			c.HandleError(engine.ErrorData{Type: engine.ErrorTypeMedia, Details: "bufferAppendError"})
			c.Close()

			time.Sleep(20 * time.Millisecond)
			So(f.eng.StartLoads, ShouldEqual, 0)
		})

		Convey("Should show the offline message once for network errors while offline", func() {
			c.HandleOffline()
			So(f.surface.Errors, ShouldHaveLength, 1)

			c.HandleError(engine.ErrorData{Type: engine.ErrorTypeNetwork, Details: "fragLoadError"})
			// Already shown: the error retries instead and clears the flag.
			So(f.eng.StartLoads, ShouldEqual, 1)

			c.HandleError(engine.ErrorData{Type: engine.ErrorTypeNetwork, Details: "fragLoadError"})
			// Flag cleared, still offline: the message shows again.
			So(f.surface.LastError(), ShouldEqual, msgOffline)
		})

		Convey("Should retry network errors while online", func() {
			c.HandleError(engine.ErrorData{Type: engine.ErrorTypeNetwork, Details: "fragLoadError"})
			So(f.eng.StartLoads, ShouldEqual, 1)
			So(f.surface.Errors, ShouldBeEmpty)
		})
	})
}

func TestConnectivity(t *testing.T) {
	Convey("Classifier offline/online transitions", t, func() {
		f, c := newFixture(stream.OnDemand)

		Convey("Should suspend loading and show the offline message", func() {
			c.HandleOffline()

			So(f.eng.StopLoads, ShouldEqual, 1)
			So(f.surface.LastError(), ShouldEqual, msgOffline)
		})

		Convey("Should suppress the offline message while casting", func() {
			f.surface.SetCasting(true)

			c.HandleOffline()

			So(f.eng.StopLoads, ShouldEqual, 1)
			So(f.surface.Errors, ShouldBeEmpty)
		})

		Convey("Should resume loading when back online", func() {
			c.HandleOffline()
			c.HandleOnline()

			So(f.surface.ErrorHides, ShouldEqual, 1)
			So(f.eng.StartLoads, ShouldEqual, 1)
		})

		Convey("Should require a refresh when online follows a fatal fragment error", func() {
			c.HandleError(fatal(engine.DetailFragLoadError))
			c.HandleOffline()
			c.HandleOnline()

			So(f.surface.LastError(), ShouldEqual, msgRefreshRequired)
			So(f.eng.StartLoads, ShouldEqual, 0)
		})

		Convey("Should not resume loading if it was never suspended", func() {
			c.HandleOnline()
			So(f.eng.StartLoads, ShouldEqual, 0)
		})
	})
}
