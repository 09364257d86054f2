package quality

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/engine/enginetest"
	"github.com/vidra-player/vidra/media/mediatest"
	"github.com/vidra-player/vidra/ui/uitest"
)

func TestRequest(t *testing.T) {
	Convey("Coordinator.Request", t, func() {
		eng := enginetest.NewFake()
		element := mediatest.New()
		surface := uitest.New()
		c := New(eng, element, surface)

		Convey("Should pause playback behind the loader while switching", func() {
			element.SetPaused(false)

			c.Request(Level(2))

			So(element.Paused(), ShouldBeTrue)
			So(surface.LoaderShows, ShouldEqual, 1)
			So(eng.LevelRequests, ShouldResemble, []int{2})
			So(c.Pending(), ShouldBeTrue)
		})

		Convey("Should switch silently when already paused", func() {
			element.SetPaused(true)

			c.Request(Level(1))

			So(surface.LoaderShows, ShouldEqual, 0)
			So(element.PauseCalls, ShouldEqual, 0)
			So(eng.LevelRequests, ShouldResemble, []int{1})
		})

		Convey("Should route auto targets to adaptive selection", func() {
			c.Request(Auto())

			So(eng.AutoRequests, ShouldEqual, 1)
			So(eng.AutoLevel(), ShouldBeTrue)
		})
	})
}

func TestSettle(t *testing.T) {
	Convey("Coordinator.HandleBufferFlushed", t, func() {
		eng := enginetest.NewFake()
		element := mediatest.New()
		surface := uitest.New()
		c := New(eng, element, surface)

		Convey("Should resume playback and hide the loader once settled", func() {
			element.SetPaused(false)
			c.Request(Level(2))

			c.HandleBufferFlushed()

			So(element.Paused(), ShouldBeFalse)
			So(element.PlayCalls, ShouldEqual, 1)
			So(surface.LoaderHides, ShouldEqual, 1)
			So(c.Pending(), ShouldBeFalse)
		})

		Convey("Should never resume a stream the user had paused", func() {
			element.SetPaused(true)
			c.Request(Level(1))

			c.HandleBufferFlushed()

			So(element.PlayCalls, ShouldEqual, 0)
			So(element.Paused(), ShouldBeTrue)
			So(surface.LoaderHides, ShouldEqual, 1)
		})

		Convey("Should settle a rapid switching episode exactly once", func() {
			element.SetPaused(false)

			// Three requests before the engine flushes once.
			c.Request(Level(2))
			c.Request(Level(0))
			c.Request(Auto())

			c.HandleBufferFlushed()

			// The user was playing when the episode began, even though our own
			// pause made the element look paused for the later requests.
			So(element.PlayCalls, ShouldEqual, 1)
			So(element.Paused(), ShouldBeFalse)

			// Later flushes are unrelated and must not replay.
			c.HandleBufferFlushed()
			c.HandleBufferFlushed()
			So(element.PlayCalls, ShouldEqual, 1)
		})

		Convey("Should ignore flushes with no pending switch", func() {
			c.HandleBufferFlushed()

			So(element.PlayCalls, ShouldEqual, 0)
			So(surface.LoaderHides, ShouldEqual, 0)
		})

		Convey("Should surface a resume rejection", func() {
			element.SetPaused(false)
			c.Request(Level(2))
			element.PlayErr = errors.New("autoplay blocked")

			c.HandleBufferFlushed()

			So(surface.LoaderHides, ShouldEqual, 1)
			So(surface.LastError(), ShouldEqual, msgResumeFailed)
		})

		Convey("Should start a fresh episode after settling", func() {
			element.SetPaused(false)
			c.Request(Level(2))
			c.HandleBufferFlushed()

			// Second episode begins from the user's new state.
			element.SetPaused(true)
			c.Request(Level(0))
			c.HandleBufferFlushed()

			So(element.PlayCalls, ShouldEqual, 1)
			So(element.Paused(), ShouldBeTrue)
		})
	})
}
