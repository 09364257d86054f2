package session

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/constant"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/engine/enginetest"
	"github.com/vidra-player/vidra/media/mediatest"
	"github.com/vidra-player/vidra/stream"
)

var testURL = stream.ResolvedURL{URL: "https://stream.example.com/abc123.m3u8"}

func TestLoad(t *testing.T) {
	Convey("Session.Load", t, func() {
		element := mediatest.New()

		Convey("Should create one engine and load the URL when supported", func() {
			factory := &enginetest.Factory{IsSupported: true}
			s := New(element, factory, engine.Config{})

			So(s.Load(testURL), ShouldBeNil)
			So(factory.Built, ShouldHaveLength, 1)
			So(factory.Built[0].LoadedURL, ShouldEqual, testURL.URL)
			So(factory.Built[0].Attached, ShouldEqual, element)
			So(s.Native(), ShouldBeFalse)
		})

		Convey("Should fall back to native playback when the engine is unsupported", func() {
			element.Playable = map[string]bool{constant.MimeHLS: true}
			factory := &enginetest.Factory{IsSupported: false}
			s := New(element, factory, engine.Config{})

			So(s.Load(testURL), ShouldBeNil)
			So(factory.Built, ShouldBeEmpty)
			So(element.Source, ShouldEqual, testURL.URL)
			So(s.Native(), ShouldBeTrue)
		})

		Convey("Should fail when no playback path supports the format", func() {
			factory := &enginetest.Factory{IsSupported: false}
			s := New(element, factory, engine.Config{})

			So(s.Load(testURL), ShouldEqual, ErrUnsupportedFormat)
		})

		Convey("Should destroy a fresh engine when media attachment fails", func() {
			attachErr := errors.New("no surface")
			factory := &enginetest.Factory{
				IsSupported: true,
				Prepare:     func(f *enginetest.Fake) { f.AttachErr = attachErr },
			}
			s := New(element, factory, engine.Config{})

			So(s.Load(testURL), ShouldEqual, attachErr)
			So(factory.Built[0].Destroyed, ShouldBeTrue)
		})

		Convey("Should refuse a second load", func() {
			factory := &enginetest.Factory{IsSupported: true}
			s := New(element, factory, engine.Config{})

			So(s.Load(testURL), ShouldBeNil)
			So(s.Load(testURL), ShouldEqual, ErrAlreadyLoaded)
			So(factory.Built, ShouldHaveLength, 1)
		})

		Convey("Should refuse to load after destruction", func() {
			factory := &enginetest.Factory{IsSupported: true}
			s := New(element, factory, engine.Config{})
			s.Destroy()

			So(s.Load(testURL), ShouldEqual, ErrDestroyed)
			So(factory.Built, ShouldBeEmpty)
		})
	})
}

func TestSignals(t *testing.T) {
	Convey("Session signals", t, func() {
		element := mediatest.New()
		factory := &enginetest.Factory{IsSupported: true}
		s := New(element, factory, engine.Config{})
		So(s.Load(testURL), ShouldBeNil)
		fake := factory.Built[0]

		Convey("Should forward engine events to subscribed handlers", func() {
			var got []any
			s.Signals().On(SignalManifestParsed, func(data any) {
				got = append(got, data)
			})

			manifest := engine.Manifest{Levels: []engine.Level{{Index: 0, Height: 720}}}
			fake.Emit(engine.EventManifestParsed, manifest)

			So(got, ShouldHaveLength, 1)
			So(got[0], ShouldResemble, manifest)
		})

		Convey("Should stop delivering after an individual unsubscribe", func() {
			var calls int
			off := s.Signals().On(SignalError, func(any) { calls++ })

			fake.Emit(engine.EventError, engine.ErrorData{})
			off()
			fake.Emit(engine.EventError, engine.ErrorData{})

			So(calls, ShouldEqual, 1)
		})

		Convey("Should sever every engine listener on destroy", func() {
			var calls int
			s.Signals().On(SignalFragmentLoaded, func(any) { calls++ })
			s.Signals().On(SignalError, func(any) { calls++ })

			s.Destroy()

			// Even a misbehaving engine that emits after destruction reaches nobody.
			fake.Emit(engine.EventFragmentLoaded, nil)
			fake.Emit(engine.EventError, engine.ErrorData{Fatal: true})

			So(calls, ShouldEqual, 0)
			So(fake.HandlerCount(engine.EventError), ShouldEqual, 0)
		})

		Convey("Should no-op subscriptions taken after destroy", func() {
			s.Destroy()

			var calls int
			off := s.Signals().On(SignalError, func(any) { calls++ })
			off()

			So(calls, ShouldEqual, 0)
		})
	})
}

func TestDestroy(t *testing.T) {
	Convey("Session.Destroy", t, func() {
		element := mediatest.New()
		factory := &enginetest.Factory{IsSupported: true}
		s := New(element, factory, engine.Config{})
		So(s.Load(testURL), ShouldBeNil)

		Convey("Should destroy the engine exactly once", func() {
			s.Destroy()
			s.Destroy()

			So(factory.Built[0].DestroyedCount, ShouldEqual, 1)
			So(s.Destroyed(), ShouldBeTrue)
			So(s.Engine(), ShouldBeNil)
		})
	})
}
