package catalog

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/engine"
	"github.com/vidra-player/vidra/stream"
)

var testManifest = engine.Manifest{
	Levels: []engine.Level{
		{Index: 0, Height: 360, Bitrate: 800_000},
		{Index: 1, Height: 720, Bitrate: 2_400_000},
		{Index: 2, Height: 1080, Bitrate: 5_000_000},
	},
	AudioTracks: []engine.AudioTrack{
		{Index: 0, Label: "English", Language: "en"},
		{Index: 1, Label: "日本語", Language: "ja"},
	},
	SubtitleTracks: []engine.SubtitleTrack{
		{Index: 0, Label: "English (CC)", Language: "en"},
		{Index: 1, Label: "Español", Language: "es"},
	},
}

func TestDisplayLevels(t *testing.T) {
	Convey("Catalog.DisplayLevels", t, func() {
		Convey("Should keep manifest order when ascending", func() {
			c := New(testManifest, stream.OrderAscending)
			levels := c.DisplayLevels()
			So(levels, ShouldHaveLength, 3)
			So(levels[0].Height, ShouldEqual, 360)
			So(levels[2].Height, ShouldEqual, 1080)
		})

		Convey("Should reverse display order when descending", func() {
			c := New(testManifest, stream.OrderDescending)
			levels := c.DisplayLevels()
			So(levels[0].Height, ShouldEqual, 1080)
			So(levels[2].Height, ShouldEqual, 360)
		})

		Convey("Should preserve engine indices through reordering", func() {
			c := New(testManifest, stream.OrderDescending)
			levels := c.DisplayLevels()
			So(levels[0].Index, ShouldEqual, 2)
			So(levels[1].Index, ShouldEqual, 1)
			So(levels[2].Index, ShouldEqual, 0)

			// The underlying manifest order is untouched.
			So(c.Levels()[0].Index, ShouldEqual, 0)
		})

		Convey("Should default an empty order to ascending", func() {
			c := New(testManifest, "")
			So(c.DisplayLevels()[0].Height, ShouldEqual, 360)
		})
	})
}

func TestAudioOnly(t *testing.T) {
	Convey("Catalog.AudioOnly", t, func() {
		Convey("Should report true when every level has zero height", func() {
			m := engine.Manifest{Levels: []engine.Level{
				{Index: 0, Height: 0, Bitrate: 128_000},
				{Index: 1, Height: 0, Bitrate: 256_000},
			}}
			So(New(m, "").AudioOnly(), ShouldBeTrue)
		})

		Convey("Should report false when any level carries video", func() {
			So(New(testManifest, "").AudioOnly(), ShouldBeFalse)
		})

		Convey("Should report false for an empty manifest", func() {
			So(New(engine.Manifest{}, "").AudioOnly(), ShouldBeFalse)
		})
	})
}

func TestAudioTracks(t *testing.T) {
	Convey("Catalog audio tracks", t, func() {
		Convey("Should offer a selection only with multiple tracks", func() {
			So(New(testManifest, "").HasSelectableAudio(), ShouldBeTrue)

			single := engine.Manifest{AudioTracks: testManifest.AudioTracks[:1]}
			So(New(single, "").HasSelectableAudio(), ShouldBeFalse)
		})

		Convey("Should default to the first track", func() {
			def := New(testManifest, "").DefaultAudio()
			So(def.IsPresent(), ShouldBeTrue)
			So(def.MustGet().Language, ShouldEqual, "en")
		})

		Convey("Should have no default without tracks", func() {
			So(New(engine.Manifest{}, "").DefaultAudio().IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestPreferredSubtitle(t *testing.T) {
	Convey("Catalog.PreferredSubtitle", t, func() {
		c := New(testManifest, "")

		Convey("Should match an exact language code", func() {
			track := c.PreferredSubtitle("es")
			So(track.IsPresent(), ShouldBeTrue)
			So(track.MustGet().Label, ShouldEqual, "Español")
		})

		Convey("Should fuzzy-match against labels", func() {
			track := c.PreferredSubtitle("english")
			So(track.IsPresent(), ShouldBeTrue)
			So(track.MustGet().Language, ShouldEqual, "en")
		})

		Convey("Should return none for an unmatched language", func() {
			So(c.PreferredSubtitle("zh").IsAbsent(), ShouldBeTrue)
		})

		Convey("Should return none for an empty preference", func() {
			So(c.PreferredSubtitle("").IsAbsent(), ShouldBeTrue)
		})
	})
}
