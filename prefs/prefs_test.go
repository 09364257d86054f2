package prefs_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/config"
	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/prefs"
)

func init() {
	filesystem.SetMemMapFs()
	_ = config.Setup()
}

func TestPrefs(t *testing.T) {
	Convey("Preference store", t, func() {
		viper.Set(key.PlayerSavePrefs, true)

		Convey("Should fall back to configured defaults", func() {
			So(prefs.Reset(), ShouldBeNil)

			p, err := prefs.Get()
			So(err, ShouldBeNil)
			So(p.Volume, ShouldEqual, viper.GetFloat64(key.PlayerVolume))
			So(p.Quality, ShouldEqual, "auto")
		})

		Convey("Should round-trip saved preferences", func() {
			saved := &prefs.Prefs{Volume: 40, Muted: true, SubtitleLanguage: "en", Quality: "2"}
			So(prefs.Save(saved), ShouldBeNil)

			p, err := prefs.Get()
			So(err, ShouldBeNil)
			So(p.Volume, ShouldEqual, 40)
			So(p.Muted, ShouldBeTrue)
			So(p.SubtitleLanguage, ShouldEqual, "en")
			So(p.Quality, ShouldEqual, "2")

			So(prefs.Reset(), ShouldBeNil)
		})

		Convey("Should not persist when saving is disabled", func() {
			So(prefs.Reset(), ShouldBeNil)
			viper.Set(key.PlayerSavePrefs, false)
			defer viper.Set(key.PlayerSavePrefs, true)

			So(prefs.Save(&prefs.Prefs{Volume: 5}), ShouldBeNil)

			p, err := prefs.Get()
			So(err, ShouldBeNil)
			So(p.Volume, ShouldNotEqual, 5)
		})
	})
}
