package provider

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/config"
	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/key"
	"github.com/vidra-player/vidra/stream"
	"github.com/vidra-player/vidra/where"
)

func init() {
	filesystem.SetMemMapFs()
	_ = config.Setup()
}

func TestGet(t *testing.T) {
	Convey("When trying to get an invalid provider", t, func() {
		_, ok := Get("kek")
		Convey("Then ok should be false", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("When getting the built-in provider", t, func() {
		p, ok := Get(DefaultName)
		Convey("Then it resolves from configuration", func() {
			So(ok, ShouldBeTrue)
			So(p.IsCustom, ShouldBeFalse)

			src, err := p.Resolve("abc123")
			So(err, ShouldBeNil)
			So(src.PlaybackID, ShouldEqual, "abc123")
			So(src.BaseURL, ShouldEqual, viper.GetString(key.StreamBaseURL))
			So(src.Type, ShouldEqual, stream.OnDemand)
		})
	})
}

func TestCustomProviders(t *testing.T) {
	Convey("When enumerating custom providers", t, func() {
		script := filepath.Join(where.Providers(), "example.lua")
		So(filesystem.API().WriteFile(script, []byte(`
			function ResolveEndpoint(playback_id)
				return { base_url = "https://stream.example.com" }
			end
		`), 0644), ShouldBeNil)
		defer func() {
			So(filesystem.API().Remove(script), ShouldBeNil)
		}()

		providers := Customs()

		Convey("Then the script appears as a provider", func() {
			So(providers, ShouldHaveLength, 1)
			So(providers[0].Name, ShouldEqual, "example")
			So(providers[0].IsCustom, ShouldBeTrue)
		})
	})

	Convey("When the providers directory holds only common.lua", t, func() {
		script := filepath.Join(where.Providers(), "common.lua")
		So(filesystem.API().WriteFile(script, []byte("-- shared helpers"), 0644), ShouldBeNil)
		defer func() {
			So(filesystem.API().Remove(script), ShouldBeNil)
		}()

		Convey("Then it is not exposed as a provider", func() {
			So(Customs(), ShouldBeEmpty)
		})
	})
}
