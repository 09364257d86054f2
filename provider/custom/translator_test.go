package custom

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/filesystem"
	"github.com/vidra-player/vidra/stream"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	filesystem.SetMemMapFs()
}

func endpointTable(L *lua.LState, fields map[string]lua.LValue) *lua.LTable {
	table := L.NewTable()
	for k, v := range fields {
		table.RawSetString(k, v)
	}
	return table
}

func TestSourceFromTable(t *testing.T) {
	Convey("sourceFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should build a source from a minimal endpoint table", func() {
			table := endpointTable(L, map[string]lua.LValue{
				"base_url": lua.LString("https://stream.example.com"),
			})

			src, err := sourceFromTable(table, "abc123")
			So(err, ShouldBeNil)
			So(src.PlaybackID, ShouldEqual, "abc123")
			So(src.BaseURL, ShouldEqual, "https://stream.example.com")
			So(src.Type, ShouldEqual, stream.OnDemand)
			So(src.Signed(), ShouldBeFalse)
		})

		Convey("Should carry token and stream type", func() {
			table := endpointTable(L, map[string]lua.LValue{
				"base_url": lua.LString("https://stream.example.com"),
				"token":    lua.LString("tok"),
				"type":     lua.LString("live-stream"),
			})

			src, err := sourceFromTable(table, "abc123")
			So(err, ShouldBeNil)
			So(src.Token, ShouldEqual, "tok")
			So(src.Type, ShouldEqual, stream.Live)
		})

		Convey("Should parse nested constraints", func() {
			constraints := endpointTable(L, map[string]lua.LValue{
				"min_resolution":  lua.LString("480p"),
				"rendition_order": lua.LString("desc"),
			})
			table := endpointTable(L, map[string]lua.LValue{
				"base_url":    lua.LString("https://stream.example.com"),
				"constraints": constraints,
			})

			src, err := sourceFromTable(table, "abc123")
			So(err, ShouldBeNil)
			So(src.Constraints.MinResolution, ShouldEqual, "480p")
			So(src.Constraints.RenditionOrder, ShouldEqual, stream.OrderDescending)
		})

		Convey("Should reject a missing base_url", func() {
			_, err := sourceFromTable(L.NewTable(), "abc123")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject an unknown stream type", func() {
			table := endpointTable(L, map[string]lua.LValue{
				"base_url": lua.LString("https://stream.example.com"),
				"type":     lua.LString("vod"),
			})

			_, err := sourceFromTable(table, "abc123")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoadedResolver(t *testing.T) {
	Convey("Resolver over a Lua state", t, func() {
		L := lua.NewState()
		defer L.Close()

		err := L.DoString(`
			function ResolveEndpoint(playback_id)
				return {
					base_url = "https://stream.example.com/" .. playback_id,
					token = "tok",
				}
			end
		`)
		So(err, ShouldBeNil)

		r := newResolver("example", L)

		Convey("Should resolve through the script function", func() {
			src, err := r.ResolveEndpoint("abc123")
			So(err, ShouldBeNil)
			So(src.BaseURL, ShouldEqual, "https://stream.example.com/abc123")
			So(src.Token, ShouldEqual, "tok")
		})

		Convey("Should expose the canonical identifier", func() {
			So(r.Name(), ShouldEqual, "example")
			So(r.ID(), ShouldEqual, "example custom")
		})
	})
}
