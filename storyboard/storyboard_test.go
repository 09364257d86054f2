package storyboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/stream"
)

func TestFetch(t *testing.T) {
	Convey("Fetch", t, func() {
		ctx := context.Background()

		Convey("Should parse a storyboard response", func(c C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Path, ShouldEqual, "/abc123/storyboard.json")
				_, _ = w.Write([]byte(`{
					"url": "https://image.example.com/abc123/storyboard.png",
					"tile_width": 256,
					"tile_height": 160,
					"tiles": [{"start": 0, "x": 0, "y": 0}, {"start": 5, "x": 256, "y": 0}]
				}`))
			}))
			defer srv.Close()

			src := stream.Source{PlaybackID: "abc123", BaseURL: srv.URL}
			board, err := Fetch(ctx, srv.Client(), src)

			So(err, ShouldBeNil)
			So(board, ShouldNotBeNil)
			So(board.TileWidth, ShouldEqual, 256)
			So(board.Tiles, ShouldHaveLength, 2)
		})

		Convey("Should degrade gracefully on a missing storyboard", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer srv.Close()

			board, err := Fetch(ctx, srv.Client(), stream.Source{PlaybackID: "abc123", BaseURL: srv.URL})
			So(err, ShouldBeNil)
			So(board, ShouldBeNil)
		})

		Convey("Should thin tiles into evenly spaced seek marks", func() {
			board := &Storyboard{URL: "https://image.example.com/abc123/storyboard.png"}
			for i := 0; i < 20; i++ {
				board.Tiles = append(board.Tiles, Tile{Start: float64(i * 5)})
			}

			marks := board.Marks(8)

			So(len(marks), ShouldBeLessThanOrEqualTo, 8)
			So(marks[0].Time, ShouldEqual, 0)
			So(marks[0].Title, ShouldEqual, "00:00")
			So(marks[1].Time, ShouldBeGreaterThan, marks[0].Time)
		})

		Convey("Should return no marks for a missing storyboard", func() {
			var board *Storyboard
			So(board.Marks(8), ShouldBeNil)
			So((&Storyboard{}).Marks(8), ShouldBeNil)
		})

		Convey("Should degrade gracefully on transport failure", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			srv.Close()

			board, err := Fetch(ctx, http.DefaultClient, stream.Source{PlaybackID: "abc123", BaseURL: srv.URL})
			So(err, ShouldBeNil)
			So(board, ShouldBeNil)
		})
	})
}
