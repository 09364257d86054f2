package network

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCloneForRetry(t *testing.T) {
	Convey("cloneForRetry", t, func() {
		Convey("Should rewind a consumed body for the fallback attempt", func() {
			payload := `{"query": "playback"}`
			req, err := http.NewRequest(http.MethodPost, "https://stream.example.com/validate", bytes.NewReader([]byte(payload)))
			So(err, ShouldBeNil)

			// The first attempt drains the body before failing.
			_, err = io.Copy(io.Discard, req.Body)
			So(err, ShouldBeNil)

			retry, err := cloneForRetry(req)
			So(err, ShouldBeNil)

			replayed, err := io.ReadAll(retry.Body)
			So(err, ShouldBeNil)
			So(string(replayed), ShouldEqual, payload)
		})

		Convey("Should pass bodyless requests through unchanged", func() {
			req, err := http.NewRequest(http.MethodGet, "https://stream.example.com/manifest.m3u8", nil)
			So(err, ShouldBeNil)

			retry, err := cloneForRetry(req)
			So(err, ShouldBeNil)
			So(retry.Body, ShouldBeNil)
			So(retry.URL.String(), ShouldEqual, req.URL.String())
		})

		Convey("Should refuse a non-rewindable body", func() {
			req, err := http.NewRequest(http.MethodPost, "https://stream.example.com/validate", nil)
			So(err, ShouldBeNil)
			req.Body = io.NopCloser(strings.NewReader("one-shot"))
			req.GetBody = nil

			_, err = cloneForRetry(req)
			So(err, ShouldNotBeNil)
		})
	})
}
