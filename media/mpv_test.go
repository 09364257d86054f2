package media

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidra-player/vidra/constant"
)

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should accept http and https URLs", func() {
			for _, u := range []string{
				"http://stream.example.com/abc123.m3u8",
				"https://stream.example.com/abc123.m3u8?token=xyz",
			} {
				got, err := sanitizeMediaTarget(u)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, u)
			}
		})

		Convey("Should reject empty targets", func() {
			_, err := sanitizeMediaTarget("   ")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject flag-like targets", func() {
			_, err := sanitizeMediaTarget("--script=evil.lua")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject control characters", func() {
			_, err := sanitizeMediaTarget("https://a.com/x\n--evil")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject unsupported schemes", func() {
			_, err := sanitizeMediaTarget("ftp://a.com/x.m3u8")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCanPlayType(t *testing.T) {
	Convey("MPV.CanPlayType", t, func() {
		mpv := NewMPV()

		Convey("Should natively support HLS manifests", func() {
			So(mpv.CanPlayType(constant.MimeHLS), ShouldBeTrue)
			So(mpv.CanPlayType(constant.MimeText), ShouldBeTrue)
		})

		Convey("Should reject unknown types", func() {
			So(mpv.CanPlayType("application/dash+xml"), ShouldBeFalse)
		})
	})
}

func TestSanitizeTitle(t *testing.T) {
	Convey("sanitizeTitle", t, func() {
		Convey("Should strip control characters", func() {
			So(sanitizeTitle("a\nb\tc\x00d"), ShouldEqual, "a b cd")
		})

		Convey("Should trim surrounding whitespace", func() {
			So(sanitizeTitle("  Episode 1 \n"), ShouldEqual, "Episode 1")
		})
	})
}
