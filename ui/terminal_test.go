package ui

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTerminal(t *testing.T) {
	Convey("Terminal surface", t, func() {
		var out strings.Builder
		term := NewTerminal(&out)

		Convey("Should render an error banner once per distinct message", func() {
			term.ShowError("Stream not found.")
			first := out.String()
			So(first, ShouldContainSubstring, "Stream not found.")

			// Re-showing the same error renders nothing new.
			term.ShowError("Stream not found.")
			So(out.String(), ShouldEqual, first)
			So(term.ErrorMessage(), ShouldEqual, "Stream not found.")
		})

		Convey("Should replace the previous error with a new message", func() {
			term.ShowError("first")
			term.ShowError("second")
			So(term.ErrorMessage(), ShouldEqual, "second")
			So(out.String(), ShouldContainSubstring, "second")
		})

		Convey("Should re-render the same message after a hide", func() {
			term.ShowError("again")
			term.HideError()
			before := out.String()
			term.ShowError("again")
			So(len(out.String()), ShouldBeGreaterThan, len(before))
		})

		Convey("Should ignore empty messages", func() {
			term.ShowError("")
			So(out.String(), ShouldBeEmpty)
			So(term.ErrorMessage(), ShouldBeEmpty)
		})

		Convey("Should show the loader idempotently", func() {
			term.ShowLoader()
			once := out.String()
			term.ShowLoader()
			So(out.String(), ShouldEqual, once)
			So(term.Loading(), ShouldBeTrue)

			term.HideLoader()
			So(term.Loading(), ShouldBeFalse)
		})
	})
}
