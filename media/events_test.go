package media

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEventDispatch(t *testing.T) {
	Convey("EventListener", t, func() {
		var names []string
		var payloads []interface{}

		el := NewEventListener("", func(property string, data interface{}) {
			names = append(names, property)
			payloads = append(payloads, data)
		})

		Convey("Should dispatch property changes with their name and data", func() {
			el.processEvent(`{"event":"property-change","id":1,"name":"time-pos","data":12.5}`)
			el.processEvent(`{"event":"property-change","id":2,"name":"pause","data":true}`)

			So(names, ShouldResemble, []string{"time-pos", "pause"})
			So(payloads[0], ShouldEqual, 12.5)
			So(payloads[1], ShouldEqual, true)
		})

		Convey("Should forward other events under their event name", func() {
			el.processEvent(`{"event":"playback-restart"}`)

			So(names, ShouldResemble, []string{"playback-restart"})
		})

		Convey("Should skip unparseable lines", func() {
			el.processEvent(`not json`)

			So(names, ShouldBeEmpty)
		})

		Convey("Should skip property changes without a name", func() {
			el.processEvent(`{"event":"property-change","id":3,"data":1}`)

			So(names, ShouldBeEmpty)
		})
	})
}
