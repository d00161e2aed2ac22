package scheduler

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRules(t *testing.T) {
	Convey("Given calendar rule constructors", t, func() {
		sat := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) // Saturday

		Convey("When computing the next weekly Sunday 09:00", func() {
			r, err := Weekly(time.Sunday, 9, 0)
			So(err, ShouldBeNil)

			Convey("Then it is the following morning", func() {
				So(r.Next(sat), ShouldEqual, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
				So(r.String(), ShouldEqual, "0 9 * * 0")
			})
		})

		Convey("When computing the next monthly run", func() {
			r, err := Monthly(1, 9, 0)
			So(err, ShouldBeNil)

			Convey("Then it is the first of the next month", func() {
				So(r.Next(sat), ShouldEqual, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
			})
		})

		Convey("When computing the next quarterly run", func() {
			r, err := Quarterly(1, 9, 0)
			So(err, ShouldBeNil)

			Convey("Then only quarter starts qualify", func() {
				So(r.Next(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)), ShouldEqual, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
				So(r.Next(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)), ShouldEqual, time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))
				So(r.Next(time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)), ShouldEqual, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
			})
		})

		Convey("When computing the next yearly run exactly at an activation", func() {
			r, err := Yearly(time.January, 1, 9, 0)
			So(err, ShouldBeNil)

			Convey("Then the activation is strictly after", func() {
				So(r.Next(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)), ShouldEqual, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
			})
		})

		Convey("When the time carries a location", func() {
			berlin := time.FixedZone("CET", 3600)
			r, _ := Weekly(time.Sunday, 9, 0)

			Convey("Then activations are computed in that location", func() {
				next := r.Next(time.Date(2025, 3, 1, 10, 0, 0, 0, berlin))
				So(next.Location(), ShouldEqual, berlin)
				So(next.Hour(), ShouldEqual, 9)
			})
		})

		Convey("When parsing descriptors and bad specs", func() {
			weekly, err := ParseRule("@weekly")
			_, badErr := ParseRule("every sunday")
			_, emptyErr := ParseRule("  ")
			_, rangeErr := Monthly(32, 9, 0)

			Convey("Then only valid specs are accepted", func() {
				So(err, ShouldBeNil)
				So(weekly.String(), ShouldEqual, "@weekly")
				So(errors.Is(badErr, ErrInvalidRule), ShouldBeTrue)
				So(errors.Is(emptyErr, ErrInvalidRule), ShouldBeTrue)
				So(errors.Is(rangeErr, ErrInvalidRule), ShouldBeTrue)
			})
		})
	})
}
