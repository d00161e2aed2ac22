package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dubz-banking/dubz/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func TestFileStoreSave(t *testing.T) {
	Convey("Given a file store under a temp dir", t, func() {
		root := filepath.Join(t.TempDir(), "reports")
		clock := &fixedClock{t: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)}
		store := NewFileStore(root, WithClock(clock), WithLocation(time.UTC))
		ctx := context.Background()

		Convey("When saving a weekly report", func() {
			r, _ := report.BuildWeekly(clock.t)
			path, err := store.Save(ctx, r)

			Convey("Then it lands at <root>/weekly/<date>.json as indented JSON", func() {
				So(err, ShouldBeNil)
				So(filepath.IsAbs(path), ShouldBeTrue)
				So(filepath.Base(path), ShouldEqual, "2025-03-02.json")
				So(filepath.Base(filepath.Dir(path)), ShouldEqual, "weekly")

				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(raw), ShouldStartWith, "{\n  \"report_type\": \"weekly\",")
				So(string(raw), ShouldEndWith, "}\n")

				var doc map[string]any
				So(json.Unmarshal(raw, &doc), ShouldBeNil)
				So(doc["data"], ShouldContainKey, "spending_summary")
			})
		})

		Convey("When the type directory already exists", func() {
			So(os.MkdirAll(filepath.Join(root, "monthly"), 0o755), ShouldBeNil)
			r, _ := report.BuildMonthly(clock.t)
			_, err := store.Save(ctx, r)

			Convey("Then saving still succeeds", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When saving the same type twice on one date", func() {
			first, _ := report.BuildYearly(clock.t)
			second, _ := report.BuildYearly(clock.t.Add(3 * time.Hour))
			p1, err1 := store.Save(ctx, first)
			p2, err2 := store.Save(ctx, second)

			Convey("Then the later write replaces the earlier one", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(p2, ShouldEqual, p1)

				entries, _ := os.ReadDir(filepath.Dir(p1))
				So(len(entries), ShouldEqual, 1)

				var got report.Report
				raw, _ := os.ReadFile(p2)
				So(json.Unmarshal(raw, &got), ShouldBeNil)
				So(got.GeneratedAt.Equal(second.GeneratedAt), ShouldBeTrue)
			})
		})

		Convey("When saving on two different dates", func() {
			first, _ := report.BuildQuarterly(clock.t)
			second, _ := report.BuildQuarterly(clock.t.Add(24 * time.Hour))
			p1, _ := store.Save(ctx, first)
			p2, _ := store.Save(ctx, second)

			Convey("Then two files exist", func() {
				So(p1, ShouldNotEqual, p2)
				entries, _ := os.ReadDir(filepath.Join(root, "quarterly"))
				So(len(entries), ShouldEqual, 2)
			})
		})

		Convey("When the clock has passed midnight since the report was built", func() {
			built := time.Date(2025, 3, 2, 23, 59, 59, 999_000_000, time.UTC)
			r, _ := report.BuildWeekly(built)
			clock.t = built.Add(time.Millisecond)
			path, err := store.Save(ctx, r)

			Convey("Then the file is named after the report's own date", func() {
				So(err, ShouldBeNil)
				So(filepath.Base(path), ShouldEqual, "2025-03-02.json")
			})
		})

		Convey("When the report has no type", func() {
			_, err := store.Save(ctx, report.Report{})

			Convey("Then ErrInvalidReport is returned", func() {
				So(errors.Is(err, ErrInvalidReport), ShouldBeTrue)
			})
		})

		Convey("When the root is a regular file", func() {
			blocker := filepath.Join(t.TempDir(), "blocker")
			So(os.WriteFile(blocker, []byte("x"), 0o644), ShouldBeNil)
			bad := NewFileStore(blocker, WithClock(clock))
			r, _ := report.BuildWeekly(clock.t)
			_, err := bad.Save(ctx, r)

			Convey("Then ErrWrite is returned", func() {
				So(errors.Is(err, ErrWrite), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			r, _ := report.BuildWeekly(clock.t)
			_, err := store.Save(cctx, r)

			Convey("Then nothing is written", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				_, statErr := os.Stat(filepath.Join(root, "weekly"))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})
}

func TestFileStoreDefaults(t *testing.T) {
	Convey("Given a store with an empty root", t, func() {
		store := NewFileStore("")

		Convey("Then the default root is used", func() {
			So(store.Root(), ShouldEqual, DefaultRoot)
		})

		Convey("Then PathFor uses the configured location", func() {
			tokyo := time.FixedZone("JST", 9*3600)
			s := NewFileStore("r", WithLocation(tokyo))
			at := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
			So(s.PathFor(report.Monthly, at), ShouldEqual, filepath.Join("r", "monthly", "2025-03-02.json"))
		})
	})
}
