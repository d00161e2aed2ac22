package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dubz-banking/dubz/internal/adapters/repository"
	service "github.com/dubz-banking/dubz/internal/app"
	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/internal/scheduler"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given the scheduler wired to a file-backed service", t, func() {
		root := t.TempDir()
		clock := scheduler.NewManualClock(time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)) // Saturday
		store := repository.NewFileStore(root, repository.WithClock(clock), repository.WithLocation(time.UTC))
		svc := service.New(service.WithStore(store), service.WithClock(clock))
		reg := scheduler.NewRegistry(clock)
		So(svc.RegisterTriggers(reg, nil), ShouldBeNil)
		loop := scheduler.NewLoop(reg)
		ctx := context.Background()

		Convey("When the clock reaches Sunday 09:00", func() {
			clock.Set(time.Date(2025, 3, 30, 9, 0, 0, 0, time.UTC))
			outcomes, err := loop.Poll(ctx)

			Convey("Then only the weekly report is written", func() {
				So(err, ShouldBeNil)
				So(len(outcomes), ShouldEqual, 1)
				So(outcomes[0].Trigger, ShouldEqual, "weekly_report")
				So(outcomes[0].Result.Detail, ShouldEqual, filepath.Join(root, "weekly", "2025-03-30.json"))

				raw, readErr := os.ReadFile(outcomes[0].Result.Detail)
				So(readErr, ShouldBeNil)
				var got report.Report
				So(json.Unmarshal(raw, &got), ShouldBeNil)
				So(got.Type, ShouldEqual, report.Weekly)
			})
		})

		Convey("When the clock reaches April 1st 09:00", func() {
			clock.Set(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
			outcomes, err := loop.Poll(ctx)

			Convey("Then the weekly catch-up, monthly and quarterly reports run in order", func() {
				So(err, ShouldBeNil)
				So(len(outcomes), ShouldEqual, 3)
				So(outcomes[0].Trigger, ShouldEqual, "weekly_report")
				So(outcomes[1].Trigger, ShouldEqual, "monthly_report")
				So(outcomes[2].Trigger, ShouldEqual, "quarterly_report")
				for _, o := range outcomes {
					So(o.OK(), ShouldBeTrue)
				}
				_, statErr := os.Stat(filepath.Join(root, "yearly"))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When the report directory cannot be created", func() {
			blocker := filepath.Join(t.TempDir(), "file")
			So(os.WriteFile(blocker, nil, 0o644), ShouldBeNil)
			bad := service.New(service.WithStore(repository.NewFileStore(blocker)), service.WithClock(clock))
			badReg := scheduler.NewRegistry(clock)
			So(bad.RegisterTriggers(badReg, nil), ShouldBeNil)
			clock.Set(time.Date(2025, 3, 30, 9, 0, 0, 0, time.UTC))

			outcomes, err := scheduler.NewLoop(badReg).Poll(ctx)

			Convey("Then the failure is contained in the outcome", func() {
				So(err, ShouldBeNil)
				So(len(outcomes), ShouldEqual, 1)
				So(outcomes[0].OK(), ShouldBeFalse)
			})
		})
	})
}
