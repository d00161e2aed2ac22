package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dubz-banking/dubz/internal/adapters/repository"
	service "github.com/dubz-banking/dubz/internal/app"
	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/internal/scheduler"
	. "github.com/smartystreets/goconvey/convey"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, r report.Report) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

var now = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

func TestService_Generate(t *testing.T) {
	Convey("Given a service over a mocked store", t, func() {
		store := &mockStore{}
		svc := service.New(
			service.WithStore(store),
			service.WithClock(scheduler.NewManualClock(now)),
		)
		ctx := context.Background()

		Convey("When generating a weekly report", func() {
			store.On("Save", ctx, mock.MatchedBy(func(r report.Report) bool {
				return r.Type == report.Weekly && r.GeneratedAt.Equal(now) && len(r.Data) == 2
			})).Return("/reports/weekly/2025-03-02.json", nil).Once()

			path, err := svc.Generate(ctx, report.Weekly)

			Convey("Then the built report is saved and its path returned", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEqual, "/reports/weekly/2025-03-02.json")
				So(store.AssertExpectations(t), ShouldBeTrue)
			})
		})

		Convey("When the store fails", func() {
			store.On("Save", ctx, mock.Anything).Return("", repository.ErrWrite).Once()

			_, err := svc.Generate(ctx, report.Monthly)

			Convey("Then the error keeps its kind", func() {
				So(errors.Is(err, repository.ErrWrite), ShouldBeTrue)
			})
		})

		Convey("When the type is unknown", func() {
			_, err := svc.Generate(ctx, report.Type("daily"))

			Convey("Then ErrUnknownType is returned without touching the store", func() {
				So(errors.Is(err, report.ErrUnknownType), ShouldBeTrue)
				store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			})
		})
	})

	Convey("Given a builder whose data source is down", t, func() {
		store := &mockStore{}
		svc := service.New(
			service.WithStore(store),
			service.WithBuilder(report.Quarterly, func(time.Time) (report.Report, error) {
				return report.Report{}, report.ErrDataUnavailable
			}),
		)

		Convey("When generating that type", func() {
			_, err := svc.Generate(context.Background(), report.Quarterly)

			Convey("Then the build error surfaces and nothing is saved", func() {
				So(errors.Is(err, report.ErrDataUnavailable), ShouldBeTrue)
				store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			})
		})
	})
}

func TestService_GenerateAll(t *testing.T) {
	Convey("Given a store that rejects monthly reports", t, func() {
		store := &mockStore{}
		ctx := context.Background()
		isType := func(rt report.Type) interface{} {
			return mock.MatchedBy(func(r report.Report) bool { return r.Type == rt })
		}
		store.On("Save", ctx, isType(report.Weekly)).Return("w.json", nil)
		store.On("Save", ctx, isType(report.Monthly)).Return("", repository.ErrWrite)
		store.On("Save", ctx, isType(report.Quarterly)).Return("q.json", nil)
		store.On("Save", ctx, isType(report.Yearly)).Return("y.json", nil)
		svc := service.New(service.WithStore(store))

		Convey("When generating every type", func() {
			results := svc.GenerateAll(ctx)

			Convey("Then each type is attempted in cadence order", func() {
				So(len(results), ShouldEqual, 4)
				So(results[0].Type, ShouldEqual, report.Weekly)
				So(results[0].Path, ShouldEqual, "w.json")
				So(errors.Is(results[1].Err, repository.ErrWrite), ShouldBeTrue)
				So(results[2].Err, ShouldBeNil)
				So(results[3].Path, ShouldEqual, "y.json")
			})
		})
	})
}

func TestService_RegisterTriggers(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		clock := scheduler.NewManualClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
		reg := scheduler.NewRegistry(clock)
		svc := service.New(service.WithStore(&mockStore{}))

		Convey("When registering the defaults", func() {
			err := svc.RegisterTriggers(reg, nil)

			Convey("Then one trigger per type is registered at 09:00", func() {
				So(err, ShouldBeNil)
				snap := reg.Snapshot()
				So(len(snap), ShouldEqual, 4)
				So(snap[0].Name, ShouldEqual, "weekly_report")
				So(snap[0].NextRun, ShouldEqual, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
				So(snap[1].NextRun, ShouldEqual, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
				So(snap[2].NextRun, ShouldEqual, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
				So(snap[3].NextRun, ShouldEqual, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
			})
		})

		Convey("When overriding one rule", func() {
			err := svc.RegisterTriggers(reg, map[string]string{"Weekly": "30 7 * * 1"})

			Convey("Then only that trigger changes", func() {
				So(err, ShouldBeNil)
				snap := reg.Snapshot()
				So(snap[0].Rule, ShouldEqual, "30 7 * * 1")
				So(snap[1].Rule, ShouldEqual, "0 9 1 * *")
			})
		})

		Convey("When an override names an unknown report", func() {
			err := svc.RegisterTriggers(reg, map[string]string{"daily": "0 9 * * *"})

			Convey("Then nothing is registered", func() {
				So(errors.Is(err, service.ErrInvalidTriggers), ShouldBeTrue)
				So(errors.Is(err, report.ErrUnknownType), ShouldBeTrue)
				So(reg.Len(), ShouldEqual, 0)
			})
		})

		Convey("When an override is not a valid rule", func() {
			err := svc.RegisterTriggers(reg, map[string]string{"yearly": "once a year"})

			Convey("Then ErrInvalidRule surfaces", func() {
				So(errors.Is(err, scheduler.ErrInvalidRule), ShouldBeTrue)
				So(reg.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestService_DefaultRules(t *testing.T) {
	Convey("Given the default rules", t, func() {
		rules, err := service.DefaultRules()
		So(err, ShouldBeNil)
		So(len(rules), ShouldEqual, len(report.Types()))

		Convey("Then each fires at 09:00 on its calendar day", func() {
			So(rules[report.Weekly].String(), ShouldEqual, "0 9 * * 0")
			So(rules[report.Monthly].String(), ShouldEqual, "0 9 1 * *")
			So(rules[report.Quarterly].String(), ShouldEqual, "0 9 1 1,4,7,10 *")
			So(rules[report.Yearly].String(), ShouldEqual, "0 9 1 1 *")
		})

		Convey("Then the quarterly rule skips to the first day of the next quarter", func() {
			after := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
			So(rules[report.Quarterly].Next(after), ShouldEqual, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
		})

		Convey("Then the weekly rule fires on Sunday", func() {
			after := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday
			So(rules[report.Weekly].Next(after).Weekday(), ShouldEqual, time.Sunday)
		})
	})
}
