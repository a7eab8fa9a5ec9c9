package model_test

import (
	"testing"
	"time"

	model "github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	convey.Convey("Given an Event struct", t, func() {
		convey.Convey("When creating a new event", func() {
			ts := time.Now()
			event := model.Event{
				EventID: "event-123",
				UserID:  "user-456",
				Family:  tier.FamilyStreak,
				Metric:  14,
				TS:      ts,
			}

			convey.Convey("Then it should carry the values through", func() {
				convey.So(event.EventID, convey.ShouldEqual, "event-123")
				convey.So(event.UserID, convey.ShouldEqual, "user-456")
				convey.So(event.Family, convey.ShouldEqual, tier.FamilyStreak)
				convey.So(event.Metric, convey.ShouldEqual, 14.0)
				convey.So(event.TS, convey.ShouldEqual, ts)
			})
		})

		convey.Convey("When creating a zero-value event", func() {
			event := model.Event{}

			convey.Convey("Then all fields default", func() {
				convey.So(event.EventID, convey.ShouldEqual, "")
				convey.So(event.Family, convey.ShouldEqual, tier.Family(""))
				convey.So(event.Metric, convey.ShouldEqual, 0.0)
				convey.So(event.TS, convey.ShouldEqual, time.Time{})
			})
		})
	})
}

func TestRecord(t *testing.T) {
	convey.Convey("Given a Record struct", t, func() {
		convey.Convey("When capturing a classified best metric", func() {
			rec := model.Record{
				UserID:   "user-456",
				Family:   tier.FamilyStreak,
				Metric:   14,
				TierRank: 4,
				TierName: "gold",
			}

			convey.Convey("Then the record matches the classification", func() {
				got, err := tier.Classify(rec.Metric, rec.Family)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Rank, convey.ShouldEqual, rec.TierRank)
				convey.So(got.Name, convey.ShouldEqual, rec.TierName)
			})
		})
	})
}
