package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/HenryVantieghem/tierline/internal/app"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func event(id, userID string, family tier.Family, metric float64) model.Event {
	return model.Event{
		EventID: id,
		UserID:  userID,
		Family:  family,
		Metric:  metric,
		TS:      time.Now().UTC(),
	}
}

func TestServicePipeline(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
			service.WithShardCount(4),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a streak event flows through the pipeline", func() {
			So(svc.Enqueue(ctx, event("evt-1", "alice", tier.FamilyStreak, 14)), ShouldBeTrue)

			Convey("Then the profile eventually shows the gold tier", func() {
				ok := waitFor(5*time.Second, func() bool {
					recs, err := svc.Profile(ctx, "alice")
					return err == nil && len(recs) == 1
				})
				So(ok, ShouldBeTrue)

				recs, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(recs[0].Family, ShouldEqual, tier.FamilyStreak)
				So(recs[0].Metric, ShouldEqual, 14)
				So(recs[0].TierName, ShouldEqual, "gold")
				So(recs[0].TierRank, ShouldEqual, 4)
			})
		})

		Convey("When several users report streaks", func() {
			streaks := map[string]float64{
				"alice": 14,
				"bob":   30,
				"carol": 3,
			}
			i := 0
			for user, metric := range streaks {
				i++
				So(svc.Enqueue(ctx, event(fmt.Sprintf("evt-%d", i), user, tier.FamilyStreak, metric)), ShouldBeTrue)
			}

			Convey("Then the leaderboard ranks them by streak", func() {
				ok := waitFor(5*time.Second, func() bool {
					entries, err := svc.TopN(ctx, tier.FamilyStreak, 10)
					return err == nil && len(entries) == len(streaks)
				})
				So(ok, ShouldBeTrue)

				entries, err := svc.TopN(ctx, tier.FamilyStreak, 10)
				So(err, ShouldBeNil)
				So(entries[0].UserID, ShouldEqual, "bob")
				So(entries[0].Tier, ShouldEqual, "diamond")
				So(entries[1].UserID, ShouldEqual, "alice")
				So(entries[2].UserID, ShouldEqual, "carol")
			})
		})

		Convey("When a user regresses to a lower metric", func() {
			So(svc.Enqueue(ctx, event("evt-hi", "dave", tier.FamilyLevel, 21)), ShouldBeTrue)
			ok := waitFor(5*time.Second, func() bool {
				recs, err := svc.Profile(ctx, "dave")
				return err == nil && len(recs) == 1
			})
			So(ok, ShouldBeTrue)

			So(svc.Enqueue(ctx, event("evt-lo", "dave", tier.FamilyLevel, 5)), ShouldBeTrue)

			Convey("Then the best metric is kept", func() {
				// Give the lower event time to be processed and ignored.
				time.Sleep(300 * time.Millisecond)

				recs, err := svc.Profile(ctx, "dave")
				So(err, ShouldBeNil)
				So(recs[0].Metric, ShouldEqual, 21)
				So(recs[0].TierName, ShouldEqual, "stellarEmpire")
			})
		})

		Convey("When events with invalid metrics are enqueued directly", func() {
			So(svc.Enqueue(ctx, event("evt-bad", "erin", tier.FamilyStreak, -5)), ShouldBeTrue)
			So(svc.Enqueue(ctx, event("evt-good", "erin", tier.FamilyStreak, 7)), ShouldBeTrue)

			Convey("Then the invalid event is dropped and the valid one lands", func() {
				ok := waitFor(5*time.Second, func() bool {
					recs, err := svc.Profile(ctx, "erin")
					return err == nil && len(recs) == 1
				})
				So(ok, ShouldBeTrue)

				recs, err := svc.Profile(ctx, "erin")
				So(err, ShouldBeNil)
				So(recs[0].Metric, ShouldEqual, 7)
				So(recs[0].TierName, ShouldEqual, "silver")
			})
		})
	})
}

func TestServiceEnqueueAfterStop(t *testing.T) {
	Convey("Given a service that was stopped", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(10),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		svc.Stop()

		Convey("When enqueueing after shutdown", func() {
			ok := svc.Enqueue(ctx, event("evt-late", "alice", tier.FamilyStreak, 1))

			Convey("Then the event is rejected", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestServiceThroughput(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(10000),
			service.WithDedupeSize(5000),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When many events are enqueued", func() {
			const users = 100
			for i := 0; i < users; i++ {
				e := event(
					fmt.Sprintf("evt-%d", i),
					fmt.Sprintf("user-%03d", i),
					tier.FamilyCombo,
					float64(i%10),
				)
				So(svc.Enqueue(ctx, e), ShouldBeTrue)
			}

			Convey("Then all users end up in the store", func() {
				ok := waitFor(10*time.Second, func() bool {
					entries, err := svc.TopN(ctx, tier.FamilyCombo, users)
					return err == nil && len(entries) == users
				})
				So(ok, ShouldBeTrue)

				stats := svc.GetStats()
				So(stats.TotalRecords, ShouldEqual, users)
			})
		})
	})
}
