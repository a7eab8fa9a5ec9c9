package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/HenryVantieghem/tierline/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a fresh ID", func() {
			seen := d.SeenAndRecord(ctx, "event-1")

			Convey("Then it is newly recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording distinct IDs", func() {
			for i := 0; i < 10; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i)), ShouldBeFalse)
			}

			Convey("Then all are tracked", func() {
				So(d.Size(), ShouldEqual, 10)
			})
		})
	})
}

func TestUnrecord(t *testing.T) {
	Convey("Given a deduper with a recorded ID", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()
		So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)

		Convey("When unrecording it", func() {
			d.Unrecord(ctx, "event-1")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 IDs", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When recording past the bound", func() {
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i)), ShouldBeFalse)
			}

			Convey("Then the size stays at the bound", func() {
				So(d.Size(), ShouldEqual, 3)
			})

			Convey("And the oldest IDs were evicted first", func() {
				// event-0 and event-1 were evicted, so they record fresh.
				So(d.SeenAndRecord(ctx, "event-0"), ShouldBeFalse)
				// event-4 is still live.
				So(d.SeenAndRecord(ctx, "event-4"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When recording many IDs", func() {
			for i := 0; i < 1000; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i)), ShouldBeFalse)
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
			})
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given a deduper under concurrent use", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When many goroutines record the same ID", func() {
			const goroutines = 32
			var wg sync.WaitGroup
			fresh := make(chan bool, goroutines)

			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "contended") {
						fresh <- true
					}
				}()
			}
			wg.Wait()
			close(fresh)

			Convey("Then exactly one wins", func() {
				So(len(fresh), ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
