package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/huddle/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When it is created", func() {
			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When an id is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "interaction-1")

			Convey("Then it should be reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a second submission should be reported as seen", func() {
				So(d.SeenAndRecord(ctx, "interaction-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "interaction-1")
			d.Unrecord(ctx, "interaction-1")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "interaction-1"), ShouldBeFalse)
			})

			Convey("And unrecording an unknown id should be a no-op", func() {
				d.Unrecord(ctx, "missing")
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryDeduper_Bounded(t *testing.T) {
	Convey("Given a deduper bounded to three ids", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
		}

		Convey("When a fourth id arrives", func() {
			d.SeenAndRecord(ctx, "id-4")

			Convey("Then the oldest id should be forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "id-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "id-3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "id-1"), ShouldBeFalse)
			})
		})

		Convey("When a middle id is unrecorded before overflow", func() {
			d.Unrecord(ctx, "id-2")
			d.SeenAndRecord(ctx, "id-4")

			Convey("Then nothing else should be evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "id-1"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := range 1000 {
			d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
		}

		Convey("Then every id should be kept", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "id-0"), ShouldBeTrue)
		})
	})
}

func TestInMemoryDeduper_Concurrent(t *testing.T) {
	Convey("Given many goroutines submitting the same ids", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		var fresh atomic.Int64
		var wg sync.WaitGroup

		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)) {
						fresh.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id should be new exactly once", func() {
			So(fresh.Load(), ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
