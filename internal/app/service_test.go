package service_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/taxonomy"
	"github.com/okian/huddle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// eventually polls cond until it holds or a few seconds pass.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func stop(svc *service.Service) {
	_ = svc.Shutdown(context.Background())
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()
		defer stop(svc)

		Convey("Then it should be seeded with the reference events", func() {
			So(svc.ListEvents(ctx), ShouldHaveLength, 10)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.GetStats()["partitions"], ShouldEqual, 4)
			})
		})

		Convey("When shutting down", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Shutdown(ctx), ShouldBeNil)

			Convey("Then a second shutdown should be a no-op", func() {
				So(svc.Shutdown(ctx), ShouldBeNil)
			})

			Convey("And it should not start again", func() {
				So(svc.Start(ctx), ShouldEqual, service.ErrStopped)
			})

			Convey("And submissions should be refused", func() {
				_, err := svc.SubmitInteraction(ctx, service.Submission{UserID: "u1", EventID: "1", Action: model.ActionView})
				So(errors.Is(err, service.ErrStopped), ShouldBeTrue)
			})
		})

		Convey("When the context given to Start is cancelled", func() {
			startCtx, cancel := context.WithCancel(ctx)
			So(svc.Start(startCtx), ShouldBeNil)
			cancel()
			for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
				_, err := svc.SubmitInteraction(ctx, service.Submission{ID: id, UserID: "u1", EventID: "1", Action: model.ActionView})
				So(err, ShouldBeNil)
			}

			Convey("Then shutdown should still drain every queued interaction", func() {
				So(svc.Shutdown(ctx), ShouldBeNil)
				So(svc.GetStats()["processed"], ShouldEqual, int64(5))
				So(svc.Insights(ctx, "u1").ViewCount, ShouldEqual, 5)
			})
		})

		Convey("When shutting down a service that never started", func() {
			So(svc.Shutdown(ctx), ShouldBeNil)

			Convey("Then submissions should be refused", func() {
				_, err := svc.SubmitInteraction(ctx, service.Submission{UserID: "u1", EventID: "1", Action: model.ActionView})
				So(errors.Is(err, service.ErrStopped), ShouldBeTrue)
			})
		})
	})
}

func TestService_Events(t *testing.T) {
	Convey("Given a service with the reference catalog", t, func() {
		ctx := context.Background()
		svc := service.New()
		defer stop(svc)

		Convey("When getting a known event", func() {
			e, err := svc.GetEvent(ctx, "4")

			Convey("Then it should be returned", func() {
				So(err, ShouldBeNil)
				So(e.Category, ShouldEqual, taxonomy.Hunting)
			})
		})

		Convey("When getting an unknown event", func() {
			_, err := svc.GetEvent(ctx, "nope")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When creating an event without a category", func() {
			e, err := svc.CreateEvent(ctx, model.Event{Title: "Hackathon", Capacity: 30})

			Convey("Then the category should be inferred", func() {
				So(err, ShouldBeNil)
				So(e.Category, ShouldEqual, taxonomy.Technology)
				So(e.ID, ShouldNotBeEmpty)
				So(svc.ListEvents(ctx), ShouldHaveLength, 11)
			})
		})

		Convey("When creating an event with a category", func() {
			e, err := svc.CreateEvent(ctx, model.Event{Title: "Hackathon", Category: taxonomy.Education, Capacity: 30})

			Convey("Then the category should be kept", func() {
				So(err, ShouldBeNil)
				So(e.Category, ShouldEqual, taxonomy.Education)
			})
		})

		Convey("When creating an invalid event", func() {
			_, err := svc.CreateEvent(ctx, model.Event{Title: "No seats", Capacity: 0})

			Convey("Then ErrInvalidInput should be returned", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When creating an event with a taken id", func() {
			_, err := svc.CreateEvent(ctx, model.Event{ID: "1", Title: "Again", Capacity: 3})

			Convey("Then ErrConflict should be returned", func() {
				So(errors.Is(err, service.ErrConflict), ShouldBeTrue)
			})
		})
	})
}

func TestService_Attendance(t *testing.T) {
	Convey("Given a service with a one-seat event", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithCatalogEvents([]model.Event{
			{ID: "solo", Title: "Tasting", Category: taxonomy.Cooking, Capacity: 1},
		}))
		defer stop(svc)

		Convey("When the first user joins", func() {
			r, err := svc.JoinEvent(ctx, "u1", "solo")

			Convey("Then the seat should be taken and a join recorded", func() {
				So(err, ShouldBeNil)
				So(r.InteractionID, ShouldNotBeEmpty)
				e, _ := svc.GetEvent(ctx, "solo")
				So(e.Attendees, ShouldEqual, 1)
				So(svc.GetStats()["queueLength"], ShouldEqual, 1)
			})

			Convey("And a second user should find it full", func() {
				_, err := svc.JoinEvent(ctx, "u2", "solo")
				So(errors.Is(err, service.ErrEventFull), ShouldBeTrue)
				So(svc.GetStats()["queueLength"], ShouldEqual, 1)
			})

			Convey("And leaving should free the seat", func() {
				_, err := svc.LeaveEvent(ctx, "u1", "solo")
				So(err, ShouldBeNil)
				e, _ := svc.GetEvent(ctx, "solo")
				So(e.Attendees, ShouldEqual, 0)
			})
		})

		Convey("When leaving an event nobody attends", func() {
			_, err := svc.LeaveEvent(ctx, "u1", "solo")

			Convey("Then ErrNotAttending should be returned", func() {
				So(errors.Is(err, service.ErrNotAttending), ShouldBeTrue)
			})
		})

		Convey("When joining an unknown event", func() {
			_, err := svc.JoinEvent(ctx, "u1", "missing")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the user id is missing", func() {
			_, err := svc.JoinEvent(ctx, " ", "solo")

			Convey("Then ErrInvalidInput should be returned", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the interaction cannot be queued", func() {
			So(svc.Shutdown(ctx), ShouldBeNil)
			_, err := svc.JoinEvent(ctx, "u1", "solo")

			Convey("Then the seat should be given back", func() {
				So(errors.Is(err, service.ErrStopped), ShouldBeTrue)
				e, _ := svc.GetEvent(ctx, "solo")
				So(e.Attendees, ShouldEqual, 0)
			})
		})
	})
}

func TestService_SubmitInteraction(t *testing.T) {
	Convey("Given a service that has not started its workers", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithQueueSize(1),
			service.WithPartitionCount(1),
			service.WithIDGenerator(func() string { return "generated" }),
		)
		defer stop(svc)

		Convey("When the action is unknown", func() {
			_, err := svc.SubmitInteraction(ctx, service.Submission{UserID: "u1", EventID: "1", Action: "like"})

			Convey("Then ErrInvalidInput should be returned", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When fields are missing", func() {
			_, errUser := svc.SubmitInteraction(ctx, service.Submission{EventID: "1", Action: model.ActionView})
			_, errEvent := svc.SubmitInteraction(ctx, service.Submission{UserID: "u1", Action: model.ActionView})

			Convey("Then ErrInvalidInput should be returned", func() {
				So(errors.Is(errUser, service.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(errEvent, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the event is unknown", func() {
			_, err := svc.SubmitInteraction(ctx, service.Submission{ID: "i1", UserID: "u1", EventID: "x", Action: model.ActionView})

			Convey("Then ErrNotFound should be returned and the id released", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["dedupeEntries"], ShouldEqual, 0)
			})
		})

		Convey("When no id is given", func() {
			r, err := svc.SubmitInteraction(ctx, service.Submission{UserID: "u1", EventID: "1", Action: "VIEW"})

			Convey("Then one should be generated", func() {
				So(err, ShouldBeNil)
				So(r.InteractionID, ShouldEqual, "generated")
				So(r.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When the same id is submitted twice", func() {
			_, err := svc.SubmitInteraction(ctx, service.Submission{ID: "i1", UserID: "u1", EventID: "1", Action: model.ActionView})
			So(err, ShouldBeNil)
			r, err := svc.SubmitInteraction(ctx, service.Submission{ID: "i1", UserID: "u1", EventID: "1", Action: model.ActionView})

			Convey("Then the second should be acknowledged as a duplicate", func() {
				So(err, ShouldBeNil)
				So(r.Duplicate, ShouldBeTrue)
				So(svc.GetStats()["queueLength"], ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			_, err := svc.SubmitInteraction(ctx, service.Submission{ID: "i1", UserID: "u1", EventID: "1", Action: model.ActionView})
			So(err, ShouldBeNil)
			_, err = svc.SubmitInteraction(ctx, service.Submission{ID: "i2", UserID: "u1", EventID: "1", Action: model.ActionView})

			Convey("Then ErrBackpressure should be returned", func() {
				So(errors.Is(err, service.ErrBackpressure), ShouldBeTrue)
			})

			Convey("And a retry should not be treated as a duplicate", func() {
				_, err = svc.SubmitInteraction(ctx, service.Submission{ID: "i2", UserID: "u1", EventID: "1", Action: model.ActionView})
				So(errors.Is(err, service.ErrBackpressure), ShouldBeTrue)
			})
		})
	})
}

func TestService_SubmitRetryDuringFirstAttempt(t *testing.T) {
	Convey("Given a full queue and a first submission paused before it is queued", t, func() {
		ctx := context.Background()
		var gate atomic.Bool
		entered := make(chan struct{})
		release := make(chan struct{})
		svc := service.New(
			service.WithQueueSize(1),
			service.WithPartitionCount(1),
			service.WithClock(func() time.Time {
				if gate.CompareAndSwap(true, false) {
					close(entered)
					<-release
				}
				return time.Now()
			}),
		)
		defer stop(svc)

		sub := service.Submission{ID: "i1", UserID: "u1", EventID: "1", Action: model.ActionView}
		_, err := svc.SubmitInteraction(ctx, service.Submission{ID: "i0", UserID: "u1", EventID: "1", Action: model.ActionView})
		So(err, ShouldBeNil)
		gate.Store(true)

		first := make(chan error, 1)
		go func() {
			_, err := svc.SubmitInteraction(ctx, sub)
			first <- err
		}()
		<-entered

		type result struct {
			receipt service.Receipt
			err     error
		}
		retry := make(chan result, 1)
		go func() {
			r, err := svc.SubmitInteraction(ctx, sub)
			retry <- result{receipt: r, err: err}
		}()

		var answeredEarly bool
		select {
		case <-retry:
			answeredEarly = true
		case <-time.After(50 * time.Millisecond):
		}
		close(release)

		Convey("Then the retry should wait and report the real outcome", func() {
			So(answeredEarly, ShouldBeFalse)
			So(errors.Is(<-first, service.ErrBackpressure), ShouldBeTrue)
			res := <-retry
			So(res.receipt.Duplicate, ShouldBeFalse)
			So(errors.Is(res.err, service.ErrBackpressure), ShouldBeTrue)
		})
	})
}

func TestService_Learning(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		svc := service.New()
		defer stop(svc)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When a user without preferences asks for recommendations", func() {
			r := svc.Recommend(ctx, "newcomer")

			Convey("Then the first three events should be returned unscored", func() {
				So(r.ColdStart, ShouldBeTrue)
				So(r.Results, ShouldHaveLength, 3)
				So(r.Results[0].Event.ID, ShouldEqual, "1")
				So(r.Results[2].Event.ID, ShouldEqual, "3")
			})
		})

		Convey("When a user sets explicit preferences", func() {
			p, err := svc.InitPreferences(ctx, "u1", []string{taxonomy.Vegan})
			So(err, ShouldBeNil)
			So(p.Preferences, ShouldResemble, []string{taxonomy.Vegan})

			Convey("Then matching events should be recommended", func() {
				r := svc.Recommend(ctx, "u1")
				So(r.ColdStart, ShouldBeFalse)
				So(r.Results, ShouldNotBeEmpty)
				So(r.Results[0].Event.ID, ShouldEqual, "2")
			})
		})

		Convey("When the preference list is for an empty user id", func() {
			_, err := svc.InitPreferences(ctx, "", []string{taxonomy.Vegan})

			Convey("Then ErrInvalidInput should be returned", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When a user joins an event", func() {
			_, err := svc.SubmitInteraction(ctx, service.Submission{UserID: "u2", EventID: "2", Action: model.ActionJoin})
			So(err, ShouldBeNil)

			Convey("Then the worker should learn from the snapshot", func() {
				So(eventually(func() bool { return svc.Insights(ctx, "u2").JoinCount == 1 }), ShouldBeTrue)
				So(svc.Weights(ctx, "u2")[taxonomy.Vegan], ShouldAlmostEqual, 0.8, 1e-9)
			})

			Convey("And a reset should forget it", func() {
				So(eventually(func() bool { return svc.Insights(ctx, "u2").TotalInteractions == 1 }), ShouldBeTrue)
				So(svc.ResetModel(ctx, "u2"), ShouldEqual, 1)
				So(svc.Weights(ctx, "u2"), ShouldBeEmpty)
				So(svc.Insights(ctx, "u2").TotalInteractions, ShouldEqual, 0)
			})
		})
	})
}

func TestService_ResetFirst(t *testing.T) {
	Convey("Given a service that purges only the oldest interaction", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		svc := service.New(service.WithResetMode("first"))
		defer stop(svc)
		So(svc.Start(ctx), ShouldBeNil)

		for _, a := range []model.Action{model.ActionView, model.ActionSkip} {
			_, err := svc.SubmitInteraction(ctx, service.Submission{UserID: "u1", EventID: "1", Action: a})
			So(err, ShouldBeNil)
		}
		So(eventually(func() bool { return svc.Insights(ctx, "u1").TotalInteractions == 2 }), ShouldBeTrue)

		Convey("When the model is reset", func() {
			n := svc.ResetModel(ctx, "u1")

			Convey("Then one record should remain", func() {
				So(n, ShouldEqual, 1)
				st := svc.Insights(ctx, "u1")
				So(st.TotalInteractions, ShouldEqual, 1)
				So(st.SkipCount, ShouldEqual, 1)
				So(svc.GetStats()["resetMode"], ShouldEqual, "first")
			})
		})
	})
}

func TestService_Concurrency(t *testing.T) {
	Convey("Given a running service with several partitions", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		svc := service.New(service.WithPartitionCount(4), service.WithQueueSize(4000))
		defer stop(svc)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When many users submit interactions concurrently", func() {
			const users, perUser = 20, 10
			done := make(chan struct{}, users)
			for u := range users {
				go func(u int) {
					defer func() { done <- struct{}{} }()
					for range perUser {
						_, _ = svc.SubmitInteraction(ctx, service.Submission{
							UserID:  "user-" + string(rune('a'+u)),
							EventID: "5",
							Action:  model.ActionView,
						})
					}
				}(u)
			}
			for range users {
				<-done
			}

			Convey("Then every interaction should be applied exactly once", func() {
				So(eventually(func() bool { return svc.GetStats()["interactions"] == users*perUser }), ShouldBeTrue)
				So(svc.GetStats()["users"], ShouldEqual, users)
				So(svc.Insights(ctx, "user-a").ViewCount, ShouldEqual, perUser)
			})

			Convey("And shutdown should drain the queue", func() {
				So(svc.Shutdown(ctx), ShouldBeNil)
				So(svc.GetStats()["queueLength"], ShouldEqual, 0)
				So(svc.GetStats()["processed"], ShouldEqual, int64(users*perUser))
			})
		})
	})
}
