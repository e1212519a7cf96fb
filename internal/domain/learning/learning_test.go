package learning_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/huddle/internal/adapters/repository"
	"github.com/okian/huddle/internal/domain/learning"
	"github.com/okian/huddle/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const eps = 1e-9

func record(ctx context.Context, e *learning.Engine, userID string, action model.Action, category string, tags ...string) {
	e.Record(ctx, model.Interaction{
		UserID:   userID,
		EventID:  "evt",
		Action:   action,
		Snapshot: model.Snapshot{Category: category, Tags: tags},
	})
}

func TestEngine_Initialize(t *testing.T) {
	Convey("Given a learning engine", t, func() {
		ctx := context.Background()
		engine := learning.NewEngine(repository.NewMemoryStore())

		Convey("When a user is initialized with preferences", func() {
			engine.Initialize(ctx, "u1", []string{"Music", "Art", "Music", ""})

			Convey("Then each distinct preference should weigh 1.0", func() {
				So(engine.Weights(ctx, "u1"), ShouldResemble, map[string]float64{"Music": 1.0, "Art": 1.0})
				So(engine.Profile(ctx, "u1").Preferences, ShouldResemble, []string{"Music", "Art"})
			})

			Convey("And initializing again should replace the profile", func() {
				engine.Initialize(ctx, "u1", []string{"Fitness"})
				So(engine.Weights(ctx, "u1"), ShouldResemble, map[string]float64{"Fitness": 1.0})
			})
		})
	})
}

func TestEngine_Record(t *testing.T) {
	Convey("Given a learning engine", t, func() {
		ctx := context.Background()
		engine := learning.NewEngine(repository.NewMemoryStore())

		Convey("When a join touches unseen terms", func() {
			record(ctx, engine, "u1", model.ActionJoin, "Vegan", "vegan")
			w := engine.Weights(ctx, "u1")

			Convey("Then the base delta and discovery should both apply", func() {
				// 0.5 + 0.3 is not below 0.8, so no category discovery.
				So(w["Vegan"], ShouldAlmostEqual, 0.8, eps)
				// 0.3 + 0.15 = 0.45 is below 0.5, so +0.02.
				So(w["vegan"], ShouldAlmostEqual, 0.47, eps)
			})
		})

		Convey("When a view touches unseen terms", func() {
			record(ctx, engine, "u1", model.ActionView, "Music", "live")
			w := engine.Weights(ctx, "u1")

			Convey("Then discovery should bump both", func() {
				So(w["Music"], ShouldAlmostEqual, 0.65, eps)
				So(w["live"], ShouldAlmostEqual, 0.37, eps)
			})
		})

		Convey("When a skip touches unseen terms", func() {
			record(ctx, engine, "u1", model.ActionSkip, "Hunting", "hunting")
			w := engine.Weights(ctx, "u1")

			Convey("Then only the negative delta should apply", func() {
				So(w["Hunting"], ShouldAlmostEqual, 0.4, eps)
				So(w["hunting"], ShouldAlmostEqual, 0.25, eps)
			})
		})

		Convey("When an explicit preference is joined", func() {
			engine.Initialize(ctx, "u2", []string{"Art"})
			record(ctx, engine, "u2", model.ActionJoin, "Art")

			Convey("Then it should grow from its seeded weight", func() {
				So(engine.Weights(ctx, "u2")["Art"], ShouldAlmostEqual, 1.3, eps)
			})
		})

		Convey("When the same term is joined repeatedly", func() {
			for range 20 {
				record(ctx, engine, "u1", model.ActionJoin, "Fitness", "gym")
			}

			Convey("Then weights should stop at the ceiling", func() {
				w := engine.Weights(ctx, "u1")
				So(w["Fitness"], ShouldEqual, learning.MaxWeight)
				So(w["gym"], ShouldEqual, learning.MaxWeight)
			})
		})

		Convey("When the same term is left repeatedly", func() {
			for range 20 {
				record(ctx, engine, "u1", model.ActionLeave, "Politics", "debate")
			}

			Convey("Then weights should stop at the floor", func() {
				w := engine.Weights(ctx, "u1")
				So(w["Politics"], ShouldEqual, learning.MinWeight)
				So(w["debate"], ShouldEqual, learning.MinWeight)
			})
		})

		Convey("When a mixed sequence is recorded", func() {
			actions := []model.Action{model.ActionJoin, model.ActionLeave, model.ActionSkip, model.ActionView}
			for i := range 200 {
				record(ctx, engine, "u1", actions[i%len(actions)], "Art", "paint", "studio")
				record(ctx, engine, "u1", actions[(i*7)%len(actions)], "Music", "studio")
			}

			Convey("Then every weight should stay in bounds", func() {
				for _, w := range engine.Weights(ctx, "u1") {
					So(w, ShouldBeBetweenOrEqual, learning.MinWeight, learning.MaxWeight)
				}
			})
		})

		Convey("When the same view is repeated", func() {
			prev := map[string]float64{}
			monotonic := true
			for range 40 {
				record(ctx, engine, "u1", model.ActionView, "Science", "lab", "stem")
				for term, w := range engine.Weights(ctx, "u1") {
					if w < prev[term] {
						monotonic = false
					}
					prev[term] = w
				}
			}

			Convey("Then no touched weight should ever decrease", func() {
				So(monotonic, ShouldBeTrue)
				So(prev["Science"], ShouldEqual, learning.MaxWeight)
			})
		})
	})
}

func TestEngine_Stats(t *testing.T) {
	Convey("Given a user with some history", t, func() {
		ctx := context.Background()
		engine := learning.NewEngine(repository.NewMemoryStore())
		engine.Initialize(ctx, "u1", []string{"Cooking"})
		for range 3 {
			record(ctx, engine, "u1", model.ActionJoin, "Vegan", "vegan", "cooking")
		}
		record(ctx, engine, "u1", model.ActionSkip, "Hunting", "hunting")
		record(ctx, engine, "u1", model.ActionView, "Music")

		Convey("When stats are requested", func() {
			st := engine.Stats(ctx, "u1")

			Convey("Then counts should match the log", func() {
				So(st.TotalInteractions, ShouldEqual, 5)
				So(st.JoinCount, ShouldEqual, 3)
				So(st.ViewCount, ShouldEqual, 1)
				So(st.SkipCount, ShouldEqual, 1)
				So(st.LeaveCount, ShouldEqual, 0)
			})

			Convey("And top terms should be above 0.8, strongest first", func() {
				So(st.TopCategories, ShouldHaveLength, 2)
				So(st.TopCategories[0].Term, ShouldEqual, "Vegan")
				So(st.TopCategories[0].Weight, ShouldAlmostEqual, 1.4, eps)
				So(st.TopCategories[1].Term, ShouldEqual, "Cooking")
			})

			Convey("And discovered terms should be above 1.2", func() {
				So(st.DiscoveredPreferences, ShouldResemble, []string{"Vegan"})
			})
		})
	})

	Convey("Given a user with many equal weights", t, func() {
		ctx := context.Background()
		engine := learning.NewEngine(repository.NewMemoryStore())
		engine.Initialize(ctx, "u1", []string{"A", "B", "C", "D", "E", "F", "G"})

		Convey("When stats are requested", func() {
			st := engine.Stats(ctx, "u1")

			Convey("Then only five top terms should be kept, in insertion order", func() {
				terms := make([]string, 0, len(st.TopCategories))
				for _, tw := range st.TopCategories {
					terms = append(terms, tw.Term)
				}
				So(terms, ShouldResemble, []string{"A", "B", "C", "D", "E"})
				So(st.DiscoveredPreferences, ShouldBeEmpty)
			})
		})
	})
}

func TestEngine_Reset(t *testing.T) {
	Convey("Given a user with three interactions", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		seed := func(e *learning.Engine) {
			e.Initialize(ctx, "u1", []string{"Art"})
			for range 3 {
				record(ctx, e, "u1", model.ActionView, "Art", "gallery")
			}
		}

		Convey("When reset removes everything", func() {
			engine := learning.NewEngine(store)
			seed(engine)
			removed := engine.Reset(ctx, "u1")

			Convey("Then weights and stats should be empty", func() {
				So(removed, ShouldEqual, 3)
				So(engine.Weights(ctx, "u1"), ShouldBeEmpty)
				So(engine.Stats(ctx, "u1").TotalInteractions, ShouldEqual, 0)
			})
		})

		Convey("When reset removes only the first record", func() {
			engine := learning.NewEngine(store, learning.WithResetMode(learning.ResetFirst))
			seed(engine)
			removed := engine.Reset(ctx, "u1")

			Convey("Then the profile should be gone but two records should remain", func() {
				So(removed, ShouldEqual, 1)
				So(engine.Weights(ctx, "u1"), ShouldBeEmpty)
				So(engine.Stats(ctx, "u1").TotalInteractions, ShouldEqual, 2)
			})
		})

		Convey("When an unknown reset mode is given", func() {
			engine := learning.NewEngine(store, learning.WithResetMode("some"))
			seed(engine)

			Convey("Then the default should remove everything", func() {
				So(engine.Reset(ctx, "u1"), ShouldEqual, 3)
			})
		})
	})
}

// pausingStore blocks right after an append until release is closed.
type pausingStore struct {
	*repository.MemoryStore
	appended chan struct{}
	release  chan struct{}
}

func (s *pausingStore) AppendInteraction(ctx context.Context, in model.Interaction) { //nolint:gocritic // hugeParam
	s.MemoryStore.AppendInteraction(ctx, in)
	close(s.appended)
	<-s.release
}

func TestEngine_ResetDuringRecord(t *testing.T) {
	Convey("Given a record paused between its append and its weight update", t, func() {
		ctx := context.Background()
		store := &pausingStore{
			MemoryStore: repository.NewMemoryStore(),
			appended:    make(chan struct{}),
			release:     make(chan struct{}),
		}
		engine := learning.NewEngine(store)

		recorded := make(chan struct{})
		go func() {
			defer close(recorded)
			record(ctx, engine, "u", model.ActionJoin, "Vegan", "vegan")
		}()
		<-store.appended

		purged := make(chan int, 1)
		go func() { purged <- engine.Reset(ctx, "u") }()

		var resetEarly bool
		select {
		case <-purged:
			resetEarly = true
		case <-time.After(50 * time.Millisecond):
		}
		close(store.release)
		<-recorded

		Convey("Then the reset should wait and then clear both weights and records", func() {
			So(resetEarly, ShouldBeFalse)
			So(<-purged, ShouldEqual, 1)
			So(engine.Weights(ctx, "u"), ShouldBeEmpty)
			So(engine.Stats(ctx, "u").TotalInteractions, ShouldEqual, 0)
		})
	})
}

func TestEngine_UnknownUser(t *testing.T) {
	Convey("Given a user that never interacted", t, func() {
		ctx := context.Background()
		engine := learning.NewEngine(repository.NewMemoryStore())

		Convey("Then every read should return empty state", func() {
			w := engine.Weights(ctx, "ghost")
			So(w, ShouldNotBeNil)
			So(w, ShouldBeEmpty)

			st := engine.Stats(ctx, "ghost")
			So(st.TotalInteractions, ShouldEqual, 0)
			So(st.TopCategories, ShouldBeEmpty)
			So(st.DiscoveredPreferences, ShouldBeEmpty)

			So(engine.Reset(ctx, "ghost"), ShouldEqual, 0)
		})
	})
}
