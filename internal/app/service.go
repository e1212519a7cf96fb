// Package service wires the categorization, learning and matching engines
// to the event catalog and the asynchronous interaction pipeline. It is the
// single dependency of the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/okian/huddle/internal/adapters/mq/queue"
	"github.com/okian/huddle/internal/adapters/mq/worker"
	"github.com/okian/huddle/internal/adapters/repository"
	"github.com/okian/huddle/internal/domain/categorize"
	"github.com/okian/huddle/internal/domain/dedupe"
	"github.com/okian/huddle/internal/domain/learning"
	"github.com/okian/huddle/internal/domain/matching"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

// submitLockStripes is the number of mutexes interaction ids are hashed onto.
const submitLockStripes = 256

// Submission is an interaction as received from a client.
type Submission struct {
	// ID makes the submission idempotent. A new id is generated when empty.
	ID      string
	UserID  string
	EventID string
	Action  model.Action
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	InteractionID string `json:"interaction_id"`
	Duplicate     bool   `json:"duplicate"`
}

// Service implements the operations exposed by the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       *repository.MemoryStore
	catalog     repository.Catalog
	categorizer *categorize.Engine
	learner     *learning.Engine
	matcher     *matching.Matcher
	deduper     dedupe.Deduper
	queue       *queue.InMemoryQueue
	pool        *worker.Pool

	// Configuration
	queueSize          int
	partitionCount     int
	dedupeSize         int
	maxRecommendations int
	coldStartCount     int
	resetMode          learning.ResetMode
	catalogEvents      []model.Event
	now                func() time.Time
	newID              func() string

	// State
	started bool
	stopped bool

	// submitLocks serialize submissions sharing an interaction id so a
	// retry waits for the first attempt's outcome.
	submitLocks [submitLockStripes]sync.Mutex

	logger logger.Logger
}

// New constructs a Service. Synchronous operations work immediately;
// submitted interactions are applied once Start runs the workers.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:          10000,
		partitionCount:     4,
		dedupeSize:         100000,
		maxRecommendations: 8,
		coldStartCount:     3,
		resetMode:          learning.ResetAll,
		catalogEvents:      repository.SeedEvents(),
		now:                time.Now,
		newID:              uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.resetMode != learning.ResetFirst {
		s.resetMode = learning.ResetAll
	}

	s.store = repository.NewMemoryStore()
	s.catalog = repository.NewMemoryCatalog(
		repository.WithEvents(s.catalogEvents),
		repository.WithClock(s.now),
	)
	s.categorizer = categorize.New()
	s.learner = learning.NewEngine(s.store, learning.WithResetMode(s.resetMode))
	s.matcher = matching.New(
		matching.WithColdStartCount(s.coldStartCount),
		matching.WithMaxResults(s.maxRecommendations),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithPartitions(s.partitionCount),
	)
	s.pool = worker.NewPool(s.queue, s.learner)
	s.catalogEvents = nil

	return s
}

// Start runs one worker per queue partition. Workers outlive ctx and stop
// once Shutdown has closed and drained the queue.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}

	s.pool.Start(context.WithoutCancel(ctx))
	s.started = true
	s.logger.Info(ctx, "recommender service started",
		logger.Int("partitions", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("events", s.catalog.Count(ctx)),
	)
	return nil
}

// Shutdown stops accepting interactions and waits for queued ones to be
// applied. It is safe to call more than once.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true
	s.logger.Info(ctx, "stopping recommender service...")

	if !s.started {
		return s.queue.Close()
	}
	s.started = false
	if err := s.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info(ctx, "recommender service stopped",
		logger.Any("processed", s.pool.Processed()),
	)
	return nil
}

// Categorize scores free text against the taxonomy.
func (s *Service) Categorize(_ context.Context, title, description string, tags []string) categorize.Analysis {
	a := s.categorizer.Analyze(title, description, tags)
	metrics.RecordCategorization(string(a.Source))
	return a
}

// ListEvents returns the catalog in insertion order.
func (s *Service) ListEvents(ctx context.Context) []model.Event {
	return s.catalog.List(ctx)
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, id string) (model.Event, error) {
	e, err := s.catalog.Get(ctx, id)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return e, nil
}

// CreateEvent adds an event to the catalog. An empty category is inferred
// from the title, description and tags.
func (s *Service) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) { //nolint:gocritic // hugeParam
	if strings.TrimSpace(e.Category) == "" {
		a := s.Categorize(ctx, e.Title, e.Description, e.Tags)
		e.Category = a.Category
	}
	created, err := s.catalog.Create(ctx, e)
	switch {
	case errors.Is(err, repository.ErrInvalidEvent):
		return model.Event{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, repository.ErrDuplicateEvent):
		return model.Event{}, fmt.Errorf("%w: %w", ErrConflict, err)
	case err != nil:
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info(ctx, "event created",
		logger.String("event_id", created.ID),
		logger.String("category", created.Category),
	)
	return created, nil
}

// JoinEvent takes a seat at the event and records a join interaction.
func (s *Service) JoinEvent(ctx context.Context, userID, eventID string) (Receipt, error) {
	return s.attend(ctx, userID, eventID, model.ActionJoin)
}

// LeaveEvent frees a seat at the event and records a leave interaction.
func (s *Service) LeaveEvent(ctx context.Context, userID, eventID string) (Receipt, error) {
	return s.attend(ctx, userID, eventID, model.ActionLeave)
}

func (s *Service) attend(ctx context.Context, userID, eventID string, action model.Action) (Receipt, error) {
	if strings.TrimSpace(userID) == "" {
		return Receipt{}, fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}

	apply, undo, blocked := s.catalog.Join, s.catalog.Leave, ErrEventFull
	if action == model.ActionLeave {
		apply, undo, blocked = s.catalog.Leave, s.catalog.Join, ErrNotAttending
	}

	ok, err := apply(ctx, eventID)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", blocked, eventID)
	}

	r, err := s.SubmitInteraction(ctx, Submission{UserID: userID, EventID: eventID, Action: action})
	if err != nil {
		if _, uerr := undo(ctx, eventID); uerr != nil {
			s.logger.Error(ctx, "attendance rollback failed",
				logger.String("event_id", eventID),
				logger.Error(uerr),
			)
		}
		return Receipt{}, err
	}
	return r, nil
}

// InitPreferences replaces the user's profile with the explicit preferences.
func (s *Service) InitPreferences(ctx context.Context, userID string, preferences []string) (model.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	s.learner.Initialize(ctx, userID, preferences)
	return s.learner.Profile(ctx, userID), nil
}

// Profile returns the user's profile, empty for unknown users.
func (s *Service) Profile(ctx context.Context, userID string) model.Profile {
	return s.learner.Profile(ctx, userID)
}

// SubmitInteraction validates and enqueues an interaction. The event
// snapshot is taken now so later catalog edits do not change what is
// learned. Duplicate ids are acknowledged without being applied again; an
// id counts as seen only once its first submission has been queued.
func (s *Service) SubmitInteraction(ctx context.Context, sub Submission) (Receipt, error) {
	switch {
	case strings.TrimSpace(sub.UserID) == "":
		return Receipt{}, fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	case strings.TrimSpace(sub.EventID) == "":
		return Receipt{}, fmt.Errorf("%w: missing event_id", ErrInvalidInput)
	}
	action, ok := model.ParseAction(string(sub.Action))
	if !ok {
		metrics.RecordInteractionRejected("invalid_action")
		return Receipt{}, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, sub.Action)
	}

	id := sub.ID
	if id == "" {
		id = s.newID()
	}

	mu := &s.submitLocks[xxhash.Sum64String(id)%submitLockStripes]
	mu.Lock()
	defer mu.Unlock()

	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordInteractionDuplicate()
		s.logger.Debug(ctx, "duplicate interaction", logger.String("interaction_id", id))
		return Receipt{InteractionID: id, Duplicate: true}, nil
	}

	e, err := s.catalog.Get(ctx, sub.EventID)
	if err != nil {
		s.deduper.Unrecord(ctx, id)
		metrics.RecordInteractionRejected("unknown_event")
		return Receipt{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	in := model.Interaction{
		ID:        id,
		UserID:    sub.UserID,
		EventID:   sub.EventID,
		Action:    action,
		Timestamp: s.now().UTC(),
		Snapshot:  e.Snapshot(),
	}
	if err := s.queue.Enqueue(ctx, in); err != nil {
		s.deduper.Unrecord(ctx, id)
		switch {
		case errors.Is(err, queue.ErrQueueFull):
			metrics.RecordInteractionRejected("backpressure")
			return Receipt{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		case errors.Is(err, queue.ErrQueueClosed):
			metrics.RecordInteractionRejected("stopped")
			return Receipt{}, fmt.Errorf("%w: %w", ErrStopped, err)
		default:
			return Receipt{}, fmt.Errorf("enqueue interaction: %w", err)
		}
	}
	return Receipt{InteractionID: id}, nil
}

// Recommend ranks the catalog for the user.
func (s *Service) Recommend(ctx context.Context, userID string) matching.Ranking {
	start := time.Now()
	p := s.learner.Profile(ctx, userID)
	r := s.matcher.Rank(&p, s.catalog.List(ctx))

	metrics.RecordRankingLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordRecommendationServed()
	if r.ColdStart {
		metrics.RecordColdStart()
	}
	return r
}

// Weights returns the user's learned term weights.
func (s *Service) Weights(ctx context.Context, userID string) map[string]float64 {
	return s.learner.Weights(ctx, userID)
}

// Insights returns interaction counts and the user's strongest terms.
func (s *Service) Insights(ctx context.Context, userID string) learning.Stats {
	return s.learner.Stats(ctx, userID)
}

// ResetModel forgets the user's profile and purges interactions. It returns
// the number of purged interactions.
func (s *Service) ResetModel(ctx context.Context, userID string) int {
	n := s.learner.Reset(ctx, userID)
	metrics.RecordModelReset()
	s.logger.Info(ctx, "model reset",
		logger.String("user_id", userID),
		logger.Int("purged", n),
	)
	return n
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	users := s.store.Users(ctx)
	interactions := s.store.InteractionCount(ctx)
	queueLen := s.queue.Len(ctx)

	metrics.UpdateTrackedUsers(users)
	metrics.UpdateStoredInteractions(interactions)
	metrics.UpdateQueueSize(queueLen)

	return map[string]any{
		"started":         s.started,
		"stopped":         s.stopped,
		"partitions":      s.queue.Partitions(),
		"queueSize":       s.queueSize,
		"queueLength":     queueLen,
		"dedupeSize":      s.dedupeSize,
		"dedupeEntries":   s.deduper.Size(),
		"processed":       s.pool.Processed(),
		"users":           users,
		"interactions":    interactions,
		"events":          s.catalog.Count(ctx),
		"resetMode":       string(s.resetMode),
		"maxRecommended":  s.maxRecommendations,
		"coldStartEvents": s.coldStartCount,
	}
}
