// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	eventqueue "github.com/HenryVantieghem/tierline/internal/adapters/mq/queue"
	workerpool "github.com/HenryVantieghem/tierline/internal/adapters/mq/worker"
	"github.com/HenryVantieghem/tierline/internal/adapters/repository"
	"github.com/HenryVantieghem/tierline/internal/domain/dedupe"
	"github.com/HenryVantieghem/tierline/internal/domain/display"
	"github.com/HenryVantieghem/tierline/internal/domain/encourage"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/progress"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/internal/domain/types"
	"github.com/HenryVantieghem/tierline/pkg/logger"
	"github.com/HenryVantieghem/tierline/pkg/metrics"
)

// tierClassifier adapts the pure tier tables to the worker.Classifier
// interface.
type tierClassifier struct{}

func (tierClassifier) Classify(_ context.Context, metric float64, family tier.Family) (tier.Tier, error) {
	return tier.Classify(metric, family)
}

// Service implements the API dependencies for the progression system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	aggregator *progress.Aggregator
	encourager *encourage.Generator
	workerPool *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	shardCount     int
	pointsBaseline float64
	starBonus      float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of progress store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithEnergyTuning sets the baseline points and star bonus used when
// normalizing raw energy quantities.
func WithEnergyTuning(pointsBaseline, starBonus float64) Option {
	return func(s *Service) {
		if pointsBaseline > 0 {
			s.pointsBaseline = pointsBaseline
		}
		if starBonus >= 0 {
			s.starBonus = starBonus
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      50000,
		dedupeSize:     100000,
		shardCount:     8,
		pointsBaseline: 50.0,
		starBonus:      0.1,
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting progression service")

	s.store = repository.NewShardStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.aggregator = progress.New(
		progress.WithPointsBaseline(s.pointsBaseline),
		progress.WithStarBonus(s.starBonus),
	)
	s.encourager = encourage.New()

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, tierClassifier{}, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "progression service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("shardCount", s.shardCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping progression service")

	// Shutdown closes the queue and drains remaining events.
	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete",
				logger.Error(err),
			)
		}
	}

	s.started = false
	s.logger.Info(ctx, "progression service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it
// if not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an event for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, e model.Event) bool {
	s.logger.Debug(ctx, "enqueueing event",
		logger.String("eventID", e.EventID),
		logger.String("userID", e.UserID),
		logger.String("family", string(e.Family)),
		logger.Float64("metric", e.Metric),
	)

	ok := s.eventQueue.Enqueue(ctx, e)
	if ok {
		metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	}
	return ok
}

// Classify resolves a metric to its tier and display parameters.
func (s *Service) Classify(_ context.Context, metric float64, family tier.Family) (tier.Tier, display.Params, error) {
	t, err := tier.Classify(metric, family)
	if err != nil {
		metrics.RecordClassificationError()
		return tier.Tier{}, display.Params{}, err
	}
	params, err := display.Resolve(t)
	if err != nil {
		metrics.RecordClassificationError()
		return tier.Tier{}, display.Params{}, err
	}
	metrics.RecordClassification(string(family))
	return t, params, nil
}

// EnergyFill normalizes raw energy quantities to [0,1].
func (s *Service) EnergyFill(pointsEarned, starRating int) float64 {
	return s.aggregator.EnergyFill(pointsEarned, starRating)
}

// HealthRatio normalizes raw boss health quantities to [0,1].
func (s *Service) HealthRatio(currentHealth, totalHealth int) float64 {
	return s.aggregator.HealthRatio(currentHealth, totalHealth)
}

// Profile returns all stored progress records for a user.
func (s *Service) Profile(ctx context.Context, userID string) ([]model.Record, error) {
	return s.store.Profile(ctx, userID)
}

// TopN returns the top N leaderboard entries of one family.
func (s *Service) TopN(ctx context.Context, family tier.Family, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, family, n)
}

// Encourage produces a motivational message for a task. Unknown task types
// fall back to the generator's default pool.
func (s *Service) Encourage(_ context.Context, taskTitle, taskType string) string {
	t, err := encourage.ParseTaskType(taskType)
	if err != nil {
		t = encourage.TypeCreate
	}
	return s.encourager.Generate(taskTitle, t)
}

// GetStats returns a pipeline snapshot for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:        s.started,
		WorkerCount:    s.workerCount,
		QueueCapacity:  s.queueSize,
		DedupeCapacity: s.dedupeSize,
		ShardCount:     s.shardCount,
	}

	if s.started {
		ctx := context.Background()
		stats.QueueLength = s.eventQueue.Len(ctx)
		stats.TotalRecords = s.store.Count(ctx)
		stats.DedupeEntries = s.deduper.Size()

		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateStoreRecordsTotal(stats.TotalRecords)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
