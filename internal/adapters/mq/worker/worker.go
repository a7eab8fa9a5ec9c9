// Package worker defines worker contracts for asynchronous tier
// classification and progress updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/HenryVantieghem/tierline/internal/adapters/mq/queue"
	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/pkg/logger"
	"github.com/HenryVantieghem/tierline/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = model.Event

// Classifier assigns a tier to a raw metric.
type Classifier interface {
	Classify(ctx context.Context, metric float64, family tier.Family) (tier.Tier, error)
}

// Updater applies a classified progress record to the store.
// Returns true when the record improved the stored state.
type Updater interface {
	Apply(ctx context.Context, rec model.Record) (bool, error)
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes events and writes progress updates using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker. It processes any remaining
	// events before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing progress events.
type InMemoryWorker struct {
	queue      Queue
	classifier Classifier
	updater    Updater
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, classifier Classifier, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		classifier: classifier,
		updater:    updater,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent classifies a single event and applies the resulting record.
func (w *InMemoryWorker) processEvent(ctx context.Context, event queue.Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	assigned, err := w.classifier.Classify(ctx, event.Metric, event.Family)
	if err != nil {
		metrics.RecordClassificationError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "classification_error")
		w.logger.Error(ctx, "classification failed for event",
			logger.String("eventID", event.EventID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to classify event %s: %w", event.EventID, err)
	}
	metrics.RecordClassification(string(event.Family))

	updated, err := w.updater.Apply(ctx, model.Record{
		UserID:   event.UserID,
		Family:   event.Family,
		Metric:   event.Metric,
		TierRank: assigned.Rank,
		TierName: assigned.Name,
	})
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "progress update failed for event",
			logger.String("eventID", event.EventID),
			logger.Error(err),
		)
		return fmt.Errorf("progress update failed: %w", err)
	}

	if updated {
		metrics.RecordProfileUpdate()
	}
	metrics.RecordEventProcessed()

	return nil
}

// Pool manages multiple workers reading from one queue.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	classifier Classifier
	updater    Updater

	shutdownOnce sync.Once

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, classifier Classifier, updater Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:    make([]*InMemoryWorker, workerCount),
		queue:      queue,
		classifier: classifier,
		updater:    updater,
		logger:     logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			classifier,
			updater,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// signalShutdown tells every worker to stop, at most once.
func (p *Pool) signalShutdown() {
	p.shutdownOnce.Do(func() {
		for _, w := range p.workers {
			close(w.shutdown)
		}
	})
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.signalShutdown()

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue, then waits for the workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Workers exit on their own once the closed queue drains; wait for
	// that before forcing any stragglers to stop.
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	p.signalShutdown()
	metrics.UpdateWorkerActiveCount(0)

	return nil
}
