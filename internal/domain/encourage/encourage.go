// Package encourage builds fallback guidance sentences when no precomputed
// AI text is available for a task. Output is opener + hint + closer, each
// drawn uniformly at random; repeats across calls are acceptable.
package encourage

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// TaskType categorizes what kind of work a task is.
type TaskType string

// Task types.
const (
	TypeCreate      TaskType = "create"
	TypeCommunicate TaskType = "communicate"
	TypeConsume     TaskType = "consume"
	TypeCoordinate  TaskType = "coordinate"
)

// ParseTaskType maps a string to a TaskType.
func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCreate:
		return TypeCreate, nil
	case TypeCommunicate:
		return TypeCommunicate, nil
	case TypeConsume:
		return TypeConsume, nil
	case TypeCoordinate:
		return TypeCoordinate, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownTaskType)
	}
}

// openers lead the sentence and reference the task title.
var openers = []string{
	"Time to tackle %q.",
	"Let's get %q off your plate.",
	"%q is up next.",
	"One focused push on %q.",
}

// hints are per-type nudges about how to start.
var hints = map[TaskType][]string{
	TypeCreate: {
		"Start with the roughest possible draft.",
		"Block out the shape before polishing anything.",
		"Ten minutes of making beats an hour of planning.",
	},
	TypeCommunicate: {
		"Lead with the one thing you need from them.",
		"Short and clear beats long and careful.",
		"Write the last sentence first.",
	},
	TypeConsume: {
		"Skim the whole thing once before going deep.",
		"Capture one takeaway per section.",
		"Decide up front what you want out of it.",
	},
	TypeCoordinate: {
		"List who is blocked on whom first.",
		"Pin down the next concrete step for each person.",
		"A quick sync now saves three follow-ups later.",
	},
}

// closers end the sentence on a push.
var closers = []string{
	"You've got this.",
	"Momentum loves a small start.",
	"Future you says thanks.",
	"Every streak starts here.",
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed makes fragment selection deterministic for tests.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // content selection, not security
	}
}

// WithRand injects a random source directly.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// Generator produces fallback encouragement sentences.
// Safe for concurrent use; the random source is guarded by a mutex.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // content selection, not security
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns one sentence for the given task.
// Unknown task types fall back to the create hints rather than erroring;
// a fallback generator that itself fails defeats its purpose.
func (g *Generator) Generate(taskTitle string, taskType TaskType) string {
	pool, ok := hints[taskType]
	if !ok {
		pool = hints[TypeCreate]
	}

	g.mu.Lock()
	openerIdx := g.rng.Intn(len(openers))
	hintIdx := g.rng.Intn(len(pool))
	closerIdx := g.rng.Intn(len(closers))
	g.mu.Unlock()

	opener := fmt.Sprintf(openers[openerIdx], taskTitle)
	return opener + " " + pool[hintIdx] + " " + closers[closerIdx]
}
