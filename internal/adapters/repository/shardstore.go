package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HenryVantieghem/tierline/internal/domain/model"
	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Records are partitioned by user id across shards to keep write
// contention low; family leaderboards are assembled on read by merging
// shards. Ordering: metric DESC, then user id ASC (deterministic).

// defaultShardCount is used when no option overrides it.
const defaultShardCount = 8

// shard holds the records for a slice of the user population.
type shard struct {
	mu      sync.RWMutex
	records map[string]map[tier.Family]model.Record // userID -> family -> record
}

// ShardStore implements Store over a fixed set of shards.
type ShardStore struct {
	shards []*shard
	count  atomic.Int64 // total (user, family) records
}

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore)

// WithShardCount sets the number of shards.
func WithShardCount(n int) Option {
	return func(s *ShardStore) {
		if n > 0 {
			s.shards = make([]*shard, n)
		}
	}
}

// NewShardStore creates a new sharded progress store.
func NewShardStore(opts ...Option) *ShardStore {
	s := &ShardStore{
		shards: make([]*shard, defaultShardCount),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]map[tier.Family]model.Record)}
	}

	metrics.UpdateStoreShardCount(len(s.shards))
	metrics.UpdateStoreRecordsTotal(0)

	return s
}

// shardFor hashes a user id onto its shard.
func (s *ShardStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Apply records rec if its metric beats the stored one.
func (s *ShardStore) Apply(_ context.Context, rec model.Record) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(rec.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	families, ok := sh.records[rec.UserID]
	if !ok {
		families = make(map[tier.Family]model.Record)
		sh.records[rec.UserID] = families
	}

	existing, ok := families[rec.Family]
	if ok && existing.Metric >= rec.Metric {
		return false, nil
	}
	families[rec.Family] = rec
	if !ok {
		metrics.UpdateStoreRecordsTotal(int(s.count.Add(1)))
	}
	return true, nil
}

// Get returns the stored record for one user and family.
func (s *ShardStore) Get(_ context.Context, userID string, family tier.Family) (model.Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.records[userID][family]
	if !ok {
		return model.Record{}, ErrNotFound
	}
	return rec, nil
}

// Profile returns all stored records for a user, ordered by family.
func (s *ShardStore) Profile(_ context.Context, userID string) ([]model.Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	families, ok := sh.records[userID]
	if !ok || len(families) == 0 {
		return nil, ErrNotFound
	}

	out := make([]model.Record, 0, len(families))
	for _, family := range tier.Families() {
		if rec, ok := families[family]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// TopN returns the top-N entries of one family.
func (s *ShardStore) TopN(_ context.Context, family tier.Family, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	var entries []Entry
	for _, sh := range s.shards {
		sh.mu.RLock()
		for userID, families := range sh.records {
			if rec, ok := families[family]; ok {
				entries = append(entries, Entry{
					UserID: userID,
					Metric: rec.Metric,
					Tier:   rec.TierName,
				})
			}
		}
		sh.mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Metric != entries[j].Metric {
			return entries[i].Metric > entries[j].Metric
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	// Competition ranking: equal metrics share a rank.
	for i := range entries {
		if i > 0 && entries[i].Metric == entries[i-1].Metric {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Count returns the number of (user, family) records tracked.
func (s *ShardStore) Count(_ context.Context) int {
	return int(s.count.Load())
}
