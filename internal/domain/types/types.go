// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry within one metric family
type Entry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	Metric float64 `json:"metric"`
	Tier   string  `json:"tier"`
}

// Stats is a point-in-time snapshot of the event pipeline.
// Queue length, dedupe entries and total records are zero until the
// service has started.
type Stats struct {
	Started        bool  `json:"started"`
	WorkerCount    int   `json:"worker_count"`
	QueueCapacity  int   `json:"queue_capacity"`
	QueueLength    int   `json:"queue_length"`
	DedupeCapacity int   `json:"dedupe_capacity"`
	DedupeEntries  int64 `json:"dedupe_entries"`
	ShardCount     int   `json:"shard_count"`
	TotalRecords   int   `json:"total_records"`
}
