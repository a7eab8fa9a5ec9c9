package loadgen

import "time"

// Config holds configuration for a load generation run.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumEvents int           // Number of events to generate
	TopN      int           // Number of top entries to fetch
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for run output
	Verbose   bool          // Enable verbose logging
}

// Event represents a progression event to be submitted.
type Event struct {
	EventID string  `json:"event_id"`
	UserID  string  `json:"user_id"`
	Family  string  `json:"family"`
	Metric  float64 `json:"metric"`
	TS      string  `json:"ts"`
}

// Entry represents a leaderboard entry.
type Entry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	Metric float64 `json:"metric"`
	Tier   string  `json:"tier"`
}

// AckResponse represents the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	EventsGenerated    int
	EventsSubmitted    int
	EventsSuccessful   int
	EventsDuplicate    int
	EventsFailed       int
	ProfilesRetrieved  int
	TiersVerified      int
	TierMismatches     int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
