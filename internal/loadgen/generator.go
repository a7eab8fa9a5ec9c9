package loadgen

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/HenryVantieghem/tierline/internal/domain/tier"
	"github.com/HenryVantieghem/tierline/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	eventIDDivisor     = 10000
	streakProfileCount = 6
)

// Streak distribution buckets. Most simulated users sit in the low ranges,
// with the occasional long-running streak.
const (
	casualMin      = 0.0
	casualRange    = 3.0
	regularMin     = 3.0
	regularRange   = 4.0
	dedicatedMin   = 7.0
	dedicatedRange = 7.0
	committedMin   = 14.0
	committedRange = 16.0
	veteranMin     = 30.0
	veteranRange   = 70.0
	legendaryMin   = 100.0
	legendaryRange = 265.0
)

// Profile weights out of streakProfileCount (uniform buckets).
const (
	caseCasual    = 0
	caseRegular   = 1
	caseDedicated = 2
	caseCommitted = 3
	caseVeteran   = 4
	caseLegendary = 5
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateEvents creates the specified number of streak events with unique
// user IDs.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]Event, error) {
	logger.Get().Info(ctx, "generating streak events with unique user IDs", logger.Int("numEvents", config.NumEvents))

	events := make([]Event, config.NumEvents)
	for i := range events {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		events[i] = generateSingleEvent(i, uuid.New().String())
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated events successfully", logger.Int("count", len(events)))

	return events, nil
}

// generateSingleEvent creates a single streak event for one user.
func generateSingleEvent(index int, userID string) Event {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(eventIDDivisor))
	eventID := "event_" + strconv.FormatInt(int64(index), 10) + "_" + strconv.FormatInt(time.Now().Unix(), 10) + "_" + strconv.FormatInt(randNum.Int64(), 10)

	return Event{
		EventID: eventID,
		UserID:  userID,
		Family:  string(tier.FamilyStreak),
		Metric:  generateStreakMetric(),
		TS:      time.Now().UTC().Format(time.RFC3339),
	}
}

// generateStreakMetric draws a streak length from the profile buckets.
func generateStreakMetric() float64 {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(streakProfileCount))
	switch randNum.Int64() {
	case caseCasual:
		return casualMin + getRandomFloat()*casualRange
	case caseRegular:
		return regularMin + getRandomFloat()*regularRange
	case caseDedicated:
		return dedicatedMin + getRandomFloat()*dedicatedRange
	case caseCommitted:
		return committedMin + getRandomFloat()*committedRange
	case caseVeteran:
		return veteranMin + getRandomFloat()*veteranRange
	case caseLegendary:
		return legendaryMin + getRandomFloat()*legendaryRange
	default:
		return casualMin + getRandomFloat()*casualRange
	}
}
