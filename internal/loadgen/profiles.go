package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
)

// profileRecord is the per-family slice of a profile response.
type profileRecord struct {
	Family string  `json:"family"`
	Metric float64 `json:"metric"`
	Tier   struct {
		Rank int    `json:"rank"`
		Name string `json:"name"`
	} `json:"tier"`
}

type profileResponse struct {
	UserID   string          `json:"user_id"`
	Families []profileRecord `json:"families"`
}

// retrieveProfiles fetches the stored profile of every submitted user
// concurrently. Returns the streak record per user id.
func retrieveProfiles(ctx context.Context, config *Config, events []Event, stats *Stats) (map[string]profileRecord, error) {
	log.Printf("retrieving profiles for %d users with %d workers", len(events), config.Workers)

	client := newHTTPClient(config.Timeout)

	var (
		mu       sync.Mutex
		profiles = make(map[string]profileRecord, len(events))

		retrieved int64
		failed    int64
	)

	indexChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				userID := events[index].UserID
				rec, err := retrieveSingleProfile(ctx, client, config.BaseURL, userID)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("failed to get profile for %s: %v", userID, err)
					}
					continue
				}
				mu.Lock()
				profiles[userID] = rec
				mu.Unlock()
				atomic.AddInt64(&retrieved, 1)
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range events {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.ProfilesRetrieved = int(atomic.LoadInt64(&retrieved))
	log.Printf("profile retrieval completed: retrieved=%d failed=%d",
		atomic.LoadInt64(&retrieved), atomic.LoadInt64(&failed))

	return profiles, nil
}

// retrieveSingleProfile fetches one user's profile and extracts the streak
// record.
func retrieveSingleProfile(ctx context.Context, client *HTTPClient, baseURL, userID string) (profileRecord, error) {
	resp, err := client.Get(ctx, baseURL+"/profile/"+userID)
	if err != nil {
		return profileRecord{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return profileRecord{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return profileRecord{}, fmt.Errorf("profile request failed with status %d", resp.StatusCode)
	}

	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return profileRecord{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	for _, rec := range profile.Families {
		if rec.Family == "streak" {
			return rec, nil
		}
	}
	return profileRecord{}, fmt.Errorf("no streak record in profile for %s", userID)
}
