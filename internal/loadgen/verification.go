package loadgen

import (
	"fmt"
	"log"

	"github.com/fatih/color"

	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// verifyResults checks stored tiers against local classification and the
// leaderboard against submitted metrics.
func verifyResults(config *Config, events []Event, profiles map[string]profileRecord, leaderboard []Entry, stats *Stats) error {
	log.Println("verifying results")

	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to verify")
	}

	verifyTiers(config, events, profiles, stats)

	if len(leaderboard) > 0 {
		if err := verifyLeaderboardOrder(leaderboard); err != nil {
			color.Yellow("leaderboard consistency warning: %v", err)
		} else {
			color.Green("leaderboard ordering verified (%d entries)", len(leaderboard))
		}
	}

	displayLeaders(leaderboard)
	return nil
}

// verifyTiers re-classifies each submitted metric locally and compares it to
// the tier the service stored.
func verifyTiers(config *Config, events []Event, profiles map[string]profileRecord, stats *Stats) {
	verified := 0
	mismatched := 0

	for _, event := range events {
		rec, ok := profiles[event.UserID]
		if !ok {
			continue
		}
		expected, err := tier.Classify(event.Metric, tier.FamilyStreak)
		if err != nil {
			continue
		}
		if rec.Tier.Name == expected.Name && rec.Tier.Rank == expected.Rank {
			verified++
			continue
		}
		mismatched++
		if config.Verbose {
			color.Red("tier mismatch for %s: metric %.2f expected %s got %s",
				event.UserID, event.Metric, expected.Name, rec.Tier.Name)
		}
	}

	stats.TiersVerified = verified
	stats.TierMismatches = mismatched

	if mismatched == 0 {
		color.Green("all %d stored tiers match local classification", verified)
	} else {
		color.Red("%d of %d stored tiers diverge from local classification", mismatched, verified+mismatched)
	}
}

// verifyLeaderboardOrder checks the leaderboard is sorted by metric.
func verifyLeaderboardOrder(leaderboard []Entry) error {
	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Metric > leaderboard[i-1].Metric {
			return fmt.Errorf("entry %d has a higher metric than entry %d", i, i-1)
		}
	}
	return nil
}

// displayLeaders prints the top leaderboard entries.
func displayLeaders(leaderboard []Entry) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}
	if topN == 0 {
		return
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("top %d streak holders:\n", topN)
	for i := 0; i < topN; i++ {
		entry := leaderboard[i]
		fmt.Printf("   %d. %s  streak=%.1f  tier=%s\n", entry.Rank, entry.UserID, entry.Metric, entry.Tier)
	}
}
