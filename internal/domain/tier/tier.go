// Package tier implements the progression tier tables and classifier.
//
// Each metric family owns a static, ordered table of tiers. Ranges are
// half-open [lower, upper) over the non-negative domain, contiguous and
// exhaustive, with the last tier open-ended. Tables are process-wide
// constants; Validate enforces the table invariants at startup.
package tier

import (
	"fmt"
	"math"
	"strings"
)

// Family selects one tier table.
type Family string

// Metric families.
const (
	FamilyCombo      Family = "combo"
	FamilyStreak     Family = "streak"
	FamilyLevel      Family = "level"
	FamilyEnergy     Family = "energy"
	FamilyBossHealth Family = "boss_health"
)

// Families returns all known families in a stable order.
func Families() []Family {
	return []Family{FamilyCombo, FamilyStreak, FamilyLevel, FamilyEnergy, FamilyBossHealth}
}

// ParseFamily maps a string to a Family.
// Returns ErrUnknownFamily for anything it does not recognize.
func ParseFamily(s string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case FamilyCombo:
		return FamilyCombo, nil
	case FamilyStreak:
		return FamilyStreak, nil
	case FamilyLevel:
		return FamilyLevel, nil
	case FamilyEnergy:
		return FamilyEnergy, nil
	case FamilyBossHealth:
		return FamilyBossHealth, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFamily)
	}
}

// Tier is one classification bucket within a family.
type Tier struct {
	Family Family  `json:"family"`
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"` // +Inf for the open-ended last tier
}

// Contains reports whether metric falls inside the tier's range.
func (t Tier) Contains(metric float64) bool {
	return metric >= t.Lower && metric < t.Upper
}

// inf is the open upper bound of every family's last tier.
var inf = math.Inf(1)

// tables holds the static tier definitions per family.
// Boundaries are a behavioral contract; changing them changes what every
// consumer renders.
var tables = map[Family][]Tier{
	FamilyCombo: {
		{FamilyCombo, 0, "none", 0, 1},
		{FamilyCombo, 1, "x1", 1, 2},
		{FamilyCombo, 2, "x1.5", 2, 4},
		{FamilyCombo, 3, "x2", 4, 6},
		{FamilyCombo, 4, "x3", 6, inf},
	},
	FamilyStreak: {
		{FamilyStreak, 0, "none", 0, 1},
		{FamilyStreak, 1, "spark", 1, 3},
		{FamilyStreak, 2, "bronze", 3, 7},
		{FamilyStreak, 3, "silver", 7, 14},
		{FamilyStreak, 4, "gold", 14, 30},
		{FamilyStreak, 5, "diamond", 30, 100},
		{FamilyStreak, 6, "legendary", 100, inf},
	},
	FamilyLevel: {
		{FamilyLevel, 0, "void", 0, 3},
		{FamilyLevel, 1, "protoSystem", 3, 6},
		{FamilyLevel, 2, "youngSystem", 6, 11},
		{FamilyLevel, 3, "matureSystem", 11, 21},
		{FamilyLevel, 4, "stellarEmpire", 21, 36},
		{FamilyLevel, 5, "galaxyCore", 36, 51},
		{FamilyLevel, 6, "universal", 51, inf},
	},
	FamilyEnergy: {
		{FamilyEnergy, 0, "dormant", 0, 0.1},
		{FamilyEnergy, 1, "dim", 0.1, 0.35},
		{FamilyEnergy, 2, "steady", 0.35, 0.65},
		{FamilyEnergy, 3, "bright", 0.65, 0.9},
		{FamilyEnergy, 4, "maximum", 0.9, inf},
	},
	FamilyBossHealth: {
		{FamilyBossHealth, 0, "defeated", 0, 0.05},
		{FamilyBossHealth, 1, "critical", 0.05, 0.25},
		{FamilyBossHealth, 2, "wounded", 0.25, 0.5},
		{FamilyBossHealth, 3, "strong", 0.5, 0.85},
		{FamilyBossHealth, 4, "full", 0.85, inf},
	},
}

// Table returns the tier definitions for family, lowest rank first.
// The returned slice is shared; callers must not mutate it.
func Table(family Family) ([]Tier, error) {
	tiers, ok := tables[family]
	if !ok {
		return nil, fmt.Errorf("%q: %w", family, ErrUnknownFamily)
	}
	return tiers, nil
}

// Classify assigns the tier whose range contains metric.
//
// A metric of 0 maps to the lowest-rank tier of every family; metrics past
// the highest finite bound map to the open-ended last tier. Negative or NaN
// metrics signal a caller bug and are rejected with ErrInvalidMetric.
// Classify is pure and safe for concurrent use.
func Classify(metric float64, family Family) (Tier, error) {
	if metric < 0 || math.IsNaN(metric) {
		return Tier{}, fmt.Errorf("metric %v for family %q: %w", metric, family, ErrInvalidMetric)
	}
	tiers, ok := tables[family]
	if !ok {
		return Tier{}, fmt.Errorf("%q: %w", family, ErrUnknownFamily)
	}
	// At most seven tiers per family; an ordered scan is enough.
	for _, t := range tiers {
		if t.Contains(metric) {
			return t, nil
		}
	}
	// Unreachable when tables pass Validate.
	return Tier{}, fmt.Errorf("metric %v not covered by family %q: %w", metric, family, ErrInvalidMetric)
}

// Validate checks the table invariants: ranks strictly increasing from 0,
// ranges contiguous from 0 with an open-ended last tier, no gaps or
// overlaps. Call once at startup.
func Validate() error {
	for _, family := range Families() {
		tiers := tables[family]
		if len(tiers) == 0 {
			return fmt.Errorf("family %q has no tiers: %w", family, ErrBadTable)
		}
		if tiers[0].Lower != 0 {
			return fmt.Errorf("family %q does not start at 0: %w", family, ErrBadTable)
		}
		for i, t := range tiers {
			if t.Family != family {
				return fmt.Errorf("family %q tier %d carries family %q: %w", family, i, t.Family, ErrBadTable)
			}
			if t.Rank != i {
				return fmt.Errorf("family %q tier %d has rank %d: %w", family, i, t.Rank, ErrBadTable)
			}
			if t.Upper <= t.Lower {
				return fmt.Errorf("family %q tier %q has empty range: %w", family, t.Name, ErrBadTable)
			}
			if i > 0 && t.Lower != tiers[i-1].Upper {
				return fmt.Errorf("family %q has a gap before tier %q: %w", family, t.Name, ErrBadTable)
			}
		}
		if !math.IsInf(tiers[len(tiers)-1].Upper, 1) {
			return fmt.Errorf("family %q last tier is not open-ended: %w", family, ErrBadTable)
		}
	}
	return nil
}
