// Package display resolves tiers to the presentation parameters a renderer
// consumes: a color pair, a normalized intensity, an effect density, and a
// label. Resolution is a pure table lookup keyed by (family, rank); the
// tables are exhaustive over every tier the classifier can produce, and
// intensity and effect density never decrease with rank.
package display

import (
	"fmt"

	"github.com/HenryVantieghem/tierline/internal/domain/tier"
)

// Color is a semantic color value in #RRGGBB form. The contract is "primary
// dominant, secondary accent/gradient end"; the renderer owns actual pixels.
type Color string

// Params bundles everything a renderer needs to draw one tier.
type Params struct {
	Label         string  `json:"label"`
	Primary       Color   `json:"primary_color"`
	Secondary     Color   `json:"secondary_color"`
	Intensity     float64 `json:"intensity"`      // visual energy in [0,1]
	EffectDensity int     `json:"effect_density"` // decorative element count
}

// tables holds Params per family, indexed by tier rank.
var tables = map[tier.Family][]Params{
	tier.FamilyCombo: {
		{"No Combo", "#8E8E93", "#C7C7CC", 0, 0},
		{"x1", "#FFD60A", "#FFE55C", 0.25, 4},
		{"x1.5", "#FF9F0A", "#FFB340", 0.45, 8},
		{"x2", "#FF6B35", "#FF8C5A", 0.7, 14},
		{"On Fire!", "#FF3B30", "#FF6961", 1, 24},
	},
	tier.FamilyStreak: {
		{"Dormant", "#8E8E93", "#C7C7CC", 0, 0},
		{"Spark", "#FFB340", "#FFE55C", 0.15, 2},
		{"Bronze", "#CD7F32", "#E3A869", 0.3, 4},
		{"Silver", "#C0C0C0", "#E8E8E8", 0.45, 7},
		{"Gold", "#FFD700", "#FFF3B0", 0.6, 12},
		{"Diamond", "#5AC8FA", "#B8E8FF", 0.8, 20},
		{"Legendary", "#AF52DE", "#FF2D95", 1, 32},
	},
	tier.FamilyLevel: {
		{"Void", "#1C1C2E", "#2C2C44", 0.05, 0},
		{"Proto-System", "#3A3A5C", "#5E5E8A", 0.2, 3},
		{"Young System", "#4A6FA5", "#7FA3D7", 0.35, 6},
		{"Mature System", "#2E8B57", "#6FCF97", 0.5, 10},
		{"Stellar Empire", "#FFD60A", "#FF9F0A", 0.7, 16},
		{"Galaxy Core", "#FF6B35", "#FF2D95", 0.85, 24},
		{"Universal", "#AF52DE", "#30D5C8", 1, 36},
	},
	tier.FamilyEnergy: {
		{"Dormant", "#48484A", "#636366", 0, 0},
		{"Dim", "#FFE55C", "#FFF3B0", 0.25, 3},
		{"Steady", "#FFD60A", "#FFE55C", 0.5, 6},
		{"Bright", "#FF9F0A", "#FFD60A", 0.75, 10},
		{"MAXIMUM POWER", "#FF3B30", "#FFD60A", 1, 18},
	},
	tier.FamilyBossHealth: {
		{"Defeated", "#8E8E93", "#C7C7CC", 0, 0},
		{"Critical", "#FF3B30", "#FF6961", 0.25, 2},
		{"Wounded", "#FF9F0A", "#FFB340", 0.5, 4},
		{"Strong", "#FFD60A", "#FFE55C", 0.75, 6},
		{"Full Power", "#30D158", "#66E28A", 1, 8},
	},
}

// Resolve returns the display parameters for t.
// Errors only for tiers that could not have come from the classifier.
func Resolve(t tier.Tier) (Params, error) {
	params, ok := tables[t.Family]
	if !ok {
		return Params{}, fmt.Errorf("family %q: %w", t.Family, ErrUnknownTier)
	}
	if t.Rank < 0 || t.Rank >= len(params) {
		return Params{}, fmt.Errorf("family %q rank %d: %w", t.Family, t.Rank, ErrUnknownTier)
	}
	return params[t.Rank], nil
}

// Validate checks that every classifier tier resolves, intensities stay in
// [0,1], densities are non-negative, and both are non-decreasing in rank.
// Call once at startup alongside tier.Validate.
func Validate() error {
	for _, family := range tier.Families() {
		tiers, err := tier.Table(family)
		if err != nil {
			return err
		}
		params, ok := tables[family]
		if !ok || len(params) != len(tiers) {
			return fmt.Errorf("family %q: display table does not match tier table: %w", family, ErrUnknownTier)
		}
		prev := Params{Intensity: -1, EffectDensity: -1}
		for rank, p := range params {
			if p.Intensity < 0 || p.Intensity > 1 {
				return fmt.Errorf("family %q rank %d intensity %v out of range: %w", family, rank, p.Intensity, ErrBadParams)
			}
			if p.EffectDensity < 0 {
				return fmt.Errorf("family %q rank %d negative effect density: %w", family, rank, ErrBadParams)
			}
			if p.Intensity < prev.Intensity || p.EffectDensity < prev.EffectDensity {
				return fmt.Errorf("family %q rank %d looks calmer than rank %d: %w", family, rank, rank-1, ErrBadParams)
			}
			prev = p
		}
	}
	return nil
}
