// Package progress normalizes raw domain quantities into [0,1] progress
// values fed to the tier classifier.
package progress

import "math"

// Default aggregation constants.
const (
	// defaultPointsBaseline is the point total that alone fills the
	// energy meter.
	defaultPointsBaseline = 50.0

	// defaultStarBonus is the fill fraction added per star (0..3).
	defaultStarBonus = 0.1
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithPointsBaseline overrides the energy-fill points baseline.
func WithPointsBaseline(baseline float64) Option {
	return func(a *Aggregator) {
		if baseline > 0 {
			a.pointsBaseline = baseline
		}
	}
}

// WithStarBonus overrides the per-star energy bonus.
func WithStarBonus(bonus float64) Option {
	return func(a *Aggregator) {
		if bonus >= 0 {
			a.starBonus = bonus
		}
	}
}

// Aggregator converts raw metrics into normalized progress values.
// Every method clamps into [0,1] and never errors; out-of-range inputs are
// caller quirks, not failures.
type Aggregator struct {
	pointsBaseline float64
	starBonus      float64
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		pointsBaseline: defaultPointsBaseline,
		starBonus:      defaultStarBonus,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EnergyFill converts earned points and a 0..3 star rating into an energy
// fill fraction: points/baseline plus starBonus per star, capped at 1.
func (a *Aggregator) EnergyFill(pointsEarned, starRating int) float64 {
	fill := float64(pointsEarned)/a.pointsBaseline + float64(starRating)*a.starBonus
	return clamp(fill)
}

// HealthRatio converts a boss health pair into remaining fraction.
// Overheal (current > total) clamps to 1; a zero or negative total yields 0
// rather than dividing.
func (a *Aggregator) HealthRatio(currentHealth, totalHealth int) float64 {
	if totalHealth <= 0 {
		return 0
	}
	return clamp(float64(currentHealth) / float64(totalHealth))
}

// Ratio converts completed/total sub-item counts into a goal fraction.
// Callers are expected to pass counts already in range; clamp anyway.
func (a *Aggregator) Ratio(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(float64(completed) / float64(total))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
