// Package selection buckets scored items into quality tiers and assembles a
// diversified, ordered result set.
package selection

import "math"

// Tier is a quality band of the score.
type Tier int

// Tiers from best to worst.
const (
	Perfect Tier = iota
	Excellent
	Good
	Fair
	Basic

	tierCount = 5
)

// Lower bounds (inclusive) of each tier.
const (
	PerfectMin   = 0.85
	ExcellentMin = 0.70
	GoodMin      = 0.55
	FairMin      = 0.35
)

// String returns the wire name of the tier.
func (t Tier) String() string {
	switch t {
	case Perfect:
		return "Perfect"
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Fair:
		return "Fair"
	default:
		return "Basic"
	}
}

// snapScale absorbs the rounding error of summed sub-scores.
const snapScale = 1e9

// TierFor maps a score to its tier. The score is clamped to [0, 1] and
// snapped to nine decimals first, so a sum that is 0.85 on paper is Perfect.
func TierFor(score float64) Tier {
	s := math.Max(0, math.Min(1, score))
	s = math.Round(s*snapScale) / snapScale
	switch {
	case s >= PerfectMin:
		return Perfect
	case s >= ExcellentMin:
		return Excellent
	case s >= GoodMin:
		return Good
	case s >= FairMin:
		return Fair
	default:
		return Basic
	}
}
