// Package scoring implements the deal scoring model: a weighted linear
// combination of condition, profile, market and timing signals bounded to [1,5].
package scoring

import (
	"fmt"
	"math"

	"CardScout/internal/domain/models"
)

// scale maps 0-100 sub-scores with weights summing to 1 onto the 1-5 range.
// All-100 input with default weights lands exactly on 5.
const scale = 20.0

const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Tier boundaries. A score equal to a boundary belongs to the higher tier.
const (
	StrongBuyAt = 4.5
	BuyAt       = 3.5
	HoldAt      = 2.5
)

// Score returns the overall deal score for a, always within [1,5].
// Inputs are not range-checked; only the final value is clamped.
func Score(a models.CardAnalysis, w models.ScoringWeights) float64 {
	raw := physicalScore(a)*w.PhysicalCondition +
		profileScore(a)*w.PlayerProfile +
		marketScore(a)*w.MarketSignals +
		timingScore(a)*w.TimingTrends
	return clamp(raw / scale)
}

// Classify maps a score to its recommendation tier.
func Classify(score float64) models.Tier {
	switch {
	case score >= StrongBuyAt:
		return models.TierStrongBuy
	case score >= BuyAt:
		return models.TierBuy
	case score >= HoldAt:
		return models.TierHold
	default:
		return models.TierAvoid
	}
}

// Evaluate scores a and fills in the per-dimension sub-scores, each on the
// same 1-5 display scale as the overall score.
func Evaluate(a models.CardAnalysis, w models.ScoringWeights) models.DealScore {
	overall := Score(a, w)
	ds := models.DealScore{
		Overall:           overall,
		PhysicalCondition: clamp(physicalScore(a) / scale),
		PlayerProfile:     clamp(profileScore(a) / scale),
		MarketSignals:     clamp(marketScore(a) / scale),
		TimingTrends:      clamp(timingScore(a) / scale),
		Recommendation:    Classify(overall),
	}
	ds.Reasoning = reasoning(a)
	return ds
}

func physicalScore(a models.CardAnalysis) float64 {
	return (a.Centering + a.Corners + a.Edges + a.Surface) / 4
}

func profileScore(a models.CardAnalysis) float64 {
	rookie := 50.0
	if a.IsRookie {
		rookie = 100
	}
	return (a.Popularity + rookie + a.Rarity) / 3
}

func marketScore(a models.CardAnalysis) float64 { return a.PriceVelocity }

func timingScore(a models.CardAnalysis) float64 { return a.SeasonalDemand }

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Min(MaxScore, math.Max(MinScore, v))
}

func reasoning(a models.CardAnalysis) []string {
	out := make([]string, 0, 6)

	switch p := physicalScore(a); {
	case p >= 90:
		out = append(out, fmt.Sprintf("Excellent physical condition (%.0f/100)", p))
	case p < 60:
		out = append(out, fmt.Sprintf("Condition concerns (%.0f/100)", p))
	}
	if a.IsRookie {
		out = append(out, "Rookie card premium")
	}
	if a.Popularity >= 80 {
		out = append(out, "High collector demand")
	}
	if a.Rarity >= 80 {
		out = append(out, "Scarce at this grade")
	}
	switch {
	case a.PriceVelocity >= 70:
		out = append(out, "Priced below recent market average")
	case a.PriceVelocity < 30:
		out = append(out, "Priced above recent market average")
	}
	if a.SeasonalDemand >= 70 {
		out = append(out, "In-season demand for this sport")
	}
	return out
}
