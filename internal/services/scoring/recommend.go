package scoring

import "CardScout/internal/domain/models"

type verdict struct {
	text     string
	headline []string
}

var verdicts = map[models.Tier]verdict{
	models.TierStrongBuy: {"STRONG BUY - Excellent opportunity!", []string{"High profit potential", "Strong market indicators", "Favorable timing"}},
	models.TierBuy:       {"BUY - Good opportunity with moderate risk", []string{"Decent profit potential", "Acceptable market conditions"}},
	models.TierHold:      {"HOLD - Consider waiting for better opportunity", []string{"Limited profit potential", "Market conditions uncertain"}},
	models.TierAvoid:     {"PASS - Not recommended", []string{"Low profit potential", "Unfavorable market conditions"}},
}

// Recommend turns a deal score into the user-facing verdict. The tier is
// recomputed from Overall so a hand-built DealScore cannot disagree with it.
func Recommend(ds models.DealScore) models.Recommendation {
	tier := Classify(ds.Overall)
	v := verdicts[tier]

	analysis := make([]string, 0, len(v.headline)+len(ds.Reasoning))
	analysis = append(analysis, v.headline...)
	analysis = append(analysis, ds.Reasoning...)

	return models.Recommendation{Tier: tier, Text: v.text, Analysis: analysis}
}
