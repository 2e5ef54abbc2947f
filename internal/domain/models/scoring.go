package models

// ScoringWeights weights the four sub-scores of a deal score.
// They are expected to sum to 1 but nothing enforces it.
type ScoringWeights struct {
	PhysicalCondition float64 `json:"physicalCondition" yaml:"physical_condition" validate:"gte=0,lte=1"`
	PlayerProfile     float64 `json:"playerProfile" yaml:"player_profile" validate:"gte=0,lte=1"`
	MarketSignals     float64 `json:"marketSignals" yaml:"market_signals" validate:"gte=0,lte=1"`
	TimingTrends      float64 `json:"timingTrends" yaml:"timing_trends" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the stock weighting (0.4/0.3/0.2/0.1).
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		PhysicalCondition: 0.4,
		PlayerProfile:     0.3,
		MarketSignals:     0.2,
		TimingTrends:      0.1,
	}
}

// Sum returns the total of all four weights.
func (w ScoringWeights) Sum() float64 {
	return w.PhysicalCondition + w.PlayerProfile + w.MarketSignals + w.TimingTrends
}

// CardAnalysis is the input bundle of the scoring model. Sub-scores are on a 0-100 scale.
type CardAnalysis struct {
	Centering      float64 `json:"centering"`
	Corners        float64 `json:"corners"`
	Edges          float64 `json:"edges"`
	Surface        float64 `json:"surface"`
	Popularity     float64 `json:"popularity"`
	IsRookie       bool    `json:"isRookie"`
	Rarity         float64 `json:"rarity"`
	PriceVelocity  float64 `json:"priceVelocity"`
	SeasonalDemand float64 `json:"seasonalDemand"`
}

type Tier string

const (
	TierStrongBuy Tier = "strong_buy"
	TierBuy       Tier = "buy"
	TierHold      Tier = "hold"
	TierAvoid     Tier = "avoid"
)

// DealScore is derived from a CardAnalysis; it is never a source of truth.
type DealScore struct {
	Overall           float64  `json:"overall"`
	PhysicalCondition float64  `json:"physicalCondition"`
	PlayerProfile     float64  `json:"playerProfile"`
	MarketSignals     float64  `json:"marketSignals"`
	TimingTrends      float64  `json:"timingTrends"`
	Recommendation    Tier     `json:"recommendation"`
	Reasoning         []string `json:"reasoning"`
}

// Recommendation is the user-facing verdict for a deal score.
type Recommendation struct {
	Tier     Tier     `json:"tier"`
	Text     string   `json:"text"`
	Analysis []string `json:"analysis"`
}

// ScoredListing pairs a normalized listing with its score.
type ScoredListing struct {
	Listing   CardListing  `json:"listing"`
	Analysis  CardAnalysis `json:"analysis"`
	DealScore DealScore    `json:"dealScore"`
}

// URLEvaluation is the result of evaluating a pasted listing URL.
type URLEvaluation struct {
	IsValid        bool         `json:"isValid"`
	Marketplace    Marketplace  `json:"marketplace"`
	Card           Card         `json:"card"`
	Listing        CardListing  `json:"listing"`
	DealScore      float64      `json:"dealScore"`
	Tier           Tier         `json:"tier"`
	Recommendation string       `json:"recommendation"`
	Analysis       []string     `json:"analysis"`
	Market         *MarketStats `json:"market,omitempty"`
	// Population is set for graded listings when a population lookup succeeded.
	Population *PopulationReport `json:"population,omitempty"`
}
