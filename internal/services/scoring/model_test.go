package scoring

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"CardScout/internal/domain/models"
)

func perfect() models.CardAnalysis {
	return models.CardAnalysis{
		Centering: 100, Corners: 100, Edges: 100, Surface: 100,
		Popularity: 100, IsRookie: true, Rarity: 100,
		PriceVelocity: 100, SeasonalDemand: 100,
	}
}

func TestScorePerfectIsFive(t *testing.T) {
	if got := Score(perfect(), models.DefaultWeights()); got != 5 {
		t.Fatalf("Score(all 100) = %v; want exactly 5", got)
	}
}

func TestScoreKnownValue(t *testing.T) {
	a := models.CardAnalysis{
		Centering: 80, Corners: 80, Edges: 80, Surface: 80,
		Popularity: 70, IsRookie: false, Rarity: 30,
		PriceVelocity: 60, SeasonalDemand: 40,
	}
	// physical 80, profile 50, market 60, timing 40 -> 32+15+12+4 = 63 -> 3.15
	got := Score(a, models.DefaultWeights())
	if math.Abs(got-3.15) > 1e-9 {
		t.Fatalf("Score = %v; want 3.15", got)
	}
}

func TestScoreClampsLow(t *testing.T) {
	if got := Score(models.CardAnalysis{}, models.DefaultWeights()); got != 1 {
		// profile is 50/3 even with zeros, still well under the floor
		t.Fatalf("Score(zero) = %v; want 1", got)
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	pick := func() float64 {
		switch r.Intn(10) {
		case 0:
			return math.NaN()
		case 1:
			return math.Inf(1)
		case 2:
			return math.Inf(-1)
		default:
			return (r.Float64() - 0.5) * 2000
		}
	}
	for i := 0; i < 5000; i++ {
		a := models.CardAnalysis{
			Centering: pick(), Corners: pick(), Edges: pick(), Surface: pick(),
			Popularity: pick(), IsRookie: r.Intn(2) == 0, Rarity: pick(),
			PriceVelocity: pick(), SeasonalDemand: pick(),
		}
		w := models.ScoringWeights{
			PhysicalCondition: r.Float64() * 2,
			PlayerProfile:     r.Float64() * 2,
			MarketSignals:     r.Float64() * 2,
			TimingTrends:      r.Float64() * 2,
		}
		s := Score(a, w)
		if !(s >= 1 && s <= 5) {
			t.Fatalf("Score out of range: %v for %+v %+v", s, a, w)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Tier
	}{
		{5, models.TierStrongBuy},
		{4.5, models.TierStrongBuy},
		{4.49999, models.TierBuy},
		{3.5, models.TierBuy},
		{3.49999, models.TierHold},
		{2.5, models.TierHold},
		{2.49999, models.TierAvoid},
		{1, models.TierAvoid},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %q; want %q", tt.score, got, tt.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	ds := Evaluate(perfect(), models.DefaultWeights())
	if ds.Overall != 5 || ds.Recommendation != models.TierStrongBuy {
		t.Fatalf("unexpected %+v", ds)
	}
	for name, v := range map[string]float64{
		"physical": ds.PhysicalCondition, "profile": ds.PlayerProfile,
		"market": ds.MarketSignals, "timing": ds.TimingTrends,
	} {
		if v != 5 {
			t.Errorf("%s sub-score = %v; want 5", name, v)
		}
	}
	if !contains(ds.Reasoning, "Rookie card premium") {
		t.Fatalf("reasoning = %v", ds.Reasoning)
	}
}

func TestEvaluateCustomWeightsNotNormalized(t *testing.T) {
	// weights summing to 2 are accepted as-is
	w := models.ScoringWeights{PhysicalCondition: 1, PlayerProfile: 1}
	a := models.CardAnalysis{Centering: 30, Corners: 30, Edges: 30, Surface: 30, Popularity: 30, Rarity: 0}
	// physical 30 + profile (30+50+0)/3 -> 30 + 26.67 = 56.67 -> 2.83
	got := Evaluate(a, w).Overall
	if math.Abs(got-(30+80.0/3)/20) > 1e-9 {
		t.Fatalf("Overall = %v", got)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		score    float64
		text     string
		headline string
	}{
		{4.8, "STRONG BUY - Excellent opportunity!", "High profit potential"},
		{3.9, "BUY - Good opportunity with moderate risk", "Decent profit potential"},
		{2.5, "HOLD - Consider waiting for better opportunity", "Limited profit potential"},
		{1.2, "PASS - Not recommended", "Low profit potential"},
	}
	for _, tt := range tests {
		rec := Recommend(models.DealScore{Overall: tt.score, Reasoning: []string{"extra"}})
		if rec.Text != tt.text {
			t.Errorf("Recommend(%v).Text = %q", tt.score, rec.Text)
		}
		if len(rec.Analysis) == 0 || rec.Analysis[0] != tt.headline {
			t.Errorf("Recommend(%v).Analysis = %v", tt.score, rec.Analysis)
		}
		if rec.Analysis[len(rec.Analysis)-1] != "extra" {
			t.Errorf("reasoning not appended: %v", rec.Analysis)
		}
	}
}

func TestAnalyzeListingRawCard(t *testing.T) {
	l := models.CardListing{Price: 100, Card: models.Card{Sport: models.SportOther}}
	a := analyzeAt(l, nil, nil, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	if a.Centering != 70 || a.Surface != 70 {
		t.Fatalf("raw condition = %v", a.Centering)
	}
	if a.PriceVelocity != 50 || a.SeasonalDemand != 50 || a.Popularity != 40 || a.Rarity != 40 {
		t.Fatalf("defaults = %+v", a)
	}
}

func TestAnalyzeListingGraded(t *testing.T) {
	grade := 10.0
	watchers, bids := 30, 15
	l := models.CardListing{
		Price:    800,
		Grade:    &grade,
		Watchers: &watchers,
		BidCount: &bids,
		Card:     models.Card{Sport: models.SportFootball, IsRookie: true, IsAutograph: true},
	}
	stats := &models.MarketStats{AveragePrice: 1000, Trend: models.TrendUp}

	a := analyzeAt(l, stats, nil, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC))

	if a.Centering != 100 {
		t.Fatalf("graded condition = %v", a.Centering)
	}
	if a.Popularity != 100 {
		t.Fatalf("popularity = %v", a.Popularity)
	}
	if a.Rarity != 90 {
		t.Fatalf("rarity = %v", a.Rarity)
	}
	// 20% under market plus an up trend
	if math.Abs(a.PriceVelocity-80) > 1e-9 {
		t.Fatalf("price velocity = %v", a.PriceVelocity)
	}
	if a.SeasonalDemand != 80 || !a.IsRookie {
		t.Fatalf("seasonal = %v rookie = %v", a.SeasonalDemand, a.IsRookie)
	}
}

func TestRarityFromPopulation(t *testing.T) {
	grade := 9.0
	l := models.CardListing{Grade: &grade, Card: models.Card{IsMemorabiliaCard: true}}
	tests := []struct {
		name string
		pop  *models.PopulationReport
		want float64
	}{
		{"no report", nil, 65},
		{"empty report", &models.PopulationReport{}, 65},
		{"pop 8", &models.PopulationReport{TotalGraded: 40, SameGrade: 6, HigherGrades: 2}, 100},
		{"pop 200", &models.PopulationReport{TotalGraded: 900, SameGrade: 150, HigherGrades: 50}, 85},
		{"pop 5000", &models.PopulationReport{TotalGraded: 9000, SameGrade: 4000, HigherGrades: 1000}, 55},
	}
	for _, tt := range tests {
		if got := rarity(l, tt.pop); got != tt.want {
			t.Errorf("%s: rarity = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestPriceVelocityBounded(t *testing.T) {
	l := models.CardListing{Price: 5000}
	v := priceVelocity(l, &models.MarketStats{AveragePrice: 100, Trend: models.TrendDown})
	if v != 0 {
		t.Fatalf("price velocity = %v; want 0", v)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.Contains(v, s) {
			return true
		}
	}
	return false
}
