package scoring

import (
	"math"
	"time"

	"CardScout/internal/domain/models"
)

// rawConditionScore is assumed for every condition dimension of an ungraded card.
const rawConditionScore = 70.0

// seasons lists the in-season months per sport. Wrapping seasons list both ends.
var seasons = map[models.Sport][]time.Month{
	models.SportBaseball:   {time.March, time.April, time.May, time.June, time.July, time.August, time.September, time.October},
	models.SportBasketball: {time.October, time.November, time.December, time.January, time.February, time.March, time.April, time.May, time.June},
	models.SportFootball:   {time.September, time.October, time.November, time.December, time.January, time.February},
	models.SportHockey:     {time.October, time.November, time.December, time.January, time.February, time.March, time.April, time.May, time.June},
	models.SportSoccer:     {time.August, time.September, time.October, time.November, time.December, time.January, time.February, time.March, time.April, time.May},
}

// AnalyzeListing derives scoring inputs from a normalized listing and,
// when available, recent market stats for the same card.
func AnalyzeListing(l models.CardListing, stats *models.MarketStats) models.CardAnalysis {
	return analyzeAt(l, stats, nil, time.Now())
}

// AnalyzeGraded is AnalyzeListing with the grading company's population
// report for the card, which replaces the grade-based rarity estimate.
func AnalyzeGraded(l models.CardListing, stats *models.MarketStats, pop *models.PopulationReport) models.CardAnalysis {
	return analyzeAt(l, stats, pop, time.Now())
}

func analyzeAt(l models.CardListing, stats *models.MarketStats, pop *models.PopulationReport, now time.Time) models.CardAnalysis {
	cond := conditionScore(l)
	return models.CardAnalysis{
		Centering:      cond,
		Corners:        cond,
		Edges:          cond,
		Surface:        cond,
		Popularity:     popularity(l),
		IsRookie:       l.Card.IsRookie,
		Rarity:         rarity(l, pop),
		PriceVelocity:  priceVelocity(l, stats),
		SeasonalDemand: seasonalDemand(l.Card.Sport, now.Month()),
	}
}

func conditionScore(l models.CardListing) float64 {
	if l.Grade == nil {
		return rawConditionScore
	}
	return bound(*l.Grade*10, 0, 100)
}

func popularity(l models.CardListing) float64 {
	p := 40.0
	if l.Watchers != nil {
		p += math.Min(40, float64(*l.Watchers)*2)
	}
	if l.BidCount != nil {
		p += math.Min(20, float64(*l.BidCount)*2)
	}
	return bound(p, 0, 100)
}

// populationTiers maps copies graded at or above the listing's grade to a
// base rarity.
var populationTiers = []struct {
	max  int
	base float64
}{
	{10, 95},
	{50, 85},
	{250, 70},
	{1000, 55},
}

func rarity(l models.CardListing, pop *models.PopulationReport) float64 {
	r := 40.0
	if pop != nil && pop.TotalGraded > 0 {
		r = populationRarity(pop.SameGrade + pop.HigherGrades)
	} else if l.Grade != nil {
		switch g := *l.Grade; {
		case g >= 10:
			r += 30
		case g >= 9.5:
			r += 20
		case g >= 9:
			r += 10
		}
	}
	if l.Card.IsAutograph {
		r += 20
	}
	if l.Card.IsMemorabiliaCard {
		r += 15
	}
	return bound(r, 0, 100)
}

func populationRarity(n int) float64 {
	for _, t := range populationTiers {
		if n <= t.max {
			return t.base
		}
	}
	return 40
}

// priceVelocity is 50 at market average and moves one point per percent of
// discount (or premium) against it. Trend nudges it by 10.
func priceVelocity(l models.CardListing, stats *models.MarketStats) float64 {
	if stats == nil || stats.AveragePrice <= 0 || l.Price <= 0 {
		return 50
	}
	v := 50 + (stats.AveragePrice-l.Price)/stats.AveragePrice*100
	switch stats.Trend {
	case models.TrendUp:
		v += 10
	case models.TrendDown:
		v -= 10
	}
	return bound(v, 0, 100)
}

func seasonalDemand(s models.Sport, m time.Month) float64 {
	months, ok := seasons[s]
	if !ok {
		return 50
	}
	for _, sm := range months {
		if sm == m {
			return 80
		}
	}
	return 50
}

func bound(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
