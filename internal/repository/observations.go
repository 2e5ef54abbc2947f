package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"CardScout/internal/domain/models"
)

// trendThreshold is the change, in percent, between the older and the recent
// half of a window that counts as a trend.
const trendThreshold = 5.0

// trendOf compares the average price of the recent half of a window with the older half.
func trendOf(olderAvg, recentAvg float64) (models.Trend, float64) {
	if olderAvg <= 0 || recentAvg <= 0 {
		return models.TrendStable, 0
	}
	change := (recentAvg - olderAvg) / olderAvg * 100
	switch {
	case change > trendThreshold:
		return models.TrendUp, change
	case change < -trendThreshold:
		return models.TrendDown, change
	default:
		return models.TrendStable, change
	}
}

func matchesQuery(o models.Observation, query string) bool {
	return strings.EqualFold(o.Query, query) || strings.EqualFold(o.Player, query)
}

// MemoryObservationStore keeps observations in process. It backs market
// summaries when ClickHouse is not configured.
type MemoryObservationStore struct {
	mu  sync.RWMutex
	obs []models.Observation
	max int
	now func() time.Time
}

func NewMemoryObservationStore(maxEntries int) *MemoryObservationStore {
	if maxEntries <= 0 {
		maxEntries = 50000
	}
	return &MemoryObservationStore{max: maxEntries, now: time.Now}
}

func (s *MemoryObservationStore) StoreBatch(ctx context.Context, obs []models.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs = append(s.obs, obs...)
	if over := len(s.obs) - s.max; over > 0 {
		s.obs = append([]models.Observation(nil), s.obs[over:]...)
	}
	return nil
}

func (s *MemoryObservationStore) Summary(ctx context.Context, query string, since time.Time) (models.MarketStats, error) {
	s.mu.RLock()
	var prices []float64
	var points []models.Observation
	for _, o := range s.obs {
		if o.ObservedAt.Before(since) || o.Price <= 0 || !matchesQuery(o, query) {
			continue
		}
		prices = append(prices, o.Price)
		points = append(points, o)
	}
	s.mu.RUnlock()

	stats := models.MarketStats{Query: query, Trend: models.TrendStable, LastUpdated: s.now().UTC()}
	if len(prices) == 0 {
		return stats, nil
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	var sum float64
	for _, p := range sorted {
		sum += p
	}
	stats.Volume = len(sorted)
	stats.AveragePrice = sum / float64(len(sorted))
	stats.LowestPrice = sorted[0]
	stats.HighestPrice = sorted[len(sorted)-1]
	stats.MedianPrice = median(sorted)

	mid := since.Add(s.now().Sub(since) / 2)
	var older, recent []float64
	for _, o := range points {
		if o.ObservedAt.Before(mid) {
			older = append(older, o.Price)
		} else {
			recent = append(recent, o.Price)
		}
	}
	stats.Trend, stats.ChangePct = trendOf(mean(older), mean(recent))
	return stats, nil
}

func (s *MemoryObservationStore) Close() error { return nil }

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
