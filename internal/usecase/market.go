package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/services/normalize"
	applogger "CardScout/pkg/logger"
	"CardScout/pkg/util"
)

// SoldLister returns completed sales for a keyword query.
type SoldLister interface {
	Completed(ctx context.Context, keywords string, days int) ([]models.RawListing, error)
}

// MarketService records listing prices and summarizes them per query.
type MarketService struct {
	store    repository.ObservationStore
	sold     SoldLister
	lookback int
	record   bool
	log      *applogger.Logger
	now      func() time.Time
}

// NewMarketService wires the observation store. sold may be nil when eBay is not configured.
func NewMarketService(store repository.ObservationStore, sold SoldLister, lookbackDays int, record bool, l *applogger.Logger) *MarketService {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &MarketService{store: store, sold: sold, lookback: lookbackDays, record: record, log: l, now: time.Now}
}

// Summary returns stats over the last days days.
func (m *MarketService) Summary(ctx context.Context, query string, days int) (models.MarketStats, error) {
	if days <= 0 {
		days = m.lookback
	}
	stats, err := m.store.Summary(ctx, normalizeQuery(query), util.DaysAgo(m.now(), days))
	if err != nil {
		return models.MarketStats{}, fmt.Errorf("market summary: %w", err)
	}
	stats.Query = query
	return stats, nil
}

// Stats is Summary for scoring: it returns nil when there is no history
// or the store fails, so scoring falls back to neutral market signals.
func (m *MarketService) Stats(ctx context.Context, query string) *models.MarketStats {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	stats, err := m.Summary(ctx, query, m.lookback)
	if err != nil {
		m.log.Warn("market stats unavailable", applogger.String("query", query), applogger.Error(err))
		return nil
	}
	if stats.Volume == 0 {
		return nil
	}
	return &stats
}

// RecordScored stores active listing prices seen by a search.
func (m *MarketService) RecordScored(ctx context.Context, query string, items []models.ScoredListing) error {
	if !m.record || len(items) == 0 {
		return nil
	}
	now := m.now().UTC()
	obs := make([]models.Observation, 0, len(items))
	for _, it := range items {
		obs = append(obs, observation(now, query, it.Listing, false, it.DealScore.Overall))
	}
	return m.store.StoreBatch(ctx, obs)
}

// RefreshSold pulls completed sales for query and stores them. It returns the
// number of observations written.
func (m *MarketService) RefreshSold(ctx context.Context, query string, days int) (int, error) {
	if m.sold == nil {
		return 0, nil
	}
	if days <= 0 {
		days = m.lookback
	}
	raws, err := m.sold.Completed(ctx, query, days)
	if err != nil {
		return 0, err
	}

	now := m.now().UTC()
	obs := make([]models.Observation, 0, len(raws))
	for _, l := range normalize.NormalizeAll(raws) {
		if l.Price <= 0 {
			continue
		}
		o := observation(now, query, l, true, 0)
		if l.EndDate != nil {
			o.ObservedAt = l.EndDate.UTC()
		}
		obs = append(obs, o)
	}
	if len(obs) == 0 {
		return 0, nil
	}
	if err := m.store.StoreBatch(ctx, obs); err != nil {
		return 0, fmt.Errorf("store sold listings: %w", err)
	}
	return len(obs), nil
}

func observation(at time.Time, query string, l models.CardListing, sold bool, score float64) models.Observation {
	return models.Observation{
		ObservedAt:  at,
		Marketplace: l.Marketplace,
		ListingID:   l.ID,
		Query:       normalizeQuery(query),
		Player:      l.Card.Player,
		Year:        l.Card.Year,
		Brand:       l.Card.Brand,
		Sport:       l.Card.Sport,
		Price:       l.Price,
		Sold:        sold,
		DealScore:   score,
	}
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
