package repository

import (
	"context"
	"errors"
	"time"

	"CardScout/internal/domain/models"
)

// ErrNotFound is returned by record stores when no row matches id and user.
var ErrNotFound = errors.New("record not found")

type PortfolioStore interface {
	ListPortfolio(ctx context.Context, userID string) ([]models.PortfolioItem, error)
	CreatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	DeletePortfolioItem(ctx context.Context, userID, id string) error
}

type WatchlistStore interface {
	ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	CreateWatchlistItem(ctx context.Context, item *models.WatchlistItem) error
	DeleteWatchlistItem(ctx context.Context, userID, id string) error
}

type AlertStore interface {
	ListAlerts(ctx context.Context, userID string) ([]models.PriceAlert, error)
	ListActiveAlerts(ctx context.Context, userID string) ([]models.PriceAlert, error)
	CreateAlert(ctx context.Context, alert *models.PriceAlert) error
	SetAlertActive(ctx context.Context, userID, id string, active bool) error
	MarkAlertChecked(ctx context.Context, id string, checkedAt time.Time, triggered bool) error
	DeleteAlert(ctx context.Context, userID, id string) error
}

type SavedSearchStore interface {
	ListSavedSearches(ctx context.Context, userID string) ([]models.SavedSearch, error)
	CreateSavedSearch(ctx context.Context, s *models.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, userID, id string) error
}

// RecordStore is the full persistence surface for user records.
type RecordStore interface {
	PortfolioStore
	WatchlistStore
	AlertStore
	SavedSearchStore
	Init(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}

// ObservationStore keeps listing prices over time for market summaries.
type ObservationStore interface {
	StoreBatch(ctx context.Context, obs []models.Observation) error
	Summary(ctx context.Context, query string, since time.Time) (models.MarketStats, error)
	Close() error
}

// EventPublisher emits domain events to downstream consumers.
type EventPublisher interface {
	PublishScored(ctx context.Context, listings []models.ScoredListing) error
	PublishAlert(ctx context.Context, ev models.AlertTriggered) error
	Close() error
}

type Metrics interface {
	RecordMarketplaceCall(marketplace, op string, seconds float64, err error)
	RecordDealScore(marketplace string, score float64)
	RecordAlertTriggered(marketplace string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
