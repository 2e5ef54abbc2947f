package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"

	"github.com/google/uuid"
)

// IsNotFound reports whether err is a missing record.
func IsNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }

// Records is plain CRUD over the user record store. Every call is scoped to one user.
type Records struct {
	store repository.RecordStore
	now   func() time.Time
}

func NewRecords(store repository.RecordStore) *Records {
	return &Records{store: store, now: time.Now}
}

func (r *Records) ListPortfolio(ctx context.Context, userID string) ([]models.PortfolioItem, error) {
	return r.store.ListPortfolio(ctx, userID)
}

func (r *Records) AddPortfolioItem(ctx context.Context, userID string, req models.PortfolioItemRequest) (models.PortfolioItem, error) {
	item, err := portfolioItemFrom(req)
	if err != nil {
		return models.PortfolioItem{}, err
	}
	item.ID = uuid.NewString()
	item.UserID = userID
	item.CreatedAt = r.now().UTC()
	if err := r.store.CreatePortfolioItem(ctx, &item); err != nil {
		return models.PortfolioItem{}, fmt.Errorf("create portfolio item: %w", err)
	}
	return item, nil
}

// AddPortfolioItems stores already-validated items, such as rows from a CSV import.
func (r *Records) AddPortfolioItems(ctx context.Context, userID string, items []models.PortfolioItem) (int, error) {
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].UserID = userID
		items[i].CreatedAt = r.now().UTC()
		if err := r.store.CreatePortfolioItem(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("create portfolio item %d: %w", i+1, err)
		}
	}
	return len(items), nil
}

func (r *Records) UpdatePortfolioItem(ctx context.Context, userID, id string, req models.PortfolioItemRequest) (models.PortfolioItem, error) {
	item, err := portfolioItemFrom(req)
	if err != nil {
		return models.PortfolioItem{}, err
	}
	item.ID = id
	item.UserID = userID
	if err := r.store.UpdatePortfolioItem(ctx, &item); err != nil {
		return models.PortfolioItem{}, fmt.Errorf("update portfolio item: %w", err)
	}
	return item, nil
}

func (r *Records) DeletePortfolioItem(ctx context.Context, userID, id string) error {
	return r.store.DeletePortfolioItem(ctx, userID, id)
}

// PortfolioSummary totals cost and value. Items without a current value are
// valued at their purchase price.
func (r *Records) PortfolioSummary(ctx context.Context, userID string) (models.PortfolioSummary, error) {
	items, err := r.store.ListPortfolio(ctx, userID)
	if err != nil {
		return models.PortfolioSummary{}, err
	}
	return Summarize(items), nil
}

// Summarize aggregates holdings.
func Summarize(items []models.PortfolioItem) models.PortfolioSummary {
	var s models.PortfolioSummary
	for _, it := range items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		s.Items++
		s.Cards += q

		var cost, value float64
		if it.PurchasePrice != nil {
			cost = *it.PurchasePrice * float64(q)
		}
		value = cost
		if it.CurrentValue != nil {
			value = *it.CurrentValue * float64(q)
		}
		s.TotalCost += cost
		s.TotalValue += value
	}
	s.Gain = s.TotalValue - s.TotalCost
	if s.TotalCost > 0 {
		s.GainPct = s.Gain / s.TotalCost * 100
	}
	return s
}

func (r *Records) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	return r.store.ListWatchlist(ctx, userID)
}

func (r *Records) AddWatchlistItem(ctx context.Context, userID string, req models.WatchlistItemRequest) (models.WatchlistItem, error) {
	item := models.WatchlistItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		CardName:    req.CardName,
		CardSet:     req.CardSet,
		CardNumber:  req.CardNumber,
		MarketPrice: req.MarketPrice,
		ImageURL:    req.ImageURL,
		ListingURL:  req.ListingURL,
		Notes:       req.Notes,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.store.CreateWatchlistItem(ctx, &item); err != nil {
		return models.WatchlistItem{}, fmt.Errorf("create watchlist item: %w", err)
	}
	return item, nil
}

func (r *Records) DeleteWatchlistItem(ctx context.Context, userID, id string) error {
	return r.store.DeleteWatchlistItem(ctx, userID, id)
}

func (r *Records) ListAlerts(ctx context.Context, userID string) ([]models.PriceAlert, error) {
	return r.store.ListAlerts(ctx, userID)
}

func (r *Records) AddAlert(ctx context.Context, userID string, req models.PriceAlertRequest) (models.PriceAlert, error) {
	a := models.PriceAlert{
		ID:          uuid.NewString(),
		UserID:      userID,
		CardName:    req.CardName,
		TargetPrice: req.TargetPrice,
		Marketplace: req.Marketplace,
		AlertType:   models.AlertType(req.AlertType),
		IsActive:    true,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.store.CreateAlert(ctx, &a); err != nil {
		return models.PriceAlert{}, fmt.Errorf("create alert: %w", err)
	}
	return a, nil
}

func (r *Records) SetAlertActive(ctx context.Context, userID, id string, active bool) error {
	return r.store.SetAlertActive(ctx, userID, id, active)
}

func (r *Records) DeleteAlert(ctx context.Context, userID, id string) error {
	return r.store.DeleteAlert(ctx, userID, id)
}

func (r *Records) ListSavedSearches(ctx context.Context, userID string) ([]models.SavedSearch, error) {
	return r.store.ListSavedSearches(ctx, userID)
}

func (r *Records) AddSavedSearch(ctx context.Context, userID string, req models.SavedSearchRequest) (models.SavedSearch, error) {
	s := models.SavedSearch{
		ID:          uuid.NewString(),
		UserID:      userID,
		SearchQuery: req.SearchQuery,
		Filters:     req.Filters,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.store.CreateSavedSearch(ctx, &s); err != nil {
		return models.SavedSearch{}, fmt.Errorf("create saved search: %w", err)
	}
	return s, nil
}

func (r *Records) DeleteSavedSearch(ctx context.Context, userID, id string) error {
	return r.store.DeleteSavedSearch(ctx, userID, id)
}

func portfolioItemFrom(req models.PortfolioItemRequest) (models.PortfolioItem, error) {
	item := models.PortfolioItem{
		Player:         req.Player,
		Year:           req.Year,
		Set:            req.Set,
		CardNumber:     req.CardNumber,
		Grade:          req.Grade,
		GradingCompany: req.GradingCompany,
		PurchasePrice:  req.PurchasePrice,
		CurrentValue:   req.CurrentValue,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if req.PurchaseDate != "" {
		d, err := time.Parse(time.DateOnly, req.PurchaseDate)
		if err != nil {
			return item, fmt.Errorf("invalid purchaseDate %q: %w", req.PurchaseDate, err)
		}
		item.PurchaseDate = &d
	}
	return item, nil
}
