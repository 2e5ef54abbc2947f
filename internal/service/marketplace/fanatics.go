package marketplace

import (
	"context"

	"CardScout/internal/domain/models"
)

// Fanatics is a placeholder; every call reports ErrNotImplemented.
type Fanatics struct{}

func NewFanatics() *Fanatics { return &Fanatics{} }

func (Fanatics) Name() models.Marketplace { return models.MarketplaceFanatics }

func (Fanatics) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	return models.SearchResult{}, notImplemented(models.MarketplaceFanatics, "Fanatics search")
}

func (Fanatics) Detail(ctx context.Context, id string) (models.RawListing, error) {
	return nil, notImplemented(models.MarketplaceFanatics, "Fanatics evaluation")
}
