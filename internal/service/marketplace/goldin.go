package marketplace

import (
	"context"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
)

var goldinSorts = map[models.SortOrder]string{
	models.SortEndingSoonest: "endingSoon",
	models.SortPrice:         "priceLowToHigh",
	models.SortPriceDesc:     "priceHighToLow",
}

type goldinSearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	SortBy string `json:"sortBy"`
}

type goldinSearchResponse struct {
	Total    int                    `json:"total"`
	Auctions []models.GoldinRawItem `json:"auctions"`
}

// Goldin searches Goldin auctions. Single-lot lookup is not available.
type Goldin struct {
	base *BaseClient
}

func NewGoldin(cfg config.MarketplaceConfig, m repository.Metrics, opts ...xhttp.ClientOption) *Goldin {
	return &Goldin{base: newBaseClient(models.MarketplaceGoldin, cfg, m, opts...)}
}

func (g *Goldin) Name() models.Marketplace { return models.MarketplaceGoldin }

func (g *Goldin) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	sortBy, ok := goldinSorts[q.Sort]
	if !ok {
		sortBy = "mostBids"
	}

	var resp goldinSearchResponse
	req := goldinSearchRequest{Query: q.Keywords, Limit: q.Limit, SortBy: sortBy}
	if err := g.base.PostJSON(ctx, "search", "/auctions/search", req, nil, &resp); err != nil {
		return models.SearchResult{}, newError(models.MarketplaceGoldin, "GOLDIN_SEARCH_ERROR", describe("Goldin search failed", err), err)
	}

	items := make([]models.RawListing, 0, len(resp.Auctions))
	for _, it := range resp.Auctions {
		items = append(items, it)
	}
	total := resp.Total
	if total == 0 {
		total = len(items)
	}
	return models.SearchResult{Marketplace: models.MarketplaceGoldin, Total: total, Items: items}, nil
}

func (g *Goldin) Detail(ctx context.Context, id string) (models.RawListing, error) {
	return nil, notImplemented(models.MarketplaceGoldin, "Goldin evaluation")
}
