package marketplace

import (
	"context"
	"net/url"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
)

type pwccSearchRequest struct {
	Query    string  `json:"query"`
	Category string  `json:"category,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
	Sort     string  `json:"sort,omitempty"`
}

type pwccSearchResponse struct {
	Total    int                  `json:"total"`
	Listings []models.PwccRawItem `json:"listings"`
}

type pwccAuctionResponse struct {
	Listing *models.PwccRawItem `json:"listing"`
}

// PWCC calls the PWCC marketplace JSON proxy.
type PWCC struct {
	base *BaseClient
}

func NewPWCC(cfg config.MarketplaceConfig, m repository.Metrics, opts ...xhttp.ClientOption) *PWCC {
	return &PWCC{base: newBaseClient(models.MarketplacePWCC, cfg, m, opts...)}
}

func (p *PWCC) Name() models.Marketplace { return models.MarketplacePWCC }

func (p *PWCC) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	req := pwccSearchRequest{
		Query:    q.Keywords,
		Limit:    q.Limit,
		Offset:   q.Offset,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sort:     string(q.Sort),
	}
	if q.Sport != "" && q.Sport != models.SportOther {
		req.Category = string(q.Sport)
	}

	var resp pwccSearchResponse
	if err := p.base.PostJSON(ctx, "search", "/search", req, nil, &resp); err != nil {
		return models.SearchResult{}, newError(models.MarketplacePWCC, "PWCC_SEARCH_ERROR", describe("PWCC search failed", err), err)
	}

	items := make([]models.RawListing, 0, len(resp.Listings))
	for _, it := range resp.Listings {
		items = append(items, it)
	}
	total := resp.Total
	if total == 0 {
		total = len(items)
	}
	return models.SearchResult{Marketplace: models.MarketplacePWCC, Total: total, Items: items}, nil
}

func (p *PWCC) Detail(ctx context.Context, id string) (models.RawListing, error) {
	var resp pwccAuctionResponse
	if err := p.base.GetJSON(ctx, "auction", "/auction/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, newError(models.MarketplacePWCC, "PWCC_AUCTION_ERROR", describe("Failed to fetch PWCC auction", err), err)
	}
	if resp.Listing == nil {
		return nil, newError(models.MarketplacePWCC, "PWCC_AUCTION_ERROR", "PWCC auction "+id+" not found", nil)
	}
	return *resp.Listing, nil
}
