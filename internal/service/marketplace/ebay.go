package marketplace

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/service/auth"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
)

const (
	ebayTokenPath  = "/identity/v1/oauth2/token"
	ebaySearchPath = "/buy/browse/v1/item_summary/search"
	ebayItemPath   = "/buy/browse/v1/item/"

	// SoldLimit is the page size used for completed-listing lookups.
	SoldLimit = 200

	tokenMargin = time.Minute
)

// ebayCategories maps sports to eBay sports-card category ids; 212 covers all.
var ebayCategories = map[models.Sport]string{
	models.SportBaseball:   "213",
	models.SportBasketball: "214",
	models.SportFootball:   "215",
	models.SportHockey:     "216",
}

const ebayAllCategory = "212"

var ebaySorts = map[models.SortOrder]string{
	models.SortPrice:         "price",
	models.SortPriceDesc:     "-price",
	models.SortEndingSoonest: "endingSoonest",
	models.SortNewlyListed:   "newlyListed",
}

type ebaySearchResponse struct {
	Total         int                  `json:"total"`
	ItemSummaries []models.EbayRawItem `json:"itemSummaries"`
}

type ebayTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Ebay talks to the Browse API with an application token.
type Ebay struct {
	base          *BaseClient
	auth          *BaseClient
	tokens        *auth.TokenCache
	clientID      string
	clientSecret  string
	scope         string
	marketplaceID string
}

// NewEbay builds the adapter. The token cache is created here unless one is
// supplied with WithTokenCache.
func NewEbay(cfg config.EbayConfig, m repository.Metrics, opts ...xhttp.ClientOption) *Ebay {
	authCfg := cfg.MarketplaceConfig
	authCfg.BaseURL = cfg.AuthURL
	if authCfg.BaseURL == "" {
		authCfg.BaseURL = cfg.BaseURL
	}
	e := &Ebay{
		base:          newBaseClient(models.MarketplaceEbay, cfg.MarketplaceConfig, m, opts...),
		auth:          newBaseClient(models.MarketplaceEbay, authCfg, m, opts...),
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		scope:         cfg.Scope,
		marketplaceID: cfg.MarketplaceID,
	}
	if e.marketplaceID == "" {
		e.marketplaceID = "EBAY_US"
	}
	if e.scope == "" {
		e.scope = "https://api.ebay.com/oauth/api_scope"
	}
	e.tokens = auth.NewTokenCache(e.fetchToken, tokenMargin)
	return e
}

// WithTokenCache replaces the adapter's token cache.
func (e *Ebay) WithTokenCache(tc *auth.TokenCache) *Ebay {
	e.tokens = tc
	return e
}

func (e *Ebay) Name() models.Marketplace { return models.MarketplaceEbay }

func (e *Ebay) fetchToken(ctx context.Context) (auth.Token, error) {
	cred := base64.StdEncoding.EncodeToString([]byte(e.clientID + ":" + e.clientSecret))
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", e.scope)

	var resp ebayTokenResponse
	err := e.auth.do(ctx, "token", &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     e.auth.baseURL + ebayTokenPath,
		Headers: map[string]string{"Authorization": "Basic " + cred},
		Body:    form,
	}, &resp)
	if err != nil {
		return auth.Token{}, fmt.Errorf("failed to get eBay token: %w", err)
	}
	return auth.Token{
		Value:     resp.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

func (e *Ebay) headers(ctx context.Context) (map[string]string, error) {
	tok, err := e.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization":           "Bearer " + tok,
		"X-EBAY-C-MARKETPLACE-ID": e.marketplaceID,
	}, nil
}

// Search runs an item_summary search. With SoldOnly it looks up completed sales instead.
func (e *Ebay) Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error) {
	code := "EBAY_SEARCH_ERROR"
	if q.SoldOnly {
		code = "EBAY_COMPLETED_ERROR"
	}

	h, err := e.headers(ctx)
	if err != nil {
		return models.SearchResult{}, newError(models.MarketplaceEbay, code, "eBay authentication failed", err)
	}

	var resp ebaySearchResponse
	if err := e.base.GetJSON(ctx, "search", ebaySearchPath, ebaySearchParams(q), h, &resp); err != nil {
		e.dropTokenOnAuthFailure(err)
		return models.SearchResult{}, newError(models.MarketplaceEbay, code, describe("eBay search failed", err), err)
	}

	items := make([]models.RawListing, 0, len(resp.ItemSummaries))
	for _, it := range resp.ItemSummaries {
		items = append(items, it)
	}
	return models.SearchResult{Marketplace: models.MarketplaceEbay, Total: resp.Total, Items: items}, nil
}

// Detail fetches one item by its Browse API id. A bare numeric id, as found
// in /itm/ URLs, is converted to the RESTful form.
func (e *Ebay) Detail(ctx context.Context, id string) (models.RawListing, error) {
	id = restfulItemID(id)
	h, err := e.headers(ctx)
	if err != nil {
		return nil, newError(models.MarketplaceEbay, "EBAY_ITEM_ERROR", "eBay authentication failed", err)
	}

	var item models.EbayRawItem
	if err := e.base.GetJSON(ctx, "item", ebayItemPath+url.PathEscape(id), nil, h, &item); err != nil {
		e.dropTokenOnAuthFailure(err)
		return nil, newError(models.MarketplaceEbay, "EBAY_ITEM_ERROR", describe("eBay item lookup failed", err), err)
	}
	return item, nil
}

// Completed returns listings sold within the last days days.
func (e *Ebay) Completed(ctx context.Context, keywords string, days int) ([]models.RawListing, error) {
	res, err := e.Search(ctx, models.SearchQuery{Keywords: keywords, SoldOnly: true, SoldWithinDays: days})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (e *Ebay) dropTokenOnAuthFailure(err error) {
	var se *xhttp.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		e.tokens.Invalidate()
	}
}

func ebaySearchParams(q models.SearchQuery) url.Values {
	v := url.Values{}
	v.Set("q", q.Keywords)

	if q.SoldOnly {
		days := q.SoldWithinDays
		if days <= 0 {
			days = 90
		}
		v.Set("filter", fmt.Sprintf("soldItems:true,listingEndDate:[%dd..]", days))
		v.Set("limit", strconv.Itoa(SoldLimit))
		return v
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(q.Offset))

	var filters []string
	if q.MinPrice > 0 || q.MaxPrice > 0 {
		hi := "*"
		if q.MaxPrice > 0 {
			hi = formatPrice(q.MaxPrice)
		}
		filters = append(filters, fmt.Sprintf("price:[%s..%s]", formatPrice(q.MinPrice), hi), "priceCurrency:USD")
	}
	if len(q.BuyingFormats) > 0 {
		opts := make([]string, len(q.BuyingFormats))
		for i, f := range q.BuyingFormats {
			opts[i] = string(f)
		}
		filters = append(filters, "buyingOptions:{"+strings.Join(opts, "|")+"}")
	}
	if len(filters) > 0 {
		v.Set("filter", strings.Join(filters, ","))
	}

	if s, ok := ebaySorts[q.Sort]; ok {
		v.Set("sort", s)
	}

	cat, ok := ebayCategories[q.Sport]
	if !ok {
		cat = ebayAllCategory
	}
	v.Set("category_ids", cat)
	return v
}

func restfulItemID(id string) string {
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return "v1|" + id + "|0"
	}
	return id
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
