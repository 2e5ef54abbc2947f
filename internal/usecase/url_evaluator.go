package usecase

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/domain/service"
	"CardScout/internal/services/normalize"
	"CardScout/internal/services/scoring"
)

var marketplaceHosts = []struct {
	host string
	m    models.Marketplace
}{
	{"ebay.com", models.MarketplaceEbay},
	{"pwccmarketplace.com", models.MarketplacePWCC},
	{"goldinauctions.com", models.MarketplaceGoldin},
	{"fanatics.com", models.MarketplaceFanatics},
}

var (
	ebayItemRe = regexp.MustCompile(`/itm/(\d+)`)
	pwccLotRe  = regexp.MustCompile(`/lot/(\d+)`)
)

// DetectMarketplace classifies a listing URL by substring. ok is false when
// no known marketplace matches.
func DetectMarketplace(rawURL string) (models.Marketplace, bool) {
	lower := strings.ToLower(rawURL)
	for _, h := range marketplaceHosts {
		if strings.Contains(lower, h.host) {
			return h.m, true
		}
	}
	return "", false
}

// ExtractListingID pulls the listing id out of an eBay or PWCC URL; ok is
// false when the URL has none. Other marketplaces have no id requirement:
// the last path segment is returned, possibly empty, and ok is always true
// so the adapter decides whether the listing can be fetched.
func ExtractListingID(m models.Marketplace, rawURL string) (string, bool) {
	var re *regexp.Regexp
	switch m {
	case models.MarketplaceEbay:
		re = ebayItemRe
	case models.MarketplacePWCC:
		re = pwccLotRe
	default:
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", true
		}
		id := path.Base(strings.TrimRight(u.Path, "/"))
		if id == "." || id == "/" {
			id = ""
		}
		return id, true
	}
	match := re.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// MarketplaceLookup resolves an adapter by marketplace.
type MarketplaceLookup interface {
	Get(m models.Marketplace) (service.Marketplace, error)
}

// URLEvaluator runs the fetch, normalize, analyze and score pipeline for one pasted URL.
type URLEvaluator struct {
	adapters MarketplaceLookup
	market   *MarketService
	weights  *WeightsStore
	metrics  repository.Metrics
	grader   service.Grader
}

// URLEvaluatorOption configures URLEvaluator.
type URLEvaluatorOption func(*URLEvaluator)

// WithGrader enables population lookups for graded listings.
func WithGrader(g service.Grader) URLEvaluatorOption {
	return func(e *URLEvaluator) {
		e.grader = g
	}
}

func NewURLEvaluator(adapters MarketplaceLookup, market *MarketService, weights *WeightsStore, metrics repository.Metrics, opts ...URLEvaluatorOption) *URLEvaluator {
	e := &URLEvaluator{adapters: adapters, market: market, weights: weights, metrics: metrics}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate never retries: marketplace and not-implemented errors are returned as is.
func (e *URLEvaluator) Evaluate(ctx context.Context, rawURL string) (models.URLEvaluation, error) {
	start := time.Now()
	defer func() { e.metrics.RecordLatency("evaluate_url", time.Since(start).Seconds()) }()

	m, ok := DetectMarketplace(rawURL)
	if !ok {
		return models.URLEvaluation{}, &InvalidURLError{Reason: "Could not detect marketplace from URL"}
	}

	id, ok := ExtractListingID(m, rawURL)
	if !ok {
		return models.URLEvaluation{}, &InvalidURLError{Reason: fmt.Sprintf("Invalid %s URL: no listing id", m)}
	}

	adapter, err := e.adapters.Get(m)
	if err != nil {
		return models.URLEvaluation{}, err
	}
	raw, err := adapter.Detail(ctx, id)
	if err != nil {
		return models.URLEvaluation{}, fmt.Errorf("fetch %s listing %s: %w", m, id, err)
	}

	listing := normalize.Normalize(raw)

	var stats *models.MarketStats
	if e.market != nil {
		stats = e.market.Stats(ctx, listing.Card.Player)
	}
	pop := e.population(ctx, listing)
	analysis := scoring.AnalyzeGraded(listing, stats, pop)
	ds := scoring.Evaluate(analysis, e.weights.Get())
	rec := scoring.Recommend(ds)
	e.metrics.RecordDealScore(string(m), ds.Overall)

	return models.URLEvaluation{
		IsValid:        true,
		Marketplace:    m,
		Card:           listing.Card,
		Listing:        listing,
		DealScore:      ds.Overall,
		Tier:           rec.Tier,
		Recommendation: rec.Text,
		Analysis:       rec.Analysis,
		Market:         stats,
		Population:     pop,
	}, nil
}

// population is best effort: a failed lookup falls back to the grade-based
// rarity estimate.
func (e *URLEvaluator) population(ctx context.Context, l models.CardListing) *models.PopulationReport {
	if e.grader == nil || !l.IsGraded() {
		return nil
	}
	key := models.PopulationKey(l.Card)
	if key == "" {
		return nil
	}
	p, err := e.grader.Population(ctx, l.GradingCompany, key)
	if err != nil {
		e.metrics.RecordError("population_lookup")
		return nil
	}
	return &p
}
