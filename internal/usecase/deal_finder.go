package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/domain/service"
	"CardScout/internal/service/cache"
	"CardScout/internal/services/normalize"
	"CardScout/internal/services/scoring"
	applogger "CardScout/pkg/logger"
)

// DealQuery is a deal search across one or all marketplaces.
type DealQuery struct {
	models.SearchQuery
	// Marketplace is a marketplace name or "all".
	Marketplace string
	MinScore    float64
}

// MarketplaceSet is the adapter registry as the deal finder sees it.
type MarketplaceSet interface {
	MarketplaceLookup
	Searchable() []service.Marketplace
}

// DealFinder fans a query out to marketplaces, scores every listing and
// keeps those at or above the minimum score.
type DealFinder struct {
	adapters MarketplaceSet
	market   *MarketService
	weights  *WeightsStore
	cache    cache.BytesCache
	cacheTTL time.Duration
	events   repository.EventPublisher
	metrics  repository.Metrics
	log      *applogger.Logger
}

func NewDealFinder(adapters MarketplaceSet, market *MarketService, weights *WeightsStore, c cache.BytesCache, cacheTTL time.Duration,
	events repository.EventPublisher, metrics repository.Metrics, l *applogger.Logger) *DealFinder {
	if l == nil {
		l = applogger.Nop()
	}
	return &DealFinder{
		adapters: adapters,
		market:   market,
		weights:  weights,
		cache:    c,
		cacheTTL: cacheTTL,
		events:   events,
		metrics:  metrics,
		log:      l,
	}
}

type sourceResult struct {
	name  models.Marketplace
	total int
	items []models.RawListing
	err   error
}

// Search returns scored listings. A failing marketplace is reported in
// Errors; the call fails only when every marketplace failed.
func (f *DealFinder) Search(ctx context.Context, q DealQuery) (models.DealSearchResult, error) {
	start := time.Now()
	defer func() { f.metrics.RecordLatency("deal_search", time.Since(start).Seconds()) }()

	adapters, err := f.pick(q.Marketplace)
	if err != nil {
		return models.DealSearchResult{}, err
	}

	weights := f.weights.Get()
	key := cache.Key("deals", append(q.cacheParts(), fmt.Sprint(weights))...)
	if f.cache != nil {
		var cached models.DealSearchResult
		if ok, err := cache.GetJSON(ctx, f.cache, key, &cached); err != nil {
			f.log.Warn("deal cache read failed", applogger.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	results := f.fanOut(ctx, adapters, q.SearchQuery)

	out := models.DealSearchResult{
		Items:  []models.ScoredListing{},
		Totals: make(map[models.Marketplace]int, len(results)),
	}
	var firstErr error
	var raws []models.RawListing
	for _, r := range results {
		if r.err != nil {
			if out.Errors == nil {
				out.Errors = make(map[models.Marketplace]string)
			}
			out.Errors[r.name] = r.err.Error()
			if firstErr == nil {
				firstErr = r.err
			}
			f.metrics.RecordError("search_" + string(r.name))
			f.log.Warn("marketplace search failed", applogger.String("marketplace", string(r.name)), applogger.Error(r.err))
			continue
		}
		out.Totals[r.name] = r.total
		out.Total += r.total
		raws = append(raws, r.items...)
	}
	if len(out.Errors) == len(results) {
		return models.DealSearchResult{}, firstErr
	}

	var stats *models.MarketStats
	if f.market != nil {
		stats = f.market.Stats(ctx, q.Keywords)
	}
	for _, l := range normalize.NormalizeAll(raws) {
		analysis := scoring.AnalyzeListing(l, stats)
		ds := scoring.Evaluate(analysis, weights)
		f.metrics.RecordDealScore(string(l.Marketplace), ds.Overall)
		if ds.Overall < q.MinScore {
			continue
		}
		out.Items = append(out.Items, models.ScoredListing{Listing: l, Analysis: analysis, DealScore: ds})
	}
	sortDeals(out.Items, q.Sort)

	f.afterSearch(ctx, q.Keywords, out.Items)

	// partial results are not cached so a flaky marketplace gets retried next time
	if f.cache != nil && len(out.Errors) == 0 {
		if err := cache.SetJSON(ctx, f.cache, key, out, f.cacheTTL); err != nil {
			f.log.Warn("deal cache write failed", applogger.Error(err))
		}
	}
	return out, nil
}

func (f *DealFinder) pick(name string) ([]service.Marketplace, error) {
	if name == "" || name == "all" {
		adapters := f.adapters.Searchable()
		if len(adapters) == 0 {
			return nil, ErrNoMarketplaces
		}
		return adapters, nil
	}
	a, err := f.adapters.Get(models.Marketplace(name))
	if err != nil {
		return nil, err
	}
	return []service.Marketplace{a}, nil
}

func (f *DealFinder) fanOut(ctx context.Context, adapters []service.Marketplace, q models.SearchQuery) []sourceResult {
	results := make([]sourceResult, len(adapters))
	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a service.Marketplace) {
			defer wg.Done()
			res, err := a.Search(ctx, q)
			results[i] = sourceResult{name: a.Name(), total: res.Total, items: res.Items, err: err}
		}(i, a)
	}
	wg.Wait()
	return results
}

// afterSearch publishes and records scored listings. Failures are logged only.
func (f *DealFinder) afterSearch(ctx context.Context, keywords string, items []models.ScoredListing) {
	if len(items) == 0 {
		return
	}
	if f.events != nil {
		if err := f.events.PublishScored(ctx, items); err != nil {
			f.metrics.RecordError("publish_scored")
			f.log.Warn("publish scored listings failed", applogger.Error(err))
		}
	}
	if f.market != nil {
		if err := f.market.RecordScored(ctx, keywords, items); err != nil {
			f.metrics.RecordError("record_observations")
			f.log.Warn("record observations failed", applogger.Error(err))
		}
	}
}

func sortDeals(items []models.ScoredListing, order models.SortOrder) {
	switch order {
	case models.SortPrice:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Listing.Price < items[j].Listing.Price })
	case models.SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Listing.Price > items[j].Listing.Price })
	case models.SortEndingSoonest:
		sort.SliceStable(items, func(i, j int) bool { return endsBefore(items[i].Listing, items[j].Listing) })
	case models.SortNewlyListed:
		// marketplace order
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].DealScore.Overall > items[j].DealScore.Overall })
	}
}

func endsBefore(a, b models.CardListing) bool {
	switch {
	case a.EndDate == nil:
		return false
	case b.EndDate == nil:
		return true
	default:
		return a.EndDate.Before(*b.EndDate)
	}
}

func (q DealQuery) cacheParts() []string {
	formats := make([]string, len(q.BuyingFormats))
	for i, b := range q.BuyingFormats {
		formats[i] = string(b)
	}
	return []string{
		strings.ToLower(strings.TrimSpace(q.Keywords)),
		q.Marketplace,
		string(q.Sport),
		string(q.Sort),
		fmt.Sprint(q.Limit, q.Offset, q.MinPrice, q.MaxPrice, q.MinScore),
		strings.Join(formats, "|"),
	}
}
