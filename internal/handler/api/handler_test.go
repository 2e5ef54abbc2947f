package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"CardScout/internal/domain/models"
	domrepo "CardScout/internal/domain/repository"
	"CardScout/internal/repository"
	"CardScout/internal/service/cache"
	"CardScout/internal/service/grading"
	"CardScout/internal/service/marketplace"
	"CardScout/internal/service/notify"
	"CardScout/internal/service/ratelimit"
	"CardScout/internal/usecase"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"
	pkgmetrics "CardScout/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type fakeEbay struct {
	calls int32
	err   error
}

func (f *fakeEbay) Name() models.Marketplace { return models.MarketplaceEbay }

func (f *fakeEbay) Search(_ context.Context, q models.SearchQuery) (models.SearchResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return models.SearchResult{}, f.err
	}
	return models.SearchResult{
		Marketplace: models.MarketplaceEbay,
		Total:       1,
		Items:       []models.RawListing{ebayItem("123")},
	}, nil
}

func (f *fakeEbay) Detail(_ context.Context, id string) (models.RawListing, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return ebayItem(id), nil
}

func ebayItem(id string) models.EbayRawItem {
	return models.EbayRawItem{
		ItemID: id,
		Title:  "2018 Topps Update Shohei Ohtani #US1 Rookie PSA 10",
		Price:  &models.Money{Value: "250.00", Currency: "USD"},
	}
}

type testEnv struct {
	e    *echo.Echo
	ebay *fakeEbay
}

func newTestEnv(t *testing.T, limiter *ratelimit.Limiter) *testEnv {
	t.Helper()
	log := applogger.Nop()
	ebay := &fakeEbay{}
	reg := marketplace.NewRegistry(ebay)
	weights := usecase.NewWeightsStore(models.DefaultWeights())
	market := usecase.NewMarketService(repository.NewMemoryObservationStore(100), nil, 90, false, log)
	m := pkgmetrics.Nop{}
	finder := usecase.NewDealFinder(reg, market, weights, cache.NewTTLCache(10), time.Minute, repository.NopEventPublisher{}, m, log)
	evaluator := usecase.NewURLEvaluator(reg, market, weights, m)

	store, err := repository.OpenRecordStore(repository.DriverSQLite, ":memory:", 0, 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	records := usecase.NewRecords(store)
	hub := notify.NewHub(log, time.Minute)
	t.Cleanup(hub.Close)
	checker := usecase.NewAlertChecker(store, reg, repository.NopEventPublisher{}, hub, m, log)

	e := echo.New()
	NewDealsHandler(log, finder, evaluator, weights, limiter).RegisterRoutes(e)
	NewMarketHandler(log, market).RegisterRoutes(e)
	NewRecordsHandler(log, records).RegisterRoutes(e)
	NewAlertsHandler(log, checker, hub).RegisterRoutes(e)
	NewImportHandler(log, usecase.NewBulkImporter(records)).RegisterRoutes(e)
	NewHealthHandler(map[string]Pinger{"records": store}).RegisterRoutes(e)

	psa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cert/4400" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"Grade":9,"Year":"2011","Brand":"Topps","Variety":"Update","CardNumber":"US175","Subject":"Mike Trout"}`))
	}))
	t.Cleanup(psa.Close)
	grader := grading.New(config.MarketplaceConfig{Enabled: true, BaseURL: psa.URL}, config.MarketplaceConfig{}, m)
	NewGradingHandler(log, grader).RegisterRoutes(e)
	return &testEnv{e: e, ebay: ebay}
}

func (env *testEnv) do(method, target, body, user string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if dest != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

func firstCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errs []xhttp.AppError
	decode(t, rec, &errs)
	if len(errs) == 0 {
		t.Fatalf("no errors in %s", rec.Body.String())
	}
	return errs[0].Code
}

func TestSearchRequiresKeywords(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/deals/search", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
	if n := atomic.LoadInt32(&env.ebay.calls); n != 0 {
		t.Fatalf("marketplace called %d times", n)
	}
}

func TestSearchRejectsInvertedPriceRange(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/deals/search?keywords=ohtani&min_price=50&max_price=10", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}

func TestSearchReturnsScoredListings(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/deals/search?keywords=ohtani&marketplace=ebay", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res models.DealSearchResult
	decode(t, rec, &res)
	if len(res.Items) != 1 || res.Items[0].Listing.ID == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if s := res.Items[0].DealScore.Overall; s < 1 || s > 5 {
		t.Fatalf("score out of range: %v", s)
	}
}

func TestSearchAllMarketplacesFailingIsBadGateway(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ebay.err = &marketplace.Error{Marketplace: models.MarketplaceEbay, Code: "EBAY_SEARCH_ERROR", Message: "eBay search failed"}
	rec := env.do(http.MethodGet, "/api/deals/search?keywords=ohtani", "", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if code := firstCode(t, rec); code != "ERR_MARKETPLACE" {
		t.Fatalf("code = %q", code)
	}
}

func TestSearchRateLimited(t *testing.T) {
	env := newTestEnv(t, ratelimit.New(1, 0.0001))
	if rec := env.do(http.MethodGet, "/api/deals/search?keywords=ohtani", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/api/deals/search?keywords=ohtani", "", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d; want 429", rec.Code)
	}
}

func TestEvaluateURL(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name   string
		url    string
		status int
		code   string
	}{
		{"ebay", "https://www.ebay.com/itm/1234567890", http.StatusOK, ""},
		{"unknown host", "https://example.com/item/1", http.StatusBadRequest, "ERR_INVALID_URL"},
		{"goldin without adapter", "https://goldinauctions.com/item/abc-123", http.StatusNotImplemented, "ERR_NOT_IMPLEMENTED"},
		{"goldin home page", "https://goldinauctions.com", http.StatusNotImplemented, "ERR_NOT_IMPLEMENTED"},
		{"ebay without item id", "https://www.ebay.com/sch/i.html", http.StatusBadRequest, "ERR_INVALID_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/deals/evaluate", `{"url":"`+tt.url+`"}`, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code != "" {
				if code := firstCode(t, rec); code != tt.code {
					t.Fatalf("code = %q; want %q", code, tt.code)
				}
				return
			}
			var ev models.URLEvaluation
			decode(t, rec, &ev)
			if !ev.IsValid || ev.Listing.ID == "" {
				t.Fatalf("unexpected evaluation %+v", ev)
			}
		})
	}
}

func TestScore(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"analysis":{"centering":100,"corners":100,"edges":100,"surface":100,"popularity":100,"isRookie":true,"rarity":100,"priceVelocity":100,"seasonalDemand":100}}`
	rec := env.do(http.MethodPost, "/api/deals/score", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res scoreResponse
	decode(t, rec, &res)
	if res.DealScore.Overall != 5 || res.Recommendation.Tier != models.TierStrongBuy {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestWeights(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPut, "/api/scoring/weights", `{"physicalCondition":2,"playerProfile":0.3,"marketSignals":0.2,"timingTrends":0.1}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range status = %d", rec.Code)
	}

	rec = env.do(http.MethodPut, "/api/scoring/weights", `{"physicalCondition":0.1,"playerProfile":0.2,"marketSignals":0.3,"timingTrends":0.4}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var w models.ScoringWeights
	decode(t, env.do(http.MethodGet, "/api/scoring/weights", "", ""), &w)
	if w.TimingTrends != 0.4 || w.PhysicalCondition != 0.1 {
		t.Fatalf("weights = %+v", w)
	}
}

func TestRecordsRequireUser(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, target := range []string{"/api/portfolio", "/api/watchlist", "/api/alerts", "/api/searches"} {
		if rec := env.do(http.MethodGet, target, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d; want 401", target, rec.Code)
		}
	}
}

func TestPortfolioLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	const user = "u1"

	rec := env.do(http.MethodPost, "/api/portfolio", `{"player":"Mike Trout","year":2011,"set":"Topps Update","purchasePrice":100,"currentValue":150}`, user)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var item models.PortfolioItem
	decode(t, rec, &item)
	if item.ID == "" || item.Quantity != 1 {
		t.Fatalf("created %+v", item)
	}

	var list xhttp.ListDataResponse
	decode(t, env.do(http.MethodGet, "/api/portfolio", "", "someone-else"), &list)
	if list.Total != 0 {
		t.Fatalf("other user sees %d items", list.Total)
	}

	var sum models.PortfolioSummary
	decode(t, env.do(http.MethodGet, "/api/portfolio/summary", "", user), &sum)
	if sum.Items != 1 || sum.TotalValue != 150 {
		t.Fatalf("summary = %+v", sum)
	}

	if rec := env.do(http.MethodDelete, "/api/portfolio/"+item.ID, "", user); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := env.do(http.MethodDelete, "/api/portfolio/"+item.ID, "", user); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d; want 404", rec.Code)
	}
}

func TestAlertCheckTriggers(t *testing.T) {
	env := newTestEnv(t, nil)
	const user = "u2"

	rec := env.do(http.MethodPost, "/api/alerts", `{"cardName":"Shohei Ohtani","targetPrice":300,"marketplace":"ebay"}`, user)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create alert status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/api/alerts/check", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res models.AlertCheckResult
	decode(t, rec, &res)
	if res.AlertsChecked != 1 || res.NotificationsSent != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestImport(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/portfolio/import/template", "", "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv") {
		t.Fatalf("template status = %d type = %q", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}

	csv := "player,year,set\nMike Trout,2011,Topps Update\nNobody,abc,Topps\n"
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/import", strings.NewReader(csv))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	req.Header.Set(userHeader, "u3")
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res models.ImportResult
	decode(t, rec, &res)
	if res.Total != 2 || res.Imported != 1 || len(res.Errors) != 1 {
		t.Fatalf("import result = %+v", res)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/portfolio/import", strings.NewReader("player,year,set\n"))
	req.Header.Set(userHeader, "u3")
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty import status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAppErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&usecase.InvalidURLError{Reason: "bad"}, http.StatusBadRequest},
		{&marketplace.Error{Code: "NOT_IMPLEMENTED", Message: "Goldin evaluation not yet implemented", Err: marketplace.ErrNotImplemented}, http.StatusNotImplemented},
		{&marketplace.Error{Code: "PWCC_AUCTION_ERROR", Message: "boom"}, http.StatusBadGateway},
		{domrepo.ErrNotFound, http.StatusNotFound},
		{usecase.ErrNoMarketplaces, http.StatusServiceUnavailable},
		{&grading.Error{Code: "PSA_VERIFY_ERROR", Message: "status 500"}, http.StatusBadGateway},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := appError(tt.err).Status; got != tt.status {
			t.Errorf("appError(%v).Status = %d; want %d", tt.err, got, tt.status)
		}
	}
}

func TestGradingRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing cert", "/api/grading/verify?company=PSA", http.StatusBadRequest, ""},
		{"unknown company", "/api/grading/verify?company=ABC&cert=1", http.StatusBadRequest, ""},
		{"unsupported company", "/api/grading/verify?company=SGC&cert=1", http.StatusBadRequest, "ERR_UNSUPPORTED_GRADING_COMPANY"},
		{"cert not found", "/api/grading/verify?company=PSA&cert=999", http.StatusNotFound, "ERR_NOT_FOUND"},
		{"proxy not configured", "/api/grading/verify?company=BGS&cert=1", http.StatusServiceUnavailable, "ERR_UNAVAILABLE"},
		{"population without proxy", "/api/grading/population?card=Mike+Trout", http.StatusServiceUnavailable, "ERR_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target, "", "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code != "" {
				if code := firstCode(t, rec); code != tt.code {
					t.Fatalf("code = %q; want %q", code, tt.code)
				}
			}
		})
	}

	rec := env.do(http.MethodGet, "/api/grading/verify?company=PSA&cert=4400", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d (%s)", rec.Code, rec.Body.String())
	}
	var v models.CertVerification
	decode(t, rec, &v)
	if v.Grade != 9 || v.CertNumber != "4400" || !strings.Contains(v.CardDetails, "Mike Trout") {
		t.Fatalf("verification = %+v", v)
	}
}

func TestMarketSummary(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(http.MethodGet, "/api/market/summary", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing q status = %d", rec.Code)
	}
	rec := env.do(http.MethodGet, "/api/market/summary?q=Shohei+Ohtani&days=30", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var stats models.MarketStats
	decode(t, rec, &stats)
	if stats.Query != "Shohei Ohtani" || stats.Volume != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}
