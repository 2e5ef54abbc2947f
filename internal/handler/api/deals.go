package api

import (
	"time"

	"CardScout/internal/domain/models"
	endpointmetrics "CardScout/internal/service/metrics"
	"CardScout/internal/service/ratelimit"
	"CardScout/internal/services/scoring"
	"CardScout/internal/usecase"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DealsHandler serves deal search, URL evaluation and ad-hoc scoring.
type DealsHandler struct {
	log       *applogger.Logger
	finder    *usecase.DealFinder
	evaluator *usecase.URLEvaluator
	weights   *usecase.WeightsStore
	limiter   *ratelimit.Limiter
}

func NewDealsHandler(l *applogger.Logger, finder *usecase.DealFinder, evaluator *usecase.URLEvaluator,
	weights *usecase.WeightsStore, limiter *ratelimit.Limiter) *DealsHandler {
	return &DealsHandler{log: l, finder: finder, evaluator: evaluator, weights: weights, limiter: limiter}
}

func (h *DealsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	limited := []echo.MiddlewareFunc{}
	if h.limiter != nil {
		limited = append(limited, ratelimit.Middleware(h.limiter))
	}
	g.GET("/deals/search", h.Search, limited...)
	g.POST("/deals/evaluate", h.Evaluate, limited...)
	g.POST("/deals/score", h.Score)
	g.GET("/scoring/weights", h.GetWeights)
	g.PUT("/scoring/weights", h.PutWeights)
}

func (h *DealsHandler) Search(c echo.Context) error {
	const endpoint = "search"
	start := time.Now()
	req := &models.DealSearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return invalid(c, endpoint, start, verr)
	}
	if req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return fail(c, endpoint, start, xhttp.FieldError("ERR_GTE", "max_price", "max_price must be greater than or equal to min_price"))
	}

	res, err := h.finder.Search(c.Request().Context(), dealQuery(req))
	if err != nil {
		h.log.Error("deal search failed", applogger.String("keywords", req.Keywords), applogger.Error(err))
		return fail(c, endpoint, start, err)
	}
	endpointmetrics.Observe(endpoint, start, "")
	return xhttp.SuccessResponse(c, res)
}

func (h *DealsHandler) Evaluate(c echo.Context) error {
	const endpoint = "evaluate"
	start := time.Now()
	req := &models.EvaluateURLRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return invalid(c, endpoint, start, verr)
	}

	res, err := h.evaluator.Evaluate(c.Request().Context(), req.URL)
	if err != nil {
		h.log.Warn("url evaluation failed", applogger.String("url", req.URL), applogger.Error(err))
		return fail(c, endpoint, start, err)
	}
	endpointmetrics.Observe(endpoint, start, "")
	return xhttp.SuccessResponse(c, res)
}

type scoreResponse struct {
	DealScore      models.DealScore      `json:"dealScore"`
	Recommendation models.Recommendation `json:"recommendation"`
	Weights        models.ScoringWeights `json:"weights"`
}

func (h *DealsHandler) Score(c echo.Context) error {
	const endpoint = "score"
	start := time.Now()
	req := &models.ScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return invalid(c, endpoint, start, verr)
	}

	w := h.weights.Get()
	if req.Weights != nil {
		w = *req.Weights
	}
	ds := scoring.Evaluate(req.Analysis, w)
	endpointmetrics.Observe(endpoint, start, "")
	return xhttp.SuccessResponse(c, scoreResponse{DealScore: ds, Recommendation: scoring.Recommend(ds), Weights: w})
}

func (h *DealsHandler) GetWeights(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.weights.Get())
}

// PutWeights replaces the active weights. The sum is not checked.
func (h *DealsHandler) PutWeights(c echo.Context) error {
	req := &models.ScoringWeights{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.weights.Set(*req)
	h.log.Info("scoring weights updated",
		applogger.Float64("physical_condition", req.PhysicalCondition),
		applogger.Float64("player_profile", req.PlayerProfile),
		applogger.Float64("market_signals", req.MarketSignals),
		applogger.Float64("timing_trends", req.TimingTrends),
	)
	return xhttp.SuccessResponse(c, h.weights.Get())
}

var buyingFormats = map[string]models.BuyingFormat{
	"auction":     models.BuyingAuction,
	"fixed_price": models.BuyingFixedPrice,
}

func dealQuery(req *models.DealSearchRequest) usecase.DealQuery {
	q := usecase.DealQuery{
		SearchQuery: models.SearchQuery{
			Keywords: req.Keywords,
			Limit:    req.Limit,
			Offset:   req.Offset,
			Sort:     models.SortOrder(req.Sort),
			MinPrice: req.MinPrice,
			MaxPrice: req.MaxPrice,
		},
		Marketplace: req.Marketplace,
		MinScore:    req.MinScore,
	}
	if req.Sport != "all" {
		q.Sport = models.Sport(req.Sport)
	}
	if f, ok := buyingFormats[req.BuyingFormat]; ok {
		q.BuyingFormats = []models.BuyingFormat{f}
	}
	return q
}
