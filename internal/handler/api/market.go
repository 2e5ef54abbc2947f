package api

import (
	"CardScout/internal/domain/models"
	"CardScout/internal/usecase"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

type MarketHandler struct {
	log    *applogger.Logger
	market *usecase.MarketService
}

func NewMarketHandler(l *applogger.Logger, market *usecase.MarketService) *MarketHandler {
	return &MarketHandler{log: l, market: market}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market/summary", h.Summary)
}

type marketSummaryRequest struct {
	models.MarketSummaryRequest
	Refresh bool `query:"refresh"`
}

// Summary returns price statistics for a query. With refresh=true recent
// sold listings are pulled first.
func (h *MarketHandler) Summary(c echo.Context) error {
	req := &marketSummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	if req.Refresh {
		n, err := h.market.RefreshSold(ctx, req.Query, req.Days)
		if err != nil {
			h.log.Warn("sold refresh failed", applogger.String("query", req.Query), applogger.Error(err))
		} else {
			h.log.Debug("sold refresh", applogger.String("query", req.Query), applogger.Int("observations", n))
		}
	}

	stats, err := h.market.Summary(ctx, req.Query, req.Days)
	if err != nil {
		h.log.Error("market summary failed", applogger.String("query", req.Query), applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, stats)
}
