package api

import (
	"CardScout/internal/domain/models"
	"CardScout/internal/usecase"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RecordsHandler serves the per-user portfolio, watchlist, alert and saved
// search collections. Every route requires the X-User-ID header.
type RecordsHandler struct {
	log     *applogger.Logger
	records *usecase.Records
}

func NewRecordsHandler(l *applogger.Logger, records *usecase.Records) *RecordsHandler {
	return &RecordsHandler{log: l, records: records}
}

func (h *RecordsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/portfolio", h.ListPortfolio, requireUser)
	g.GET("/portfolio/summary", h.PortfolioSummary, requireUser)
	g.POST("/portfolio", h.AddPortfolioItem, requireUser)
	g.PUT("/portfolio/:id", h.UpdatePortfolioItem, requireUser)
	g.DELETE("/portfolio/:id", h.DeletePortfolioItem, requireUser)

	g.GET("/watchlist", h.ListWatchlist, requireUser)
	g.POST("/watchlist", h.AddWatchlistItem, requireUser)
	g.DELETE("/watchlist/:id", h.DeleteWatchlistItem, requireUser)

	g.GET("/alerts", h.ListAlerts, requireUser)
	g.POST("/alerts", h.AddAlert, requireUser)
	g.PATCH("/alerts/:id", h.ToggleAlert, requireUser)
	g.DELETE("/alerts/:id", h.DeleteAlert, requireUser)

	g.GET("/searches", h.ListSavedSearches, requireUser)
	g.POST("/searches", h.AddSavedSearch, requireUser)
	g.DELETE("/searches/:id", h.DeleteSavedSearch, requireUser)
}

func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, aerr := userID(c); aerr != nil {
			return xhttp.AppErrorResponse(c, aerr)
		}
		return next(c)
	}
}

func uid(c echo.Context) string { return c.Request().Header.Get(userHeader) }

func (h *RecordsHandler) ListPortfolio(c echo.Context) error {
	items, err := h.records.ListPortfolio(c.Request().Context(), uid(c))
	if err != nil {
		h.log.Error("list portfolio failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.ListResponse(c, items, int64(len(items)))
}

func (h *RecordsHandler) PortfolioSummary(c echo.Context) error {
	sum, err := h.records.PortfolioSummary(c.Request().Context(), uid(c))
	if err != nil {
		h.log.Error("portfolio summary failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, sum)
}

func (h *RecordsHandler) AddPortfolioItem(c echo.Context) error {
	req := &models.PortfolioItemRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	item, err := h.records.AddPortfolioItem(c.Request().Context(), uid(c), *req)
	if err != nil {
		h.log.Error("add portfolio item failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.CreatedResponse(c, item)
}

func (h *RecordsHandler) UpdatePortfolioItem(c echo.Context) error {
	req := &models.PortfolioItemRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	item, err := h.records.UpdatePortfolioItem(c.Request().Context(), uid(c), c.Param("id"), *req)
	if err != nil {
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, item)
}

func (h *RecordsHandler) DeletePortfolioItem(c echo.Context) error {
	if err := h.records.DeletePortfolioItem(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *RecordsHandler) ListWatchlist(c echo.Context) error {
	items, err := h.records.ListWatchlist(c.Request().Context(), uid(c))
	if err != nil {
		h.log.Error("list watchlist failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.ListResponse(c, items, int64(len(items)))
}

func (h *RecordsHandler) AddWatchlistItem(c echo.Context) error {
	req := &models.WatchlistItemRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	item, err := h.records.AddWatchlistItem(c.Request().Context(), uid(c), *req)
	if err != nil {
		h.log.Error("add watchlist item failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.CreatedResponse(c, item)
}

func (h *RecordsHandler) DeleteWatchlistItem(c echo.Context) error {
	if err := h.records.DeleteWatchlistItem(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *RecordsHandler) ListAlerts(c echo.Context) error {
	alerts, err := h.records.ListAlerts(c.Request().Context(), uid(c))
	if err != nil {
		h.log.Error("list alerts failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}

func (h *RecordsHandler) AddAlert(c echo.Context) error {
	req := &models.PriceAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	alert, err := h.records.AddAlert(c.Request().Context(), uid(c), *req)
	if err != nil {
		h.log.Error("add alert failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.CreatedResponse(c, alert)
}

func (h *RecordsHandler) ToggleAlert(c echo.Context) error {
	req := &models.AlertToggleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.records.SetAlertActive(c.Request().Context(), uid(c), c.Param("id"), req.IsActive); err != nil {
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, req)
}

func (h *RecordsHandler) DeleteAlert(c echo.Context) error {
	if err := h.records.DeleteAlert(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *RecordsHandler) ListSavedSearches(c echo.Context) error {
	searches, err := h.records.ListSavedSearches(c.Request().Context(), uid(c))
	if err != nil {
		h.log.Error("list saved searches failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.ListResponse(c, searches, int64(len(searches)))
}

func (h *RecordsHandler) AddSavedSearch(c echo.Context) error {
	req := &models.SavedSearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, err := h.records.AddSavedSearch(c.Request().Context(), uid(c), *req)
	if err != nil {
		h.log.Error("add saved search failed", applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.CreatedResponse(c, s)
}

func (h *RecordsHandler) DeleteSavedSearch(c echo.Context) error {
	if err := h.records.DeleteSavedSearch(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return xhttp.NoContentResponse(c)
}
