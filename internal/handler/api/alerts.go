package api

import (
	"time"

	"CardScout/internal/service/notify"
	"CardScout/internal/usecase"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertsHandler runs on-demand alert checks and streams triggered alerts
// over a websocket.
type AlertsHandler struct {
	log     *applogger.Logger
	checker *usecase.AlertChecker
	hub     *notify.Hub
}

func NewAlertsHandler(l *applogger.Logger, checker *usecase.AlertChecker, hub *notify.Hub) *AlertsHandler {
	return &AlertsHandler{log: l, checker: checker, hub: hub}
}

func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/alerts/check", h.Check, requireUser)
	e.GET("/ws/alerts", h.Stream)
}

func (h *AlertsHandler) Check(c echo.Context) error {
	start := time.Now()
	res, err := h.checker.CheckAll(c.Request().Context(), uid(c))
	if err != nil {
		h.log.Error("alert check failed", applogger.Error(err))
		return respondError(c, err)
	}
	h.log.Info("alerts checked",
		applogger.Int("checked", res.AlertsChecked),
		applogger.Int("triggered", res.NotificationsSent),
		applogger.Duration("took", time.Since(start)),
	)
	return xhttp.SuccessResponse(c, res)
}

// Stream upgrades to a websocket. The user may be given as header or as the
// user_id query parameter since browsers cannot set headers on upgrades.
func (h *AlertsHandler) Stream(c echo.Context) error {
	user := c.Request().Header.Get(userHeader)
	if user == "" {
		user = c.QueryParam("user_id")
	}
	if err := h.hub.ServeWS(c.Response(), c.Request(), user); err != nil {
		h.log.Warn("websocket upgrade failed", applogger.Error(err))
	}
	return nil
}
