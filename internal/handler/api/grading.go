package api

import (
	"CardScout/internal/domain/models"
	"CardScout/internal/domain/service"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

type GradingHandler struct {
	log    *applogger.Logger
	grader service.Grader
}

func NewGradingHandler(l *applogger.Logger, grader service.Grader) *GradingHandler {
	return &GradingHandler{log: l, grader: grader}
}

func (h *GradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/grading")
	g.GET("/verify", h.Verify)
	g.GET("/population", h.Population)
}

// Verify looks up a certificate number at its grading company.
func (h *GradingHandler) Verify(c echo.Context) error {
	req := &models.CertVerifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	v, err := h.grader.Verify(c.Request().Context(), models.GradingCompany(req.Company), req.CertNumber)
	if err != nil {
		h.log.Warn("cert verification failed",
			applogger.String("company", req.Company),
			applogger.String("cert", req.CertNumber),
			applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, v)
}

func (h *GradingHandler) Population(c echo.Context) error {
	req := &models.PopulationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, err := h.grader.Population(c.Request().Context(), models.GradingCompany(req.Company), req.Card)
	if err != nil {
		h.log.Warn("population lookup failed", applogger.String("card", req.Card), applogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, p)
}
