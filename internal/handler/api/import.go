package api

import (
	"io"
	"net/http"

	"CardScout/internal/services/importer"
	"CardScout/internal/usecase"
	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

const maxImportBytes = 5 << 20

type ImportHandler struct {
	log      *applogger.Logger
	importer *usecase.BulkImporter
}

func NewImportHandler(l *applogger.Logger, imp *usecase.BulkImporter) *ImportHandler {
	return &ImportHandler{log: l, importer: imp}
}

func (h *ImportHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/portfolio/import/template", h.Template)
	e.POST("/api/portfolio/import", h.Import, requireUser)
}

func (h *ImportHandler) Template(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="portfolio_template.csv"`)
	return c.Blob(http.StatusOK, "text/csv", importer.Template())
}

// Import accepts either a multipart "file" field or a raw CSV body.
func (h *ImportHandler) Import(c echo.Context) error {
	var src io.Reader = c.Request().Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot read uploaded file").WithError(err))
		}
		defer f.Close()
		src = f
	}

	res, err := h.importer.Import(c.Request().Context(), uid(c), io.LimitReader(src, maxImportBytes))
	if err != nil {
		h.log.Warn("portfolio import failed", applogger.Error(err))
		return respondError(c, err)
	}
	h.log.Info("portfolio imported",
		applogger.String("user", uid(c)),
		applogger.Int("total", res.Total),
		applogger.Int("imported", res.Imported),
	)
	return xhttp.SuccessResponse(c, res)
}
