package api

import (
	"errors"
	"time"

	"CardScout/internal/service/grading"
	"CardScout/internal/service/marketplace"
	endpointmetrics "CardScout/internal/service/metrics"
	"CardScout/internal/services/importer"
	"CardScout/internal/usecase"
	xhttp "CardScout/pkg/http"

	"github.com/labstack/echo/v4"
)

const userHeader = "X-User-ID"

// appError maps usecase and adapter failures onto API errors.
func appError(err error) *xhttp.AppError {
	var ae *xhttp.AppError
	if errors.As(err, &ae) {
		return ae
	}

	var iu *usecase.InvalidURLError
	if errors.As(err, &iu) {
		return xhttp.FieldError("ERR_INVALID_URL", "url", iu.Reason).WithError(err)
	}

	var ge *grading.Error
	if errors.As(err, &ge) {
		switch {
		case errors.Is(err, grading.ErrUnsupportedCompany):
			return xhttp.FieldError("ERR_UNSUPPORTED_GRADING_COMPANY", "company", ge.Message).WithError(err)
		case errors.Is(err, grading.ErrNotConfigured):
			return xhttp.ServiceUnavailableError(ge.Message).WithError(err)
		case errors.Is(err, grading.ErrNotFound):
			return xhttp.NotFoundError(ge.Message).WithError(err)
		}
		return xhttp.BadGatewayError("ERR_GRADING", ge.Message).
			WithParam("company", ge.Company).
			WithParam("code", ge.Code).
			WithError(err)
	}

	var me *marketplace.Error
	hasMarketplaceErr := errors.As(err, &me)
	if errors.Is(err, marketplace.ErrNotImplemented) {
		msg := "operation not implemented"
		if hasMarketplaceErr {
			msg = me.Message
		}
		return xhttp.NotImplementedError(msg).WithError(err)
	}
	if hasMarketplaceErr {
		return xhttp.BadGatewayError("ERR_MARKETPLACE", me.Message).
			WithParam("marketplace", me.Marketplace).
			WithParam("code", me.Code).
			WithError(err)
	}

	switch {
	case usecase.IsNotFound(err):
		return xhttp.NotFoundError("record not found").WithError(err)
	case errors.Is(err, importer.ErrNoData), errors.Is(err, importer.ErrTooManyRows):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrNoMarketplaces):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	}
	return xhttp.InternalError("Something went wrong").WithError(err)
}

// fail renders err and records it against endpoint.
func fail(c echo.Context, endpoint string, start time.Time, err error) error {
	ae := appError(err)
	endpointmetrics.Observe(endpoint, start, ae.Code)
	return xhttp.AppErrorResponse(c, ae)
}

func respondError(c echo.Context, err error) error {
	return xhttp.AppErrorResponse(c, appError(err))
}

func invalid(c echo.Context, endpoint string, start time.Time, verr interface{}) error {
	endpointmetrics.Observe(endpoint, start, "ERR_VALIDATION")
	return xhttp.BadRequestResponse(c, verr)
}

func userID(c echo.Context) (string, *xhttp.AppError) {
	id := c.Request().Header.Get(userHeader)
	if id == "" {
		return "", xhttp.UnauthorizedError(userHeader + " header is required")
	}
	return id, nil
}
