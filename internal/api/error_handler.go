package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/api/handler"
	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

const reasonRevisionConflict = "revision_conflict"

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:   http.StatusUnprocessableEntity,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindTransient:    http.StatusServiceUnavailable,
	domain.KindInternal:     http.StatusInternalServerError,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - classifies domain errors with domain.KindOf and maps the kind to a status,
//   - logs internal errors without leaking details to the client,
//   - renders the JSON envelope {"error", "kind", "reason", "retryable", "fields"}.
//
// Callers can tell "already done" (safeToIgnore) from "impossible"
// (not_found, validation) from "try again" (retryable: transient, or a
// revision_conflict on a contended ledger).
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message), Kind: kindForStatus(he.Code)}
	}

	kind := domain.KindOf(err)
	resp := handler.ErrorResponse{Error: err.Error(), Kind: kind, Retryable: domain.IsRetryable(err)}
	if errors.Is(err, domain.ErrRevisionConflict) {
		resp.Reason = reasonRevisionConflict
	}

	var rej *domain.Rejection
	if errors.As(err, &rej) {
		resp.Reason = string(rej.Reason)
		resp.SafeToIgnore = rej.Reason == domain.ReasonAlreadyCompleted
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}

	switch kind {
	case domain.KindInternal:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		resp.Error = "internal server error"
	case domain.KindTransient:
		log.Warn().Err(err).Str("path", c.Path()).Msg("storage unavailable")
		resp.Error = "service temporarily unavailable"
	}

	return kindStatus[kind], resp
}

func kindForStatus(code int) domain.ErrorKind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.KindValidation
	case http.StatusUnauthorized:
		return domain.KindUnauthorized
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindConflict
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return domain.KindTransient
	}
	return domain.KindInternal
}
