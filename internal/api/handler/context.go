package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bethwel3001/Eco-mission/internal/api/middleware"
	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// ctxClaims reads the identity injected by the Auth middleware. An empty
// user id means the middleware did not run, which is reported as 401.
func ctxClaims(c echo.Context) (ports.TokenClaims, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return ports.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(middleware.CtxRole).(string)
	tokenID, _ := c.Get(middleware.CtxTokenID).(string)
	exp, _ := c.Get(middleware.CtxTokenExp).(time.Time)

	return ports.TokenClaims{UserID: userID, Role: role, TokenID: tokenID, ExpiresAt: exp}, nil
}

// bindAndValidate binds the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// queryInts binds the named integer query parameters. Malformed values are
// reported as field validation errors.
func queryInts(c echo.Context, params map[string]*int) error {
	b := echo.QueryParamsBinder(c)
	for name, dst := range params {
		b = b.Int(name, dst)
	}
	errs := b.BindErrors()
	if len(errs) == 0 {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		var be *echo.BindingError
		if errors.As(err, &be) {
			fields[be.Field] = "must be an integer"
		}
	}
	return domain.NewValidationError(fields)
}
