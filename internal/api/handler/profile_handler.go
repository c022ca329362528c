package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// ProfileHandler serves ledger, analytics and leaderboard views.
type ProfileHandler struct {
	ledger      ports.LedgerService
	analytics   ports.AnalyticsService
	leaderboard ports.LeaderboardService
}

func NewProfileHandler(ledger ports.LedgerService, analytics ports.AnalyticsService, leaderboard ports.LeaderboardService) *ProfileHandler {
	return &ProfileHandler{ledger: ledger, analytics: analytics, leaderboard: leaderboard}
}

// Me handles GET /v1/me.
//
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return h.profile(c, claims.UserID)
}

// Get handles GET /v1/users/:id.
//
// @Summary      Any user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  profileResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/users/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	return h.profile(c, c.Param("id"))
}

func (h *ProfileHandler) profile(c echo.Context, userID string) error {
	p, err := h.ledger.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// Analytics handles GET /v1/me/analytics.
//
// @Summary      Current user's impact history
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        window  query     int  false  "Recent events to return (default 30, max 100)"
// @Param        days    query     int  false  "Adds totals and a daily breakdown for the last N days (max 365)"
// @Success      200     {object}  analyticsResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      422     {object}  ErrorResponse
// @Router       /v1/me/analytics [get]
func (h *ProfileHandler) Analytics(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var window, days int
	if err := queryInts(c, map[string]*int{"window": &window, "days": &days}); err != nil {
		return err
	}

	summary, err := h.analytics.Summary(c.Request().Context(), ports.AnalyticsQuery{
		UserID: claims.UserID,
		Limit:  window,
		Days:   days,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalyticsResponse(summary))
}

// Leaderboard handles GET /v1/leaderboard.
//
// @Summary      Top users by points
// @Tags         leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        n    query     int  false  "Number of users (default 10, max 100)"
// @Success      200  {array}   ports.RankedUser
// @Router       /v1/leaderboard [get]
func (h *ProfileHandler) Leaderboard(c echo.Context) error {
	var n int
	if err := queryInts(c, map[string]*int{"n": &n}); err != nil {
		return err
	}

	rows, err := h.leaderboard.Top(c.Request().Context(), n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
