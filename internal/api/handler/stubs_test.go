package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bethwel3001/Eco-mission/internal/api/middleware"
	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// newTestContext builds an echo.Context with the validator installed.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate sets the values the Auth middleware would inject.
func authenticate(c echo.Context, userID, role string) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
	c.Set(middleware.CtxTokenID, "jti-"+userID)
	c.Set(middleware.CtxTokenExp, time.Now().Add(time.Hour))
}

func httpStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn   func(ctx context.Context, claims ports.TokenClaims) error
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	return s.logoutFn(ctx, claims)
}

type stubCatalog struct {
	missions    []*domain.Mission
	published   *domain.Mission
	deactivated string
	err         error
}

func (s *stubCatalog) ListActive(context.Context) ([]*domain.Mission, error) {
	return s.missions, s.err
}

func (s *stubCatalog) Get(_ context.Context, id string) (*domain.Mission, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, m := range s.missions {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrMissionNotFound
}

func (s *stubCatalog) Publish(_ context.Context, m *domain.Mission) (*domain.Mission, error) {
	if s.err != nil {
		return nil, s.err
	}
	m.IsActive = true
	s.published = m
	return m, nil
}

func (s *stubCatalog) Deactivate(_ context.Context, id string) error {
	s.deactivated = id
	return s.err
}

func (s *stubCatalog) Seed(context.Context, []*domain.Mission) (int, error) { return 0, nil }

type stubLedger struct {
	applyFn   func(ctx context.Context, userID, missionID string) (*ports.RewardResult, error)
	profileFn func(ctx context.Context, userID string) (*ports.Profile, error)
}

func (s *stubLedger) ApplyReward(ctx context.Context, userID, missionID string) (*ports.RewardResult, error) {
	return s.applyFn(ctx, userID, missionID)
}

func (s *stubLedger) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	return s.profileFn(ctx, userID)
}

type stubAnalytics struct {
	query   ports.AnalyticsQuery
	summary *ports.AnalyticsSummary
	err     error
}

func (s *stubAnalytics) RecordEvent(context.Context, *domain.AnalyticsEvent) error { return nil }

func (s *stubAnalytics) Recent(context.Context, string, int) ([]domain.AnalyticsEvent, error) {
	return nil, nil
}

func (s *stubAnalytics) Totals(context.Context, string) (domain.AnalyticsTotals, error) {
	return domain.AnalyticsTotals{}, nil
}

func (s *stubAnalytics) Summary(_ context.Context, q ports.AnalyticsQuery) (*ports.AnalyticsSummary, error) {
	s.query = q
	return s.summary, s.err
}

type stubLeaderboard struct {
	n    int
	rows []ports.RankedUser
}

func (s *stubLeaderboard) Top(_ context.Context, n int) ([]ports.RankedUser, error) {
	s.n = n
	return s.rows, nil
}

func (s *stubLeaderboard) Invalidate(context.Context) {}
