package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/api/handler"
	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

const testSecret = "router-secret"

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": role,
		"jti":  "jti-1",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + tok
}

func newTestRouter(checks map[string]handler.Check) http.Handler {
	return NewRouter(Deps{
		JWTSecret: testSecret,
		Version:   "test",
		Checks:    checks,
		Log:       zerolog.Nop(),
		Registry:  prometheus.NewRegistry(),
	})
}

func serve(h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	h := newTestRouter(nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/v1/missions/complete"},
		{http.MethodGet, "/v1/me"},
		{http.MethodGet, "/v1/me/analytics"},
		{http.MethodGet, "/v1/leaderboard"},
		{http.MethodPost, "/auth/logout"},
	} {
		rec := serve(h, route.method, route.path, "", "{}")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
		var body handler.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body.Kind != domain.KindUnauthorized {
			t.Fatalf("%s %s: expected unauthorized kind, got %+v", route.method, route.path, body)
		}
	}
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	h := newTestRouter(nil)
	userToken := bearer(t, domain.RoleUser)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/v1/missions"},
		{http.MethodPost, "/v1/missions/1/deactivate"},
		{http.MethodGet, "/v1/users/u2"},
	} {
		rec := serve(h, route.method, route.path, userToken, "{}")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", route.method, route.path, rec.Code)
		}
		var body handler.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Kind != domain.KindForbidden {
			t.Fatalf("%s %s: expected forbidden envelope, got %s", route.method, route.path, rec.Body.String())
		}
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodGet, "/v2/nothing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_HealthProbes(t *testing.T) {
	h := newTestRouter(map[string]handler.Check{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("down") },
	})

	if rec := serve(h, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness: expected 503, got %d", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
