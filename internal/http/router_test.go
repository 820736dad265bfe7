package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "ticketbooking/internal/config"
	"ticketbooking/internal/http/handlers"
	"ticketbooking/internal/services"
	"ticketbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

func testRouter(t *testing.T) (*gin.Engine, services.TokenIssuer, *services.MemorySessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fares := utils.FareTable{
		Cities: map[string]int{"CityA": 1, "CityB": 2},
		Fares:  map[string]int64{"CityA-CityB": 500},
	}
	tokens := services.TokenIssuer{Secret: []byte("test-secret")}
	store := services.NewMemorySessionStore()
	h := &handlers.Handlers{Fares: fares}
	r := NewRouter(intconfig.Env{}, h, Deps{Tokens: tokens, Sessions: store})
	return r, tokens, store
}

func get(r http.Handler, path string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r, _, _ := testRouter(t)

	if w := get(r, "/api/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	w := get(r, "/api/cities", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "CityA") {
		t.Fatalf("cities = %d %s", w.Code, w.Body.String())
	}
	w = get(r, "/api/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ticketbooking_http_requests_total") {
		t.Fatalf("metrics endpoint missing request counter")
	}
	if w := get(r, "/api/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", w.Code)
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r, tokens, store := testRouter(t)

	for _, p := range []string{"/api/my-bookings", "/api/my_bookings", "/api/user", "/api/admin/stats"} {
		if w := get(r, p, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", p, w.Code)
		}
	}

	now := time.Now()
	sess := services.Session{ID: "u1", UserID: 1, Role: "user", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	_ = store.Save(context.Background(), sess)
	tok, _ := tokens.Issue(sess)
	if w := get(r, "/api/admin/stats", tok); w.Code != http.StatusForbidden {
		t.Fatalf("admin stats for user status = %d, want 403", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("origin not allowed: %v", w.Header())
	}
}
