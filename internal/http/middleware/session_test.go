package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketbooking/internal/services"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionFixture(t *testing.T, role string) (services.TokenIssuer, *services.MemorySessionStore, string) {
	t.Helper()
	tokens := services.TokenIssuer{Secret: []byte("test-secret")}
	store := services.NewMemorySessionStore()
	now := time.Now()
	s := services.Session{ID: "sid-1", UserID: 7, Username: "asha", Role: role, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.Save(context.Background(), s); err != nil {
		t.Fatalf("save: %v", err)
	}
	tok, err := tokens.Issue(s)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tokens, store, tok
}

func protectedEngine(tokens services.TokenIssuer, store services.SessionStore, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireSession(tokens, store)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		s, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"user_id": s.UserID, "role": c.GetString("userRole")})
	})
	r.GET("/private", handlers...)
	return r
}

func TestRequireSessionMissingToken(t *testing.T) {
	tokens, store, _ := sessionFixture(t, "user")
	r := protectedEngine(tokens, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireSessionBearerAndCookie(t *testing.T) {
	tokens, store, tok := sessionFixture(t, "user")
	r := protectedEngine(tokens, store)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bearer status = %d body=%s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cookie status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireSessionRevoked(t *testing.T) {
	tokens, store, tok := sessionFixture(t, "user")
	r := protectedEngine(tokens, store)
	_ = store.Delete(context.Background(), "sid-1")

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 after logout", w.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	tokens, store, tok := sessionFixture(t, "user")
	r := protectedEngine(tokens, store, RequireRoles("admin"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	tokens, store, tok = sessionFixture(t, "Admin")
	r = protectedEngine(tokens, store, RequireRoles("admin"))
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc-123" || w.Body.String() != "abc-123" {
		t.Fatalf("request id not propagated: header=%q body=%q", w.Header().Get("X-Request-ID"), w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id not generated")
	}
}

func TestIdempotencyWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	calls := 0
	r.POST("/book", Idempotency(nil), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		req.Header.Set("Idempotency-Key", "k1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d", w.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("handler calls = %d, want 2", calls)
	}
}
