package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sai-tutoria/config"
	"sai-tutoria/internal/model"
	"sai-tutoria/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	counts map[string]int
	err    error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.counts[key]++
	return f.counts[key] <= limit, nil
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ════════════════════════════════════════════════════════════
// JWTAuth / RoleAuth
// ════════════════════════════════════════════════════════════

func TestJWTAuth_SetsCaller(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("u1", model.RoleTeacher, "t1")

	r := gin.New()
	r.GET("/x", JWTAuth(mgr, nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID)+"|"+c.GetString(CtxRole)+"|"+c.GetString(CtxTeacherID))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)
	if w.Code != http.StatusOK || w.Body.String() != "u1|DOCENTE|t1" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("u1", model.RoleAdmin, "")
	claims, _ := mgr.ParseToken(token)

	tests := []struct {
		name    string
		header  string
		checker TokenChecker
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic " + token, nil},
		{"garbage token", "Bearer not-a-token", nil},
		{"revoked", "Bearer " + token, &fakeChecker{revoked: map[string]bool{claims.ID: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", JWTAuth(mgr, tt.checker), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if w := do(r, req); w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_CheckerErrorLetsThrough(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("u1", model.RoleAdmin, "")

	r := gin.New()
	r.GET("/x", JWTAuth(mgr, &fakeChecker{err: errors.New("redis down")}), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if w := do(r, req); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{model.RoleAdmin, http.StatusOK},
		{model.RoleCoordinator, http.StatusOK},
		{model.RoleTeacher, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if tt.role != "" {
				c.Set(CtxRole, tt.role)
			}
		}, RoleAuth(model.RoleAdmin, model.RoleCoordinator), func(c *gin.Context) { c.Status(http.StatusOK) })

		if w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != tt.want {
			t.Errorf("role %q: expected %d, got %d", tt.role, tt.want, w.Code)
		}
	}
}

// ════════════════════════════════════════════════════════════
// RateLimit
// ════════════════════════════════════════════════════════════

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	lim := &fakeLimiter{counts: map[string]int{}}
	r := gin.New()
	r.POST("/login", RateLimit(lim, 2, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes %v", codes)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(&fakeLimiter{err: errors.New("redis down")}, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := do(r, httptest.NewRequest(http.MethodPost, "/login", nil)); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	r2 := gin.New()
	r2.POST("/login", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	if w := do(r2, httptest.NewRequest(http.MethodPost, "/login", nil)); w.Code != http.StatusOK {
		t.Errorf("nil limiter: expected 200, got %d", w.Code)
	}
}

// ════════════════════════════════════════════════════════════
// BodyLimit / RequestID / CORS
// ════════════════════════════════════════════════════════════

func TestBodyLimit_Override(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8, map[string]int64{"/upload": 64}))
	read := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	}
	r.POST("/small", read)
	r.POST("/upload", read)

	body := strings.Repeat("x", 32)
	if w := do(r, httptest.NewRequest(http.MethodPost, "/small", strings.NewReader(body))); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("/small: expected 413, got %d", w.Code)
	}
	if w := do(r, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))); w.Code != http.StatusOK {
		t.Errorf("/upload: expected 200, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	if id := w.Header().Get("X-Request-ID"); id == "" || id != w.Body.String() {
		t.Errorf("generated id not echoed: header %q body %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	if w := do(r, req); w.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("incoming id not reused: %q", w.Header().Get("X-Request-ID"))
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := do(r, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("preflight: %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	if w := do(r, req); w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin must not be allowed")
	}
}
