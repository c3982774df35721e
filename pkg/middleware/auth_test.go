package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/configs"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if err := configs.InitConfig(os.TempDir()); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func authedEngine(conf configs.AuthConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(AuthMiddleware(conf))
	engine.GET("/api/v1/documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": CallerUID(c)})
	})
	engine.GET("/metrics", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return engine
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	engine := authedEngine(configs.AuthConfig{Enabled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	// 只有令牌没有身份头同样拒绝
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status with token only = %d, want 401", w.Code)
	}
}

func TestAuthPassesBearerWithUID(t *testing.T) {
	engine := authedEngine(configs.AuthConfig{Enabled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	req.Header.Set("X-User-Id", "u1")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if body := w.Body.String(); body != `{"uid":"u1"}` {
		t.Errorf("body = %s", body)
	}
}

func TestAuthSkipPaths(t *testing.T) {
	engine := authedEngine(configs.AuthConfig{Enabled: true, SkipPaths: []string{"/metrics"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("skipped path status = %d, want 200", w.Code)
	}
}

func TestAuthDevQueryFallback(t *testing.T) {
	engine := authedEngine(configs.AuthConfig{Enabled: true, DevAllowQuery: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?uid=dev-user", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if body := w.Body.String(); body != `{"uid":"dev-user"}` {
		t.Errorf("body = %s", body)
	}
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	engine := authedEngine(configs.AuthConfig{Enabled: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
