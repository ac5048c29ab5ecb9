package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"clinical-records-server/internal/config"
	"clinical-records-server/internal/models"
	"clinical-records-server/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      5,
		JWTRefreshExpirationHours: 1,
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	core, logs := observer.New(zapcore.DebugLevel)

	reached := false
	r := gin.New()
	r.Use(AuthMiddleware(cfg, zap.New(core)))
	r.GET("/private", func(c *gin.Context) {
		reached = true
		id, ok := GetUserIDFromContext(c)
		require.True(t, ok)
		name, ok := GetUsernameFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": name})
	})

	access, refresh, err := utils.GenerateTokens(&models.User{ID: 3, Username: "akeenathon"}, cfg)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer nonsense", http.StatusUnauthorized},
		{"refresh token is not an access token", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusOK},
		{"lower-case scheme", "bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status == http.StatusOK, reached)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":3,"username":"akeenathon"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"detail"`)
			}
		})
	}
	assert.Equal(t, 4, logs.FilterMessage("request rejected").Len())
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w = serve(r, req)
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/items/:id/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(r, httptest.NewRequest(http.MethodGet, "/items/1/", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/items/2/", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("/items/:id/", http.MethodGet, "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("unmatched", http.MethodGet, "404")))

	m.RecordRejection("healthcare_worker", "validation")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomes.WithLabelValues("healthcare_worker", "validation")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordRejection("x", "y") })
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := RateLimit("lots")
	assert.Error(t, err)

	limit, err := RateLimit("2-M")
	require.NoError(t, err)
	r := gin.New()
	r.Use(limit)
	r.POST("/token/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/token/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
