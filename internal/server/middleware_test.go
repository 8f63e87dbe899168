package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLoggingMiddleware(), MetricsMiddleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ok?x=1").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodGet, "/boom").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/missing").Code)
}

func TestTimeoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TimeoutMiddleware(50 * time.Millisecond))
	router.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/").Code)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limits := NewRateLimiter(1, 3, time.Minute)
	t.Cleanup(limits.Stop)

	router := gin.New()
	router.Use(limits.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/").Code, "request %d within burst", i)
	}
	w := serve(router, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	assert.True(t, limits.Allow("10.0.0.9"), "buckets are per client")
}

func TestRateLimiterEvict(t *testing.T) {
	limits := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(limits.Stop)

	assert.True(t, limits.Allow("1.1.1.1"))
	assert.False(t, limits.Allow("1.1.1.1"))

	limits.evict(time.Now().Add(2 * time.Minute))
	assert.True(t, limits.Allow("1.1.1.1"), "idle client starts with a fresh bucket")

	limits.Stop()
	limits.Stop()
}

func TestCorsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/test")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodOptions, "/test")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
