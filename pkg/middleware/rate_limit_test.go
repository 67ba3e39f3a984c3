package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"recipe-blog/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitedRouter(t *testing.T, limit int, window time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			c.Set(ContextUserID, id)
		}
		c.Next()
	})
	router.Use(RateLimitMiddleware(client, limit, window))
	router.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router, mr
}

func postLogin(router *gin.Engine, user string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", nil)
	if user != "" {
		req.Header.Set("X-User", user)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_NilClientPassesThrough(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(nil, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	router := setupTestRouter()
	router.Use(MetricsMiddleware("test"))
	router.GET("/posts/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("test", "GET", "/posts/:id", "204")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRateLimitMiddleware_RejectsOverLimit(t *testing.T) {
	router, mr := newRateLimitedRouter(t, 3, time.Minute)

	for i := 1; i <= 3; i++ {
		w := postLogin(router, "user-1")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(3-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := postLogin(router, "user-1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, time.Minute, mr.TTL("rate_limit:/login:user-1"))
}

func TestRateLimitMiddleware_CountsPerSubject(t *testing.T) {
	router, _ := newRateLimitedRouter(t, 1, time.Minute)

	assert.Equal(t, http.StatusOK, postLogin(router, "user-1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postLogin(router, "user-1").Code)

	assert.Equal(t, http.StatusOK, postLogin(router, "user-2").Code)
	assert.Equal(t, http.StatusOK, postLogin(router, "").Code, "anonymous callers are keyed by client ip")
	assert.Equal(t, http.StatusTooManyRequests, postLogin(router, "").Code)
}

func TestRateLimitMiddleware_WindowExpires(t *testing.T) {
	router, mr := newRateLimitedRouter(t, 1, time.Minute)

	assert.Equal(t, http.StatusOK, postLogin(router, "user-1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postLogin(router, "user-1").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, postLogin(router, "user-1").Code)
}

func TestRateLimitMiddleware_RedisDown(t *testing.T) {
	router, mr := newRateLimitedRouter(t, 5, time.Minute)
	mr.Close()

	w := postLogin(router, "user-1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
