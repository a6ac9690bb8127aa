package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func newLimitedRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func doFrom(router *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder.Code
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		Rate:            rate.Limit(0.001), // effectively no refill during the test
		Burst:           2,
		CleanupInterval: time.Minute,
	})
	defer limiter.Stop()
	router := newLimitedRouter(limiter)

	for i := 0; i < 2; i++ {
		if code := doFrom(router, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i, code, http.StatusOK)
		}
	}
	if code := doFrom(router, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		Rate:            rate.Limit(0.001),
		Burst:           1,
		CleanupInterval: time.Minute,
	})
	defer limiter.Stop()
	router := newLimitedRouter(limiter)

	if code := doFrom(router, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first client status = %d, want %d", code, http.StatusOK)
	}
	if code := doFrom(router, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("first client second request = %d, want %d", code, http.StatusTooManyRequests)
	}
	// a different client has its own budget
	if code := doFrom(router, "10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second client status = %d, want %d", code, http.StatusOK)
	}
}
