package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocalFixedWindowLimiter(t *testing.T) {
	limiter := NewLocalFixedWindowLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	allowed, retryAfter, err := limiter.Allow(ctx, "1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatal("fourth request should be denied")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("unexpected retry-after %v", retryAfter)
	}

	// A different key has its own window.
	allowed, _, err = limiter.Allow(ctx, "5.6.7.8", 3, time.Minute)
	if err != nil || !allowed {
		t.Fatalf("independent key should be allowed, got allowed=%v err=%v", allowed, err)
	}
}

func TestLocalFixedWindowLimiterResets(t *testing.T) {
	limiter := NewLocalFixedWindowLimiter()
	ctx := context.Background()
	window := 20 * time.Millisecond

	if allowed, _, _ := limiter.Allow(ctx, "k", 1, window); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _, _ := limiter.Allow(ctx, "k", 1, window); allowed {
		t.Fatal("second request should be denied")
	}
	time.Sleep(2 * window)
	if allowed, _, _ := limiter.Allow(ctx, "k", 1, window); !allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, "auth")
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.1.1.1:50000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send(); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	// Another client keeps its own window.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.2.2.2:50000"
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Fatalf("expected 200 for a fresh client, got %d", other.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, time.Duration, error) {
	return false, 0, errors.New("backend down")
}

func TestRateLimiterFailureModes(t *testing.T) {
	send := func(rl *RateLimiter) *httptest.ResponseRecorder {
		handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.RemoteAddr = "10.3.3.3:50000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("fail open lets traffic through", func(t *testing.T) {
		rl := NewDistributedRateLimiter(failingLimiter{}, 10, time.Minute, FailOpen, "api")
		if rec := send(rl); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 in fail-open, got %d", rec.Code)
		}
	})

	t.Run("fail closed rejects traffic", func(t *testing.T) {
		rl := NewDistributedRateLimiter(failingLimiter{}, 10, time.Minute, FailClosed, "auth")
		rec := send(rl)
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 in fail-closed, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Fatal("expected Retry-After header")
		}
	})
}
