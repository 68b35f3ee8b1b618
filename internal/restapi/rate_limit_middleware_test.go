package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vonter/bmrcl-station-app/internal/appconf"
	"github.com/Vonter/bmrcl-station-app/internal/models"
)

func newLimited(t *testing.T, ratePerInterval int, interval time.Duration, exempt ...string) http.Handler {
	t.Helper()
	rl := NewRateLimitMiddleware(ratePerInterval, interval, exempt...)
	t.Cleanup(rl.Stop)
	return rl.Handler(okHandler(""))
}

func serveKey(h http.Handler, key string) *httptest.ResponseRecorder {
	target := "/test"
	if key != "" {
		target += "?key=" + key
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	limited := newLimited(t, 3, time.Second)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveKey(limited, "test-api-key").Code, "Request %d should be allowed", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, serveKey(limited, "test-api-key").Code)
}

func TestRateLimitMiddleware_PerAPIKeyLimiting(t *testing.T) {
	limited := newLimited(t, 2, time.Second)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveKey(limited, "api-key-1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serveKey(limited, "api-key-1").Code)
	assert.Equal(t, http.StatusOK, serveKey(limited, "api-key-2").Code, "API key 2 should not be affected")
}

func TestRateLimitMiddleware_HeaderKeySharesQueryKeyLimit(t *testing.T) {
	limited := newLimited(t, 1, time.Second)

	assert.Equal(t, http.StatusOK, serveKey(limited, "shared").Code)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Api-Key", "shared")
	w := httptest.NewRecorder()
	limited.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitMiddleware_ExemptKeys(t *testing.T) {
	limited := newLimited(t, 1, time.Second, "station-kiosk")

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, serveKey(limited, "station-kiosk").Code,
			"Exempted API key request %d should always be allowed", i+1)
	}
}

func TestRateLimitMiddleware_NoAPIKeySharesOneLimiter(t *testing.T) {
	limited := newLimited(t, 1, time.Second)

	assert.Equal(t, http.StatusOK, serveKey(limited, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveKey(limited, "").Code)
}

func TestRateLimitMiddleware_DisabledWhenRateNotPositive(t *testing.T) {
	for _, r := range []int{0, -1} {
		t.Run(fmt.Sprint(r), func(t *testing.T) {
			limited := newLimited(t, r, time.Second)
			for i := 0; i < 20; i++ {
				assert.Equal(t, http.StatusOK, serveKey(limited, "any").Code)
			}
		})
	}
}

func TestRateLimitMiddleware_RefillsOverTime(t *testing.T) {
	limited := newLimited(t, 1, 100*time.Millisecond)

	assert.Equal(t, http.StatusOK, serveKey(limited, "test-key").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveKey(limited, "test-key").Code)

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, http.StatusOK, serveKey(limited, "test-key").Code, "Request after refill should succeed")
}

func TestRateLimitMiddleware_ConcurrentRequests(t *testing.T) {
	limited := newLimited(t, 5, time.Second)

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			results[index] = serveKey(limited, "concurrent-test").Code
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, code := range results {
		counts[code]++
	}
	assert.Equal(t, 5, counts[http.StatusOK])
	assert.Equal(t, 5, counts[http.StatusTooManyRequests])
}

func TestRateLimitMiddleware_RateLimitedResponseFormat(t *testing.T) {
	limited := newLimited(t, 1, time.Second)

	serveKey(limited, "test-key")
	w := serveKey(limited, "test-key")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, http.StatusTooManyRequests, response.Code)
	assert.Equal(t, 2, response.Version)
	assert.Contains(t, response.Text, "Rate limit exceeded")
}

func TestRateLimitMiddleware_SweepDropsIdleLimiters(t *testing.T) {
	rl := NewRateLimitMiddleware(2, 10*time.Millisecond)
	defer rl.Stop()

	rl.Handler(okHandler("")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test?key=idle", nil))
	require.Len(t, rl.limiters, 1)

	time.Sleep(30 * time.Millisecond)
	rl.sweep()
	assert.Empty(t, rl.limiters)

	rl.Stop()
	rl.Stop()
}

func TestRateLimitingIntegration(t *testing.T) {
	api, _ := createTestApiWithConfig(t, appconf.Config{
		RateLimit:     5,
		ApiKeys:       []string{"TEST", "KIOSK"},
		ExemptApiKeys: []string{"KIOSK"},
	})
	server := httptest.NewServer(api.Routes(nil))
	defer server.Close()

	tests := []struct {
		name          string
		endpoint      string
		requestCount  int
		expectBlocked int
	}{
		{"stations with normal key", "/api/stations.json?key=TEST", 10, 5},
		{"exempt key", "/api/current-time.json?key=KIOSK", 15, 0},
		{"invalid keys are limited before auth", "/api/current-time.json?key=unknown", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked := 0
			for i := 0; i < tt.requestCount; i++ {
				resp, err := http.Get(server.URL + tt.endpoint)
				require.NoError(t, err)
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusTooManyRequests {
					blocked++
				}
			}
			assert.Equal(t, tt.expectBlocked, blocked)
		})
	}
}
