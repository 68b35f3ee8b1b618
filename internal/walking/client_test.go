package walking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

var (
	fromPoint = orb.Point{77.5710, 12.9760}
	toPoint   = orb.Point{77.5750, 12.9780}
)

func precision6Shape() string {
	return string(valhallaCodec.EncodeCoords(nil, [][]float64{
		{12.976000, 77.571000},
		{12.977000, 77.573000},
		{12.978000, 77.575000},
	}))
}

func validResponse() []byte {
	return []byte(`{"trip":{"legs":[{"shape":"` + jsonEscape(precision6Shape()) + `","summary":{"time":390,"length":0.5123}}]}}`)
}

func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}

func fastRetry(n int) RetryPolicy {
	return FixedRetry{MaxAttempts: n, Interval: time.Millisecond}
}

func TestRouteSuccess(t *testing.T) {
	var got routeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write(validResponse())
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Retry: fastRetry(5)}, nil)
	route, err := client.Route(context.Background(), fromPoint, toPoint)
	require.NoError(t, err)

	assert.InDelta(t, 6.5, route.DurationMinutes, 1e-9)
	assert.InDelta(t, 512.3, route.DistanceMeters, 1e-6)

	coords, err := DecodeShape(route.Polyline)
	require.NoError(t, err)
	require.Len(t, coords, 3)
	assert.InDelta(t, 12.976, coords[0][0], 1e-5)
	assert.InDelta(t, 77.571, coords[0][1], 1e-5)
	assert.InDelta(t, 12.978, coords[2][0], 1e-5)
	assert.InDelta(t, 77.575, coords[2][1], 1e-5)

	assert.Equal(t, "pedestrian", got.Costing)
	assert.Equal(t, "kilometers", got.Units)
	assert.Equal(t, "kilometers", got.DirectionsOptions.Units)
	require.Len(t, got.Locations, 2)
	assert.Equal(t, location{Lat: 12.9760, Lon: 77.5710}, got.Locations[0])
	assert.Equal(t, location{Lat: 12.9780, Lon: 77.5750}, got.Locations[1])
}

func TestRouteRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			_, _ = w.Write([]byte(`{"trip": `))
		default:
			_, _ = w.Write(validResponse())
		}
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Retry: fastRetry(5)}, nil)
	route, err := client.Route(context.Background(), fromPoint, toPoint)
	require.NoError(t, err)
	assert.NotNil(t, route)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRouteGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Retry: fastRetry(5)}, nil)
	route, err := client.Route(context.Background(), fromPoint, toPoint)
	assert.Nil(t, route)
	require.ErrorIs(t, err, ErrNoRoute)
	assert.Contains(t, err.Error(), "status 503")
	assert.Equal(t, int32(5), calls.Load())
}

func TestRouteMissingLegsIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"trip":{"legs":[]}}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Retry: fastRetry(5)}, nil)
	_, err := client.Route(context.Background(), fromPoint, toPoint)
	require.ErrorIs(t, err, ErrNoRoute)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRouteContextCancelledDuringWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(Config{
		URL:   server.URL,
		Retry: FixedRetry{MaxAttempts: 5, Interval: time.Hour},
	}, nil)

	start := time.Now()
	_, err := client.Route(ctx, fromPoint, toPoint)
	require.ErrorIs(t, err, ErrNoRoute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRouteCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write(validResponse())
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Retry: fastRetry(1), CacheSize: 10, CacheTTL: time.Minute}, nil)

	first, err := client.Route(context.Background(), fromPoint, toPoint)
	require.NoError(t, err)
	second, err := client.Route(context.Background(), orb.Point{77.571001, 12.976001}, toPoint)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	_, err = client.Route(context.Background(), toPoint, fromPoint)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReencodeShape(t *testing.T) {
	coords := [][]float64{{12.9716, 77.5946}, {12.9720, 77.5950}}
	shape := string(valhallaCodec.EncodeCoords(nil, coords))

	out, err := ReencodeShape(shape)
	require.NoError(t, err)
	assert.Equal(t, string(polyline.EncodeCoords(coords)), out)

	empty, err := ReencodeShape("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ReencodeShape("\x01")
	assert.Error(t, err)
}

func TestRetryPolicies(t *testing.T) {
	assert.Equal(t, 5, DefaultRetry.Attempts())
	assert.Equal(t, 2*time.Second, DefaultRetry.Delay(1))
	assert.Equal(t, 2*time.Second, DefaultRetry.Delay(4))

	backoff := ExponentialBackoff{MaxAttempts: 4, Initial: 100 * time.Millisecond, Max: 500 * time.Millisecond}
	assert.Equal(t, 4, backoff.Attempts())
	assert.Equal(t, 100*time.Millisecond, backoff.Delay(1))
	assert.Equal(t, 200*time.Millisecond, backoff.Delay(2))
	assert.Equal(t, 400*time.Millisecond, backoff.Delay(3))
	assert.Equal(t, 500*time.Millisecond, backoff.Delay(4))
	assert.Equal(t, 500*time.Millisecond, backoff.Delay(10))
}

func TestRetryBudget(t *testing.T) {
	assert.Equal(t, 58*time.Second, RetryBudget(DefaultRetry, DefaultAttemptTimeout))

	backoff := ExponentialBackoff{MaxAttempts: 4, Initial: 100 * time.Millisecond, Max: 500 * time.Millisecond}
	assert.Equal(t, 4*time.Second+700*time.Millisecond, RetryBudget(backoff, time.Second))

	assert.Equal(t, time.Second, RetryBudget(FixedRetry{}, time.Second), "at least one attempt")

	client := NewClient(Config{}, nil)
	assert.Equal(t, DefaultAttemptTimeout, client.AttemptTimeout())
	assert.Equal(t, 58*time.Second, client.Budget())

	client = NewClient(Config{AttemptTimeout: 3 * time.Second, Retry: FixedRetry{MaxAttempts: 2, Interval: time.Second}}, nil)
	assert.Equal(t, 7*time.Second, client.Budget())
}

func TestRouteAttemptTimeout(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Config{URL: server.URL, Retry: fastRetry(2), AttemptTimeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	route, err := client.Route(context.Background(), fromPoint, toPoint)
	assert.Nil(t, route)
	require.ErrorIs(t, err, ErrNoRoute)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}
