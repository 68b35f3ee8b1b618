package walking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bluele/gcache"
	"github.com/paulmach/orb"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
)

const DefaultURL = "https://valhalla1.openstreetmap.de/route"

var ErrNoRoute = errors.New("no walking route")

var errMissingLegs = errors.New("response has no route legs")

// Route is a pedestrian route between two points.
type Route struct {
	DurationMinutes float64
	DistanceMeters  float64
	// Polyline is encoded at precision 5.
	Polyline string
}

// DefaultAttemptTimeout bounds a single routing request.
const DefaultAttemptTimeout = 10 * time.Second

type Config struct {
	URL        string
	Retry      RetryPolicy
	HTTPClient *http.Client
	// AttemptTimeout applies when HTTPClient is nil. Zero selects
	// DefaultAttemptTimeout.
	AttemptTimeout time.Duration
	// CacheSize of 0 disables caching.
	CacheSize int
	CacheTTL  time.Duration
}

// Client requests pedestrian routes from a Valhalla server.
type Client struct {
	url    string
	retry  RetryPolicy
	http   *http.Client
	cache  gcache.Cache
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		url:    cfg.URL,
		retry:  cfg.Retry,
		http:   cfg.HTTPClient,
		logger: logging.Component(logger, "walking_client"),
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.retry == nil {
		c.retry = DefaultRetry
	}
	if c.http == nil {
		timeout := cfg.AttemptTimeout
		if timeout <= 0 {
			timeout = DefaultAttemptTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if cfg.CacheSize > 0 {
		builder := gcache.New(cfg.CacheSize).LRU()
		if cfg.CacheTTL > 0 {
			builder = builder.Expiration(cfg.CacheTTL)
		}
		c.cache = builder.Build()
	}
	return c
}

// AttemptTimeout returns the per-request timeout of the underlying client.
// Zero means unbounded.
func (c *Client) AttemptTimeout() time.Duration { return c.http.Timeout }

// Budget is the longest Route can take: every attempt running to its
// timeout plus the waits between attempts.
func (c *Client) Budget() time.Duration {
	return RetryBudget(c.retry, c.http.Timeout)
}

type location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type directionsOptions struct {
	Units string `json:"units"`
}

type routeRequest struct {
	Locations         []location        `json:"locations"`
	Costing           string            `json:"costing"`
	Units             string            `json:"units"`
	DirectionsOptions directionsOptions `json:"directions_options"`
}

type routeResponse struct {
	Trip struct {
		Legs []struct {
			Shape   string `json:"shape"`
			Summary struct {
				Time   float64 `json:"time"`
				Length float64 `json:"length"`
			} `json:"summary"`
		} `json:"legs"`
	} `json:"trip"`
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("routing service returned status %d", e.code)
}

// Route returns the walking route from one point to another. Failed requests
// are retried according to the client's retry policy; the returned error
// always wraps ErrNoRoute.
func (c *Client) Route(ctx context.Context, from, to orb.Point) (*Route, error) {
	key := cacheKey(from, to)
	if c.cache != nil {
		if cached, err := c.cache.Get(key); err == nil {
			if r, ok := cached.(*Route); ok {
				return r, nil
			}
		}
	}

	body, err := json.Marshal(routeRequest{
		Locations: []location{
			{Lat: from.Lat(), Lon: from.Lon()},
			{Lat: to.Lat(), Lon: to.Lon()},
		},
		Costing:           "pedestrian",
		Units:             "kilometers",
		DirectionsOptions: directionsOptions{Units: "kilometers"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRoute, err)
	}

	attempts := c.retry.Attempts()
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		route, err := c.request(ctx, body)
		if err == nil {
			if c.cache != nil {
				_ = c.cache.Set(key, route)
			}
			return route, nil
		}
		if errors.Is(err, errMissingLegs) {
			logging.LogError(c.logger, "routing response without legs", err,
				slog.String("from", fmt.Sprint(from)),
				slog.String("to", fmt.Sprint(to)))
			return nil, fmt.Errorf("%w: %w", ErrNoRoute, err)
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoRoute, ctx.Err())
		}
		if attempt == attempts {
			break
		}

		wait := c.retry.Delay(attempt)
		logging.LogRetry(c.logger, "walking_route", attempt, attempts, wait, err)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", ErrNoRoute, ctx.Err())
		}
	}

	logging.LogError(c.logger, "walking route failed after retries", lastErr,
		slog.Int("attempts", attempts))
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrNoRoute, attempts, lastErr)
}

func (c *Client) request(ctx context.Context, body []byte) (*Route, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer logging.DrainAndClose(resp.Body, c.logger, "valhalla_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError{code: resp.StatusCode}
	}

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding routing response: %w", err)
	}
	if len(decoded.Trip.Legs) == 0 {
		return nil, errMissingLegs
	}

	leg := decoded.Trip.Legs[0]
	shape, err := ReencodeShape(leg.Shape)
	if err != nil {
		return nil, err
	}

	return &Route{
		DurationMinutes: leg.Summary.Time / 60,
		DistanceMeters:  leg.Summary.Length * 1000,
		Polyline:        shape,
	}, nil
}

// cacheKey rounds to five decimal places, roughly one metre.
func cacheKey(from, to orb.Point) string {
	return fmt.Sprintf("%.5f,%.5f;%.5f,%.5f", from.Lat(), from.Lon(), to.Lat(), to.Lon())
}
