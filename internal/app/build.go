package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vonter/bmrcl-station-app/internal/appconf"
	"github.com/Vonter/bmrcl-station-app/internal/geometry"
	"github.com/Vonter/bmrcl-station-app/internal/journey"
	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/network"
	"github.com/Vonter/bmrcl-station-app/internal/planner"
	"github.com/Vonter/bmrcl-station-app/internal/spatial"
	"github.com/Vonter/bmrcl-station-app/internal/walking"
)

// DataConfig locates the reference data and the walking service.
type DataConfig struct {
	// CatalogPath is a YAML dataset. Empty selects the embedded network.
	CatalogPath string
	// GTFSPath is a static GTFS zip. When set, stations and lines come from
	// the feed and CatalogPath only supplies floors and platforms.
	GTFSPath string

	Sources spatial.Sources

	ValhallaURL    string
	WalkRetries    int
	WalkRetryDelay time.Duration
	// WalkBackoff doubles the retry delay after each failure, up to WalkBackoffMax.
	WalkBackoff    bool
	WalkBackoffMax time.Duration
	WalkTimeout    time.Duration
	WalkCacheSize  int
	WalkCacheTTL   time.Duration
}

// WalkRetryPolicy returns the retry policy for the walking client.
func (d DataConfig) WalkRetryPolicy() walking.RetryPolicy {
	if d.WalkRetries <= 0 {
		return walking.DefaultRetry
	}
	if d.WalkBackoff {
		return walking.ExponentialBackoff{MaxAttempts: d.WalkRetries, Initial: d.WalkRetryDelay, Max: d.WalkBackoffMax}
	}
	return walking.FixedRetry{MaxAttempts: d.WalkRetries, Interval: d.WalkRetryDelay}
}

// LoadCatalog builds the station catalog described by the data config.
func LoadCatalog(ctx context.Context, data DataConfig) (*network.Catalog, error) {
	if data.GTFSPath == "" {
		return network.LoadFile(data.CatalogPath)
	}

	var (
		overlay network.Dataset
		err     error
	)
	if data.CatalogPath != "" {
		overlay, err = network.ReadDatasetFile(data.CatalogPath)
	} else {
		overlay, err = network.DefaultDataset()
	}
	if err != nil {
		return nil, err
	}
	return network.LoadGTFS(ctx, data.GTFSPath, overlay, nil)
}

// New wires the application. Spatial data is not fetched here; call
// Spatial.Load once the server is ready.
func New(ctx context.Context, cfg appconf.Config, data DataConfig, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	catalog, err := LoadCatalog(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("loading station catalog: %w", err)
	}

	index := spatial.NewIndex(data.Sources, logger)

	walker := walking.NewClient(walking.Config{
		URL:            data.ValhallaURL,
		Retry:          data.WalkRetryPolicy(),
		AttemptTimeout: data.WalkTimeout,
		CacheSize:      data.WalkCacheSize,
		CacheTTL:       data.WalkCacheTTL,
	}, logger)

	plans := planner.New(catalog, logger)

	app := &Application{
		Config:      cfg,
		Logger:      logger,
		Catalog:     catalog,
		Spatial:     index,
		Walking:     walker,
		Planner:     plans,
		Highlighter: geometry.NewHighlighter(catalog, index, logger),
		Journeys:    journey.NewOrchestrator(catalog, index, walker, plans, logger),
	}

	logging.LogOperation(logging.Component(logger, "app"), "application_built",
		slog.String("env", cfg.Env.String()),
		slog.Int("lines", len(catalog.Lines())),
		slog.Int("stations", len(catalog.Stations())))

	return app, nil
}
