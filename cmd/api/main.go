package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Vonter/bmrcl-station-app/internal/app"
	"github.com/Vonter/bmrcl-station-app/internal/appconf"
	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/restapi"
	"github.com/Vonter/bmrcl-station-app/internal/spatial"
	"github.com/Vonter/bmrcl-station-app/internal/walking"
	"github.com/Vonter/bmrcl-station-app/internal/webui"
)

func main() {
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, data, logLevel := parseFlags(os.Args[1:])

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	if err := run(cfg, data, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (appconf.Config, app.DataConfig, string) {
	var cfg appconf.Config
	var data app.DataConfig
	var env, apiKeys, exemptKeys, logLevel string

	fs := flag.NewFlagSet("api", flag.ExitOnError)
	fs.IntVar(&cfg.Port, "port", appconf.EnvInt("PORT", 4000), "API server port")
	fs.StringVar(&env, "env", appconf.EnvString("ENV", "development"), "Environment (development|test|production)")
	fs.StringVar(&apiKeys, "api-keys", appconf.EnvString("API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	fs.StringVar(&exemptKeys, "exempt-api-keys", appconf.EnvString("EXEMPT_API_KEYS", ""), "Comma Separated API Keys that bypass rate limiting")
	fs.IntVar(&cfg.RateLimit, "rate-limit", appconf.EnvInt("RATE_LIMIT", 100), "Requests per second per API key (0 disables)")

	fs.StringVar(&data.CatalogPath, "catalog", appconf.EnvString("CATALOG_PATH", ""), "Network dataset YAML (default: built-in)")
	fs.StringVar(&data.GTFSPath, "gtfs", appconf.EnvString("GTFS_PATH", ""), "Static GTFS zip to build the network from")
	fs.StringVar(&data.Sources.Voronoi, "voronoi", appconf.EnvString("VORONOI_SOURCE", ""), "Voronoi GeoJSON path or URL")
	fs.StringVar(&data.Sources.Points, "points", appconf.EnvString("POINTS_SOURCE", ""), "Station entrance GeoJSON path or URL")
	fs.StringVar(&data.Sources.Lines, "lines", appconf.EnvString("LINES_SOURCE", ""), "Line geometry GeoJSON path or URL")

	fs.StringVar(&data.ValhallaURL, "valhalla-url", appconf.EnvString("VALHALLA_URL", walking.DefaultURL), "Valhalla route endpoint")
	fs.IntVar(&data.WalkRetries, "walk-retries", appconf.EnvInt("WALK_RETRIES", 5), "Walking route attempts")
	fs.DurationVar(&data.WalkRetryDelay, "walk-retry-delay", appconf.EnvDuration("WALK_RETRY_DELAY", 2*time.Second), "Delay between walking route attempts")
	fs.BoolVar(&data.WalkBackoff, "walk-backoff", appconf.EnvBool("WALK_BACKOFF", false), "Double the walking retry delay after each failure")
	fs.DurationVar(&data.WalkBackoffMax, "walk-backoff-max", appconf.EnvDuration("WALK_BACKOFF_MAX", 16*time.Second), "Longest walking retry delay with -walk-backoff")
	fs.DurationVar(&data.WalkTimeout, "walk-timeout", appconf.EnvDuration("WALK_TIMEOUT", walking.DefaultAttemptTimeout), "Timeout of a single walking route request")
	fs.IntVar(&data.WalkCacheSize, "walk-cache-size", appconf.EnvInt("WALK_CACHE_SIZE", 1024), "Cached walking routes (0 disables)")
	fs.DurationVar(&data.WalkCacheTTL, "walk-cache-ttl", appconf.EnvDuration("WALK_CACHE_TTL", time.Hour), "Walking route cache lifetime")

	fs.StringVar(&logLevel, "log-level", appconf.EnvString("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	_ = fs.Parse(args)

	cfg.Env = appconf.EnvFlagToEnvironment(env)
	cfg.ApiKeys = appconf.ParseAPIKeys(apiKeys)
	cfg.ExemptApiKeys = appconf.ParseAPIKeys(exemptKeys)

	return cfg, data, logLevel
}

// writeTimeout leaves room for a journey whose walking legs use their whole
// retry budget.
func writeTimeout(walkBudget time.Duration) time.Duration {
	const minimum = 30 * time.Second
	if t := walkBudget + 10*time.Second; t > minimum {
		return t
	}
	return minimum
}

func run(cfg appconf.Config, data app.DataConfig, logger *slog.Logger) error {
	if data.Sources == (spatial.Sources{}) {
		logger.Warn("no spatial sources configured; journeys will report outside coverage")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, data, logger)
	if err != nil {
		return err
	}

	// A failed initial load is retried lazily by the first request that needs it.
	go func() {
		_ = application.Spatial.Load(ctx)
	}()

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	webUI := &webui.WebUI{Application: application}
	handler := api.Routes(func(router *httprouter.Router) {
		if cfg.Env != appconf.Production {
			webui.SetWebUIRoutes(router, webUI)
		}
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout(application.Walking.Budget()),
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
