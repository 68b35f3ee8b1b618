package app

import (
	"log/slog"

	"github.com/Vonter/bmrcl-station-app/internal/appconf"
	"github.com/Vonter/bmrcl-station-app/internal/geometry"
	"github.com/Vonter/bmrcl-station-app/internal/journey"
	"github.com/Vonter/bmrcl-station-app/internal/network"
	"github.com/Vonter/bmrcl-station-app/internal/planner"
	"github.com/Vonter/bmrcl-station-app/internal/spatial"
	"github.com/Vonter/bmrcl-station-app/internal/walking"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware. Everything except Config and Logger is built once at
// startup and shared read-only between requests.
type Application struct {
	Config      appconf.Config
	Logger      *slog.Logger
	Catalog     *network.Catalog
	Spatial     *spatial.Index
	Walking     *walking.Client
	Planner     *planner.Planner
	Highlighter *geometry.Highlighter
	Journeys    *journey.Orchestrator
}
