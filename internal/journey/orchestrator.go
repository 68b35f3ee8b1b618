package journey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/network"
	"github.com/Vonter/bmrcl-station-app/internal/planner"
	"github.com/Vonter/bmrcl-station-app/internal/spatial"
	"github.com/Vonter/bmrcl-station-app/internal/walking"
)

// StationBufferMinutes covers ticketing, security and platform access.
const StationBufferMinutes = 6

var (
	ErrOutsideCoverage = errors.New("coordinate is outside the metro coverage area")
	ErrUnknownStation  = errors.New("resolved station is not in the catalog")
	ErrNoWalkingRoute  = errors.New("walking route unavailable")
)

// Locator resolves coordinates to station entrances.
type Locator interface {
	EnsureLoaded(ctx context.Context) error
	Resolve(p orb.Point) (spatial.Match, bool)
	Entrance(code, ref string) (orb.Point, bool)
}

// Router returns pedestrian routes.
type Router interface {
	Route(ctx context.Context, from, to orb.Point) (*walking.Route, error)
}

type Orchestrator struct {
	catalog *network.Catalog
	locator Locator
	router  Router
	planner *planner.Planner
	logger  *slog.Logger
}

func NewOrchestrator(catalog *network.Catalog, locator Locator, router Router, p *planner.Planner, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalog: catalog,
		locator: locator,
		router:  router,
		planner: p,
		logger:  logging.Component(logger, "journey_orchestrator"),
	}
}

type walkResult struct {
	route *walking.Route
	err   error
}

// ComputeJourney plans a trip between two coordinates. It returns a nil
// Details only together with one of the package's sentinel errors.
func (o *Orchestrator) ComputeJourney(ctx context.Context, origin, dest orb.Point) (*Details, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := o.logger.With(slog.String("request_id", requestID))

	if err := o.locator.EnsureLoaded(ctx); err != nil {
		logger.Warn("spatial data incomplete", slog.String("error", err.Error()))
	}

	originMatch, ok := o.locator.Resolve(origin)
	if !ok {
		return nil, fmt.Errorf("origin %v: %w", origin, ErrOutsideCoverage)
	}
	destMatch, ok := o.locator.Resolve(dest)
	if !ok {
		return nil, fmt.Errorf("destination %v: %w", dest, ErrOutsideCoverage)
	}

	originStation, ok := o.catalog.Station(originMatch.StationCode)
	if !ok {
		return nil, fmt.Errorf("origin %q: %w", originMatch.StationCode, ErrUnknownStation)
	}
	destStation, ok := o.catalog.Station(destMatch.StationCode)
	if !ok {
		return nil, fmt.Errorf("destination %q: %w", destMatch.StationCode, ErrUnknownStation)
	}

	entry := o.entrance(originStation, originMatch.EntryRef)
	exit := o.entrance(destStation, destMatch.EntryRef)

	var wg sync.WaitGroup
	var toStation, fromStation walkResult

	wg.Add(1)
	go func() {
		defer wg.Done()
		toStation.route, toStation.err = o.router.Route(ctx, origin, entry)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		fromStation.route, fromStation.err = o.router.Route(ctx, exit, dest)
	}()

	wg.Wait()

	if toStation.err != nil || fromStation.err != nil {
		err := errors.Join(toStation.err, fromStation.err)
		logging.LogError(logger, "walking leg failed", err,
			slog.String("origin_station", originStation.Code),
			slog.String("destination_station", destStation.Code))
		return nil, fmt.Errorf("%w: %w", ErrNoWalkingRoute, err)
	}
	if toStation.route == nil || fromStation.route == nil {
		return nil, ErrNoWalkingRoute
	}

	plan, err := o.planner.Plan(originStation.Code, destStation.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownStation, err)
	}
	price := planner.FareForStops(plan.TotalStops)

	walkTo := int(math.Ceil(toStation.route.DurationMinutes))
	walkFrom := int(math.Ceil(fromStation.route.DurationMinutes))
	walkToMeters := int(math.Round(toStation.route.DistanceMeters))
	walkFromMeters := int(math.Round(fromStation.route.DistanceMeters))

	details := &Details{
		RequestID:          requestID,
		OriginStation:      originStation.Name,
		DestinationStation: destStation.Name,
		RequiresTransfer:   plan.Transfer,

		FirstLegExit:              originMatch.EntryRef,
		FirstLegWalkTime:          walkTo,
		FirstLegWalkDistance:      walkToMeters,
		FirstLegPlatform:          plan.First.Platform,
		FirstLegWalkRoute:         toStation.route.Polyline,
		FirstLegMetroTime:         plan.First.Minutes,
		FirstLegMetroStops:        plan.First.Stops,
		FirstLegDirectionName:     plan.First.Direction,
		FirstLegElevatorDirection: plan.First.Elevator,

		SecondLegExit:              destMatch.EntryRef,
		SecondLegWalkTime:          walkFrom,
		SecondLegWalkDistance:      walkFromMeters,
		SecondLegPlatform:          plan.Second.Platform,
		SecondLegWalkRoute:         fromStation.route.Polyline,
		SecondLegMetroTime:         plan.Second.Minutes,
		SecondLegMetroStops:        plan.Second.Stops,
		SecondLegDirectionName:     plan.Second.Direction,
		SecondLegElevatorDirection: plan.Second.Elevator,

		TotalTime:       walkTo + plan.TotalMinutes + walkFrom + StationBufferMinutes,
		TotalDistanceKm: round2(float64(walkToMeters+walkFromMeters)/1000 + plan.DistanceKm()),
		Price:           price,
	}

	if plan.Transfer && plan.TransferTo != nil {
		color := plan.TransferTo.Name
		elevator := plan.TransferTo.TransferElevator
		details.TransferToColor = &color
		details.TransferToElevatorDirection = &elevator
	}

	logging.LogOperation(logger, "journey_computed",
		slog.String("origin_station", originStation.Code),
		slog.String("destination_station", destStation.Code),
		slog.Int("walk_to_minutes", walkTo),
		slog.Int("walk_to_meters", walkToMeters),
		slog.Int("metro_minutes", plan.TotalMinutes),
		slog.Int("metro_stops", plan.TotalStops),
		slog.Bool("transfer", plan.Transfer),
		slog.Int("walk_from_minutes", walkFrom),
		slog.Int("walk_from_meters", walkFromMeters),
		slog.Float64("total_distance_km", details.TotalDistanceKm),
		slog.Int("total_minutes", details.TotalTime),
		slog.Duration("duration", time.Since(start)))

	return details, nil
}

// entrance returns the marker for a station entrance, or the station's own
// coordinates when no marker is known.
func (o *Orchestrator) entrance(station *network.Station, ref string) orb.Point {
	if p, ok := o.locator.Entrance(station.Code, ref); ok {
		return p
	}
	return station.Coordinates
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
