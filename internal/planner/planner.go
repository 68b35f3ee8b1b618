package planner

import (
	"fmt"
	"log/slog"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/network"
)

const (
	// MinutesPerStop is the scheduled running time between adjacent stations.
	MinutesPerStop = 2
	// TransferMinutes is added once when a journey changes lines.
	TransferMinutes = 5
	// KilometersPerStop approximates the track distance between adjacent stations.
	KilometersPerStop = 1.2
)

const (
	ElevatorUp   = "up"
	ElevatorDown = "down"
)

// Leg is one ride on a single line.
type Leg struct {
	Line      network.LineID
	Stops     int
	Minutes   int
	Platform  int
	Direction string
	Elevator  string
}

// Plan is the in-system part of a journey. Second is only populated when Transfer is set.
type Plan struct {
	Origin       *network.Station
	Destination  *network.Station
	First        Leg
	Second       Leg
	Transfer     bool
	TransferTo   *network.Line
	TotalStops   int
	TotalMinutes int
}

// DistanceKm approximates the track distance covered by the plan.
func (p Plan) DistanceKm() float64 {
	return float64(p.TotalStops) * KilometersPerStop
}

type Planner struct {
	catalog *network.Catalog
	logger  *slog.Logger
}

func New(catalog *network.Catalog, logger *slog.Logger) *Planner {
	return &Planner{
		catalog: catalog,
		logger:  logging.Component(logger, "journey_planner"),
	}
}

// Plan computes the metro legs between two station codes. A journey from a
// station to itself is a valid zero-stop plan.
func (p *Planner) Plan(originCode, destCode string) (Plan, error) {
	origin, dest, err := p.lookup(originCode, destCode)
	if err != nil {
		return Plan{}, err
	}

	if om, dm, ok := network.SharedLine(origin, dest); ok {
		line, _ := p.catalog.Line(om.Line)
		first := ride(line, om, dm.Index)
		first.Elevator = firstLegElevator(origin)

		plan := Plan{
			Origin:       origin,
			Destination:  dest,
			First:        first,
			Second:       Leg{Elevator: secondLegElevator(dest)},
			TotalStops:   first.Stops,
			TotalMinutes: first.Minutes,
		}
		p.logger.Debug("same-line plan",
			slog.String("origin", origin.Code),
			slog.String("destination", dest.Code),
			slog.Int("stops", plan.TotalStops))
		return plan, nil
	}

	hub := p.catalog.Interchange()
	originLine, destLine, hubOnOrigin, hubOnDest, err := p.transferLegs(origin, dest, hub)
	if err != nil {
		return Plan{}, err
	}

	om, _ := origin.On(originLine.ID)
	dm, _ := dest.On(destLine.ID)

	first := ride(originLine, om, hubOnOrigin.Index)
	first.Elevator = firstLegElevator(origin)

	second := ride(destLine, hubOnDest, dm.Index)
	second.Elevator = secondLegElevator(dest)

	plan := Plan{
		Origin:       origin,
		Destination:  dest,
		First:        first,
		Second:       second,
		Transfer:     true,
		TransferTo:   destLine,
		TotalStops:   first.Stops + second.Stops,
		TotalMinutes: first.Minutes + second.Minutes + TransferMinutes,
	}
	p.logger.Debug("transfer plan",
		slog.String("origin", origin.Code),
		slog.String("destination", dest.Code),
		slog.String("interchange", hub.Code),
		slog.Int("stops", plan.TotalStops))
	return plan, nil
}

// Stops returns the number of stops travelled between two stations, counting
// both legs when a transfer is needed.
func (p *Planner) Stops(originCode, destCode string) (int, error) {
	plan, err := p.Plan(originCode, destCode)
	if err != nil {
		return 0, err
	}
	return plan.TotalStops, nil
}

func (p *Planner) lookup(originCode, destCode string) (*network.Station, *network.Station, error) {
	origin, ok := p.catalog.Station(originCode)
	if !ok {
		return nil, nil, fmt.Errorf("origin %q: %w", originCode, network.ErrUnknownStation)
	}
	dest, ok := p.catalog.Station(destCode)
	if !ok {
		return nil, nil, fmt.Errorf("destination %q: %w", destCode, network.ErrUnknownStation)
	}
	return origin, dest, nil
}

func (p *Planner) transferLegs(origin, dest, hub *network.Station) (*network.Line, *network.Line, network.Membership, network.Membership, error) {
	if hub == nil || len(origin.Memberships) == 0 || len(dest.Memberships) == 0 {
		return nil, nil, network.Membership{}, network.Membership{}, fmt.Errorf("no route between %s and %s", origin.Code, dest.Code)
	}

	originLine, _ := p.catalog.Line(origin.Memberships[0].Line)
	destLine, _ := p.catalog.Line(dest.Memberships[0].Line)
	hubOnOrigin, ok1 := hub.On(originLine.ID)
	hubOnDest, ok2 := hub.On(destLine.ID)
	if !ok1 || !ok2 {
		return nil, nil, network.Membership{}, network.Membership{}, fmt.Errorf("interchange %s does not connect %s and %s", hub.Code, origin.Code, dest.Code)
	}
	return originLine, destLine, hubOnOrigin, hubOnDest, nil
}

// ride builds a leg on line from the boarding membership to index to.
func ride(line *network.Line, from network.Membership, to int) Leg {
	stops := abs(to - from.Index)
	return Leg{
		Line:      line.ID,
		Stops:     stops,
		Minutes:   stops * MinutesPerStop,
		Platform:  from.PlatformToward(to),
		Direction: line.TerminalToward(from.Index, to).Name,
	}
}

func firstLegElevator(origin *network.Station) string {
	if origin.PlatformFirst() {
		return ElevatorUp
	}
	return ElevatorDown
}

func secondLegElevator(dest *network.Station) string {
	if dest.PlatformFirst() {
		return ElevatorDown
	}
	return ElevatorUp
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
