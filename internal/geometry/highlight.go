package geometry

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/network"
)

// LineSource provides the drawn path of each line.
type LineSource interface {
	LineGeometry(id network.LineID) (orb.LineString, bool)
}

// RouteSegment is the traveled part of one line.
type RouteSegment struct {
	Line *network.Line
	From *network.Station
	To   *network.Station
	Path orb.LineString
}

// StationStop is a station passed on the route, tagged with the line it is passed on.
type StationStop struct {
	Station *network.Station
	Line    *network.Line
}

// Highlight is everything a map needs to draw one trip: the traveled segments,
// the stations on the route in travel order and the full lines for context.
type Highlight struct {
	Segments  []RouteSegment
	Stations  []StationStop
	FullLines []RouteSegment
}

type Highlighter struct {
	catalog *network.Catalog
	lines   LineSource
	logger  *slog.Logger
}

func NewHighlighter(catalog *network.Catalog, lines LineSource, logger *slog.Logger) *Highlighter {
	return &Highlighter{
		catalog: catalog,
		lines:   lines,
		logger:  logging.Component(logger, "route_highlighter"),
	}
}

type leg struct {
	line     *network.Line
	from, to network.Membership
}

// Highlight builds the route geometry between two stations. Trips between
// lines are split at the interchange.
func (h *Highlighter) Highlight(originCode, destCode string) (*Highlight, error) {
	origin, ok := h.catalog.Station(originCode)
	if !ok {
		return nil, fmt.Errorf("origin %q: %w", originCode, network.ErrUnknownStation)
	}
	dest, ok := h.catalog.Station(destCode)
	if !ok {
		return nil, fmt.Errorf("destination %q: %w", destCode, network.ErrUnknownStation)
	}

	legs, err := h.legs(origin, dest)
	if err != nil {
		return nil, err
	}

	out := &Highlight{}
	for _, l := range legs {
		stations := l.line.Between(l.from.Index, l.to.Index)
		for _, s := range stations {
			if n := len(out.Stations); n > 0 && out.Stations[n-1].Station == s {
				continue
			}
			out.Stations = append(out.Stations, StationStop{Station: s, Line: l.line})
		}

		from := l.line.Stations[l.from.Index]
		to := l.line.Stations[l.to.Index]
		path, err := Segment(h.linePath(l.line), from.Coordinates, to.Coordinates)
		if err != nil {
			logging.LogError(h.logger, "could not cut route segment", err,
				slog.String("line", string(l.line.ID)))
			continue
		}
		out.Segments = append(out.Segments, RouteSegment{Line: l.line, From: from, To: to, Path: path})
	}

	for _, line := range h.catalog.Lines() {
		out.FullLines = append(out.FullLines, RouteSegment{
			Line: line,
			From: line.First(),
			To:   line.Last(),
			Path: h.linePath(line),
		})
	}
	return out, nil
}

func (h *Highlighter) legs(origin, dest *network.Station) ([]leg, error) {
	if om, dm, ok := network.SharedLine(origin, dest); ok {
		line, _ := h.catalog.Line(om.Line)
		return []leg{{line: line, from: om, to: dm}}, nil
	}

	hub := h.catalog.Interchange()
	if hub == nil {
		return nil, fmt.Errorf("no interchange between %s and %s", origin.Code, dest.Code)
	}
	om := origin.Memberships[0]
	dm := dest.Memberships[0]
	hubOrigin, ok1 := hub.On(om.Line)
	hubDest, ok2 := hub.On(dm.Line)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("interchange %s does not connect %s and %s", hub.Code, origin.Code, dest.Code)
	}

	first, _ := h.catalog.Line(om.Line)
	second, _ := h.catalog.Line(dm.Line)
	return []leg{
		{line: first, from: om, to: hubOrigin},
		{line: second, from: hubDest, to: dm},
	}, nil
}

// linePath returns the loaded geometry for a line, falling back to straight
// segments between its stations.
func (h *Highlighter) linePath(line *network.Line) orb.LineString {
	if h.lines != nil {
		if path, ok := h.lines.LineGeometry(line.ID); ok && len(path) >= 2 {
			return path
		}
	}
	path := make(orb.LineString, len(line.Stations))
	for i, s := range line.Stations {
		path[i] = s.Coordinates
	}
	return path
}

// FeatureCollection renders the highlight as GeoJSON. Every feature carries a
// "kind" property of "line", "route" or "station".
func (hl *Highlight) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, l := range hl.FullLines {
		f := geojson.NewFeature(l.Path)
		f.Properties["kind"] = "line"
		f.Properties["line"] = string(l.Line.ID)
		f.Properties["color"] = l.Line.Color
		f.Properties["borderColor"] = l.Line.BorderColor
		fc.Append(f)
	}

	for _, s := range hl.Segments {
		f := geojson.NewFeature(s.Path)
		f.Properties["kind"] = "route"
		f.Properties["line"] = string(s.Line.ID)
		f.Properties["color"] = s.Line.Color
		f.Properties["borderColor"] = s.Line.BorderColor
		f.Properties["from"] = s.From.Code
		f.Properties["to"] = s.To.Code
		fc.Append(f)
	}

	for _, st := range hl.Stations {
		f := geojson.NewFeature(st.Station.Coordinates)
		f.Properties["kind"] = "station"
		f.Properties["code"] = st.Station.Code
		f.Properties["name"] = st.Station.Name
		f.Properties["color"] = st.Line.Color
		fc.Append(f)
	}

	return fc
}
