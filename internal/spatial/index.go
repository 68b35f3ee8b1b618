package spatial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/network"
)

// Cell is one Voronoi polygon: every point inside it is served best by the
// station entrance it names.
type Cell struct {
	StationCode string
	EntryRef    string
	Name        string
	Polygon     orb.Polygon
}

// Marker is the location of a station entrance.
type Marker struct {
	StationCode string
	EntryRef    string
	Coordinates orb.Point
}

// LineGeometry is the drawn path of a metro line.
type LineGeometry struct {
	Line network.LineID
	Path orb.LineString
}

// Match is the station entrance a coordinate resolves to.
type Match struct {
	StationCode string
	EntryRef    string
}

// Sources are the locations of the three GeoJSON reference files. Each is a
// local path or an http(s) URL.
type Sources struct {
	Voronoi string
	Points  string
	Lines   string
}

// Index holds the spatial reference data. Collections are loaded lazily and
// replaced wholesale under the lock, so readers always see a complete slice.
type Index struct {
	sources Sources
	client  *http.Client
	logger  *slog.Logger

	mu         sync.RWMutex
	cells      []Cell
	markers    []Marker
	geometries []LineGeometry
}

func NewIndex(sources Sources, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		sources: sources,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With(slog.String("component", "spatial_index")),
	}
}

// Load fetches all three collections in parallel. A collection that fails to
// load is left empty and its error is logged and returned joined with the others.
func (idx *Index) Load(ctx context.Context) error {
	return idx.load(ctx, true, true, true)
}

// EnsureLoaded loads only the collections that are currently empty. Concurrent
// callers may load the same collection twice; the last writer wins.
func (idx *Index) EnsureLoaded(ctx context.Context) error {
	idx.mu.RLock()
	needCells := len(idx.cells) == 0
	needMarkers := len(idx.markers) == 0
	needLines := len(idx.geometries) == 0
	idx.mu.RUnlock()

	if !needCells && !needMarkers && !needLines {
		return nil
	}
	return idx.load(ctx, needCells, needMarkers, needLines)
}

func (idx *Index) load(ctx context.Context, cells, markers, lines bool) error {
	var wg sync.WaitGroup
	var cellErr, markerErr, lineErr error

	if cells {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var loaded []Cell
			loaded, cellErr = idx.loadCells(ctx)
			if cellErr != nil {
				logging.LogError(idx.logger, "Error loading voronoi data", cellErr,
					slog.String("source", idx.sources.Voronoi))
				return
			}
			idx.mu.Lock()
			idx.cells = loaded
			idx.mu.Unlock()
		}()
	}

	if markers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var loaded []Marker
			loaded, markerErr = idx.loadMarkers(ctx)
			if markerErr != nil {
				logging.LogError(idx.logger, "Error loading station points data", markerErr,
					slog.String("source", idx.sources.Points))
				return
			}
			idx.mu.Lock()
			idx.markers = loaded
			idx.mu.Unlock()
		}()
	}

	if lines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var loaded []LineGeometry
			loaded, lineErr = idx.loadGeometries(ctx)
			if lineErr != nil {
				logging.LogError(idx.logger, "Error loading line geometry data", lineErr,
					slog.String("source", idx.sources.Lines))
				return
			}
			idx.mu.Lock()
			idx.geometries = loaded
			idx.mu.Unlock()
		}()
	}

	wg.Wait()

	idx.mu.RLock()
	logging.LogOperation(idx.logger, "spatial_data_loaded",
		slog.Int("cells", len(idx.cells)),
		slog.Int("markers", len(idx.markers)),
		slog.Int("line_geometries", len(idx.geometries)))
	idx.mu.RUnlock()

	return errors.Join(cellErr, markerErr, lineErr)
}

func (idx *Index) loadCells(ctx context.Context) ([]Cell, error) {
	fc, err := loadFeatures(ctx, idx.client, idx.sources.Voronoi, idx.logger)
	if err != nil {
		return nil, err
	}

	cells := make([]Cell, 0, len(fc.Features))
	for _, f := range fc.Features {
		cell := Cell{
			StationCode: network.NormalizeCode(propString(f.Properties, "station")),
			EntryRef:    propString(f.Properties, "ref"),
			Name:        propString(f.Properties, "name"),
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			cell.Polygon = g
			cells = append(cells, cell)
		case orb.MultiPolygon:
			for _, p := range g {
				c := cell
				c.Polygon = p
				cells = append(cells, c)
			}
		}
	}
	return cells, nil
}

func (idx *Index) loadMarkers(ctx context.Context) ([]Marker, error) {
	fc, err := loadFeatures(ctx, idx.client, idx.sources.Points, idx.logger)
	if err != nil {
		return nil, err
	}

	markers := make([]Marker, 0, len(fc.Features))
	for _, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			StationCode: network.NormalizeCode(propString(f.Properties, "station")),
			EntryRef:    propString(f.Properties, "ref"),
			Coordinates: p,
		})
	}
	return markers, nil
}

func (idx *Index) loadGeometries(ctx context.Context) ([]LineGeometry, error) {
	fc, err := loadFeatures(ctx, idx.client, idx.sources.Lines, idx.logger)
	if err != nil {
		return nil, err
	}
	return geometriesFromFeatures(fc), nil
}

func geometriesFromFeatures(fc *geojson.FeatureCollection) []LineGeometry {
	var out []LineGeometry
	for _, f := range fc.Features {
		id := network.LineID(strings.ToLower(propString(f.Properties, "colour")))
		if id == "" {
			continue
		}
		var path orb.LineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			path = append(path, g...)
		case orb.MultiLineString:
			for _, ls := range g {
				path = append(path, ls...)
			}
		default:
			continue
		}
		out = append(out, LineGeometry{Line: id, Path: path})
	}
	return out
}

// Resolve returns the entrance whose cell contains p. Cells are tested in load
// order and the first containing cell wins.
func (idx *Index) Resolve(p orb.Point) (Match, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, c := range idx.cells {
		if len(c.Polygon) == 0 {
			continue
		}
		if RingContains(c.Polygon[0], p) {
			return Match{StationCode: c.StationCode, EntryRef: c.EntryRef}, true
		}
	}
	return Match{}, false
}

// Entrance returns the marker for a station entrance.
func (idx *Index) Entrance(code, ref string) (orb.Point, bool) {
	code = network.NormalizeCode(code)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, m := range idx.markers {
		if m.StationCode == code && m.EntryRef == ref {
			return m.Coordinates, true
		}
	}
	return orb.Point{}, false
}

// LineGeometry returns the first path loaded for a line.
func (idx *Index) LineGeometry(id network.LineID) (orb.LineString, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, g := range idx.geometries {
		if g.Line == id {
			return g.Path, true
		}
	}
	return nil, false
}

func (idx *Index) Cells() []Cell {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.cells
}

func (idx *Index) Markers() []Marker {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.markers
}

func (idx *Index) Geometries() []LineGeometry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.geometries
}

func (idx *Index) String() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return fmt.Sprintf("spatial.Index{cells: %d, markers: %d, lines: %d}",
		len(idx.cells), len(idx.markers), len(idx.geometries))
}
