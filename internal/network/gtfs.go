package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/jamespfennell/gtfs"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
)

// FromGTFS builds a catalog from a static GTFS feed. Each route becomes a line
// whose station order is taken from its longest scheduled trip, preferring
// direction_id 0 on ties. When overlay lists the same line, the station order
// is oriented to match it. Line metadata, platform overrides and floor layouts
// come from overlay, matched by route colour and stop code.
func FromGTFS(static *gtfs.Static, overlay Dataset) (*Catalog, error) {
	if static == nil || len(static.Routes) == 0 {
		return nil, errors.New("GTFS feed has no routes")
	}

	longest := make(map[string]*gtfs.ScheduledTrip, len(static.Routes))
	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Route == nil {
			continue
		}
		if cur, ok := longest[trip.Route.Id]; !ok || betterTrip(trip, cur) {
			longest[trip.Route.Id] = trip
		}
	}

	ds := Dataset{Floors: overlay.Floors}
	for i := range static.Routes {
		route := &static.Routes[i]
		trip, ok := longest[route.Id]
		if !ok || len(trip.StopTimes) == 0 {
			continue
		}

		spec := lineFromRoute(route, overlay)
		overrides := platformOverrides(spec.ID, overlay)

		stopTimes := make([]gtfs.ScheduledStopTime, len(trip.StopTimes))
		copy(stopTimes, trip.StopTimes)
		sort.SliceStable(stopTimes, func(a, b int) bool {
			return stopTimes[a].StopSequence < stopTimes[b].StopSequence
		})

		for _, st := range stopTimes {
			if st.Stop == nil {
				continue
			}
			ss, err := stationFromStop(st.Stop)
			if err != nil {
				return nil, fmt.Errorf("route %s: %w", route.Id, err)
			}
			ss.Platforms = overrides[ss.Code]
			spec.Stations = append(spec.Stations, ss)
		}
		orientToOverlay(&spec, overlay)
		ds.Lines = append(ds.Lines, spec)
	}

	return New(ds)
}

// LoadGTFS parses a static GTFS zip from a local path or an http(s) URL and
// builds a catalog from it.
func LoadGTFS(ctx context.Context, source string, overlay Dataset, client *http.Client) (*Catalog, error) {
	b, err := rawGTFSData(ctx, source, client)
	if err != nil {
		return nil, err
	}
	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	return FromGTFS(static, overlay)
}

func isRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func rawGTFSData(ctx context.Context, source string, client *http.Client) ([]byte, error) {
	if !isRemoteSource(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error building GTFS request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, slog.Default(), "gtfs_download")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// betterTrip reports whether a should define the station order instead of b.
func betterTrip(a, b *gtfs.ScheduledTrip) bool {
	if len(a.StopTimes) != len(b.StopTimes) {
		return len(a.StopTimes) > len(b.StopTimes)
	}
	return directionRank(a.DirectionId) < directionRank(b.DirectionId)
}

func directionRank(d gtfs.DirectionID) int {
	switch d {
	case gtfs.DirectionID_False:
		return 0
	case gtfs.DirectionID_Unspecified:
		return 1
	default:
		return 2
	}
}

// orientToOverlay reverses spec when the overlay lists the same line's
// stations in the opposite order, so that indexes and platform pairs keep
// running along the physical line.
func orientToOverlay(spec *LineSpec, overlay Dataset) {
	for _, ls := range overlay.Lines {
		if ls.ID != spec.ID {
			continue
		}
		pos := make(map[string]int, len(ls.Stations))
		for i, ss := range ls.Stations {
			pos[NormalizeCode(ss.Code)] = i
		}

		first, last := -1, -1
		for _, ss := range spec.Stations {
			if i, ok := pos[ss.Code]; ok {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first > last {
			slices.Reverse(spec.Stations)
		}
		return
	}
}

func lineFromRoute(route *gtfs.Route, overlay Dataset) LineSpec {
	color := normalizeColor(route.Color)
	for _, ls := range overlay.Lines {
		if color != "" && normalizeColor(ls.Color) == color {
			return LineSpec{
				ID:               ls.ID,
				Name:             ls.Name,
				Color:            ls.Color,
				BorderColor:      ls.BorderColor,
				TransferElevator: ls.TransferElevator,
			}
		}
	}

	name := route.ShortName
	if name == "" {
		name = route.LongName
	}
	if name == "" {
		name = route.Id
	}
	spec := LineSpec{
		ID:   LineID(strings.ToLower(name)),
		Name: name,
	}
	if color != "" {
		spec.Color = "#" + color
	}
	return spec
}

func platformOverrides(id LineID, overlay Dataset) map[string][]int {
	out := make(map[string][]int)
	for _, ls := range overlay.Lines {
		if ls.ID != id {
			continue
		}
		for _, ss := range ls.Stations {
			if len(ss.Platforms) > 0 {
				out[NormalizeCode(ss.Code)] = ss.Platforms
			}
		}
	}
	return out
}

func stationFromStop(stop *gtfs.Stop) (StationSpec, error) {
	// Platform stops collapse into their parent station.
	if stop.Parent != nil {
		stop = stop.Parent
	}
	code := stop.Code
	if code == "" {
		code = stop.Id
	}
	if stop.Latitude == nil || stop.Longitude == nil {
		return StationSpec{}, fmt.Errorf("stop %s has no coordinates", stop.Id)
	}
	return StationSpec{
		Code:        NormalizeCode(code),
		Name:        stop.Name,
		Coordinates: [2]float64{*stop.Longitude, *stop.Latitude},
	}, nil
}

func normalizeColor(c string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
}
