package restapi

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/paulmach/orb/geo"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/models"
	"github.com/Vonter/bmrcl-station-app/internal/utils"
)

func (api *RestAPI) nearestStationHandler(w http.ResponseWriter, r *http.Request) {
	p, fieldErrors := utils.ParseLocationParam(r.URL.Query(), "lat", "lon", nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if err := api.Spatial.EnsureLoaded(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("spatial data incomplete", slog.String("error", err.Error()))
	}

	match, ok := api.Spatial.Resolve(p)
	if !ok {
		api.sendNotFoundWithText(w, r, "outside coverage area")
		return
	}
	station, ok := api.Catalog.Station(match.StationCode)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	entrance, known := api.Spatial.Entrance(station.Code, match.EntryRef)
	if !known {
		entrance = station.Coordinates
	}

	entry := models.NearestStation{
		Station:        models.NewStation(station),
		EntryRef:       match.EntryRef,
		Entrance:       models.NewLocation(entrance),
		EntranceKnown:  known,
		Direction:      utils.CompassDirection(p, entrance),
		DistanceMeters: int(math.Round(geo.Distance(p, entrance))),
	}

	refs := models.NewLineReferences(models.StationLines(api.Catalog, station)...)
	api.sendResponse(w, r, models.NewEntryResponse(entry, refs))
}
