package restapi

import (
	"net/http"

	"github.com/Vonter/bmrcl-station-app/internal/models"
	"github.com/Vonter/bmrcl-station-app/internal/utils"
)

func (api *RestAPI) stationsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(models.NewStationsData(api.Catalog)))
}

func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	code := utils.ExtractStationCode(r, "code")
	if err := utils.ValidateStationCode(code); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"code": {err.Error()}})
		return
	}

	station, ok := api.Catalog.Station(code)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	refs := models.NewLineReferences(models.StationLines(api.Catalog, station)...)
	api.sendResponse(w, r, models.NewEntryResponse(models.NewStation(station), refs))
}
