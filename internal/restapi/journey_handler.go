package restapi

import (
	"errors"
	"net/http"

	"github.com/Vonter/bmrcl-station-app/internal/journey"
	"github.com/Vonter/bmrcl-station-app/internal/models"
	"github.com/Vonter/bmrcl-station-app/internal/utils"
)

func (api *RestAPI) journeyHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, fieldErrors := utils.ParseLocationParam(query, "fromLat", "fromLon", nil)
	to, fieldErrors := utils.ParseLocationParam(query, "toLat", "toLon", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	details, err := api.Journeys.ComputeJourney(r.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, journey.ErrOutsideCoverage),
			errors.Is(err, journey.ErrUnknownStation),
			errors.Is(err, journey.ErrNoWalkingRoute):
			api.sendNotFoundWithText(w, r, "no journey")
		default:
			api.serverErrorResponse(w, r, err)
		}
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(details, models.NewEmptyReferences()))
}
