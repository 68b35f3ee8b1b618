package restapi

import (
	"errors"
	"net/http"

	"github.com/Vonter/bmrcl-station-app/internal/models"
	"github.com/Vonter/bmrcl-station-app/internal/network"
	"github.com/Vonter/bmrcl-station-app/internal/planner"
	"github.com/Vonter/bmrcl-station-app/internal/utils"
)

func (api *RestAPI) fareHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, fieldErrors := utils.ParseStationCodeParam(query, "from", nil)
	to, fieldErrors := utils.ParseStationCodeParam(query, "to", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	plan, err := api.Planner.Plan(from, to)
	if err != nil {
		if errors.Is(err, network.ErrUnknownStation) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	entry := models.Fare{
		From:             plan.Origin.Code,
		To:               plan.Destination.Code,
		Stops:            plan.TotalStops,
		RequiresTransfer: plan.Transfer,
		DurationMinutes:  plan.TotalMinutes,
		Fare:             planner.FareForStops(plan.TotalStops),
	}

	var lines []*network.Line
	for _, id := range []network.LineID{plan.First.Line, plan.Second.Line} {
		if line, ok := api.Catalog.Line(id); ok {
			lines = append(lines, line)
		}
	}
	refs := models.NewLineReferences(lines...)
	api.sendResponse(w, r, models.NewEntryResponse(entry, refs))
}
