package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
	"github.com/Vonter/bmrcl-station-app/internal/models"
	"github.com/Vonter/bmrcl-station-app/internal/network"
	"github.com/Vonter/bmrcl-station-app/internal/utils"
)

func (api *RestAPI) routeGeometryHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, fieldErrors := utils.ParseStationCodeParam(query, "from", nil)
	to, fieldErrors := utils.ParseStationCodeParam(query, "to", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	// Missing line geometry falls back to straight station-to-station paths.
	if err := api.Spatial.EnsureLoaded(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("spatial data incomplete", slog.String("error", err.Error()))
	}

	highlight, err := api.Highlighter.Highlight(from, to)
	if err != nil {
		if errors.Is(err, network.ErrUnknownStation) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(highlight.FeatureCollection()))
}
