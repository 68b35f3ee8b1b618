package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func validateAPIKey(api *RestAPI, finalHandler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// protected applies rate limiting and the API key check to a handler.
func (api *RestAPI) protected(h http.HandlerFunc) http.Handler {
	handler := validateAPIKey(api, h)
	if api.rateLimiter != nil {
		handler = api.rateLimiter.Handler(handler)
	}
	return handler
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", api.protected(api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/journey.json", api.protected(api.journeyHandler))
	router.Handler(http.MethodGet, "/api/stations.json", api.protected(api.stationsHandler))
	router.Handler(http.MethodGet, "/api/station/:code", api.protected(api.stationHandler))
	router.Handler(http.MethodGet, "/api/fare.json", api.protected(api.fareHandler))
	router.Handler(http.MethodGet, "/api/route-geometry.json", api.protected(api.routeGeometryHandler))
	router.Handler(http.MethodGet, "/api/nearest-station.json", api.protected(api.nearestStationHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Routes returns the router wrapped in the middleware stack. register, when
// non-nil, may add further routes such as the debug pages.
func (api *RestAPI) Routes(register func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	if register != nil {
		register(router)
	}

	var handler http.Handler = router
	handler = NewCompressionMiddleware(DefaultCompressionConfig())(handler)
	handler = securityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}
