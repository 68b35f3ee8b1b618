package app

import (
	"net/http"
	"slices"
)

// APIKeyHeader is accepted in place of the key query parameter.
const APIKeyHeader = "X-Api-Key"

// APIKeyFromRequest returns the key query parameter, falling back to the
// X-Api-Key header.
func APIKeyFromRequest(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get(APIKeyHeader)
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(APIKeyFromRequest(r))
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	return !slices.Contains(app.Config.ApiKeys, key)
}
