package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams retrieves a parameter value from the request context and removes a trailing ".json".
func ExtractIDFromParams(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	return strings.TrimSuffix(params.ByName(paramName), ".json")
}

// ExtractStationCode returns the named route parameter as an upper-case station code.
func ExtractStationCode(r *http.Request, paramName string) string {
	return strings.ToUpper(strings.TrimSpace(SanitizeInput(ExtractIDFromParams(r, paramName))))
}
