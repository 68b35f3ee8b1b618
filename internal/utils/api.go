package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present or the value is invalid, it returns 0 and updates the fieldErrors map.
// - params: URL query parameters.
// - key: The key to look for in the query parameters.
// - fieldErrors: A map to collect validation errors for fields.
// Returns:
// - The parsed float64 value (or 0 if invalid).
// - The updated fieldErrors map containing any validation errors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// RequireFloatParam is ParseFloatParam for a mandatory parameter.
func RequireFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	if strings.TrimSpace(params.Get(key)) == "" {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
		return 0, fieldErrors
	}
	return ParseFloatParam(params, key, fieldErrors)
}

// ParseLocationParam reads a mandatory lat/lon pair and validates its range.
func ParseLocationParam(params url.Values, latKey, lonKey string, fieldErrors map[string][]string) (orb.Point, map[string][]string) {
	lat, fieldErrors := RequireFloatParam(params, latKey, fieldErrors)
	lon, fieldErrors := RequireFloatParam(params, lonKey, fieldErrors)
	if len(fieldErrors[latKey]) == 0 && len(fieldErrors[lonKey]) == 0 {
		fieldErrors = ValidateLocationParams(lat, lon, latKey, lonKey, fieldErrors)
	}
	return orb.Point{lon, lat}, fieldErrors
}

// ParseStationCodeParam reads a mandatory station code and normalises it to upper case.
func ParseStationCodeParam(params url.Values, key string, fieldErrors map[string][]string) (string, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	code := strings.ToUpper(SanitizeInput(params.Get(key)))
	if err := ValidateStationCode(code); err != nil {
		fieldErrors[key] = append(fieldErrors[key], err.Error())
	}
	return code, fieldErrors
}
