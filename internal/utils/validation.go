package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Station codes are short upper-case mnemonics such as KGWA.
	validStationCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{2,8}$`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateStationCode validates the shape of a station code. It does not
// check that the station exists.
func ValidateStationCode(code string) error {
	if code == "" {
		return errors.New("station code cannot be empty")
	}

	if len(code) > 8 {
		return errors.New("station code too long (max 8 characters)")
	}

	if !validStationCodePattern.MatchString(code) {
		return errors.New("station code contains invalid characters")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateLocationParams validates a coordinate, reporting errors under the given field names.
func ValidateLocationParams(lat, lon float64, latKey, lonKey string, fieldErrors map[string][]string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors[latKey] = append(fieldErrors[latKey], err.Error())
	}

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors[lonKey] = append(fieldErrors[lonKey], err.Error())
	}

	return fieldErrors
}
