package spatial

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/Vonter/bmrcl-station-app/internal/logging"
)

func isLocalFile(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

// readSource returns the raw bytes of a local path or an http(s) URL.
func readSource(ctx context.Context, client *http.Client, source string, logger *slog.Logger) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("no source configured")
	}

	if isLocalFile(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", source, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("error downloading %s: status %d", source, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", source, err)
	}
	return b, nil
}

func loadFeatures(ctx context.Context, client *http.Client, source string, logger *slog.Logger) (*geojson.FeatureCollection, error) {
	b, err := readSource(ctx, client, source, logger)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("error parsing GeoJSON from %s: %w", source, err)
	}
	return fc, nil
}

// propString reads a feature property as a string. OSM exports carry refs as
// either strings or numbers.
func propString(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
