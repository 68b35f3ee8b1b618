package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// CompressionConfig controls gzip of API responses.
type CompressionConfig struct {
	// MinSize is the smallest body, in bytes, worth compressing.
	MinSize int
	// Level is the gzip level, 1-9.
	Level int
	// ContentTypes limits compression to these media types. Empty selects the
	// defaults.
	ContentTypes []string
}

// DefaultCompressionConfig returns the settings used by Routes. Route geometry
// and the station list are the large payloads; a single station entry usually
// stays under MinSize.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:      1024,
		Level:        6,
		ContentTypes: []string{"application/json", "application/geo+json", "text/html"},
	}
}

// NewCompressionMiddleware builds a gzhttp wrapper from config, falling back to
// gzhttp's defaults when the config is rejected.
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	contentTypes := config.ContentTypes
	if len(contentTypes) == 0 {
		contentTypes = DefaultCompressionConfig().ContentTypes
	}

	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(config.MinSize),
		gzhttp.CompressionLevel(config.Level),
		gzhttp.ContentTypes(contentTypes),
	)
	if err != nil {
		return func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) }
	}
	return func(next http.Handler) http.Handler { return wrapper(next) }
}
