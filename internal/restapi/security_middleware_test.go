package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		origin string
		csp    string
		cors   bool
	}{
		{"api without origin", "/api/stations.json", "", apiContentSecurityPolicy, false},
		{"api from the map", "/api/journey.json", "https://metro.example.com", apiContentSecurityPolicy, true},
		{"debug page", "/debug/", "https://metro.example.com", debugContentSecurityPolicy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			securityHeaders(okHandler("body")).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "body", rec.Body.String())

			headers := rec.Header()
			for k, v := range baseSecurityHeaders {
				assert.Equal(t, v, headers.Get(k), k)
			}
			assert.Equal(t, tt.csp, headers.Get("Content-Security-Policy"))

			if tt.cors {
				assert.Equal(t, "*", headers.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "GET, OPTIONS", headers.Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type, X-Api-Key", headers.Get("Access-Control-Allow-Headers"))
				assert.Equal(t, "Origin", headers.Get("Vary"))
			} else {
				assert.Empty(t, headers.Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestSecurityHeadersPreflight(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/journey.json", nil)
	req.Header.Set("Origin", "https://metro.example.com")
	rec := httptest.NewRecorder()
	securityHeaders(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutesApplySecurityHeaders(t *testing.T) {
	api := createTestApi(t)

	req := httptest.NewRequest(http.MethodGet, "/api/current-time.json?key=TEST", nil)
	rec := httptest.NewRecorder()
	api.Routes(nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, apiContentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
}
