package restapi

import (
	"net/http"
	"strings"
)

const (
	apiContentSecurityPolicy   = "default-src 'none'; frame-ancestors 'none';"
	debugContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';"
)

var baseSecurityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
}

// securityHeaders sets the hardening headers on every response. API routes
// answer cross-origin requests from the station map; the debug pages only
// get an inline-style allowance in their CSP.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range baseSecurityHeaders {
			h.Set(k, v)
		}

		if strings.HasPrefix(r.URL.Path, "/debug/") {
			h.Set("Content-Security-Policy", debugContentSecurityPolicy)
			next.ServeHTTP(w, r)
			return
		}

		h.Set("Content-Security-Policy", apiContentSecurityPolicy)
		if r.Header.Get("Origin") != "" {
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key")
			h.Set("Access-Control-Max-Age", "86400")
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
