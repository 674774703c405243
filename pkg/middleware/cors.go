package middleware

import (
	"net/http"
	"strconv"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	MaxAge         int
}

// CORS middleware adds permissive cross-origin headers to responses.
// Preflight requests are answered directly with 204.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", config.AllowedOrigins)
			if config.AllowedOrigins != "*" {
				w.Header().Add("Vary", "Origin")
			}

			isPreflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !isPreflight {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", config.AllowedMethods)

			allowHeaders := config.AllowedHeaders
			if requested := r.Header.Get("Access-Control-Request-Headers"); allowHeaders == "" && requested != "" {
				allowHeaders = requested
				w.Header().Add("Vary", "Access-Control-Request-Headers")
			}
			if allowHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
			}

			if config.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
}
