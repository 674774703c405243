package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery middleware recovers from panics and logs them
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			// Let the server abort the connection as it would without us
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.Error("Panic recovered",
				"error", err,
				"stack_trace", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
				"correlation_id", GetCorrelationID(r.Context()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Internal Server Error"}` + "\n"))
		}()

		next.ServeHTTP(w, r)
	})
}
