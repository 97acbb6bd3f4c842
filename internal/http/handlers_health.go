package httpx

import (
	"io"
	"net/http"
)

// healthHandler answers readiness and liveness probes. It deliberately
// avoids touching Postgres or Redis so a degraded dependency does not
// take the process out of rotation.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	// Client may already be gone; nothing useful to do with the error.
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
