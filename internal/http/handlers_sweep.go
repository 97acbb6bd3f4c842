package httpx

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/service"
)

// SweepHandlers exposes the timeout sweep to an external scheduler.
type SweepHandlers struct {
	Svc    *service.ReaperService
	Secret string
}

// CheckTimeouts handles POST /api/jobs/check-timeouts. Authenticated by a
// dedicated bearer secret, separate from user sessions.
func (h *SweepHandlers) CheckTimeouts(w http.ResponseWriter, r *http.Request) {
	if !h.authenticated(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_secret",
			Err:     errors.New("invalid or missing sweep secret"),
		})
		return
	}

	count, err := h.Svc.SweepTimedOut(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "sweep_failed",
			Err:     errors.New("failed to sweep timed-out jobs"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"timedOutJobs": count,
	})
}

func (h *SweepHandlers) authenticated(r *http.Request) bool {
	if h.Secret == "" {
		return false
	}
	token := BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) == 1
}
