package httpx

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/adapters/workflow"
	"github.com/linkscout/linkscout-api/internal/domain/callback"
	"github.com/linkscout/linkscout-api/internal/service"
)

// CallbackTypeHeader lets the workflow flag a failure on the shared
// endpoint without switching URLs.
const CallbackTypeHeader = "X-Callback-Type"

// maxCallbackBodyBytes bounds callback payloads. A full 100-entry result
// set is well under this.
const maxCallbackBodyBytes = 1 << 20

// CallbackHandlers receives result notifications from the workflow engine.
type CallbackHandlers struct {
	Svc    *service.CallbackService
	Secret string
}

// callbackResponse is the acknowledgement shape the workflow expects.
type callbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"jobId,omitempty"`
}

// HandleResult handles POST /api/webhooks/workflow. The body shape decides
// success or failure; the X-Callback-Type header can force failure.
func (h *CallbackHandlers) HandleResult(w http.ResponseWriter, r *http.Request) {
	forceFailure := r.Header.Get(CallbackTypeHeader) == "failure"
	h.handle(w, r, forceFailure)
}

// HandleFailure handles POST /api/webhooks/workflow/failure. Everything
// posted here is a failure report regardless of shape.
func (h *CallbackHandlers) HandleFailure(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, true)
}

func (h *CallbackHandlers) handle(w http.ResponseWriter, r *http.Request, forceFailure bool) {
	// Authenticate before touching the body so unauthenticated posts cost
	// nothing and can never mutate state.
	if !h.authenticated(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_secret",
			Err:     errors.New("invalid or missing workflow secret"),
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBodyBytes))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_body",
			Err:     err,
		})
		return
	}

	cb, err := callback.Parse(body, forceFailure)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_payload",
			Err:     err,
		})
		return
	}

	if err := h.Svc.Apply(r.Context(), cb); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "apply_failed",
			Err:     errors.New("failed to record callback"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, callbackResponse{
		Success: true,
		Message: "callback received",
		JobID:   cb.JobID,
	})
}

func (h *CallbackHandlers) authenticated(r *http.Request) bool {
	if h.Secret == "" {
		return false
	}
	got := r.Header.Get(workflow.SecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) == 1
}
