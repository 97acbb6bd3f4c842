package httpx

import (
	"errors"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/service"
)

// DraftHandlers provides HTTP handlers for message drafting.
type DraftHandlers struct {
	Svc *service.DraftService
}

type draftRequest struct {
	Name    string `json:"name"`
	School  string `json:"school"`
	Company string `json:"company,omitempty"`
	JobID   string `json:"jobId,omitempty"`
}

type draftResponse struct {
	Draft         string   `json:"draft"`
	Commonalities []string `json:"commonalities"`
	Error         string   `json:"error,omitempty"`
}

// CreateDraft handles POST /api/drafts. A draft that fell back to the
// template still returns 200, with the generation error surfaced alongside.
func (h *DraftHandlers) CreateDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req draftRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Draft(r.Context(), session.UserID, service.DraftRequest{
		Name:    req.Name,
		School:  req.School,
		Company: req.Company,
		JobID:   req.JobID,
	})
	if err != nil {
		if errors.Is(err, service.ErrIncompleteProfile) {
			WriteJSON(w, http.StatusBadRequest, map[string]any{
				"needsProfile": true,
				"error":        "Please complete your profile before generating drafts.",
			})
			return
		}
		WriteAppError(w, err)
		return
	}

	commonalities := result.Commonalities
	if commonalities == nil {
		commonalities = []string{}
	}

	WriteJSON(w, http.StatusOK, draftResponse{
		Draft:         result.Draft,
		Commonalities: commonalities,
		Error:         result.Err,
	})
}
