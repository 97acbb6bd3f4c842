package httpx

import (
	"errors"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/service"
)

// ProfileHandlers provides HTTP handlers for profile operations.
type ProfileHandlers struct {
	Svc *service.ProfileService
}

type parseProfileRequest struct {
	ProfileText string `json:"profileText"`
	UserName    string `json:"userName,omitempty"`
}

// ParseProfile handles POST /api/profile/parse. It extracts a structured
// sender profile from pasted biography text and persists it.
func (h *ProfileHandlers) ParseProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req parseProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Svc.ParseProfile(r.Context(), session.UserID, req.UserName, req.ProfileText)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profile,
	})
}
