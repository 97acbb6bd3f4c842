package httpx

import (
	"errors"
	"net/http"

	"github.com/linkscout/linkscout-api/internal/service"
)

// AuthHandlers provides HTTP handlers for session operations.
type AuthHandlers struct {
	Svc      *service.AuthService
	Profiles ProfileResolver
}

// Me handles GET /api/auth/me, echoing the caller's session and profile.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	profile, err := h.Profiles.GetOrCreate(r.Context(), session.UserID, session.Email)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"userId":  session.UserID,
		"email":   session.Email,
		"profile": profile,
	})
}

// Logout handles POST /api/auth/logout. Deleting an unknown token succeeds.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if err := h.Svc.Logout(r.Context(), token); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type devLoginRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// DevLogin handles POST /api/auth/dev-login. Registered only in dev mode;
// production identities come from the external auth provider.
func (h *AuthHandlers) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req devLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("userId is required"),
		})
		return
	}

	sess, err := h.Svc.IssueSession(r.Context(), req.UserID, req.Email)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"token":     sess.ID,
		"expiresAt": sess.ExpiresAt,
	})
}
