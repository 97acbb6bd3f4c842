// Package auth defines authentication domain types. Credential storage and
// login flows live with the external auth provider; this system only
// resolves opaque bearer tokens to sessions.
package auth

import "time"

// Session is the authenticated caller state resolved from a bearer token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
