package httpx

import (
	"context"

	domainauth "github.com/linkscout/linkscout-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and whether one is present.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// profileKey carries the caller's resolved profile id.
type profileKey struct{}

// SetProfileIDInContext returns a child context carrying the profile id.
func SetProfileIDInContext(ctx context.Context, profileID string) context.Context {
	if profileID == "" {
		return ctx
	}
	return context.WithValue(ctx, profileKey{}, profileID)
}

// GetProfileIDFromContext returns the caller's profile id, if resolved.
func GetProfileIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(profileKey{}).(string); ok && id != "" {
		return id, true
	}
	return "", false
}
