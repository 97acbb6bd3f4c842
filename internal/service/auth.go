package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/linkscout/linkscout-api/internal/domain/auth"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// defaultSessionTTL bounds sessions issued by IssueSession.
const defaultSessionTTL = 24 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions ports.SessionStore // Required: session persistence
	Logger   *slog.Logger       // Optional: structured logger
}

// AuthService resolves opaque bearer tokens to sessions. Identity and
// credentials live with the external auth provider; this service only
// manages the session records the provider hands us.
type AuthService struct {
	sessions ports.SessionStore
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		sessions: opts.Sessions,
		logger:   logger.With("component", "auth_service"),
	}, nil
}

// Authenticate resolves a bearer token to its session. Any token that does
// not resolve, including expired ones, yields unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, apperrors.Unauthorized("missing bearer token")
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domainauth.Session{}, apperrors.Unauthorized("invalid or expired session")
	}
	if sess.Expired(time.Now()) {
		return domainauth.Session{}, apperrors.Unauthorized("session expired")
	}
	return sess, nil
}

// IssueSession mints a session for an externally verified identity and
// returns its bearer token.
func (s *AuthService) IssueSession(ctx context.Context, userID, email string) (domainauth.Session, error) {
	if userID == "" {
		return domainauth.Session{}, errors.New("user ID is required")
	}

	sess := domainauth.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(defaultSessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "session issued", "user_id", userID)
	return sess, nil
}

// Logout deletes the session for a bearer token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
