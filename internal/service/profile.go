package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/data"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// minProfileTextLen is the shortest biography worth extracting from.
const minProfileTextLen = 50

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Repo      core.ProfileRepository // Required: profile repository
	Extractor ports.ProfileExtractor // Required: structured extraction
	Logger    *slog.Logger           // Optional: structured logger
}

// ProfileService manages account profiles and sender-profile extraction.
type ProfileService struct {
	repo      core.ProfileRepository
	extractor ports.ProfileExtractor
	logger    *slog.Logger
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) (*ProfileService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ProfileRepository is required")
	}
	if opts.Extractor == nil {
		return nil, errors.New("ProfileExtractor is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileService{
		repo:      opts.Repo,
		extractor: opts.Extractor,
		logger:    logger.With("component", "profile_service"),
	}, nil
}

// GetOrCreate returns the profile for a user, creating the row on first
// sight. Profiles anchor job ownership, so every authenticated caller
// must have one.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID, email string) (*model.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, data.ErrProfileNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile, err = s.repo.Create(ctx, userID, email)
	if err != nil {
		// A concurrent request may have created it first.
		if apperrors.IsConflict(err) {
			return s.repo.GetByUserID(ctx, userID)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile created", "user_id", userID)
	return profile, nil
}

// ParseProfile extracts structured sender-profile data from free text and
// persists it, overwriting any previous extraction.
func (s *ProfileService) ParseProfile(
	ctx context.Context,
	userID, userName, profileText string,
) (*model.SenderProfile, error) {
	text := strings.TrimSpace(profileText)
	if len(text) < minProfileTextLen {
		return nil, apperrors.Validation(
			"Profile text too short. Please provide at least 50 characters.",
		)
	}

	extracted, err := s.extractor.ExtractProfile(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	err = s.repo.UpdateSenderProfile(ctx, core.UpdateSenderProfileParams{
		UserID:   userID,
		FullName: strings.TrimSpace(userName),
		Profile:  extracted,
		RawText:  text,
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.InfoContext(ctx, "sender profile updated",
		"user_id", userID,
		"education", len(extracted.Education),
		"experience", len(extracted.Experience),
	)
	return extracted, nil
}
