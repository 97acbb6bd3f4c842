package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
)

// ProfileRepo provides database operations for user profiles.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.ProfileRepository = (*ProfileRepo)(nil)

// NewProfileRepo creates a new ProfileRepo instance.
func NewProfileRepo(db *sql.DB, cfg RepoConfig) *ProfileRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &ProfileRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const profileColumns = `
  id,
  user_id,
  email,
  full_name,
  sender_profile,
  profile_raw_text,
  created_at,
  updated_at
`

func scanProfile(row rowScanner) (*model.Profile, error) {
	var (
		p          model.Profile
		senderData []byte
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Email,
		&p.FullName,
		&senderData,
		&p.ProfileRawText,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(senderData) > 0 {
		var sp model.SenderProfile
		if err := json.Unmarshal(senderData, &sp); err != nil {
			return nil, fmt.Errorf("decode sender_profile: %w", err)
		}
		p.SenderProfile = &sp
	}

	return &p, nil
}

// GetByUserID returns the profile anchored to an external auth user id.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrProfileNotFound
	}

	row := r.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get profile: %w", err))
	}
	return profile, nil
}

// Create inserts an empty profile for a newly provisioned user.
func (r *ProfileRepo) Create(ctx context.Context, userID, email string) (*model.Profile, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	now := r.timeProvider.Now().UTC()
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING `+profileColumns,
		userID, email, now)

	profile, err := scanProfile(row)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("insert profile: %w", err))
	}
	return profile, nil
}

// UpdateSenderProfile overwrites the extracted sender profile wholesale,
// along with the raw biography text it was derived from.
func (r *ProfileRepo) UpdateSenderProfile(ctx context.Context, params core.UpdateSenderProfileParams) error {
	if params.UserID == "" {
		return errors.New("user id is required")
	}
	if params.Profile == nil {
		return errors.New("sender profile is required")
	}

	senderData, err := json.Marshal(params.Profile)
	if err != nil {
		return fmt.Errorf("encode sender_profile: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE profiles
		SET sender_profile = $2,
			profile_raw_text = $3,
			full_name = $4,
			updated_at = $5
		WHERE user_id = $1
	`, params.UserID, senderData, params.RawText, params.FullName, r.timeProvider.Now().UTC())
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("update sender profile: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
