package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateTestProfile inserts a profile row and returns its id.
func CreateTestProfile(t TestingTB, db *sql.DB) string {
	t.Helper()

	userID := "user-" + uuid.New().String()
	var id string
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO profiles (user_id, email) VALUES ($1, $2) RETURNING id`,
		userID, userID+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return id
}

// TestJobParams controls CreateTestJob. Zero values get sensible defaults.
type TestJobParams struct {
	ProfileID           string
	Status              string
	ProcessingStartedAt time.Time
}

// CreateTestJob inserts a job row and returns its id.
func CreateTestJob(t TestingTB, db *sql.DB, params TestJobParams) string {
	t.Helper()

	status := params.Status
	if status == "" {
		status = "pending"
	}
	startedAt := params.ProcessingStartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	names, err := json.Marshal([]map[string]string{
		{"name": "Jordan Lee", "school": "Stanford"},
	})
	if err != nil {
		t.Fatalf("Failed to marshal input names: %v", err)
	}

	var id string
	err = db.QueryRowContext(context.Background(),
		`INSERT INTO jobs (profile_id, status, input_method, input_names, processing_started_at)
		 VALUES ($1, $2, 'manual', $3, $4) RETURNING id`,
		params.ProfileID, status, names, startedAt,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}
	return id
}
