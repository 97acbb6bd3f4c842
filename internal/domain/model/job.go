// Package model defines the core data types and structures used throughout the linkscout job system.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobStatus represents the current lifecycle state of a search job.
type JobStatus string

// InputMethod records how a batch was submitted.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type InputMethod string

const (
	// JobStatusPending indicates a job has been created and dispatched but not acknowledged.
	JobStatusPending JobStatus = "pending"
	// JobStatusProcessing indicates the external workflow has picked up the job.
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted indicates the workflow reported results.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the workflow reported failure or the job timed out.
	JobStatusFailed JobStatus = "failed"

	// InputMethodManual marks batches entered by hand in the UI.
	InputMethodManual InputMethod = "manual"
	// InputMethodFileUpload marks batches parsed from an uploaded file.
	InputMethodFileUpload InputMethod = "file_upload"
)

// Batch size ceilings by input method. Manual entry is deliberately small;
// file uploads carry the bulk use case.
const (
	MaxManualBatchSize = 10
	MaxFileBatchSize   = 100
)

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusPending || s == JobStatusProcessing ||
		s == JobStatusCompleted || s == JobStatusFailed
}

// Terminal returns true once a job can no longer be touched by the reaper.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Valid returns true if the InputMethod is valid.
func (m InputMethod) Valid() bool {
	return m == InputMethodManual || m == InputMethodFileUpload
}

// UnmarshalText implements encoding.TextUnmarshaler for InputMethod.
func (m *InputMethod) UnmarshalText(text []byte) error {
	v := InputMethod(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid InputMethod: %q", v)
	}
	*m = v
	return nil
}

// MaxBatchSize returns the batch ceiling for the input method.
func (m InputMethod) MaxBatchSize() int {
	if m == InputMethodManual {
		return MaxManualBatchSize
	}
	return MaxFileBatchSize
}

// InputName is one (name, school) pair in a submitted batch.
type InputName struct {
	Name   string `json:"name"`
	School string `json:"school"`
}

// JobResult is one entry in a job's result set. Search results carry a
// LinkedIn URL and confidence; draft audit entries carry the drafted message.
type JobResult struct {
	Name        string     `json:"name"`
	School      string     `json:"school"`
	LinkedInURL *string    `json:"linkedInUrl"`
	Confidence  int        `json:"confidence"`
	Draft       string     `json:"draft,omitempty"`
	DraftedAt   *time.Time `json:"draftedAt,omitempty"`
}

// Job represents one batch search request and its lifecycle record.
type Job struct {
	ID                  string      `json:"id"                              db:"id"`
	ProfileID           string      `json:"profile_id"                      db:"profile_id"`
	Status              JobStatus   `json:"status"                          db:"status"`
	InputMethod         InputMethod `json:"input_method"                    db:"input_method"`
	InputNames          []InputName `json:"input_names"                     db:"input_names"`
	Results             []JobResult `json:"results"                         db:"results"`
	ErrorMessage        *string     `json:"error_message,omitempty"         db:"error_message"`
	ProcessingStartedAt *time.Time  `json:"processing_started_at,omitempty" db:"processing_started_at"`
	CompletedAt         *time.Time  `json:"completed_at,omitempty"          db:"completed_at"`
	FailedAt            *time.Time  `json:"failed_at,omitempty"             db:"failed_at"`
	CreatedAt           time.Time   `json:"created_at"                      db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"                      db:"updated_at"`
}

// CreateJobRequest represents a request to create a new search job.
type CreateJobRequest struct {
	Names       []InputName `json:"names"`
	InputMethod InputMethod `json:"inputMethod"`
}

// Validate validates the CreateJobRequest fields, including the per-method
// batch ceiling and per-entry completeness.
func (r *CreateJobRequest) Validate() error {
	if !r.InputMethod.Valid() {
		return errors.New("invalid input method")
	}
	if len(r.Names) == 0 {
		return errors.New("at least one name is required")
	}
	if maxSize := r.InputMethod.MaxBatchSize(); len(r.Names) > maxSize {
		return fmt.Errorf("maximum %d names allowed for %s batches", maxSize, r.InputMethod)
	}
	for i := range r.Names {
		if strings.TrimSpace(r.Names[i].Name) == "" {
			return fmt.Errorf("entry %d: name is required", i+1)
		}
		if strings.TrimSpace(r.Names[i].School) == "" {
			return fmt.Errorf("entry %d: school is required", i+1)
		}
	}
	return nil
}

// CreateJobResponse echoes the created job back to the submitter.
type CreateJobResponse struct {
	JobID       string      `json:"jobId"`
	Status      JobStatus   `json:"status"`
	InputMethod InputMethod `json:"inputMethod"`
	InputNames  []InputName `json:"inputNames"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// JobStats represents counts of jobs in each lifecycle state for one profile.
type JobStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
