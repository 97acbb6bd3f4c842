// Package callback interprets result notifications posted by the external
// workflow engine. The workflow is not fully under our control and its
// payload shape has drifted over time, so all shape tolerance lives here:
// a body is a success if and only if it carries a non-empty results array,
// otherwise it is treated as a failure report.
package callback

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/linkscout/linkscout-api/internal/domain/model"
)

// Kind discriminates the two accepted callback shapes.
type Kind string

const (
	// KindSuccess carries a non-empty results array.
	KindSuccess Kind = "success"
	// KindFailure carries an optional error string.
	KindFailure Kind = "failure"
)

// DefaultFailureMessage is recorded when a failure callback omits its error.
const DefaultFailureMessage = "workflow failed"

// ErrMissingJobID is returned when no job id can be located in the payload.
var ErrMissingJobID = errors.New("missing jobId")

// ErrEmptyBody is returned for an empty request body.
var ErrEmptyBody = errors.New("empty body")

// Callback is the normalized form of a workflow notification.
type Callback struct {
	Kind        Kind
	JobID       string
	Results     []model.JobResult
	Error       string
	CompletedAt *time.Time
}

// envelope covers the documented success shape. Older workflow revisions
// nest identifiers under an execution object or send error as an object
// instead of a string; those are handled by the jmespath fallback below.
// Error stays raw so an object-valued error does not sink the whole decode.
type envelope struct {
	JobID       string            `json:"jobId"`
	Results     []model.JobResult `json:"results"`
	Error       json.RawMessage   `json:"error"`
	CompletedAt *time.Time        `json:"completedAt"`
}

func (e *envelope) errorString() string {
	if len(e.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Error, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Expressions tried in order when the top-level jobId / error fields are
// absent. These mirror payloads observed from historical workflow versions.
var (
	jobIDFallbacks = []string{"execution.jobId", "execution.id", "job.id"}
	errorFallbacks = []string{"execution.error.message", "error.message"}
)

// Parse normalizes a raw callback body. forceFailure reflects out-of-band
// failure signaling (a dedicated failure endpoint or an X-Callback-Type
// header); even without it, a body lacking results is interpreted as a
// failure rather than rejected.
func Parse(body []byte, forceFailure bool) (*Callback, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	cb := &Callback{
		JobID:       strings.TrimSpace(env.JobID),
		Results:     env.Results,
		Error:       env.errorString(),
		CompletedAt: env.CompletedAt,
	}

	if cb.JobID == "" || cb.Error == "" {
		fillFromFallbacks(cb, body)
	}
	if cb.JobID == "" {
		return nil, ErrMissingJobID
	}

	if !forceFailure && len(env.Results) > 0 {
		cb.Kind = KindSuccess
		return cb, nil
	}

	cb.Kind = KindFailure
	cb.Results = nil
	if cb.Error == "" {
		cb.Error = DefaultFailureMessage
	}
	return cb, nil
}

// fillFromFallbacks probes historically observed payload nestings for a job
// id and error message. Probe failures just mean the path is absent.
func fillFromFallbacks(cb *Callback, body []byte) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return
	}

	if cb.JobID == "" {
		cb.JobID = searchString(doc, jobIDFallbacks)
	}
	if cb.Error == "" {
		cb.Error = searchString(doc, errorFallbacks)
	}
}

func searchString(doc any, exprs []string) string {
	for _, expr := range exprs {
		v, err := jmespath.Search(expr, doc)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
