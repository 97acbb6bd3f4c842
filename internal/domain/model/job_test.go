package model

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchOf(n int) []InputName {
	names := make([]InputName, n)
	for i := range names {
		names[i] = InputName{
			Name:   fmt.Sprintf("Person %d", i+1),
			School: "Stanford",
		}
	}
	return names
}

func TestCreateJobRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateJobRequest
		wantErr string
	}{
		{
			name: "valid manual batch",
			req: CreateJobRequest{
				InputMethod: InputMethodManual,
				Names:       batchOf(3),
			},
		},
		{
			name: "valid manual batch at ceiling",
			req: CreateJobRequest{
				InputMethod: InputMethodManual,
				Names:       batchOf(MaxManualBatchSize),
			},
		},
		{
			name: "manual batch over ceiling",
			req: CreateJobRequest{
				InputMethod: InputMethodManual,
				Names:       batchOf(MaxManualBatchSize + 1),
			},
			wantErr: "maximum 10 names allowed for manual batches",
		},
		{
			name: "file batch accepts what manual rejects",
			req: CreateJobRequest{
				InputMethod: InputMethodFileUpload,
				Names:       batchOf(MaxManualBatchSize + 1),
			},
		},
		{
			name: "file batch at ceiling",
			req: CreateJobRequest{
				InputMethod: InputMethodFileUpload,
				Names:       batchOf(MaxFileBatchSize),
			},
		},
		{
			name: "file batch over ceiling",
			req: CreateJobRequest{
				InputMethod: InputMethodFileUpload,
				Names:       batchOf(MaxFileBatchSize + 1),
			},
			wantErr: "maximum 100 names allowed for file_upload batches",
		},
		{
			name: "empty batch",
			req: CreateJobRequest{
				InputMethod: InputMethodManual,
				Names:       []InputName{},
			},
			wantErr: "at least one name is required",
		},
		{
			name: "invalid input method",
			req: CreateJobRequest{
				InputMethod: InputMethod("carrier_pigeon"),
				Names:       batchOf(1),
			},
			wantErr: "invalid input method",
		},
		{
			name: "missing input method",
			req: CreateJobRequest{
				Names: batchOf(1),
			},
			wantErr: "invalid input method",
		},
		{
			name: "blank name in entry",
			req: CreateJobRequest{
				InputMethod: InputMethodManual,
				Names: []InputName{
					{Name: "Jordan Lee", School: "Stanford"},
					{Name: "   ", School: "Yale"},
				},
			},
			wantErr: "entry 2: name is required",
		},
		{
			name: "blank school in entry",
			req: CreateJobRequest{
				InputMethod: InputMethodManual,
				Names: []InputName{
					{Name: "Jordan Lee", School: ""},
				},
			},
			wantErr: "entry 1: school is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputMethod_UnmarshalText(t *testing.T) {
	t.Run("accepts known methods with whitespace and case noise", func(t *testing.T) {
		var m InputMethod
		require.NoError(t, m.UnmarshalText([]byte("  Manual ")))
		assert.Equal(t, InputMethodManual, m)

		require.NoError(t, m.UnmarshalText([]byte("FILE_UPLOAD")))
		assert.Equal(t, InputMethodFileUpload, m)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		var m InputMethod
		err := m.UnmarshalText([]byte("fax"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid InputMethod")
	})
}

func TestInputMethod_MaxBatchSize(t *testing.T) {
	assert.Equal(t, MaxManualBatchSize, InputMethodManual.MaxBatchSize())
	assert.Equal(t, MaxFileBatchSize, InputMethodFileUpload.MaxBatchSize())
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusProcessing.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}

func TestJobStatus_Valid(t *testing.T) {
	for _, s := range []JobStatus{
		JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, JobStatus("queued").Valid())
	assert.False(t, JobStatus(strings.ToUpper(string(JobStatusPending))).Valid())
}
