package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/linkscout/linkscout-api/config"
	"github.com/linkscout/linkscout-api/internal/mocks"
	"github.com/linkscout/linkscout-api/internal/service"
)

const testSweepSecret = "sweep-secret"

func newSweepHandlersWithMock(
	t *testing.T,
) (*SweepHandlers, *mocks.MockSweepRepository, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockSweepRepository(ctrl)
	svc, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo: mockRepo,
		Config: config.ReaperConfig{
			Interval:  time.Minute,
			Window:    10 * time.Minute,
			BatchSize: 100,
		},
	})
	require.NoError(t, err)
	return &SweepHandlers{Svc: svc, Secret: testSweepSecret}, mockRepo, ctrl
}

func TestCheckTimeouts_Success(t *testing.T) {
	h, mockRepo, ctrl := newSweepHandlersWithMock(t)
	defer ctrl.Finish()

	gomock.InOrder(
		mockRepo.EXPECT().FailTimedOutJobs(gomock.Any(), 10*time.Minute, 100).Return(int64(3), nil),
		mockRepo.EXPECT().FailTimedOutJobs(gomock.Any(), 10*time.Minute, 100).Return(int64(0), nil),
	)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/check-timeouts", nil)
	r.Header.Set("Authorization", "Bearer "+testSweepSecret)
	w := httptest.NewRecorder()

	h.CheckTimeouts(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success": true, "timedOutJobs": 3}`, w.Body.String())
}

func TestCheckTimeouts_NothingToSweep(t *testing.T) {
	h, mockRepo, ctrl := newSweepHandlersWithMock(t)
	defer ctrl.Finish()

	mockRepo.EXPECT().FailTimedOutJobs(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/check-timeouts", nil)
	r.Header.Set("Authorization", "Bearer "+testSweepSecret)
	w := httptest.NewRecorder()

	h.CheckTimeouts(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success": true, "timedOutJobs": 0}`, w.Body.String())
}

func TestCheckTimeouts_Unauthorized(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing header", func(r *http.Request) {}},
		{"wrong secret", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer guess")
		}},
		{"secret without bearer prefix", func(r *http.Request) {
			r.Header.Set("Authorization", testSweepSecret)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, ctrl := newSweepHandlersWithMock(t)
			defer ctrl.Finish()

			r := httptest.NewRequest(http.MethodPost, "/api/jobs/check-timeouts", nil)
			tt.setup(r)
			w := httptest.NewRecorder()

			h.CheckTimeouts(w, r)

			resp := w.Result()
			defer resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestCheckTimeouts_SweepFailure(t *testing.T) {
	h, mockRepo, ctrl := newSweepHandlersWithMock(t)
	defer ctrl.Finish()

	mockRepo.EXPECT().FailTimedOutJobs(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), assert.AnError)

	r := httptest.NewRequest(http.MethodPost, "/api/jobs/check-timeouts", nil)
	r.Header.Set("Authorization", "Bearer "+testSweepSecret)
	w := httptest.NewRecorder()

	h.CheckTimeouts(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
