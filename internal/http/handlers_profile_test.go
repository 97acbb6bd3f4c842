package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/linkscout/linkscout-api/internal/domain/model"
	"github.com/linkscout/linkscout-api/internal/mocks"
	"github.com/linkscout/linkscout-api/internal/service"
)

type stubExtractor struct {
	profile *model.SenderProfile
	err     error
}

func (s stubExtractor) ExtractProfile(ctx context.Context, bioText string) (*model.SenderProfile, error) {
	return s.profile, s.err
}

func newProfileHandlers(
	t *testing.T,
	extractor stubExtractor,
) (*ProfileHandlers, *mocks.MockProfileRepository, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockProfileRepository(ctrl)
	svc, err := service.NewProfileService(service.ProfileServiceOptions{
		Repo:      mockRepo,
		Extractor: extractor,
	})
	require.NoError(t, err)
	return &ProfileHandlers{Svc: svc}, mockRepo, ctrl
}

func TestParseProfile_Success(t *testing.T) {
	extracted := &model.SenderProfile{
		Education:   []string{"Stanford"},
		CurrentRole: "Engineer",
	}
	h, mockRepo, ctrl := newProfileHandlers(t, stubExtractor{profile: extracted})
	defer ctrl.Finish()

	mockRepo.EXPECT().UpdateSenderProfile(gomock.Any(), gomock.Any()).Return(nil)

	bio := strings.Repeat("Engineer at Acme, Stanford alum. ", 3)
	body, _ := json.Marshal(map[string]string{"profileText": bio, "userName": "Alex Kim"})
	r := withSession(httptest.NewRequest(http.MethodPost, "/api/profile/parse", bytes.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	h.ParseProfile(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Success bool                 `json:"success"`
		Profile *model.SenderProfile `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Success)
	assert.Equal(t, extracted, got.Profile)
}

func TestParseProfile_TooShort(t *testing.T) {
	h, _, ctrl := newProfileHandlers(t, stubExtractor{})
	defer ctrl.Finish()

	body := `{"profileText": "too short"}`
	r := withSession(httptest.NewRequest(http.MethodPost, "/api/profile/parse", bytes.NewBufferString(body)), "user-1")
	w := httptest.NewRecorder()

	h.ParseProfile(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Profile text too short. Please provide at least 50 characters.", got["message"])
}

func TestParseProfile_NoSession(t *testing.T) {
	h, _, ctrl := newProfileHandlers(t, stubExtractor{})
	defer ctrl.Finish()

	r := httptest.NewRequest(http.MethodPost, "/api/profile/parse", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.ParseProfile(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
