package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout-api/internal/ports"
)

// chatServer is a canned chat-completions endpoint that records the last
// request body.
type chatServer struct {
	t        *testing.T
	content  string
	status   int
	lastBody map[string]any
	lastAuth string
	lastPath string
}

func (s *chatServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.lastAuth = r.Header.Get("Authorization")
		s.lastPath = r.URL.Path
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&s.lastBody))

		if s.status != 0 && s.status != http.StatusOK {
			w.WriteHeader(s.status)
			_, _ = w.Write([]byte(`{"error": "rate limited"}`))
			return
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": s.content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(s.t, json.NewEncoder(w).Encode(resp))
	}
}

func newTestClient(t *testing.T, srv *chatServer) (*Client, func()) {
	t.Helper()
	ts := httptest.NewServer(srv.handler())
	c := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "deepseek-chat",
	}, nil)
	return c, ts.Close
}

func draftInput() ports.DraftInput {
	return ports.DraftInput{
		SenderName:    "Alex Kim",
		SenderRole:    "Product Manager",
		RecipientName: "Jordan Lee",
		School:        "Stanford",
		Commonalities: []string{"Both attended Stanford"},
	}
}

func TestDraftMessage(t *testing.T) {
	t.Run("returns the model draft", func(t *testing.T) {
		srv := &chatServer{t: t, content: "Hi Jordan, fellow Stanford alum here."}
		c, done := newTestClient(t, srv)
		defer done()

		draft, err := c.DraftMessage(context.Background(), draftInput())
		require.NoError(t, err)
		assert.Equal(t, "Hi Jordan, fellow Stanford alum here.", draft)

		assert.Equal(t, "Bearer test-key", srv.lastAuth)
		assert.Equal(t, "/chat/completions", srv.lastPath)
		assert.Equal(t, "deepseek-chat", srv.lastBody["model"])
		assert.InDelta(t, 0.7, srv.lastBody["temperature"], 0.001)
	})

	t.Run("strips code fences and surrounding quotes", func(t *testing.T) {
		srv := &chatServer{t: t, content: "```\n\"Hi Jordan!\"\n```"}
		c, done := newTestClient(t, srv)
		defer done()

		draft, err := c.DraftMessage(context.Background(), draftInput())
		require.NoError(t, err)
		assert.Equal(t, "Hi Jordan!", draft)
	})

	t.Run("caps drafts at 250 characters", func(t *testing.T) {
		srv := &chatServer{t: t, content: strings.Repeat("word ", 100)}
		c, done := newTestClient(t, srv)
		defer done()

		draft, err := c.DraftMessage(context.Background(), draftInput())
		require.NoError(t, err)
		assert.LessOrEqual(t, len(draft), 250)
		assert.False(t, strings.HasSuffix(draft, " "), "truncation should end on a word")
	})

	t.Run("surfaces non-2xx responses", func(t *testing.T) {
		srv := &chatServer{t: t, status: http.StatusTooManyRequests}
		c, done := newTestClient(t, srv)
		defer done()

		_, err := c.DraftMessage(context.Background(), draftInput())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm status 429")
	})

	t.Run("prompt carries the personalization inputs", func(t *testing.T) {
		srv := &chatServer{t: t, content: "Hi."}
		c, done := newTestClient(t, srv)
		defer done()

		_, err := c.DraftMessage(context.Background(), draftInput())
		require.NoError(t, err)

		messages, ok := srv.lastBody["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		user := messages[1].(map[string]any)["content"].(string)
		assert.Contains(t, user, "Jordan Lee")
		assert.Contains(t, user, "Stanford")
		assert.Contains(t, user, "Both attended Stanford")
	})
}

func TestExtractProfile(t *testing.T) {
	valid := `{
		"education": ["Stanford University"],
		"experience": ["Google", "Acme Corp"],
		"current_company": "Acme Corp",
		"current_role": "Product Manager",
		"interests": ["fintech"]
	}`

	t.Run("parses valid model output", func(t *testing.T) {
		srv := &chatServer{t: t, content: valid}
		c, done := newTestClient(t, srv)
		defer done()

		profile, err := c.ExtractProfile(context.Background(), "a long enough bio")
		require.NoError(t, err)
		assert.Equal(t, []string{"Stanford University"}, profile.Education)
		assert.Equal(t, "Product Manager", profile.CurrentRole)
	})

	t.Run("strips a json code fence", func(t *testing.T) {
		srv := &chatServer{t: t, content: "```json\n" + valid + "\n```"}
		c, done := newTestClient(t, srv)
		defer done()

		profile, err := c.ExtractProfile(context.Background(), "a long enough bio")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", profile.CurrentCompany)
	})

	t.Run("rejects output missing required keys", func(t *testing.T) {
		srv := &chatServer{t: t, content: `{"education": ["Stanford"]}`}
		c, done := newTestClient(t, srv)
		defer done()

		_, err := c.ExtractProfile(context.Background(), "a long enough bio")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("rejects output with wrong types", func(t *testing.T) {
		srv := &chatServer{t: t, content: `{
			"education": "Stanford",
			"experience": [],
			"current_company": "",
			"current_role": "",
			"interests": []
		}`}
		c, done := newTestClient(t, srv)
		defer done()

		_, err := c.ExtractProfile(context.Background(), "a long enough bio")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("rejects output with unknown keys", func(t *testing.T) {
		srv := &chatServer{t: t, content: `{
			"education": [],
			"experience": [],
			"current_company": "",
			"current_role": "",
			"interests": [],
			"confidence": 0.9
		}`}
		c, done := newTestClient(t, srv)
		defer done()

		_, err := c.ExtractProfile(context.Background(), "a long enough bio")
		require.Error(t, err)
	})

	t.Run("rejects non-json output", func(t *testing.T) {
		srv := &chatServer{t: t, content: "I could not find any profile data."}
		c, done := newTestClient(t, srv)
		defer done()

		_, err := c.ExtractProfile(context.Background(), "a long enough bio")
		require.Error(t, err)
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```JSON\n{}\n```  ", "{}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in), tt.in)
	}
}

func TestTruncateAtWord(t *testing.T) {
	assert.Equal(t, "short", truncateAtWord("short", 250))

	long := strings.Repeat("a", 300)
	assert.Len(t, truncateAtWord(long, 250), 250)

	sentence := strings.Repeat("hello world ", 30)
	got := truncateAtWord(sentence, 250)
	assert.LessOrEqual(t, len(got), 250)
	assert.False(t, strings.HasSuffix(got, " "))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.Equal(t, "https://api.deepseek.com/v1", c.cfg.BaseURL)
	assert.Equal(t, "deepseek-chat", c.cfg.Model)
	assert.InDelta(t, 0.3, c.cfg.Temperature, 0.001)
	assert.Equal(t, 500, c.cfg.MaxTokens)
	assert.False(t, c.Configured())

	c = NewClient(Config{APIKey: "k"}, nil)
	assert.True(t, c.Configured())
}
