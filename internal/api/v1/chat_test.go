package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-supply/wayfinder/internal/agent"
	v1 "github.com/wayfinder-supply/wayfinder/internal/api/v1"
	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

// stubChatRelay records the request it was handed and emits a canned
// pair of frames through the sink.
type stubChatRelay struct {
	req     domain.ChatRequest
	agentID string
	runErr  error
}

func (s *stubChatRelay) Run(_ context.Context, req domain.ChatRequest, agentID string, sink agent.Sink) error {
	s.req = req
	s.agentID = agentID
	if s.runErr != nil {
		return s.runErr
	}
	if err := sink.Emit(domain.EventMessageChunk, map[string]any{"text": "Hello"}); err != nil {
		return err
	}
	return sink.Emit(domain.EventCompletion, map[string]any{"suggested_products": []any{}})
}

func newChatRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestChatHandler(t *testing.T) {
	t.Parallel()

	t.Run("streams_sse_frames", func(t *testing.T) {
		t.Parallel()

		relay := &stubChatRelay{}
		handler := v1.NewChatHandler(relay, "wayfinder-search-agent", time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newChatRequest(t, http.MethodPost, "/api/chat",
			`{"message": "what tent should I buy?", "user_id": "user_17"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

		assert.Equal(t, "what tent should I buy?", relay.req.Message)
		assert.Equal(t, "user_17", relay.req.UserID)
		assert.Equal(t, "wayfinder-search-agent", relay.agentID)

		body := rec.Body.String()
		assert.Contains(t, body, `data: {"type":"message_chunk"`)
		assert.Contains(t, body, `data: {"type":"completion"`)
		assert.True(t, strings.HasSuffix(body, "\n\n"))
	})

	t.Run("missing_message_is_400", func(t *testing.T) {
		t.Parallel()

		handler := v1.NewChatHandler(&stubChatRelay{}, "wayfinder-search-agent", time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newChatRequest(t, http.MethodPost, "/api/chat", `{}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "message is required")
	})

	t.Run("invalid_json_is_400", func(t *testing.T) {
		t.Parallel()

		handler := v1.NewChatHandler(&stubChatRelay{}, "wayfinder-search-agent", time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newChatRequest(t, http.MethodPost, "/api/chat", `{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid JSON body")
	})

	t.Run("legacy_query_parameters", func(t *testing.T) {
		t.Parallel()

		relay := &stubChatRelay{}
		handler := v1.NewChatHandler(relay, "wayfinder-search-agent", time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newChatRequest(t, http.MethodGet,
			"/api/chat?message=hi&user_id=user_42&agent_id=custom-agent", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hi", relay.req.Message)
		assert.Equal(t, "user_42", relay.req.UserID)
		assert.Equal(t, "custom-agent", relay.agentID)
	})

	t.Run("body_wins_over_query", func(t *testing.T) {
		t.Parallel()

		relay := &stubChatRelay{}
		handler := v1.NewChatHandler(relay, "wayfinder-search-agent", time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newChatRequest(t, http.MethodPost,
			"/api/chat?message=query-message", `{"message": "body message"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body message", relay.req.Message)
	})

	t.Run("relay_error_not_written_to_stream", func(t *testing.T) {
		t.Parallel()

		relay := &stubChatRelay{runErr: context.Canceled}
		handler := v1.NewChatHandler(relay, "wayfinder-search-agent", time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newChatRequest(t, http.MethodPost, "/api/chat",
			`{"message": "hi"}`))

		// Headers were already committed; the stream just ends.
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
