package sse_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-supply/wayfinder/internal/sse"
)

func TestWriterEmit(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := sse.NewWriter(rec)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	require.NoError(t, w.Emit("message_chunk", map[string]any{"text": "Hello"}))
	require.NoError(t, w.Emit("completion", map[string]any{"steps": []any{}}))

	frames := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n\n")
	require.Len(t, frames, 2)
	assert.Equal(t, `data: {"type":"message_chunk","data":{"text":"Hello"}}`, frames[0])
	assert.Equal(t, `data: {"type":"completion","data":{"steps":[]}}`, frames[1])

	assert.True(t, rec.Flushed)
}
