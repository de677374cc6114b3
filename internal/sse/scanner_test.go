package sse_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-supply/wayfinder/internal/sse"
)

func TestScannerSingleFrame(t *testing.T) {
	t.Parallel()

	var s sse.Scanner
	frames := s.Feed([]byte("event: message\ndata: {\"text_chunk\":\"hi\"}\n\n"))

	require.Len(t, frames, 1)
	assert.Equal(t, "message", frames[0].Event)
	assert.JSONEq(t, `{"text_chunk":"hi"}`, string(frames[0].Data))
}

func TestScannerPartialChunks(t *testing.T) {
	t.Parallel()

	// One logical frame split at awkward byte boundaries.
	chunks := []string{
		"eve", "nt: reason", "ing\nda",
		"ta: {\"reasoning\":", "\"thinking\"}", "\n\n",
	}

	var s sse.Scanner
	var frames []sse.Frame
	for _, c := range chunks {
		frames = append(frames, s.Feed([]byte(c))...)
	}

	require.Len(t, frames, 1)
	assert.Equal(t, "reasoning", frames[0].Event)
	assert.JSONEq(t, `{"reasoning":"thinking"}`, string(frames[0].Data))
	assert.Empty(t, s.Rest())
}

func TestScannerMultipleFramesOneChunk(t *testing.T) {
	t.Parallel()

	input := "event: a\ndata: {\"n\":1}\n\nevent: b\ndata: {\"n\":2}\n\ndata: {\"n\":3}\n"

	var s sse.Scanner
	frames := s.Feed([]byte(input))

	require.Len(t, frames, 3)
	assert.Equal(t, "a", frames[0].Event)
	assert.Equal(t, "b", frames[1].Event)
	// A data line without a preceding event keeps the last event type.
	assert.Equal(t, "b", frames[2].Event)
}

func TestScannerIgnoresCommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	var s sse.Scanner
	frames := s.Feed([]byte(":keep-alive\n\n\nevent: x\n:another comment\ndata: {}\n"))

	require.Len(t, frames, 1)
	assert.Equal(t, "x", frames[0].Event)
}

func TestScannerRetainsTrailingPartialLine(t *testing.T) {
	t.Parallel()

	var s sse.Scanner
	frames := s.Feed([]byte("data: {\"a\":1}\ndata: {\"b\":"))

	require.Len(t, frames, 1)
	assert.Equal(t, []byte("data: {\"b\":"), s.Rest())

	frames = s.Feed([]byte("2}\n"))
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"b":2}`, string(frames[0].Data))
}

func TestWriterFraming(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := sse.NewWriter(rec)

	require.NoError(t, w.Emit("message_chunk", map[string]any{"text_chunk": "Here's"}))
	require.NoError(t, w.Emit("error", map[string]any{"error": "boom"}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	parts := bytes.Split([]byte(body), []byte("\n\n"))
	// Trailing split element is empty.
	require.Len(t, parts, 3)
	assert.JSONEq(t, `{"type":"message_chunk","data":{"text_chunk":"Here's"}}`,
		string(bytes.TrimPrefix(parts[0], []byte("data: "))))
	assert.JSONEq(t, `{"type":"error","data":{"error":"boom"}}`,
		string(bytes.TrimPrefix(parts[1], []byte("data: "))))
}
