package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// envelope is the downstream frame payload. The storefront switches on
// the embedded type rather than the SSE event name.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Writer emits downstream frames as `data: {"type":...,"data":...}\n\n`,
// flushing after every frame so the UI renders the trace incrementally.
type Writer struct {
	w     io.Writer
	flush func()
}

// NewWriter prepares an http.ResponseWriter for event streaming and
// returns a Writer over it.
func NewWriter(w http.ResponseWriter) *Writer {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	flush := func() {}
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}

	return &Writer{w: w, flush: flush}
}

// Emit writes one frame. Write errors usually mean the client went away;
// the caller should stop pumping and cancel the upstream read.
func (w *Writer) Emit(eventType string, data any) error {
	payload, err := json.Marshal(envelope{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("sse.Writer.Emit: marshal %s: %w", eventType, err)
	}

	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("sse.Writer.Emit: write %s: %w", eventType, err)
	}

	w.flush()
	return nil
}
