// Package sse implements the text framing used on both sides of the chat
// proxy: an incremental scanner for upstream event streams and a writer
// for the downstream stream served to the storefront.
package sse

import (
	"bytes"
	"strings"
)

// Frame is one complete upstream SSE frame: the most recent "event:" line
// paired with one "data:" payload line.
type Frame struct {
	Event string
	Data  []byte
}

// Scanner assembles frames from arbitrarily chunked stream bytes. Feed it
// raw reads in order; it buffers the trailing partial line and returns
// every frame completed by the chunk. A zero Scanner is ready to use.
type Scanner struct {
	buf   bytes.Buffer
	event string
}

// Feed appends a chunk and returns all frames completed by it. Lines that
// are neither "event:" nor "data:" prefixed (comments, blank keep-alives)
// are ignored.
func (s *Scanner) Feed(chunk []byte) []Frame {
	s.buf.Write(chunk)

	var frames []Frame
	for {
		raw := s.buf.Bytes()
		idx := bytes.IndexByte(raw, '\n')
		if idx < 0 {
			break
		}

		line := strings.TrimSpace(string(raw[:idx]))
		s.buf.Next(idx + 1)

		if line == "" {
			continue
		}

		if after, ok := strings.CutPrefix(line, "event:"); ok {
			s.event = strings.TrimSpace(after)
			continue
		}

		if after, ok := strings.CutPrefix(line, "data:"); ok {
			frames = append(frames, Frame{
				Event: s.event,
				Data:  []byte(strings.TrimSpace(after)),
			})
		}
	}

	return frames
}

// Rest returns the unconsumed partial line still buffered, for diagnostics.
func (s *Scanner) Rest() []byte {
	return s.buf.Bytes()
}
