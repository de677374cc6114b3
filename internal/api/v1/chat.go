package v1

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/sse"
)

// ChatHandler serves the streaming chat endpoint. It stays off the typed
// API because its response is a hand-pumped SSE stream, not a JSON body.
type ChatHandler struct {
	relay          ChatRelay
	defaultAgentID string
	streamTimeout  time.Duration
}

func NewChatHandler(relay ChatRelay, defaultAgentID string, streamTimeout time.Duration) *ChatHandler {
	return &ChatHandler{
		relay:          relay,
		defaultAgentID: defaultAgentID,
		streamTimeout:  streamTimeout,
	}
}

// ServeHTTP accepts a JSON body or, for older storefront builds, the
// same fields as query parameters. The body wins when both are present.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "message is required")
		return
	}

	agentID := req.AgentID
	if agentID == "" {
		agentID = h.defaultAgentID
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.streamTimeout)
	defer cancel()

	writer := sse.NewWriter(w)
	if err := h.relay.Run(ctx, req, agentID, writer); err != nil {
		// Headers are long gone; just note the broken stream.
		log.Debug().Err(err).Msg("api: chat stream ended early")
	}
}

func decodeChatRequest(r *http.Request) (domain.ChatRequest, error) {
	var req domain.ChatRequest

	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
		if err != nil {
			return req, errors.New("could not read request body")
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return req, errors.New("invalid JSON body")
			}
		}
	}

	// Legacy query parameters fill whatever the body left empty.
	q := r.URL.Query()
	if req.Message == "" {
		req.Message = q.Get("message")
	}
	if req.UserID == "" {
		req.UserID = q.Get("user_id")
	}
	if req.AgentID == "" {
		req.AgentID = q.Get("agent_id")
	}

	return req, nil
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
