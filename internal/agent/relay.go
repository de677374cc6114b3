package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/extract"
	"github.com/wayfinder-supply/wayfinder/internal/sse"
)

// Sink receives outbound stream events in order. *sse.Writer satisfies it.
type Sink interface {
	Emit(eventType string, data any) error
}

// Converser abstracts the upstream stream opener for relay testing.
// *Client satisfies it.
type Converser interface {
	Converse(ctx context.Context, input, agentID string) (io.ReadCloser, error)
}

// ImageAnalyzer abstracts the vision pre-processor. *vision.Service
// satisfies it.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, imageBase64, prompt string) (string, error)
	Ready() bool
}

// Relay pumps one chat turn: at most one vision pre-processing call, one
// upstream converse stream, ordered republication downstream, and a
// trailing completion event with the reconstructed product suggestions.
// A Relay holds no per-request state and is safe for concurrent use.
type Relay struct {
	client        Converser
	vision        ImageAnalyzer
	extractor     *extract.Extractor
	visionTimeout time.Duration
}

// NewRelay wires a Relay. vision may be nil when no analyzer is deployed.
func NewRelay(client Converser, vision ImageAnalyzer, extractor *extract.Extractor, visionTimeout time.Duration) *Relay {
	return &Relay{
		client:        client,
		vision:        vision,
		extractor:     extractor,
		visionTimeout: visionTimeout,
	}
}

// turnState accumulates the per-turn trace used by the completion event.
type turnState struct {
	conversationID string
	steps          []*domain.Step
	stepByCall     map[string]*domain.Step
	chunks         string
	finalText      string
	toolProducts   []domain.SuggestedProduct
}

// Run executes one chat turn, emitting every event to sink in order.
// Returned errors are client-side write failures only; upstream failures
// surface as a single error event followed by stream close.
func (r *Relay) Run(ctx context.Context, req domain.ChatRequest, agentID string, sink Sink) error {
	uid := req.UserID
	if uid == "" {
		uid = domain.GuestUserID
	}

	// Vision pre-processing. Failures never block the chat turn.
	visionContext := ""
	if req.ImageBase64 != "" && r.vision != nil {
		if r.vision.Ready() {
			if desc := r.analyzeImage(ctx, req.ImageBase64); desc != "" {
				if err := sink.Emit(domain.EventVisionAnalysis, map[string]any{"description": desc}); err != nil {
					return fmt.Errorf("agent.Relay.Run: %w", err)
				}
				visionContext = "[Vision Context: " + desc + "] "
			}
		} else {
			log.Info().Msg("agent: image provided but vision is not configured, ignoring image")
		}
	}

	outbound := fmt.Sprintf("%s[User ID: %s] %s", visionContext, uid, req.Message)

	body, err := r.client.Converse(ctx, outbound, agentID)
	if err != nil {
		log.Warn().Err(err).Str("agent_id", agentID).Msg("agent: upstream converse failed")
		return sink.Emit(domain.EventError, map[string]any{"error": upstreamErrorMessage(err)})
	}
	defer body.Close()

	state := &turnState{stepByCall: make(map[string]*domain.Step)}

	var scanner sse.Scanner
	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, frame := range scanner.Feed(buf[:n]) {
				if err := r.relayFrame(frame, state, sink); err != nil {
					return fmt.Errorf("agent.Relay.Run: %w", err)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				// Client went away; nothing left to write to.
				return nil
			}
			log.Warn().Err(readErr).Msg("agent: upstream stream error")
			return sink.Emit(domain.EventError, map[string]any{"error": upstreamErrorMessage(readErr)})
		}
	}

	return r.emitCompletion(state, sink)
}

// relayFrame classifies one upstream frame and republishes it. Malformed
// payloads are skipped, never fatal.
func (r *Relay) relayFrame(frame sse.Frame, state *turnState, sink Sink) error {
	outer, data, ok := decodeFrame(frame.Data)
	if !ok {
		log.Debug().Str("event", frame.Event).Msg("agent: skipping malformed upstream frame")
		return nil
	}

	// Upstream error objects (expired keys, rate limits) pass through as
	// error events without terminating the relay.
	if errInfo, present := outer["error"]; present {
		payload := map[string]any{"error": "Unknown error"}
		if m, isMap := errInfo.(map[string]any); isMap {
			if msg, has := m["message"].(string); has {
				payload["error"] = msg
			}
			if code, has := m["code"]; has {
				payload["code"] = code
			}
		} else if s, isStr := errInfo.(string); isStr {
			payload["error"] = s
		}
		return sink.Emit(domain.EventError, payload)
	}

	switch {
	case data["conversation_id"] != nil:
		cid, _ := data["conversation_id"].(string)
		state.conversationID = cid
		return sink.Emit(domain.EventConversationStarted, map[string]any{"conversation_id": cid})

	case data["reasoning"] != nil:
		reasoning, _ := data["reasoning"].(string)
		// Transient "consulting my tools" notices are upstream noise.
		if transient, _ := data["transient"].(bool); transient {
			return nil
		}
		state.steps = append(state.steps, &domain.Step{Type: domain.EventReasoning, Reasoning: reasoning})
		return sink.Emit(domain.EventReasoning, map[string]any{"reasoning": reasoning})

	// Tool results carry both fields; check before the bare tool_call_id case.
	case data["results"] != nil && data["tool_call_id"] != nil:
		callID, _ := data["tool_call_id"].(string)
		results := data["results"]
		if step, seen := state.stepByCall[callID]; seen {
			step.Results = results
		}
		state.toolProducts = append(state.toolProducts, r.extractor.FromToolResults(results)...)
		return sink.Emit(domain.EventToolResult, map[string]any{
			"tool_call_id": callID,
			"results":      results,
		})

	case data["tool_call_id"] != nil:
		return r.relayToolCall(data, state, sink)

	case data["text_chunk"] != nil:
		chunk, _ := data["text_chunk"].(string)
		state.chunks += chunk
		return sink.Emit(domain.EventMessageChunk, map[string]any{"text_chunk": chunk})

	case data["message_content"] != nil:
		content, _ := data["message_content"].(string)
		state.finalText = content
		return sink.Emit(domain.EventMessageComplete, map[string]any{"message_content": content})

	case data["round"] != nil:
		if msg := roundMessage(data); msg != "" {
			state.finalText = msg
			return sink.Emit(domain.EventMessageComplete, map[string]any{"message_content": msg})
		}
		return nil

	default:
		// Unknown payload shapes pass through inertly under their
		// upstream event type, for forward compatibility.
		eventType := frame.Event
		if eventType == "" {
			return nil
		}
		return sink.Emit(eventType, outer)
	}
}

func (r *Relay) relayToolCall(data map[string]any, state *turnState, sink Sink) error {
	callID, _ := data["tool_call_id"].(string)
	toolID, _ := data["tool_id"].(string)
	params, _ := data["params"].(map[string]any)

	// Progress updates carry no tool id.
	if toolID == "" {
		return nil
	}

	if step, seen := state.stepByCall[callID]; seen {
		// Duplicate call frames refine params; no second emission.
		if len(params) > 0 {
			step.Params = params
		}
		return nil
	}
	if len(params) == 0 {
		return nil
	}

	step := &domain.Step{
		Type:       domain.EventToolCall,
		ToolCallID: callID,
		ToolID:     toolID,
		Params:     params,
	}
	state.steps = append(state.steps, step)
	state.stepByCall[callID] = step

	return sink.Emit(domain.EventToolCall, map[string]any{
		"tool_call_id": callID,
		"tool_id":      toolID,
		"params":       params,
	})
}

// emitCompletion closes the turn: the step trace plus product suggestions
// reconstructed from tool results or, failing that, from the final text.
func (r *Relay) emitCompletion(state *turnState, sink Sink) error {
	finalText := state.finalText
	if finalText == "" {
		finalText = state.chunks
	}

	var fallback []domain.SuggestedProduct
	if len(state.toolProducts) == 0 {
		fallback = r.extractor.FromText(finalText)
	}
	suggested := r.extractor.Merge(state.toolProducts, fallback)

	steps := make([]domain.Step, 0, len(state.steps))
	for _, s := range state.steps {
		steps = append(steps, *s)
	}

	return sink.Emit(domain.EventCompletion, map[string]any{
		"conversation_id":    state.conversationID,
		"steps":              steps,
		"suggested_products": suggested,
	})
}

// analyzeImage runs the bounded vision call; "" means skip enrichment.
func (r *Relay) analyzeImage(ctx context.Context, imageBase64 string) string {
	ctx, cancel := context.WithTimeout(ctx, r.visionTimeout)
	defer cancel()

	desc, err := r.vision.Analyze(ctx, imageBase64, "")
	if err != nil {
		log.Warn().Err(err).Msg("agent: vision analysis failed, proceeding without")
		return ""
	}
	log.Info().Int("chars", len(desc)).Msg("agent: vision context added")
	return desc
}

func upstreamErrorMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timeout"
	case errors.Is(err, domain.ErrUnavailable):
		return "Agent Builder API error: " + err.Error()
	default:
		return "Connection error: " + err.Error()
	}
}
