package agent_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-supply/wayfinder/internal/agent"
	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/extract"
)

type recordedEvent struct {
	Type string
	Data any
}

type recordSink struct {
	events []recordedEvent
}

func (s *recordSink) Emit(eventType string, data any) error {
	s.events = append(s.events, recordedEvent{Type: eventType, Data: data})
	return nil
}

func (s *recordSink) types() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

type stubConverser struct {
	stream   string
	err      error
	gotInput string
	gotAgent string
}

func (c *stubConverser) Converse(_ context.Context, input, agentID string) (io.ReadCloser, error) {
	c.gotInput = input
	c.gotAgent = agentID
	if c.err != nil {
		return nil, c.err
	}
	return io.NopCloser(strings.NewReader(c.stream)), nil
}

type stubAnalyzer struct {
	description string
	err         error
	ready       bool
	called      bool
}

func (a *stubAnalyzer) Analyze(_ context.Context, _, _ string) (string, error) {
	a.called = true
	return a.description, a.err
}

func (a *stubAnalyzer) Ready() bool { return a.ready }

func frames(payloads ...string) string {
	var b strings.Builder
	for _, p := range payloads {
		fmt.Fprintf(&b, "data: %s\n\n", p)
	}
	return b.String()
}

func newTestRelay(c agent.Converser, v agent.ImageAnalyzer) *agent.Relay {
	ex := extract.NewExtractor([]string{"Summit Forge", "TrailWeight"}, 6)
	return agent.NewRelay(c, v, ex, time.Second)
}

func TestRelayRunPassThroughOrdering(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{"reasoning": "Searching the catalog"}`,
		`{"text_chunk": "Here's"}`,
		`{"message_content": "Here's what I found"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	err := relay.Run(context.Background(), domain.ChatRequest{Message: "hi", UserID: "user_17"}, "agent-1", sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		domain.EventReasoning,
		domain.EventMessageChunk,
		domain.EventMessageComplete,
		domain.EventCompletion,
	}, sink.types())

	assert.Equal(t, "[User ID: user_17] hi", conv.gotInput)
	assert.Equal(t, "agent-1", conv.gotAgent)
}

func TestRelayRunGuestUserPrefix(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(`{"message_content": "hello"}`)}
	relay := newTestRelay(conv, nil)

	err := relay.Run(context.Background(), domain.ChatRequest{Message: "boots?"}, "agent-1", &recordSink{})
	require.NoError(t, err)
	assert.Equal(t, "[User ID: user_new] boots?", conv.gotInput)
}

func TestRelayRunVisionContextInjected(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(`{"message_content": "nice trail"}`)}
	analyzer := &stubAnalyzer{description: "rocky alpine terrain", ready: true}
	sink := &recordSink{}
	relay := newTestRelay(conv, analyzer)

	req := domain.ChatRequest{Message: "what should I wear?", UserID: "user_3", ImageBase64: "aGk="}
	require.NoError(t, relay.Run(context.Background(), req, "agent-1", sink))

	require.NotEmpty(t, sink.events)
	assert.Equal(t, domain.EventVisionAnalysis, sink.events[0].Type)
	assert.Equal(t, "[Vision Context: rocky alpine terrain] [User ID: user_3] what should I wear?", conv.gotInput)
}

func TestRelayRunVisionFailureDegradesSilently(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(`{"message_content": "ok"}`)}
	analyzer := &stubAnalyzer{err: errors.New("model cold"), ready: true}
	sink := &recordSink{}
	relay := newTestRelay(conv, analyzer)

	req := domain.ChatRequest{Message: "hi", UserID: "user_3", ImageBase64: "aGk="}
	require.NoError(t, relay.Run(context.Background(), req, "agent-1", sink))

	for _, e := range sink.events {
		assert.NotEqual(t, domain.EventVisionAnalysis, e.Type)
		assert.NotEqual(t, domain.EventError, e.Type)
	}
	assert.Equal(t, "[User ID: user_3] hi", conv.gotInput)
}

func TestRelayRunVisionNotReadySkipsAnalyzer(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(`{"message_content": "ok"}`)}
	analyzer := &stubAnalyzer{description: "unused", ready: false}
	relay := newTestRelay(conv, analyzer)

	req := domain.ChatRequest{Message: "hi", UserID: "user_3", ImageBase64: "aGk="}
	require.NoError(t, relay.Run(context.Background(), req, "agent-1", &recordSink{}))
	assert.False(t, analyzer.called)
}

func TestRelayRunUpstreamConnectFailure(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{err: fmt.Errorf("agent.Client.Converse: %w: status 502", domain.ErrUnavailable)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventError, sink.events[0].Type)
	payload := sink.events[0].Data.(map[string]any)
	assert.Contains(t, payload["error"], "Agent Builder API error")
}

func TestRelayRunUpstreamErrorObject(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{"error": {"message": "API key expired", "code": 401}}`,
		`{"message_content": "after"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	require.GreaterOrEqual(t, len(sink.events), 2)
	assert.Equal(t, domain.EventError, sink.events[0].Type)
	payload := sink.events[0].Data.(map[string]any)
	assert.Equal(t, "API key expired", payload["error"])
	// The stream keeps relaying after an upstream error object.
	assert.Equal(t, domain.EventMessageComplete, sink.events[1].Type)
}

func TestRelayRunMalformedFrameSkipped(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{not json`,
		`{"message_content": "still here"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))
	assert.Equal(t, []string{domain.EventMessageComplete, domain.EventCompletion}, sink.types())
}

func TestRelayRunToolCallRules(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		// No tool id: progress noise, dropped.
		`{"tool_call_id": "c1", "params": {"q": "boots"}}`,
		// Empty params: dropped.
		`{"tool_call_id": "c2", "tool_id": "search", "params": {}}`,
		// First real call: emitted.
		`{"tool_call_id": "c3", "tool_id": "search", "params": {"q": "boots"}}`,
		// Duplicate call id: params refined, no second emission.
		`{"tool_call_id": "c3", "tool_id": "search", "params": {"q": "hiking boots"}}`,
		`{"tool_call_id": "c3", "results": [{"title": "Summit Forge Boot", "price": 129.5, "id": "p-9"}]}`,
		`{"message_content": "done"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "boots"}, "agent-1", sink))

	assert.Equal(t, []string{
		domain.EventToolCall,
		domain.EventToolResult,
		domain.EventMessageComplete,
		domain.EventCompletion,
	}, sink.types())

	call := sink.events[0].Data.(map[string]any)
	assert.Equal(t, "c3", call["tool_call_id"])
	assert.Equal(t, "search", call["tool_id"])

	completion := sink.events[3].Data.(map[string]any)
	steps := completion["steps"].([]domain.Step)
	require.Len(t, steps, 1)
	assert.Equal(t, map[string]any{"q": "hiking boots"}, steps[0].Params)
	assert.NotNil(t, steps[0].Results)

	suggested := completion["suggested_products"].([]domain.SuggestedProduct)
	require.Len(t, suggested, 1)
	assert.Equal(t, "Summit Forge Boot", suggested[0].Title)
	assert.Equal(t, 129.5, suggested[0].Price)
	assert.Equal(t, "p-9", suggested[0].ID)
}

func TestRelayRunTransientReasoningDropped(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{"reasoning": "Consulting my tools", "transient": true}`,
		`{"reasoning": "Comparing insulation ratings"}`,
		`{"message_content": "done"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	assert.Equal(t, []string{
		domain.EventReasoning,
		domain.EventMessageComplete,
		domain.EventCompletion,
	}, sink.types())
	payload := sink.events[0].Data.(map[string]any)
	assert.Equal(t, "Comparing insulation ratings", payload["reasoning"])
}

func TestRelayRunConversationStarted(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{"conversation_id": "conv-42"}`,
		`{"message_content": "hey"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	assert.Equal(t, domain.EventConversationStarted, sink.events[0].Type)
	completion := sink.events[len(sink.events)-1].Data.(map[string]any)
	assert.Equal(t, "conv-42", completion["conversation_id"])
}

func TestRelayRunUnknownShapePassesThrough(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: "event: usage\ndata: {\"tokens\": 12}\n\n" +
		frames(`{"message_content": "done"}`)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	require.GreaterOrEqual(t, len(sink.events), 1)
	assert.Equal(t, "usage", sink.events[0].Type)
	payload := sink.events[0].Data.(map[string]any)
	assert.Equal(t, float64(12), payload["tokens"])
}

func TestRelayRunFallbackExtractionFromText(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{"message_content": "Try these:\n- TrailWeight Fleece - $89.00\n- Summit Forge Tent - $349.00"}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	completion := sink.events[len(sink.events)-1]
	require.Equal(t, domain.EventCompletion, completion.Type)
	suggested := completion.Data.(map[string]any)["suggested_products"].([]domain.SuggestedProduct)
	require.Len(t, suggested, 2)
	assert.Equal(t, "TrailWeight Fleece", suggested[0].Title)
	assert.Equal(t, 89.0, suggested[0].Price)
}

func TestRelayRunRoundResponseMessage(t *testing.T) {
	t.Parallel()

	conv := &stubConverser{stream: frames(
		`{"round": {"response": {"message": "final answer"}}}`,
	)}
	sink := &recordSink{}
	relay := newTestRelay(conv, nil)

	require.NoError(t, relay.Run(context.Background(), domain.ChatRequest{Message: "hi"}, "agent-1", sink))

	assert.Equal(t, []string{domain.EventMessageComplete, domain.EventCompletion}, sink.types())
	payload := sink.events[0].Data.(map[string]any)
	assert.Equal(t, "final answer", payload["message_content"])
}
