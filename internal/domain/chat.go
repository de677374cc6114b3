package domain

// GuestUserID is the identifier assigned to chat requests that do not
// carry a user id. Pre-generated persona data in the clickstream store
// is keyed off real user ids, so guests all share this one.
const GuestUserID = "user_new"

// Stream event kinds emitted on the chat SSE stream. Kinds originating
// upstream are republished under the same name; vision_analysis and
// completion are synthesized locally.
const (
	EventConversationStarted = "conversation_started"
	EventReasoning           = "reasoning"
	EventToolCall            = "tool_call"
	EventToolResult          = "tool_result"
	EventMessageChunk        = "message_chunk"
	EventMessageComplete     = "message_complete"
	EventVisionAnalysis      = "vision_analysis"
	EventCompletion          = "completion"
	EventError               = "error"
)

// ChatRequest is one inbound chat turn. It lives for a single HTTP
// request and is never persisted.
type ChatRequest struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id,omitempty"`
	AgentID     string `json:"agent_id,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// StreamEvent is one frame on the outbound chat stream. Data is an
// event-specific payload; unknown upstream kinds are passed through
// inertly with their payload untouched.
type StreamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Step is one entry in the reasoning trace accumulated over a chat
// turn and returned with the completion event.
type Step struct {
	Type       string         `json:"type"`
	Reasoning  string         `json:"reasoning,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolID     string         `json:"tool_id,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	Results    any            `json:"results,omitempty"`
}

// SuggestedProduct is a product recommendation reconstructed per chat
// turn from tool results or, failing that, from the assistant's final
// text. Derived data only; the catalog remains authoritative.
type SuggestedProduct struct {
	ID       string  `json:"id,omitempty"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}
