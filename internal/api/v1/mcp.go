package v1

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/crm"
)

// JSON-RPC error codes used by the tool endpoint.
const (
	rpcMethodNotFound = -32601
	rpcInternalError  = -32603
	rpcParseError     = -32700
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// MCPHandler serves the mock tool backend the upstream agent calls over
// JSON-RPC: trip conditions and customer profiles.
type MCPHandler struct{}

func NewMCPHandler() *MCPHandler {
	return &MCPHandler{}
}

func (h *MCPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcParseError, Message: "invalid JSON-RPC request"},
		})
		return
	}

	if req.Method != "tools/call" {
		writeRPC(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcMethodNotFound, Message: "Method not found: " + req.Method},
			ID:      req.ID,
		})
		return
	}

	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPC(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcInternalError, Message: "invalid tool call params"},
			ID:      req.ID,
		})
		return
	}

	var result any
	switch params.Name {
	case "get_trip_conditions_tool":
		location, _ := params.Arguments["location"].(string)
		dates, _ := params.Arguments["dates"].(string)
		result = crm.Conditions(location, dates)

	case "get_customer_profile_tool":
		userID, _ := params.Arguments["user_id"].(string)
		result = crm.Profile(userID)

	default:
		writeRPC(w, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcMethodNotFound, Message: "Method not found: " + params.Name},
			ID:      req.ID,
		})
		return
	}

	log.Debug().Str("tool", params.Name).Msg("api: tool call served")
	writeRPC(w, rpcResponse{JSONRPC: "2.0", Result: result, ID: req.ID})
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
