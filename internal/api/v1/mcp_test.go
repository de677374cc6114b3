package v1_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/wayfinder-supply/wayfinder/internal/api/v1"
)

func callRPC(t *testing.T, body string) (int, map[string]any) {
	t.Helper()

	handler := v1.NewMCPHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestMCPTripConditions(t *testing.T) {
	t.Parallel()

	code, resp := callRPC(t, `{
		"jsonrpc": "2.0",
		"id": 1,
		"method": "tools/call",
		"params": {
			"name": "get_trip_conditions_tool",
			"arguments": {"location": "Banff National Park", "dates": "July 2026"}
		}
	}`)

	require.Equal(t, http.StatusOK, code)
	require.Nil(t, resp["error"])
	assert.EqualValues(t, 1, resp["id"])

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, result["covered"])

	loc, ok := result["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Banff National Park", loc["name"])
}

func TestMCPCustomerProfile(t *testing.T) {
	t.Parallel()

	t.Run("known_user", func(t *testing.T) {
		t.Parallel()

		code, resp := callRPC(t, `{
			"jsonrpc": "2.0",
			"id": "abc",
			"method": "tools/call",
			"params": {"name": "get_customer_profile_tool", "arguments": {"user_id": "user_17"}}
		}`)

		require.Equal(t, http.StatusOK, code)
		result, ok := resp["result"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Dana Whitfield", result["name"])
		assert.Equal(t, "abc", resp["id"])
	})

	t.Run("unknown_user_gets_default", func(t *testing.T) {
		t.Parallel()

		_, resp := callRPC(t, `{
			"jsonrpc": "2.0",
			"id": 2,
			"method": "tools/call",
			"params": {"name": "get_customer_profile_tool", "arguments": {"user_id": "user_999"}}
		}`)

		result, ok := resp["result"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Unknown User", result["name"])
		assert.Equal(t, "user_999@example.com", result["email"])
	})
}

func TestMCPErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown_method", func(t *testing.T) {
		t.Parallel()

		_, resp := callRPC(t, `{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`)

		rpcErr, ok := resp["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, -32601, rpcErr["code"])
		assert.Contains(t, rpcErr["message"], "tools/list")
	})

	t.Run("unknown_tool", func(t *testing.T) {
		t.Parallel()

		_, resp := callRPC(t, `{
			"jsonrpc": "2.0",
			"id": 1,
			"method": "tools/call",
			"params": {"name": "launch_rocket_tool", "arguments": {}}
		}`)

		rpcErr, ok := resp["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, -32601, rpcErr["code"])
	})

	t.Run("malformed_request", func(t *testing.T) {
		t.Parallel()

		_, resp := callRPC(t, `{nope`)

		rpcErr, ok := resp["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, -32700, rpcErr["code"])
	})
}
