// Package agent talks to the externally hosted Agent Builder API and
// relays its converse streams to storefront clients. The actual reasoning
// and tool orchestration happen upstream; this package only proxies.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
	"github.com/wayfinder-supply/wayfinder/internal/sse"
)

const conversePath = "/api/agent_builder/converse/async"

// Client is the upstream Agent Builder HTTP client.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a Client for the given Kibana host. Per-call bounds
// come from the caller's context; the transport itself has no global
// timeout because converse streams run for minutes.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{},
	}
}

// Converse opens one upstream converse stream and returns its body.
// The caller owns the body and must close it; cancelling ctx aborts the
// stream mid-read.
func (c *Client) Converse(ctx context.Context, input, agentID string) (io.ReadCloser, error) {
	payload, err := json.Marshal(map[string]string{
		"input":    input,
		"agent_id": agentID,
	})
	if err != nil {
		return nil, fmt.Errorf("agent.Client.Converse: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+conversePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("agent.Client.Converse: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent.Client.Converse: %w: %w", domain.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("agent.Client.Converse: %w: status %d: %s",
			domain.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp.Body, nil
}

// CollectResponse runs one converse turn to completion and returns the
// final assistant text: accumulated text_chunks unless a complete
// message (message_content or round response) supersedes them.
func (c *Client) CollectResponse(ctx context.Context, input, agentID string) (string, error) {
	body, err := c.Converse(ctx, input, agentID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var chunks strings.Builder
	var complete string

	var scanner sse.Scanner
	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, frame := range scanner.Feed(buf[:n]) {
				_, data, ok := decodeFrame(frame.Data)
				if !ok {
					continue
				}
				if chunk, found := data["text_chunk"].(string); found {
					chunks.WriteString(chunk)
				} else if content, found := data["message_content"].(string); found {
					complete = content
				} else if msg := roundMessage(data); msg != "" {
					complete = msg
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("agent.Client.CollectResponse: %w: %w", domain.ErrUnavailable, readErr)
		}
	}

	if complete != "" {
		return complete, nil
	}
	return chunks.String(), nil
}

// AgentStatus reports whether an agent exists upstream.
func (c *Client) AgentStatus(ctx context.Context, agentID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/agent_builder/agents/"+agentID, nil)
	if err != nil {
		return false, fmt.Errorf("agent.Client.AgentStatus: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("agent.Client.AgentStatus: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("kbn-xsrf", "true")
}

// decodeFrame parses one upstream data payload. Agent Builder wraps most
// payloads in {"data": {...}}; older releases send them bare. Error
// payloads live on the outer object, so both levels are returned.
func decodeFrame(raw []byte) (outer, data map[string]any, ok bool) {
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, nil, false
	}
	if inner, isMap := outer["data"].(map[string]any); isMap {
		return outer, inner, true
	}
	return outer, outer, true
}

// roundMessage digs the final message out of a round-completion payload.
func roundMessage(data map[string]any) string {
	round, ok := data["round"].(map[string]any)
	if !ok {
		return ""
	}
	response, ok := round["response"].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := response["message"].(string)
	return msg
}
