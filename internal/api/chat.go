package api

import (
	"context"
	"fmt"
)

// SendMessage posts one user message. Pass an empty sessionID to let the
// server create a session; the returned SessionID is authoritative either
// way.
func (c *Client) SendMessage(ctx context.Context, message, sessionID string) (*ChatResponse, error) {
	req := ChatRequest{Message: message}
	if sessionID != "" {
		req.SessionID = &sessionID
	}

	resp, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return nil, err
	}

	var out ChatResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.SessionID == "" {
		return nil, fmt.Errorf("server response missing session_id")
	}
	return &out, nil
}

// ListSessions returns the caller's stored sessions, most recent first.
func (c *Client) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	resp, err := c.get(ctx, "/api/chat/sessions")
	if err != nil {
		return nil, err
	}

	var out struct {
		Sessions []SessionInfo `json:"sessions"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}
