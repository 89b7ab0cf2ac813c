// Package session owns the conversational state of a single chat widget:
// the current session identifier and a display-only transcript. The server
// holds the authoritative conversation history; this controller only
// discovers and reuses a session handle.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kuraproj/kura/internal/api"
)

// ErrEmptyMessage is returned by Send for empty or whitespace-only input.
// No request is issued and the transcript is not touched.
var ErrEmptyMessage = errors.New("message is empty")

// Role labels a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one transcript line. The transcript is append-only and purely
// for display; it is never sent back to the server and never persisted.
type Entry struct {
	Role    Role
	Content string
}

// ChatService is the slice of the API client the controller needs.
type ChatService interface {
	SendMessage(ctx context.Context, message, sessionID string) (*api.ChatResponse, error)
	ListSessions(ctx context.Context) ([]api.SessionInfo, error)
}

// Controller maintains one live session. The session identifier is a field
// rather than package state so independent controllers can coexist.
//
// Controller is not safe for concurrent use. Busy reports an in-flight
// exchange but does not enforce mutual exclusion; callers drive it from a
// single input loop.
type Controller struct {
	svc        ChatService
	id         string
	transcript []Entry
	busy       bool
	logger     *slog.Logger
}

// New creates a Controller with no session. Call Discover to adopt an
// existing one, or just Send — the server creates a session on the first
// message if none is supplied.
func New(svc ChatService) *Controller {
	return &Controller{svc: svc, logger: slog.Default()}
}

// Discover asks the server for stored sessions and adopts the first one
// (the server lists most-recent first). Failure or an empty list is not an
// error: the controller simply starts without a session.
func (c *Controller) Discover(ctx context.Context) {
	sessions, err := c.svc.ListSessions(ctx)
	if err != nil {
		c.logger.Warn("session discovery failed, starting fresh", "error", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	c.id = sessions[0].SessionID
	c.logger.Debug("adopted existing session", "session_id", c.id)
}

// Send exchanges one message with the assistant and returns the reply.
//
// The user entry is appended to the transcript before the request goes out.
// On success the returned session identifier is adopted unconditionally and
// the assistant reply appended. On failure the session identifier is left
// unchanged and a compensating assistant-role entry describing the error is
// appended; the user's own entry is never rolled back.
func (c *Controller) Send(ctx context.Context, raw string) (string, error) {
	message := strings.TrimSpace(raw)
	if message == "" {
		return "", ErrEmptyMessage
	}

	c.transcript = append(c.transcript, Entry{Role: RoleUser, Content: message})

	c.busy = true
	defer func() { c.busy = false }()

	resp, err := c.svc.SendMessage(ctx, message, c.id)
	if err != nil {
		c.logger.Error("chat exchange failed", "session_id", c.id, "error", err)
		c.transcript = append(c.transcript, Entry{
			Role:    RoleAssistant,
			Content: "Error: " + failureText(err),
		})
		return "", err
	}

	c.id = resp.SessionID
	c.transcript = append(c.transcript, Entry{Role: RoleAssistant, Content: resp.Response})
	return resp.Response, nil
}

// SessionID returns the current session identifier, or "" when unset.
func (c *Controller) SessionID() string {
	return c.id
}

// Busy reports whether a message exchange is in flight. Advisory only.
func (c *Controller) Busy() bool {
	return c.busy
}

// Transcript returns a copy of the display transcript.
func (c *Controller) Transcript() []Entry {
	out := make([]Entry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// failureText renders an error for the transcript: server detail when the
// server answered, the transport error text otherwise.
func failureText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fmt.Sprintf("could not reach the assistant (%v)", err)
}
