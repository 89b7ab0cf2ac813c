package session

import (
	"context"
	"errors"
	"testing"

	"github.com/kuraproj/kura/internal/api"
)

type fakeChat struct {
	sessions    []api.SessionInfo
	sessionsErr error

	reply    *api.ChatResponse
	replyErr error

	sent []sentMessage
}

type sentMessage struct {
	Message   string
	SessionID string
}

func (f *fakeChat) SendMessage(ctx context.Context, message, sessionID string) (*api.ChatResponse, error) {
	f.sent = append(f.sent, sentMessage{Message: message, SessionID: sessionID})
	if f.replyErr != nil {
		return nil, f.replyErr
	}
	return f.reply, nil
}

func (f *fakeChat) ListSessions(ctx context.Context) ([]api.SessionInfo, error) {
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return f.sessions, nil
}

var ctx = context.Background()

func TestDiscover_AdoptsMostRecent(t *testing.T) {
	fake := &fakeChat{sessions: []api.SessionInfo{
		{SessionID: "newest"},
		{SessionID: "older"},
	}}

	c := New(fake)
	c.Discover(ctx)

	if c.SessionID() != "newest" {
		t.Errorf("session id = %q, want newest", c.SessionID())
	}
}

func TestDiscover_EmptyListLeavesUnset(t *testing.T) {
	fake := &fakeChat{
		sessions: nil,
		reply:    &api.ChatResponse{SessionID: "created", Response: "hello!"},
	}

	c := New(fake)
	c.Discover(ctx)

	if c.SessionID() != "" {
		t.Fatalf("session id = %q, want unset", c.SessionID())
	}

	// First message still succeeds; server creates the session.
	if _, err := c.Send(ctx, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SessionID() != "created" {
		t.Errorf("session id = %q, want created", c.SessionID())
	}
	if fake.sent[0].SessionID != "" {
		t.Errorf("sent session id = %q, want empty", fake.sent[0].SessionID)
	}
}

func TestDiscover_FailureIsNotFatal(t *testing.T) {
	fake := &fakeChat{sessionsErr: errors.New("boom")}

	c := New(fake)
	c.Discover(ctx)

	if c.SessionID() != "" {
		t.Errorf("session id = %q, want unset after failed discovery", c.SessionID())
	}
}

func TestSend_EmptyMessage(t *testing.T) {
	fake := &fakeChat{}
	c := New(fake)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := c.Send(ctx, input)
		if !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", input, err)
		}
	}

	if len(fake.sent) != 0 {
		t.Errorf("expected no requests, got %d", len(fake.sent))
	}
	if len(c.Transcript()) != 0 {
		t.Errorf("expected empty transcript, got %d entries", len(c.Transcript()))
	}
}

func TestSend_Success(t *testing.T) {
	fake := &fakeChat{reply: &api.ChatResponse{SessionID: "abc", Response: "hi there"}}
	c := New(fake)

	reply, err := c.Send(ctx, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hi there" {
		t.Errorf("reply = %q, want 'hi there'", reply)
	}
	if c.SessionID() != "abc" {
		t.Errorf("session id = %q, want abc", c.SessionID())
	}

	transcript := c.Transcript()
	want := []Entry{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
	}
	if len(transcript) != len(want) {
		t.Fatalf("transcript length = %d, want %d", len(transcript), len(want))
	}
	for i := range want {
		if transcript[i] != want[i] {
			t.Errorf("transcript[%d] = %+v, want %+v", i, transcript[i], want[i])
		}
	}
}

func TestSend_TrimsBeforeSending(t *testing.T) {
	fake := &fakeChat{reply: &api.ChatResponse{SessionID: "s", Response: "ok"}}
	c := New(fake)

	if _, err := c.Send(ctx, "  hello  \n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.sent[0].Message != "hello" {
		t.Errorf("sent message = %q, want trimmed", fake.sent[0].Message)
	}
}

func TestSend_AdoptsServerSessionUnconditionally(t *testing.T) {
	fake := &fakeChat{reply: &api.ChatResponse{SessionID: "server-says", Response: "ok"}}
	c := New(fake)
	c.id = "stale-local"

	if _, err := c.Send(ctx, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.sent[0].SessionID != "stale-local" {
		t.Errorf("sent session id = %q, want stale-local", fake.sent[0].SessionID)
	}
	if c.SessionID() != "server-says" {
		t.Errorf("session id = %q, want server-says", c.SessionID())
	}
}

func TestSend_FailureKeepsSessionAndAppendsErrorEntry(t *testing.T) {
	fake := &fakeChat{replyErr: &api.APIError{StatusCode: 500, Detail: "Error processing message: upstream"}}
	c := New(fake)
	c.id = "keep-me"

	_, err := c.Send(ctx, "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if c.SessionID() != "keep-me" {
		t.Errorf("session id = %q, want keep-me (unchanged)", c.SessionID())
	}

	transcript := c.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	// The user's own entry is never rolled back.
	if transcript[0].Role != RoleUser || transcript[0].Content != "hello" {
		t.Errorf("transcript[0] = %+v, want user entry", transcript[0])
	}
	if transcript[1].Role != RoleAssistant {
		t.Errorf("transcript[1].Role = %q, want assistant", transcript[1].Role)
	}
	if transcript[1].Content != "Error: Error processing message: upstream" {
		t.Errorf("transcript[1].Content = %q, want server detail", transcript[1].Content)
	}
}

func TestSend_TransportFailureText(t *testing.T) {
	fake := &fakeChat{replyErr: errors.New("dial tcp: connection refused")}
	c := New(fake)

	if _, err := c.Send(ctx, "hello"); err == nil {
		t.Fatal("expected error")
	}

	transcript := c.Transcript()
	got := transcript[len(transcript)-1].Content
	if got == "" || got == "Error: " {
		t.Errorf("error entry = %q, want human-readable text", got)
	}
}

func TestBusy_ClearedAfterFailure(t *testing.T) {
	fake := &fakeChat{replyErr: errors.New("boom")}
	c := New(fake)

	c.Send(ctx, "hello")
	if c.Busy() {
		t.Error("busy should be cleared after a failed exchange")
	}

	fake.replyErr = nil
	fake.reply = &api.ChatResponse{SessionID: "s", Response: "ok"}
	c.Send(ctx, "hello again")
	if c.Busy() {
		t.Error("busy should be cleared after a successful exchange")
	}
}

func TestTranscript_ReturnsCopy(t *testing.T) {
	fake := &fakeChat{reply: &api.ChatResponse{SessionID: "s", Response: "ok"}}
	c := New(fake)
	c.Send(ctx, "hello")

	got := c.Transcript()
	got[0].Content = "mutated"

	if c.Transcript()[0].Content != "hello" {
		t.Error("mutating the returned transcript must not affect the controller")
	}
}
