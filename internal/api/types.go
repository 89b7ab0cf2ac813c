package api

// ChatRequest is the body of POST /api/chat.
// SessionID is nil when no session has been established yet; the server
// creates one and returns its identifier.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// ChatResponse is the assistant's reply. SessionID is always set and is
// authoritative, whatever was sent.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// SessionInfo describes one stored conversation session. The server returns
// sessions most-recent first; the client applies no ordering of its own.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Stats is the admin dashboard aggregate snapshot.
type Stats struct {
	TotalUsers         int `json:"total_users"`
	TotalConversations int `json:"total_conversations"`
	TotalFiles         int `json:"total_files"`
	TotalURLs          int `json:"total_urls"`
}

// FileInfo is one ingested file as listed by the admin API.
type FileInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// URLInfo is one ingested URL.
type URLInfo struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// UserInfo is one registered user. Only the activation flag is mutable
// through this client.
type UserInfo struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	IsActive bool     `json:"is_active"`
	Scopes   []string `json:"scopes"`
}

// Ack is the generic success body returned by mutation endpoints.
type Ack struct {
	Message string `json:"message"`
}

// PreviewResponse carries transient preview content for a file or URL.
type PreviewResponse struct {
	Preview string `json:"preview"`
}

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"access_token"`
	User    UserInfo `json:"user"`
}
