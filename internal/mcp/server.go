// Package mcp exposes the remote knowledge assistant over the Model
// Context Protocol so editor agents can chat with it and inspect the
// knowledge base. Session continuity is handled by the same controller the
// interactive REPL uses.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kuraproj/kura/internal/api"
	"github.com/kuraproj/kura/internal/session"
)

// KnowledgeService is the read slice of the API client the MCP tools need.
type KnowledgeService interface {
	Stats(ctx context.Context) (*api.Stats, error)
	ListFiles(ctx context.Context, dataset string) ([]api.FileInfo, error)
	ListURLs(ctx context.Context, dataset string) ([]api.URLInfo, error)
}

// Deps holds dependencies for the MCP server.
type Deps struct {
	Sessions  *session.Controller
	Knowledge KnowledgeService
	Dataset   string
}

// NewServer creates an MCP server with all kura tools and resources
// registered.
func NewServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"kura",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("kura — console client for a remote knowledge assistant: chat with it and inspect its ingested content."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("chat",
			mcp.WithDescription("Send a message to the knowledge assistant. The conversation session persists across calls."),
			mcp.WithString("message", mcp.Description("The message to send"), mcp.Required()),
		),
		mcpChat(deps),
	)

	s.AddTool(
		mcp.NewTool("stats",
			mcp.WithDescription("Fetch aggregate counters: users, conversations, files, URLs."),
		),
		mcpStats(deps),
	)

	s.AddTool(
		mcp.NewTool("list_files",
			mcp.WithDescription("List the files ingested into the knowledge base."),
		),
		mcpListFiles(deps),
	)

	s.AddTool(
		mcp.NewTool("list_urls",
			mcp.WithDescription("List the URLs ingested into the knowledge base."),
		),
		mcpListURLs(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"kura://transcript",
			"Conversation Transcript",
			mcp.WithResourceDescription("The current in-memory conversation transcript as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceTranscript(deps),
	)

	return s
}

func mcpChat(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		reply, err := deps.Sessions.Send(ctx, message)
		if err != nil {
			return mcpError(fmt.Sprintf("chat failed: %v", err)), nil
		}
		return mcpText(reply), nil
	}
}

func mcpStats(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := deps.Knowledge.Stats(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("stats failed: %v", err)), nil
		}
		return mcpJSON(stats)
	}
}

func mcpListFiles(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		files, err := deps.Knowledge.ListFiles(ctx, deps.Dataset)
		if err != nil {
			return mcpError(fmt.Sprintf("listing files failed: %v", err)), nil
		}
		return mcpJSON(files)
	}
}

func mcpListURLs(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := deps.Knowledge.ListURLs(ctx, deps.Dataset)
		if err != nil {
			return mcpError(fmt.Sprintf("listing URLs failed: %v", err)), nil
		}
		return mcpJSON(urls)
	}
}

func mcpResourceTranscript(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type entry struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}

		transcript := deps.Sessions.Transcript()
		entries := make([]entry, len(transcript))
		for i, e := range transcript {
			entries[i] = entry{Role: string(e.Role), Content: e.Content}
		}

		b, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("marshalling transcript: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("marshalling result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
