package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/strelkov/apexcoach/internal/interview"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Service *interview.Service
}

// NewMCPServer creates an MCP server exposing read-only interview tools
// and the rubric resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"apexcoach",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("apexcoach — conversational spreadsheet mock-interview coach: rubric, live scorecards, and submitted workbook artifacts."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("get_rubric",
			mcp.WithDescription("Return the skill rubric used to score interview answers."),
		),
		mcpGetRubric(deps),
	)

	s.AddTool(
		mcp.NewTool("session_scorecard",
			mcp.WithDescription("Return the running per-skill score averages and turn count for an interview session."),
			mcp.WithString("session_id", mcp.Description("Interview session identifier"), mcp.Required()),
		),
		mcpSessionScorecard(deps),
	)

	s.AddTool(
		mcp.NewTool("list_artifacts",
			mcp.WithDescription("List the workbook artifacts submitted during an interview session, newest first."),
			mcp.WithString("session_id", mcp.Description("Interview session identifier"), mcp.Required()),
		),
		mcpListArtifacts(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"rubric://skills",
			"Skill Rubric",
			mcp.WithResourceDescription("Scored skill areas and their descriptions as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRubric(deps),
	)

	return s
}

func mcpGetRubric(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.Service.Rubric())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal rubric: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSessionScorecard(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}

		running, total, err := deps.Service.Scorecard(sessionID)
		if err != nil {
			return mcpError(fmt.Sprintf("scorecard failed: %v", err)), nil
		}

		b, err := json.Marshal(map[string]any{
			"running_scores": running,
			"total_turns":    total,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal scorecard: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListArtifacts(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}

		artifacts, err := deps.Service.ListArtifacts(sessionID)
		if err != nil {
			return mcpError(fmt.Sprintf("list failed: %v", err)), nil
		}
		if artifacts == nil {
			artifacts = []interview.Artifact{}
		}

		b, err := json.Marshal(artifacts)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal artifacts: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceRubric(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Service.Rubric())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal rubric: %w", err)
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
