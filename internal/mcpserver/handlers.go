package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
	"github.com/giantswarm/linkedin-mcp/internal/linkedin"
	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.api.Profile(ctx)
	if err != nil {
		return toolError("get profile", err), nil
	}
	return softResult(result.Value, result.Failure), nil
}

func (s *Server) handleCreatePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := linkedin.ValidatePostText(text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	visibility, err := linkedin.ParseVisibility(request.GetString("visibility", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.api.CreatePost(ctx, text, visibility)
	if err != nil {
		return toolError("create post", err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) handleCreateArticlePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	articleURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := linkedin.ValidatePostText(text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := linkedin.ValidateArticleURL(articleURL); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	visibility, err := linkedin.ParseVisibility(request.GetString("visibility", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.api.CreateArticlePost(ctx, linkedin.Article{
		Text:        text,
		URL:         articleURL,
		Title:       request.GetString("title", ""),
		Description: request.GetString("description", ""),
		Visibility:  visibility,
	})
	if err != nil {
		return toolError("create article post", err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) handleListPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := linkedin.ClampCount(request.GetInt("count", linkedin.DefaultListCount))

	result, err := s.api.ListPosts(ctx, count)
	if err != nil {
		return toolError("list posts", err), nil
	}
	return softResult(result.Value, result.Failure), nil
}

func (s *Server) handleDeletePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postID, err := request.RequireString("post_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return mcp.NewToolResultError("post_id must not be empty"), nil
	}

	result, err := s.api.DeletePost(ctx, postID)
	if err != nil {
		return toolError("delete post", err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) handleConnectionCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.api.ConnectionCount(ctx)
	if err != nil {
		return toolError("get connection count", err), nil
	}
	return softResult(result.Value, result.Failure), nil
}

// softFailureResult is the JSON shape of a degraded read.
type softFailureResult struct {
	Success bool `json:"success"`
	*linkedin.SoftFailure
}

func softResult[T any](value *T, failure *linkedin.SoftFailure) *mcp.CallToolResult {
	if failure != nil {
		return jsonResult(softFailureResult{Success: false, SoftFailure: failure})
	}
	return jsonResult(value)
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// toolError renders err for the assistant. Token problems get login
// instructions; the user has to run the CLI since the browser step cannot
// happen over stdio.
func toolError(operation string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return mcp.NewToolResultError("Not authenticated with LinkedIn. Ask the user to run `linkedin-mcp auth login` in a terminal.")
	case errors.Is(err, auth.ErrTokenExpired):
		return mcp.NewToolResultError("The LinkedIn access token has expired. Ask the user to run `linkedin-mcp auth login` in a terminal.")
	}

	logging.Warn("MCPServer", "%s failed: %v", operation, err)
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", operation, err))
}
