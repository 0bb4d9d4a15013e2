package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/linkedin-mcp/internal/auth"
	"github.com/giantswarm/linkedin-mcp/internal/linkedin"
)

type fakeAPI struct {
	tokenErr error

	profile     linkedin.Soft[linkedin.Profile]
	posts       linkedin.Soft[linkedin.PostList]
	connections linkedin.Soft[linkedin.Connections]
	postErr     error

	calls       []string
	lastText    string
	lastVis     string
	lastArticle linkedin.Article
	lastCount   int
	lastDelete  string
}

func (f *fakeAPI) record(op string) error {
	f.calls = append(f.calls, op)
	return f.tokenErr
}

func (f *fakeAPI) Profile(ctx context.Context) (linkedin.Soft[linkedin.Profile], error) {
	if err := f.record("profile"); err != nil {
		return linkedin.Soft[linkedin.Profile]{}, err
	}
	return f.profile, nil
}

func (f *fakeAPI) CreatePost(ctx context.Context, text, visibility string) (*linkedin.PostResult, error) {
	if err := f.record("create_post"); err != nil {
		return nil, err
	}
	f.lastText, f.lastVis = text, visibility
	if f.postErr != nil {
		return nil, f.postErr
	}
	return &linkedin.PostResult{Success: true, ID: "urn:li:share:1"}, nil
}

func (f *fakeAPI) CreateArticlePost(ctx context.Context, article linkedin.Article) (*linkedin.PostResult, error) {
	if err := f.record("create_article_post"); err != nil {
		return nil, err
	}
	f.lastArticle = article
	return &linkedin.PostResult{Success: true, ID: "post123"}, nil
}

func (f *fakeAPI) ListPosts(ctx context.Context, count int) (linkedin.Soft[linkedin.PostList], error) {
	if err := f.record("list_posts"); err != nil {
		return linkedin.Soft[linkedin.PostList]{}, err
	}
	f.lastCount = count
	return f.posts, nil
}

func (f *fakeAPI) DeletePost(ctx context.Context, postID string) (*linkedin.DeleteResult, error) {
	if err := f.record("delete_post"); err != nil {
		return nil, err
	}
	f.lastDelete = postID
	return &linkedin.DeleteResult{Success: true}, nil
}

func (f *fakeAPI) ConnectionCount(ctx context.Context) (linkedin.Soft[linkedin.Connections], error) {
	if err := f.record("connections"); err != nil {
		return linkedin.Soft[linkedin.Connections]{}, err
	}
	return f.connections, nil
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	for _, tool := range s.tools {
		if tool.Tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args

		result, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, result.Content, 1)
		textContent, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		return textContent.Text, result.IsError
	}
	t.Fatalf("tool %s not registered", name)
	return "", false
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(&fakeAPI{}, "1.2.3")
	assert.Equal(t, []string{
		"get_profile",
		"create_post",
		"create_article_post",
		"list_posts",
		"delete_post",
		"get_connection_count",
	}, s.ToolNames())
	assert.NotNil(t, s.mcpServer)
}

func TestGetProfile(t *testing.T) {
	api := &fakeAPI{profile: linkedin.Soft[linkedin.Profile]{
		Value: &linkedin.Profile{Sub: "abc", Name: "Ada Lovelace", Source: "v2/userinfo"},
	}}

	text, isErr := callTool(t, New(api, ""), "get_profile", nil)
	assert.False(t, isErr)
	assert.JSONEq(t, `{"sub":"abc","name":"Ada Lovelace","source":"v2/userinfo"}`, text)
}

func TestGetProfile_SoftFailure(t *testing.T) {
	api := &fakeAPI{profile: linkedin.Soft[linkedin.Profile]{
		Failure: &linkedin.SoftFailure{Message: "Profile is unavailable", StatusCode: 403},
	}}

	text, isErr := callTool(t, New(api, ""), "get_profile", nil)
	assert.False(t, isErr, "soft failures are results, not errors")
	assert.JSONEq(t, `{"success":false,"message":"Profile is unavailable","status_code":403}`, text)
}

func TestTools_TokenErrors(t *testing.T) {
	tools := map[string]map[string]interface{}{
		"get_profile":          nil,
		"create_post":          {"text": "hello"},
		"create_article_post":  {"text": "hi", "url": "https://a.com"},
		"list_posts":           nil,
		"delete_post":          {"post_id": "post123"},
		"get_connection_count": nil,
	}

	for _, tokenErr := range []error{auth.ErrNotAuthenticated, fmt.Errorf("wrapped: %w", auth.ErrTokenExpired)} {
		for name, args := range tools {
			t.Run(fmt.Sprintf("%s/%v", name, tokenErr), func(t *testing.T) {
				text, isErr := callTool(t, New(&fakeAPI{tokenErr: tokenErr}, ""), name, args)
				assert.True(t, isErr)
				assert.Contains(t, text, "linkedin-mcp auth login")
			})
		}
	}
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{name: "missing text", args: map[string]interface{}{}, wantErr: "text"},
		{name: "empty text", args: map[string]interface{}{"text": "  "}, wantErr: "empty"},
		{name: "too long", args: map[string]interface{}{"text": strings.Repeat("a", 3001)}, wantErr: "3000"},
		{name: "bad visibility", args: map[string]interface{}{"text": "hi", "visibility": "FRIENDS"}, wantErr: "visibility"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			text, isErr := callTool(t, New(api, ""), "create_post", tt.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tt.wantErr)
			assert.Empty(t, api.calls, "invalid input must not reach the API")
		})
	}
}

func TestCreatePost(t *testing.T) {
	api := &fakeAPI{}
	text, isErr := callTool(t, New(api, ""), "create_post", map[string]interface{}{"text": "Hello", "visibility": "connections"})
	assert.False(t, isErr)
	assert.JSONEq(t, `{"success":true,"id":"urn:li:share:1"}`, text)
	assert.Equal(t, "Hello", api.lastText)
	assert.Equal(t, linkedin.VisibilityConnections, api.lastVis)

	_, _ = callTool(t, New(api, ""), "create_post", map[string]interface{}{"text": "Hello"})
	assert.Equal(t, linkedin.VisibilityPublic, api.lastVis)
}

func TestCreatePost_OperationError(t *testing.T) {
	api := &fakeAPI{postErr: &linkedin.OperationError{
		Operation: "create post", Candidate: "v2/ugcPosts", StatusCode: 422, Body: `{"message":"duplicate"}`,
	}}

	text, isErr := callTool(t, New(api, ""), "create_post", map[string]interface{}{"text": "Hello"})
	assert.True(t, isErr)
	assert.Contains(t, text, "422")
	assert.Contains(t, text, "duplicate")
}

func TestCreateArticlePost(t *testing.T) {
	api := &fakeAPI{}
	text, isErr := callTool(t, New(api, ""), "create_article_post", map[string]interface{}{
		"text": "hi", "url": "https://a.com", "title": "T", "description": "D", "visibility": "PUBLIC",
	})
	assert.False(t, isErr)
	assert.JSONEq(t, `{"success":true,"id":"post123"}`, text)
	assert.Equal(t, linkedin.Article{Text: "hi", URL: "https://a.com", Title: "T", Description: "D", Visibility: "PUBLIC"}, api.lastArticle)
}

func TestCreateArticlePost_RejectsNonHTTPURL(t *testing.T) {
	api := &fakeAPI{}
	text, isErr := callTool(t, New(api, ""), "create_article_post", map[string]interface{}{"text": "hi", "url": "javascript:alert(1)"})
	assert.True(t, isErr)
	assert.Contains(t, text, "http")
	assert.Empty(t, api.calls)
}

func TestListPosts_ClampsCount(t *testing.T) {
	for _, tc := range []struct {
		args map[string]interface{}
		want int
	}{
		{args: nil, want: 10},
		{args: map[string]interface{}{"count": float64(5)}, want: 5},
		{args: map[string]interface{}{"count": float64(500)}, want: 100},
		{args: map[string]interface{}{"count": float64(0)}, want: 10},
	} {
		api := &fakeAPI{posts: linkedin.Soft[linkedin.PostList]{Value: &linkedin.PostList{Posts: []linkedin.Post{}}}}
		_, isErr := callTool(t, New(api, ""), "list_posts", tc.args)
		assert.False(t, isErr)
		assert.Equal(t, tc.want, api.lastCount, "%v", tc.args)
	}
}

func TestListPosts_SoftFailure(t *testing.T) {
	api := &fakeAPI{posts: linkedin.Soft[linkedin.PostList]{
		Failure: &linkedin.SoftFailure{Message: "Listing posts requires elevated LinkedIn API access", StatusCode: 403},
	}}

	text, isErr := callTool(t, New(api, ""), "list_posts", nil)
	assert.False(t, isErr)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["message"], "elevated")
}

func TestDeletePost(t *testing.T) {
	api := &fakeAPI{}
	text, isErr := callTool(t, New(api, ""), "delete_post", map[string]interface{}{"post_id": " post123 "})
	assert.False(t, isErr)
	assert.JSONEq(t, `{"success":true}`, text)
	assert.Equal(t, "post123", api.lastDelete)

	_, isErr = callTool(t, New(api, ""), "delete_post", map[string]interface{}{"post_id": ""})
	assert.True(t, isErr)
}

func TestConnectionCount(t *testing.T) {
	api := &fakeAPI{connections: linkedin.Soft[linkedin.Connections]{Value: &linkedin.Connections{Total: 42}}}
	text, isErr := callTool(t, New(api, ""), "get_connection_count", nil)
	assert.False(t, isErr)
	assert.JSONEq(t, `{"total":42}`, text)
}

func TestToolError_Other(t *testing.T) {
	result := toolError("get profile", errors.New("context deadline exceeded"))
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(mcp.TextContent).Text, "Failed to get profile")
}
