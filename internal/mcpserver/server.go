package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/linkedin-mcp/internal/linkedin"
	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

const serverName = "linkedin-mcp"

// LinkedInAPI is the part of *linkedin.Client the tools use.
type LinkedInAPI interface {
	Profile(ctx context.Context) (linkedin.Soft[linkedin.Profile], error)
	CreatePost(ctx context.Context, text, visibility string) (*linkedin.PostResult, error)
	CreateArticlePost(ctx context.Context, article linkedin.Article) (*linkedin.PostResult, error)
	ListPosts(ctx context.Context, count int) (linkedin.Soft[linkedin.PostList], error)
	DeletePost(ctx context.Context, postID string) (*linkedin.DeleteResult, error)
	ConnectionCount(ctx context.Context) (linkedin.Soft[linkedin.Connections], error)
}

// Server serves the LinkedIn tools.
type Server struct {
	api       LinkedInAPI
	mcpServer *server.MCPServer
	tools     []server.ServerTool
}

// New creates a server for api. version is reported to MCP clients.
func New(api LinkedInAPI, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		api: api,
		mcpServer: server.NewMCPServer(
			serverName,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.tools = s.buildTools()
	s.mcpServer.AddTools(s.tools...)
	return s
}

// ToolNames returns the registered tool names in registration order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.tools))
	for _, t := range s.tools {
		names = append(names, t.Tool.Name)
	}
	return names
}

// ServeStdio serves MCP over in and out until ctx is cancelled or in closes.
// Nothing else may write to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(logging.Logger().Handler(), slog.LevelError))

	logging.Info("MCPServer", "Serving %d LinkedIn tools over stdio", len(s.tools))
	return stdio.Listen(ctx, in, out)
}

func (s *Server) buildTools() []server.ServerTool {
	visibility := mcp.WithString("visibility",
		mcp.Description("Who can see the post"),
		mcp.Enum(linkedin.VisibilityPublic, linkedin.VisibilityConnections, linkedin.VisibilityLoggedIn),
		mcp.DefaultString(linkedin.VisibilityPublic),
	)

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("get_profile",
				mcp.WithDescription("Get the authenticated member's LinkedIn profile"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: s.handleGetProfile,
		},
		{
			Tool: mcp.NewTool("create_post",
				mcp.WithDescription("Publish a text post on LinkedIn"),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Post text, at most 3000 characters"),
				),
				visibility,
			),
			Handler: s.handleCreatePost,
		},
		{
			Tool: mcp.NewTool("create_article_post",
				mcp.WithDescription("Publish a LinkedIn post that shares a link"),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Post text, at most 3000 characters"),
				),
				mcp.WithString("url",
					mcp.Required(),
					mcp.Description("Article URL (http or https)"),
				),
				mcp.WithString("title", mcp.Description("Article title")),
				mcp.WithString("description", mcp.Description("Article description")),
				visibility,
			),
			Handler: s.handleCreateArticlePost,
		},
		{
			Tool: mcp.NewTool("list_posts",
				mcp.WithDescription("List the member's recent LinkedIn posts. Often requires elevated API access."),
				mcp.WithNumber("count",
					mcp.Description("Number of posts to return (1-100)"),
					mcp.Min(1),
					mcp.Max(linkedin.MaxListCount),
					mcp.DefaultNumber(linkedin.DefaultListCount),
				),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: s.handleListPosts,
		},
		{
			Tool: mcp.NewTool("delete_post",
				mcp.WithDescription("Delete one of the member's LinkedIn posts"),
				mcp.WithString("post_id",
					mcp.Required(),
					mcp.Description("Post id or URN as returned by create_post"),
				),
				mcp.WithDestructiveHintAnnotation(true),
			),
			Handler: s.handleDeletePost,
		},
		{
			Tool: mcp.NewTool("get_connection_count",
				mcp.WithDescription("Get the member's number of first-degree connections"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: s.handleConnectionCount,
		},
	}
}
