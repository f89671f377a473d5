package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/cutlist"
)

// Name is the MCP implementation name reported to clients.
const Name = "cutlist-mcp"

// Server handles MCP protocol communication.
type Server struct {
	mcp      *mcp.Server
	pipeline *cutlist.Pipeline
	logger   *zap.Logger
}

// New creates an MCP server with every tool registered.
func New(p *cutlist.Pipeline, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp:      mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil),
		pipeline: p,
		logger:   logger,
	}
	for _, tool := range ToolDefinitions() {
		s.mcp.AddTool(tool, s.toolHandler(tool.Name))
	}
	return s
}

// Run serves MCP over stdin/stdout until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve serves MCP over the given transport.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("MCP server starting", zap.Int("tools", len(ToolDefinitions())))
	return s.mcp.Run(ctx, t)
}
