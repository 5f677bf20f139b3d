package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/specdash/internal/config"
	"github.com/hpungsan/specdash/internal/dashboard"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"dashboard_features": {
		def:     featuresToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatures },
	},
	"dashboard_feature_state": {
		def:     featureStateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFeatureState },
	},
	"dashboard_health": {
		def:     healthToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHealth },
	},
	"dashboard_refresh": {
		def:     refreshToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRefresh },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with dashboard tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(asm *dashboard.Assembler, cfg *config.Config, outputPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"specdash",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(asm, outputPath)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(asm *dashboard.Assembler, cfg *config.Config, outputPath, version string) error {
	s := NewServer(asm, cfg, outputPath, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
