package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/logger"
	"github.com/hpungsan/kcal/internal/tracker"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"meal_add": {
		def:     mealAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMealAdd },
	},
	"meal_remove": {
		def:     mealRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMealRemove },
	},
	"workout_add": {
		def:     workoutAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWorkoutAdd },
	},
	"workout_remove": {
		def:     workoutRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWorkoutRemove },
	},
	"limit_set": {
		def:     limitSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLimitSet },
	},
	"day_reset": {
		def:     dayResetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDayReset },
	},
	"day_summary": {
		def:     daySummaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDaySummary },
	},
	"day_export": {
		def:     dayExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDayExport },
	},
	"day_import": {
		def:     dayImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDayImport },
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

// NewServer creates a new MCP server with the calorie tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(tr *tracker.Tracker, baseDir string, cfg *config.Config, log *logger.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"kcal",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(tr, baseDir, cfg, log)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(tr *tracker.Tracker, baseDir string, cfg *config.Config, log *logger.Logger, version string) error {
	if log == nil {
		log = logger.Nop()
	}
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn("unknown tools in disabled_tools", "tools", unknown)
	}
	s := NewServer(tr, baseDir, cfg, log, version)
	return server.ServeStdio(s)
}
