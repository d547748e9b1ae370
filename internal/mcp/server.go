// Package mcp exposes desktop window operations as MCP tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "retrodesk"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for desktop window control.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
}

// NewServer creates an MCP server over backend.
func NewServer(backend Backend) *Server {
	s := &Server{backend: backend}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a desktop window, or bring it back if it is already open. Omitted title and geometry come from the window catalog. The window becomes active and topmost.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Protected windows such as welcome stay open. The record is removed after a short exit transition.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise a window above all others and make it active. Minimized windows are restored.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the dock. It stays listed and keeps its stacking position.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Maximize a window to fill the work area, or restore the geometry it had before maximizing.",
	}, s.handleToggleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window's top-left corner. The position is clamped so the title bar stays reachable. Maximized windows cannot be moved.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window from its bottom-right corner. The size is clamped to the work area and the minimum window size. Maximized windows cannot be resized.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "retitle_window",
		Description: "Change a window's title bar text. Stacking and focus are left alone.",
	}, s.handleRetitleWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window with its state, geometry and z-index, plus the active window id.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_work_area",
		Description: "Return the usable desktop rectangle between the menu bar and the dock.",
	}, s.handleGetWorkArea)
}
