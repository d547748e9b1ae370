package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/registry"
)

var errMissingID = errors.New("id is required")

// yamlResult renders v as the tool's text content.
func yamlResult(v interface{}) (*mcpsdk.CallToolResult, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: strings.TrimRight(string(data), "\n")},
		},
	}, nil
}

func windowResult(w *registry.Window, err error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err != nil {
		return nil, WindowOutput{}, err
	}
	out := WindowOutput{Found: w != nil, Window: w}
	res, err := yamlResult(out)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return res, out, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}

	var pos *geometry.Point
	if args.X != nil || args.Y != nil {
		if args.X == nil || args.Y == nil {
			return nil, WindowOutput{}, fmt.Errorf("x and y must be given together")
		}
		pos = &geometry.Point{X: *args.X, Y: *args.Y}
	}
	var size *geometry.Size
	if args.Width != nil || args.Height != nil {
		if args.Width == nil || args.Height == nil {
			return nil, WindowOutput{}, fmt.Errorf("width and height must be given together")
		}
		size = &geometry.Size{Width: *args.Width, Height: *args.Height}
	}

	return windowResult(s.backend.Open(args.ID, args.Title, pos, size))
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	return windowResult(s.backend.Close(args.ID))
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	return windowResult(s.backend.Focus(args.ID))
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	return windowResult(s.backend.Minimize(args.ID))
}

func (s *Server) handleToggleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	return windowResult(s.backend.ToggleMaximize(args.ID))
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	return windowResult(s.backend.Move(args.ID, geometry.Point{X: args.X, Y: args.Y}))
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	return windowResult(s.backend.Resize(args.ID, geometry.Size{Width: args.Width, Height: args.Height}))
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	includeMinimized := args.IncludeMinimized == nil || *args.IncludeMinimized
	out := ListWindowsOutput{ActiveID: data.ActiveID, Windows: make([]registry.Window, 0, len(data.Windows))}
	for _, w := range data.Windows {
		if w.IsMinimized && !includeMinimized {
			continue
		}
		out.Windows = append(out.Windows, w)
	}

	res, err := yamlResult(out)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return res, out, nil
}

func (s *Server) handleRetitleWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args RetitleWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == "" {
		return nil, WindowOutput{}, errMissingID
	}
	if args.Title == "" {
		return nil, WindowOutput{}, fmt.Errorf("title is required")
	}
	return windowResult(s.backend.Retitle(args.ID, args.Title))
}

func (s *Server) handleGetWorkArea(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, WorkAreaOutput, error) {
	wa, err := s.backend.GetWorkArea()
	if err != nil {
		return nil, WorkAreaOutput{}, err
	}
	out := WorkAreaOutput{WorkArea: wa}
	res, err := yamlResult(out)
	if err != nil {
		return nil, WorkAreaOutput{}, err
	}
	return res, out, nil
}
