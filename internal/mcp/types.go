package mcp

import (
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/registry"
)

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	ID     string `json:"id" jsonschema:"Window id, e.g. about, projects, skills, contact, browser"`
	Title  string `json:"title,omitempty" jsonschema:"Title bar text (default: the catalog title, else the id)"`
	X      *int   `json:"x,omitempty" jsonschema:"Left edge in pixels (default: catalog or configured default)"`
	Y      *int   `json:"y,omitempty" jsonschema:"Top edge in pixels (default: catalog or configured default)"`
	Width  *int   `json:"width,omitempty" jsonschema:"Width in pixels, floored at the minimum window width"`
	Height *int   `json:"height,omitempty" jsonschema:"Height in pixels, floored at the minimum window height"`
}

// WindowIDInput addresses one window.
type WindowIDInput struct {
	ID string `json:"id" jsonschema:"Window id"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"Window id"`
	X  int    `json:"x" jsonschema:"New left edge; clamped so the window stays reachable"`
	Y  int    `json:"y" jsonschema:"New top edge; clamped below the menu bar and above the dock"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string `json:"id" jsonschema:"Window id"`
	Width  int    `json:"width" jsonschema:"New width; clamped to the work area and the minimum size"`
	Height int    `json:"height" jsonschema:"New height; clamped to the work area and the minimum size"`
}

// RetitleWindowInput is the input for the retitle_window tool.
type RetitleWindowInput struct {
	ID    string `json:"id" jsonschema:"Window id"`
	Title string `json:"title" jsonschema:"New title bar text"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeMinimized *bool `json:"include_minimized,omitempty" jsonschema:"Include windows minimized to the dock (default: true)"`
}

// WindowOutput reports a window after an operation. Found is false when the
// id is unknown, in which case nothing changed.
type WindowOutput struct {
	Found  bool             `json:"found" yaml:"found"`
	Window *registry.Window `json:"window,omitempty" yaml:"window,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	ActiveID string            `json:"active_id,omitempty" yaml:"active_id,omitempty"`
	Windows  []registry.Window `json:"windows" yaml:"windows"`
}

// WorkAreaOutput is the output for the get_work_area tool.
type WorkAreaOutput struct {
	WorkArea geometry.Rect `json:"work_area" yaml:"work_area"`
}
