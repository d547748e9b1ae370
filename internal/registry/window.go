package registry

import "github.com/1broseidon/retrodesk/internal/geometry"

// ExitReason tags why a window is leaving the screen so the presentation
// layer can pick an exit transition.
type ExitReason string

const (
	ExitNone     ExitReason = ""
	ExitClose    ExitReason = "close"
	ExitMinimize ExitReason = "minimize"
)

// String returns the string representation of the exit reason
func (r ExitReason) String() string {
	if r == ExitNone {
		return "none"
	}
	return string(r)
}

// Window is a snapshot of one window record.
type Window struct {
	ID            string           `json:"id" yaml:"id"`
	Title         string           `json:"title" yaml:"title"`
	IsOpen        bool             `json:"is_open" yaml:"is_open"`
	IsMinimized   bool             `json:"is_minimized" yaml:"is_minimized"`
	IsMaximized   bool             `json:"is_maximized" yaml:"is_maximized"`
	CanClose      bool             `json:"can_close" yaml:"can_close"`
	ZIndex        int              `json:"z_index" yaml:"z_index"`
	Position      geometry.Point   `json:"position" yaml:"position"`
	Size          geometry.Size    `json:"size" yaml:"size"`
	RestoreBounds *geometry.Bounds `json:"restore_bounds,omitempty" yaml:"restore_bounds,omitempty"`
	// ExitReason is set while the window is leaving the screen.
	ExitReason ExitReason `json:"exit_reason,omitempty" yaml:"exit_reason,omitempty"`
}

// Bounds returns the window's current geometry.
func (w Window) Bounds() geometry.Bounds {
	return geometry.Bounds{Position: w.Position, Size: w.Size}
}

func (w *Window) clone() Window {
	out := *w
	if w.RestoreBounds != nil {
		rb := *w.RestoreBounds
		out.RestoreBounds = &rb
	}
	return out
}

// DockEntry is one window as shown in the dock: every open window,
// minimized or not.
type DockEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Minimized bool   `json:"minimized"`
	Active    bool   `json:"active"`
}

// EventKind identifies a registry state change.
type EventKind string

const (
	EventOpened      EventKind = "opened"
	EventReopened    EventKind = "reopened"
	EventFocused     EventKind = "focused"
	EventMinimized   EventKind = "minimized"
	EventMaximized   EventKind = "maximized"
	EventUnmaximized EventKind = "unmaximized"
	EventBounds      EventKind = "bounds"
	EventClosing     EventKind = "closing"
	EventClosed      EventKind = "closed"
	EventCloseDenied EventKind = "close-denied"
	EventRetitled    EventKind = "retitled"
)

// Event describes a change that has already been applied.
type Event struct {
	Kind EventKind
	ID   string
}
