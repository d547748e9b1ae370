package gesture

import (
	"fmt"
	"strings"

	"github.com/1broseidon/retrodesk/internal/geometry"
)

// Phase represents the current phase of a window's gesture slot
type Phase int

const (
	// PhaseIdle means no gesture is in flight
	PhaseIdle Phase = iota
	// PhaseDragging means the window is being moved by its title bar
	PhaseDragging
	// PhaseResizing means the window is being resized from a handle
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Handle is a set of window edges affected by a resize.
type Handle uint8

const (
	EdgeNorth Handle = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

// The eight resize handles.
const (
	HandleN  = EdgeNorth
	HandleS  = EdgeSouth
	HandleE  = EdgeEast
	HandleW  = EdgeWest
	HandleNE = EdgeNorth | EdgeEast
	HandleNW = EdgeNorth | EdgeWest
	HandleSE = EdgeSouth | EdgeEast
	HandleSW = EdgeSouth | EdgeWest
)

// Has reports whether edge is part of h.
func (h Handle) Has(edge Handle) bool {
	return h&edge != 0
}

// Valid reports whether h is one of the eight handles.
func (h Handle) Valid() bool {
	if h == 0 || h&^(EdgeNorth|EdgeSouth|EdgeEast|EdgeWest) != 0 {
		return false
	}
	if h.Has(EdgeNorth) && h.Has(EdgeSouth) {
		return false
	}
	if h.Has(EdgeEast) && h.Has(EdgeWest) {
		return false
	}
	return true
}

// String returns the compass name of the handle.
func (h Handle) String() string {
	var sb strings.Builder
	if h.Has(EdgeNorth) {
		sb.WriteString("n")
	}
	if h.Has(EdgeSouth) {
		sb.WriteString("s")
	}
	if h.Has(EdgeEast) {
		sb.WriteString("e")
	}
	if h.Has(EdgeWest) {
		sb.WriteString("w")
	}
	if sb.Len() == 0 {
		return "none"
	}
	return sb.String()
}

// ParseHandle converts a compass name such as "ne" or "SW" to a Handle.
func ParseHandle(s string) (Handle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n":
		return HandleN, nil
	case "s":
		return HandleS, nil
	case "e":
		return HandleE, nil
	case "w":
		return HandleW, nil
	case "ne", "en":
		return HandleNE, nil
	case "nw", "wn":
		return HandleNW, nil
	case "se", "es":
		return HandleSE, nil
	case "sw", "ws":
		return HandleSW, nil
	default:
		return 0, fmt.Errorf("unknown resize handle %q (want one of n, s, e, w, ne, nw, se, sw)", s)
	}
}

// EndReason names the terminal signal that ended a gesture.
type EndReason string

const (
	EndPointerUp        EndReason = "pointer-up"
	EndPointerCancel    EndReason = "pointer-cancel"
	EndLostCapture      EndReason = "lost-capture"
	EndBlur             EndReason = "blur"
	EndVisibilityChange EndReason = "visibility-change"
)

// slot is one window's in-flight gesture.
type slot struct {
	token        string
	phase        Phase
	handle       Handle
	startPointer geometry.Point
	start        geometry.Bounds
	current      geometry.Bounds
}

// Snapshot describes an in-flight gesture.
type Snapshot struct {
	WindowID  string          `json:"window_id"`
	Token     string          `json:"token"`
	Phase     string          `json:"phase"`
	Handle    string          `json:"handle,omitempty"`
	Transient geometry.Bounds `json:"transient"`
}
