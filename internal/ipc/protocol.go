package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/registry"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen             CommandType = "OPEN"
	CommandClose            CommandType = "CLOSE"
	CommandFocus            CommandType = "FOCUS"
	CommandMinimize         CommandType = "MINIMIZE"
	CommandRestore          CommandType = "RESTORE"
	CommandToggleMaximize   CommandType = "TOGGLE_MAXIMIZE"
	CommandUpdateBounds     CommandType = "UPDATE_BOUNDS"
	CommandRetitle          CommandType = "RETITLE"
	CommandMove             CommandType = "MOVE"
	CommandResize           CommandType = "RESIZE"
	CommandCycleFocus       CommandType = "CYCLE_FOCUS"
	CommandListWindows      CommandType = "LIST_WINDOWS"
	CommandGetWorkArea      CommandType = "GET_WORK_AREA"
	CommandSetViewport      CommandType = "SET_VIEWPORT"
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandGestureBegin     CommandType = "GESTURE_BEGIN"
	CommandGestureMove      CommandType = "GESTURE_MOVE"
	CommandGestureEnd       CommandType = "GESTURE_END"
	CommandGestureCancelAll CommandType = "GESTURE_CANCEL_ALL"
	CommandListIcons        CommandType = "LIST_ICONS"
	CommandIconDrag         CommandType = "ICON_DRAG"
	CommandIconSelect       CommandType = "ICON_SELECT"
	CommandReload           CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID string `json:"id"`
}

// OpenPayload is the payload for OPEN. Missing title and geometry come from
// the window catalog.
type OpenPayload struct {
	ID       string          `json:"id"`
	Title    string          `json:"title,omitempty"`
	Position *geometry.Point `json:"position,omitempty"`
	Size     *geometry.Size  `json:"size,omitempty"`
}

// BoundsPayload is the payload for UPDATE_BOUNDS. Bounds are stored as given.
type BoundsPayload struct {
	ID     string          `json:"id"`
	Bounds geometry.Bounds `json:"bounds"`
}

// MovePayload is the payload for MOVE. The position is clamped the way a
// title-bar drag is.
type MovePayload struct {
	ID       string         `json:"id"`
	Position geometry.Point `json:"position"`
}

// ResizePayload is the payload for RESIZE, applied from the bottom-right
// corner.
type ResizePayload struct {
	ID   string        `json:"id"`
	Size geometry.Size `json:"size"`
}

// RetitlePayload renames a window without raising it.
type RetitlePayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CycleFocusPayload struct {
	Backward bool `json:"backward,omitempty"`
}

// WindowsData is returned by LIST_WINDOWS.
type WindowsData struct {
	Windows  []registry.Window    `json:"windows"`
	Dock     []registry.DockEntry `json:"dock"`
	ActiveID string               `json:"active_id,omitempty"`
}

// WindowData wraps one window record.
type WindowData struct {
	Window registry.Window `json:"window"`
}

// GestureBeginPayload starts a drag, or a resize when Handle names an edge
// or corner (n, ne, e, se, s, sw, w, nw).
type GestureBeginPayload struct {
	ID      string         `json:"id"`
	Handle  string         `json:"handle,omitempty"`
	Pointer geometry.Point `json:"pointer"`
}

type GestureMovePayload struct {
	ID      string         `json:"id"`
	Pointer geometry.Point `json:"pointer"`
}

// GestureEndPayload ends a gesture. With a token only that gesture is ended.
type GestureEndPayload struct {
	ID     string            `json:"id"`
	Token  string            `json:"token,omitempty"`
	Reason gesture.EndReason `json:"reason,omitempty"`
}

type GestureCancelAllPayload struct {
	Reason gesture.EndReason `json:"reason,omitempty"`
}

// GestureData describes the gesture after a GESTURE_* command.
type GestureData struct {
	ID     string          `json:"id"`
	Token  string          `json:"token,omitempty"`
	Bounds geometry.Bounds `json:"bounds"`
	Ended  bool            `json:"ended,omitempty"`
}

type CancelledData struct {
	IDs []string `json:"ids"`
}

// IconsData is returned by LIST_ICONS.
type IconsData struct {
	Icons    []icons.Icon `json:"icons"`
	Cols     int          `json:"cols"`
	Rows     int          `json:"rows"`
	Selected string       `json:"selected,omitempty"`
}

type IconDragPayload struct {
	ID string         `json:"id"`
	To geometry.Point `json:"to"`
}

// IconSelectPayload selects icon ID, or moves the selection ring by Step
// (next, previous, clear) when ID is empty.
type IconSelectPayload struct {
	ID   string     `json:"id,omitempty"`
	Step icons.Step `json:"step,omitempty"`
}

// SelectionData reports the selected icon, empty when none is.
type SelectionData struct {
	Selected string `json:"selected,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
