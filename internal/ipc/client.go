package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/registry"
	"github.com/1broseidon/retrodesk/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

func (c *Client) windowCall(command CommandType, payload interface{}) (*registry.Window, error) {
	var data WindowData
	if err := c.call(command, payload, &data); err != nil {
		return nil, err
	}
	if data.Window.ID == "" {
		return nil, nil
	}
	return &data.Window, nil
}

// Open opens a window. Title, position and size may be left empty.
func (c *Client) Open(req OpenPayload) (*registry.Window, error) {
	return c.windowCall(CommandOpen, req)
}

// Close starts closing a window.
func (c *Client) Close(id string) (*registry.Window, error) {
	return c.windowCall(CommandClose, WindowPayload{ID: id})
}

// Focus raises a window.
func (c *Client) Focus(id string) (*registry.Window, error) {
	return c.windowCall(CommandFocus, WindowPayload{ID: id})
}

// Minimize sends a window to the dock.
func (c *Client) Minimize(id string) (*registry.Window, error) {
	return c.windowCall(CommandMinimize, WindowPayload{ID: id})
}

// Restore brings a window back from the dock.
func (c *Client) Restore(id string) (*registry.Window, error) {
	return c.windowCall(CommandRestore, WindowPayload{ID: id})
}

// ToggleMaximize maximizes or restores a window.
func (c *Client) ToggleMaximize(id string) (*registry.Window, error) {
	return c.windowCall(CommandToggleMaximize, WindowPayload{ID: id})
}

// UpdateBounds stores geometry for a window without clamping.
func (c *Client) UpdateBounds(id string, b geometry.Bounds) (*registry.Window, error) {
	return c.windowCall(CommandUpdateBounds, BoundsPayload{ID: id, Bounds: b})
}

// Retitle renames a window without raising it.
func (c *Client) Retitle(id, title string) (*registry.Window, error) {
	return c.windowCall(CommandRetitle, RetitlePayload{ID: id, Title: title})
}

// Move moves a window, clamped like a title-bar drag.
func (c *Client) Move(id string, pos geometry.Point) (*registry.Window, error) {
	return c.windowCall(CommandMove, MovePayload{ID: id, Position: pos})
}

// Resize resizes a window from its bottom-right corner.
func (c *Client) Resize(id string, size geometry.Size) (*registry.Window, error) {
	return c.windowCall(CommandResize, ResizePayload{ID: id, Size: size})
}

// CycleFocus focuses the next visible window, or the previous one.
func (c *Client) CycleFocus(backward bool) (*registry.Window, error) {
	return c.windowCall(CommandCycleFocus, CycleFocusPayload{Backward: backward})
}

// ListWindows retrieves every window record and the dock.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetWorkArea retrieves the current work area.
func (c *Client) GetWorkArea() (geometry.Rect, error) {
	var wa geometry.Rect
	err := c.call(CommandGetWorkArea, nil, &wa)
	return wa, err
}

// SetViewport resizes a static viewport and returns the new work area.
func (c *Client) SetViewport(size geometry.Size) (geometry.Rect, error) {
	var wa geometry.Rect
	err := c.call(CommandSetViewport, size, &wa)
	return wa, err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*desktop.Status, error) {
	var status desktop.Status
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GestureBegin starts a drag, or a resize when handle is set.
func (c *Client) GestureBegin(id, handle string, pointer geometry.Point) (*GestureData, error) {
	var data GestureData
	if err := c.call(CommandGestureBegin, GestureBeginPayload{ID: id, Handle: handle, Pointer: pointer}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GestureMove feeds a pointer position to a window's gesture.
func (c *Client) GestureMove(id string, pointer geometry.Point) (*GestureData, error) {
	var data GestureData
	if err := c.call(CommandGestureMove, GestureMovePayload{ID: id, Pointer: pointer}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GestureEnd ends a window's gesture and commits its geometry.
func (c *Client) GestureEnd(id, token string, reason gesture.EndReason) (*GestureData, error) {
	var data GestureData
	if err := c.call(CommandGestureEnd, GestureEndPayload{ID: id, Token: token, Reason: reason}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GestureCancelAll ends every in-flight gesture.
func (c *Client) GestureCancelAll(reason gesture.EndReason) ([]string, error) {
	var data CancelledData
	if err := c.call(CommandGestureCancelAll, GestureCancelAllPayload{Reason: reason}, &data); err != nil {
		return nil, err
	}
	return data.IDs, nil
}

// ListIcons retrieves icon placements and the grid size.
func (c *Client) ListIcons() (*IconsData, error) {
	var data IconsData
	if err := c.call(CommandListIcons, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// IconDrag drags an icon to a pixel position and drops it.
func (c *Client) IconDrag(id string, to geometry.Point) (*icons.Icon, error) {
	var icon icons.Icon
	if err := c.call(CommandIconDrag, IconDragPayload{ID: id, To: to}, &icon); err != nil {
		return nil, err
	}
	return &icon, nil
}

// SelectIcon puts the icon selection on id.
func (c *Client) SelectIcon(id string) (string, error) {
	var data SelectionData
	err := c.call(CommandIconSelect, IconSelectPayload{ID: id}, &data)
	return data.Selected, err
}

// StepIconSelection moves the icon selection ring and returns the selected
// id, "" after a clear.
func (c *Client) StepIconSelection(step icons.Step) (string, error) {
	var data SelectionData
	err := c.call(CommandIconSelect, IconSelectPayload{Step: step}, &data)
	return data.Selected, err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
