package mcp

import (
	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/registry"
)

// Backend performs window operations for the tools. A nil window with a nil
// error means the id is unknown.
type Backend interface {
	Open(id, title string, pos *geometry.Point, size *geometry.Size) (*registry.Window, error)
	Close(id string) (*registry.Window, error)
	Focus(id string) (*registry.Window, error)
	Minimize(id string) (*registry.Window, error)
	ToggleMaximize(id string) (*registry.Window, error)
	Move(id string, pos geometry.Point) (*registry.Window, error)
	Resize(id string, size geometry.Size) (*registry.Window, error)
	Retitle(id, title string) (*registry.Window, error)
	ListWindows() (*ipc.WindowsData, error)
	GetWorkArea() (geometry.Rect, error)
}

// DaemonBackend forwards tool calls to a running daemon.
type DaemonBackend struct {
	*ipc.Client
}

func (b DaemonBackend) Open(id, title string, pos *geometry.Point, size *geometry.Size) (*registry.Window, error) {
	return b.Client.Open(ipc.OpenPayload{ID: id, Title: title, Position: pos, Size: size})
}

// LocalBackend runs tool calls against an in-process desktop.
type LocalBackend struct {
	Desktop *desktop.Desktop
}

func (b LocalBackend) window(id string) *registry.Window {
	w, ok := b.Desktop.Registry.Window(id)
	if !ok {
		return nil
	}
	return &w
}

func (b LocalBackend) Open(id, title string, pos *geometry.Point, size *geometry.Size) (*registry.Window, error) {
	w, err := b.Desktop.OpenWindow(id, title, pos, size)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (b LocalBackend) Close(id string) (*registry.Window, error) {
	b.Desktop.Registry.Close(id)
	return b.window(id), nil
}

func (b LocalBackend) Focus(id string) (*registry.Window, error) {
	b.Desktop.Registry.Focus(id)
	return b.window(id), nil
}

func (b LocalBackend) Retitle(id, title string) (*registry.Window, error) {
	b.Desktop.Registry.SetTitle(id, title)
	return b.window(id), nil
}

func (b LocalBackend) Minimize(id string) (*registry.Window, error) {
	b.Desktop.Registry.Minimize(id)
	return b.window(id), nil
}

func (b LocalBackend) ToggleMaximize(id string) (*registry.Window, error) {
	b.Desktop.Registry.ToggleMaximize(id)
	return b.window(id), nil
}

func (b LocalBackend) Move(id string, pos geometry.Point) (*registry.Window, error) {
	w, err := b.Desktop.MoveWindow(id, pos)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (b LocalBackend) Resize(id string, size geometry.Size) (*registry.Window, error) {
	w, err := b.Desktop.ResizeWindow(id, size)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (b LocalBackend) ListWindows() (*ipc.WindowsData, error) {
	reg := b.Desktop.Registry
	return &ipc.WindowsData{
		Windows:  reg.Windows(),
		Dock:     reg.DockEntries(),
		ActiveID: reg.ActiveID(),
	}, nil
}

func (b LocalBackend) GetWorkArea() (geometry.Rect, error) {
	return b.Desktop.Registry.WorkArea(), nil
}
