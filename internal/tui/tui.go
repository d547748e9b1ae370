package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/registry"
)

// Client is the subset of the daemon client the TUI drives.
type Client interface {
	ListWindows() (*ipc.WindowsData, error)
	ListIcons() (*ipc.IconsData, error)
	GetStatus() (*desktop.Status, error)
	Open(req ipc.OpenPayload) (*registry.Window, error)
	Close(id string) (*registry.Window, error)
	Focus(id string) (*registry.Window, error)
	Minimize(id string) (*registry.Window, error)
	ToggleMaximize(id string) (*registry.Window, error)
	CycleFocus(backward bool) (*registry.Window, error)
	StepIconSelection(step icons.Step) (string, error)
}

// Run starts the dock viewer against a running daemon.
func Run(client Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
