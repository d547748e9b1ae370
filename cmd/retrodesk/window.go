package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/registry"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open, arrange and inspect windows on the running desktop",
}

var windowOpenCmd = &cobra.Command{
	Use:   "open ID",
	Short: "Open a window, or bring it back if it is already open",
	Long:  "Open a window. Catalog ids get their title and geometry from the config unless overridden.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWindowOpen,
}

var windowMoveCmd = &cobra.Command{
	Use:   "move ID X Y",
	Short: "Move a window, clamped the way a title-bar drag is",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"X", "Y"}, args[1:])
		if err != nil {
			return err
		}
		return printWindow(cmd, args[0])(newClient(cmd).Move(args[0], geometry.Point{X: n[0], Y: n[1]}))
	},
}

var windowResizeCmd = &cobra.Command{
	Use:   "resize ID WIDTH HEIGHT",
	Short: "Resize a window from its bottom-right corner",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"WIDTH", "HEIGHT"}, args[1:])
		if err != nil {
			return err
		}
		return printWindow(cmd, args[0])(newClient(cmd).Resize(args[0], geometry.Size{Width: n[0], Height: n[1]}))
	},
}

var windowBoundsCmd = &cobra.Command{
	Use:   "bounds ID X Y WIDTH HEIGHT",
	Short: "Store window geometry verbatim, without clamping",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := intArgs([]string{"X", "Y", "WIDTH", "HEIGHT"}, args[1:])
		if err != nil {
			return err
		}
		b := geometry.Bounds{
			Position: geometry.Point{X: n[0], Y: n[1]},
			Size:     geometry.Size{Width: n[2], Height: n[3]},
		}
		return printWindow(cmd, args[0])(newClient(cmd).UpdateBounds(args[0], b))
	},
}

var windowRetitleCmd = &cobra.Command{
	Use:   "retitle ID TITLE",
	Short: "Rename a window without raising it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printWindow(cmd, args[0])(newClient(cmd).Retitle(args[0], args[1]))
	},
}

var windowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List windows in open order",
	Args:  cobra.NoArgs,
	RunE:  runWindowList,
}

var windowCycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Focus the next visible window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backward, _ := cmd.Flags().GetBool("backward")
		return printWindow(cmd, "")(newClient(cmd).CycleFocus(backward))
	},
}

// simpleWindowCmd builds a subcommand that applies one action to one id.
func simpleWindowCmd(use, short string, action func(*ipc.Client, string) (*registry.Window, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printWindow(cmd, args[0])(action(newClient(cmd), args[0]))
		},
	}
}

func init() {
	rootCmd.AddCommand(windowCmd)
	windowCmd.AddCommand(
		windowOpenCmd,
		simpleWindowCmd("close", "Close a window (non-closable windows are left open)", (*ipc.Client).Close),
		simpleWindowCmd("focus", "Raise a window and make it active", (*ipc.Client).Focus),
		simpleWindowCmd("minimize", "Hide a window to the dock", (*ipc.Client).Minimize),
		simpleWindowCmd("restore", "Bring a window back from the dock", (*ipc.Client).Restore),
		simpleWindowCmd("maximize", "Toggle a window between maximized and its previous geometry", (*ipc.Client).ToggleMaximize),
		windowMoveCmd,
		windowResizeCmd,
		windowBoundsCmd,
		windowRetitleCmd,
		windowListCmd,
		windowCycleCmd,
	)

	windowOpenCmd.Flags().String("title", "", "Window title")
	windowOpenCmd.Flags().Int("x", 0, "Left edge (requires --y)")
	windowOpenCmd.Flags().Int("y", 0, "Top edge (requires --x)")
	windowOpenCmd.Flags().Int("width", 0, "Width (requires --height)")
	windowOpenCmd.Flags().Int("height", 0, "Height (requires --width)")
	windowOpenCmd.MarkFlagsRequiredTogether("x", "y")
	windowOpenCmd.MarkFlagsRequiredTogether("width", "height")

	windowListCmd.Flags().Bool("yaml", false, "Print full records as YAML")
	windowCycleCmd.Flags().Bool("backward", false, "Cycle in reverse open order")
}

// printWindow returns a sink for a client window reply.
func printWindow(cmd *cobra.Command, id string) func(*registry.Window, error) error {
	return func(w *registry.Window, err error) error {
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("no window %q", id)
		}
		return printYAML(cmd, w)
	}
}

func runWindowOpen(cmd *cobra.Command, args []string) error {
	req := ipc.OpenPayload{ID: args[0]}
	req.Title, _ = cmd.Flags().GetString("title")

	if cmd.Flags().Changed("x") {
		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		req.Position = &geometry.Point{X: x, Y: y}
	}
	if cmd.Flags().Changed("width") {
		w, _ := cmd.Flags().GetInt("width")
		h, _ := cmd.Flags().GetInt("height")
		req.Size = &geometry.Size{Width: w, Height: h}
	}

	return printWindow(cmd, args[0])(newClient(cmd).Open(req))
}

func runWindowList(cmd *cobra.Command, args []string) error {
	data, err := newClient(cmd).ListWindows()
	if err != nil {
		return err
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return printYAML(cmd, data)
	}
	fmt.Fprintln(cmd.OutOrStdout(), windowTable(data))
	return nil
}

// windowTable renders one row per window; the active one is starred.
func windowTable(data *ipc.WindowsData) string {
	rows := make([][]string, 0, len(data.Windows))
	for _, w := range data.Windows {
		id := w.ID
		if w.ID == data.ActiveID {
			id = "*" + id
		}
		rows = append(rows, []string{
			id,
			w.Title,
			windowState(w),
			strconv.Itoa(w.ZIndex),
			fmt.Sprintf("%d,%d", w.Position.X, w.Position.Y),
			fmt.Sprintf("%dx%d", w.Size.Width, w.Size.Height),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "STATE", "Z", "POSITION", "SIZE").
		Rows(rows...).
		Render()
}

func windowState(w registry.Window) string {
	switch {
	case !w.IsOpen:
		return "closed"
	case w.ExitReason == registry.ExitClose:
		return "closing"
	case w.IsMinimized:
		return "minimized"
	case w.IsMaximized:
		return "maximized"
	default:
		return "open"
	}
}
