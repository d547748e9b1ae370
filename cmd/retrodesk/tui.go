package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dock viewer",
	Long: `Interactive view of the running daemon's dock and icon grid.

Keybindings:
  j/k, ↑/↓   Navigate windows
  Enter      Focus the selected window
  m          Minimize
  z          Toggle maximize
  x          Close
  n/N        Cycle focus forward/backward
  o          Open a window
  Tab, 1, 2  Switch tabs
  r          Refresh
  q, Ctrl+C  Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(newClient(cmd))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
