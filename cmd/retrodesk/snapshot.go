package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/render"
	"github.com/1broseidon/retrodesk/internal/runtimepath"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the running desktop to a PNG",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringP("out", "o", "", "Output path (default: $XDG_STATE_HOME/retrodesk/snapshot.png)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	client := newClient(cmd)
	status, err := client.GetStatus()
	if err != nil {
		return err
	}
	windows, err := client.ListWindows()
	if err != nil {
		return err
	}
	iconData, err := client.ListIcons()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out, err = runtimepath.SnapshotPath()
		if err != nil {
			return err
		}
	}
	return writeSnapshot(cmd, out, render.SceneFrom(status, windows, iconData))
}

func writeSnapshot(cmd *cobra.Command, path string, scene render.Scene) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := render.WritePNG(f, scene); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "snapshot: %s\n", path)
	return nil
}
