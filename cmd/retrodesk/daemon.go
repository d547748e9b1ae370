package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the retrodesk daemon (foreground)",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient(cmd).GetStatus()
		if err != nil {
			return err
		}
		return printYAML(cmd, status)
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the daemon to re-read its config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient(cmd).Reload(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd, statusCmd, reloadCmd)
	daemonCmd.Flags().Duration("reconcile-interval", 0, "How often the viewport is sampled for changes (default 2s)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	socket, _ := cmd.Flags().GetString("socket")
	interval, _ := cmd.Flags().GetDuration("reconcile-interval")

	d, err := daemon.New(daemon.Options{
		ConfigPath:        path,
		SocketPath:        socket,
		ReconcileInterval: interval,
		HandleSignals:     true,
	})
	if err != nil {
		return err
	}
	return d.Run(context.Background())
}
