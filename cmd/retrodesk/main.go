package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/ipc"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "retrodesk",
	Short:         "Desktop window manager core with an IPC daemon",
	Long:          "retrodesk keeps a set of virtual desktop windows, their dock and desktop icons, and serves them to clients over a unix socket, MCP or a TUI.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.config/retrodesk/config.yaml)")
	rootCmd.PersistentFlags().String("socket", "", "IPC socket path (default: $RETRODESK_SOCKET or $XDG_RUNTIME_DIR/retrodesk.sock)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configPath returns --config, or the default location.
func configPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func loadConfig(cmd *cobra.Command) (*config.LoadResult, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(path)
}

// newClient returns a client for --socket, or the default socket.
func newClient(cmd *cobra.Command) *ipc.Client {
	if socket, _ := cmd.Flags().GetString("socket"); socket != "" {
		return ipc.NewClientAt(socket)
	}
	return ipc.NewClient()
}

func printYAML(cmd *cobra.Command, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// intArgs parses args as integers, naming the offending one on failure.
func intArgs(names []string, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", names[i], a)
		}
		out[i] = n
	}
	return out, nil
}
