package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/render"
	"github.com/1broseidon/retrodesk/internal/script"
)

var scriptCmd = &cobra.Command{
	Use:   "script [FILE]",
	Short: "Replay a command script against a private desktop",
	Long: "Replay a command script against a desktop private to this process. " +
		"Reads stdin when FILE is omitted or \"-\". The exit status is non-zero on the first failing line.\n\n" +
		"Commands:\n  " + strings.Join(script.Commands(), "\n  "),
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().String("snapshot", "", "Write a PNG of the final desktop to this path")
}

func runScript(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, closeSrc, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeSrc()

	r := script.NewRunner(res.Config, cmd.OutOrStdout(), nil)
	if err := r.Run(src); err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("snapshot"); out != "" {
		return writeSnapshot(cmd, out, render.SceneOf(r.Desktop()))
	}
	return nil
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, func() { f.Close() }, nil
}
