package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/eventlog"
	"github.com/1broseidon/retrodesk/internal/mcp"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Start the MCP server on stdio. Tools act on the running daemon when one
answers on the socket, otherwise on a desktop private to this process.

Example:
  claude mcp add retrodesk -- retrodesk mcp serve`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol.
	log.SetOutput(os.Stderr)

	backend, cleanup, err := mcpBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return mcp.NewServer(backend).Run(ctx)
}

// mcpBackend prefers a running daemon and falls back to a local desktop.
func mcpBackend(cmd *cobra.Command) (mcp.Backend, func(), error) {
	client := newClient(cmd)
	if err := client.Ping(); err == nil {
		log.Printf("MCP: using daemon")
		return mcp.DaemonBackend{Client: client}, func() {}, nil
	}

	res, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg := res.Config

	events, err := eventlog.New(eventlog.OptionsFromConfig(cfg))
	if err != nil {
		log.Printf("MCP: action log disabled: %v", err)
		events = nil
	}
	vp := viewport.NewStatic(cfg.Viewport.Width, cfg.Viewport.Height)
	d := desktop.New(cfg, vp, desktop.WithLogger(events))

	log.Printf("MCP: daemon not running, using a local desktop (%s)", d.ID())
	return mcp.LocalBackend{Desktop: d}, func() { events.Close() }, nil
}
