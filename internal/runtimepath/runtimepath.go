// Package runtimepath locates per-user files shared by the daemon and its
// clients.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// SocketEnv overrides the socket location for every client and daemon in
// the environment.
const SocketEnv = "RETRODESK_SOCKET"

// Dir returns the per-user runtime directory: $XDG_RUNTIME_DIR when set,
// /run/user/<uid> when it exists, otherwise /tmp/retrodesk-runtime-<uid>,
// created with mode 0700.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	fallback := fmt.Sprintf("/tmp/retrodesk-runtime-%d", uid)
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return fallback, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns $RETRODESK_SOCKET, or retrodesk.sock in Dir.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "retrodesk.sock"), nil
}

// SnapshotPath returns the default location for rendered desktop snapshots.
func SnapshotPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("retrodesk", "snapshot.png"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve snapshot path: %w", err)
	}
	return path, nil
}
