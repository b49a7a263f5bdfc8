package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Dir returns the runtime directory used for the IPC socket. Priority:
// 1) the XDG runtime dir (XDG_RUNTIME_DIR, else /run/user/<uid>) if it exists
// 2) /tmp/whim-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := xdg.RuntimeDir; runtimeDir != "" {
		if info, err := os.Stat(runtimeDir); err == nil && info.IsDir() {
			return runtimeDir, nil
		}
	}

	tmpDir := fmt.Sprintf("/tmp/whim-runtime-%d", os.Getuid())
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "whim.sock"), nil
}
