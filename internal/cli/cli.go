// Package cli implements the whim command-line interface.
//
// The daemon command runs the window manager in the foreground. Every other
// command talks to a running daemon over its IPC socket, except config,
// which works on the file directly.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/whim/internal/ipc"
)

const appName = "whim"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// levelPinned is set once the level came from the command line, so the
	// config file's log_level does not override it.
	levelPinned bool
	socketPath  string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level and keeps it over the config.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelPinned = true
}

// slogger returns a log/slog view of the CLI logger for library packages.
func (c *CLI) slogger() *slog.Logger {
	return slog.New(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Whim is a tiling window manager driven by layout engines",
		Long:         `Whim arranges the windows of each workspace with pluggable layout engines (columns, focus, free and tree) and shows one workspace per monitor.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate("whim " + version + "\ncommit: " + commit + "\nbuilt: " + date + "\n")
	root.PersistentFlags().StringVar(&c.socketPath, "socket", "", "daemon IPC socket (default: $XDG_RUNTIME_DIR/whim/whim.sock)")

	root.AddCommand(c.daemonCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.monitorsCommand())
	root.AddCommand(c.reloadCommand())
	root.AddCommand(c.saveStateCommand())
	root.AddCommand(c.workspaceCommand())
	root.AddCommand(c.windowCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.paletteCommand())

	return root
}

// client returns an IPC client for the selected socket.
func (c *CLI) client() *ipc.Client {
	if c.socketPath == "" {
		return ipc.NewClient()
	}
	return ipc.NewClientForSocket(c.socketPath)
}
