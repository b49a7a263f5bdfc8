// Package daemon wires the store to the native window system, the config
// file and the IPC socket, and runs them until shutdown.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/whim/internal/config"
	"github.com/1broseidon/whim/internal/hotkeys"
	"github.com/1broseidon/whim/internal/movemode"
	"github.com/1broseidon/whim/internal/ipc"
	"github.com/1broseidon/whim/internal/platform"
	"github.com/1broseidon/whim/internal/runtimepath"
	"github.com/1broseidon/whim/internal/savestate"
	"github.com/1broseidon/whim/internal/store"
)

// Options locates the daemon's files. Empty paths use the XDG defaults.
type Options struct {
	ConfigPath string
	StatePath  string
	SocketPath string
	Logger     *slog.Logger
	// OnReady, when set, is called once every component is running.
	OnReady func(s *store.Store)
}

// Daemon is a running whim instance.
type Daemon struct {
	opts   Options
	native platform.Native
	store  *store.Store
	sync   *Synchronizer
	keys   *hotkeys.Handler
	moves  *movemode.Mode
	logger *slog.Logger

	mu  sync.Mutex
	cfg *config.Config
}

// Run starts whim on native and blocks until ctx is cancelled or the native
// event loop stops. On the way out the window assignment is saved when the
// config asks for it.
func Run(ctx context.Context, native platform.Native, opts Options) error {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath()
	}
	if opts.StatePath == "" {
		opts.StatePath = savestate.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res, err := config.LoadFromPath(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", "path", opts.ConfigPath, "files", len(res.Files))

	d := &Daemon{
		opts:   opts,
		native: native,
		store:  store.New(native, store.WithLogger(logger.With("component", "store"))),
		logger: logger,
		cfg:    res.Config,
	}
	defer d.store.Close()
	d.sync = NewSynchronizer(d.store, native, logger.With("component", "sync"))

	unsubscribe := d.store.Subscribe(d.logEvent)
	defer unsubscribe()

	if err := config.Apply(d.store, res.Config); err != nil {
		return err
	}
	if err := d.initialize(); err != nil {
		return err
	}

	if err := native.Watch(d.sync); err != nil {
		return fmt.Errorf("failed to watch window events: %w", err)
	}
	if binder, ok := native.(platform.KeyBinder); ok {
		d.keys = hotkeys.NewHandler(d.store, binder, logger.With("component", "hotkeys"))
		if modal, ok := native.(platform.Modal); ok {
			d.moves = movemode.New(d.store, modal, movemode.Options{
				Timeout:    res.Config.MoveModeTimeout,
				ResizeStep: res.Config.ResizeStep,
				Logger:     logger.With("component", "movemode"),
			})
			defer d.moves.Exit()
			d.keys.SetMoveMode(d.moves.Enter)
		}
		if err := d.keys.Apply(res.Config.Keybindings); err != nil {
			logger.Warn("some key bindings were not installed", "error", err)
		}
	}
	backendDone := make(chan struct{})
	go func() {
		defer close(backendDone)
		native.Run()
	}()
	defer func() {
		native.Quit()
		<-backendDone
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := config.Watch(ctx, opts.ConfigPath, logger.With("component", "config"), func(res *config.LoadResult) {
			if err := d.applyConfig(res.Config); err != nil {
				logger.Warn("config reload failed", "error", err)
			}
		})
		if err != nil {
			logger.Warn("config watch stopped", "error", err)
		}
	}()

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: res.Config.ReconcileInterval,
		Logger:   logger.With("component", "reconciler"),
	}, d.sync)
	wg.Add(1)
	go func() {
		defer wg.Done()
		reconciler.Run(ctx)
	}()

	server, err := d.startIPC()
	if err != nil {
		return err
	}
	defer server.Stop()

	logger.Info("whim daemon started")
	if opts.OnReady != nil {
		opts.OnReady(d.store)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down whim daemon")
	case <-backendDone:
		logger.Warn("window system event loop stopped")
	}
	cancel()

	d.mu.Lock()
	save := d.cfg.SaveState
	d.mu.Unlock()
	if save {
		if err := d.saveState(); err != nil {
			logger.Error("failed to save state", "error", err)
		}
	}
	return nil
}

// initialize seeds the store from the native window system and the saved
// state left by the previous run. The saved state is consumed.
func (d *Daemon) initialize() error {
	saved, err := savestate.Read(d.opts.StatePath)
	if err != nil {
		// A corrupt snapshot should not keep the daemon from starting.
		d.logger.Warn("ignoring saved state", "error", err)
		saved = nil
	}
	if err := d.store.Initialize(saved); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	if err := savestate.Remove(d.opts.StatePath); err != nil {
		d.logger.Warn("failed to remove saved state", "error", err)
	}
	return nil
}

func (d *Daemon) startIPC() (*ipc.Server, error) {
	socketPath := d.opts.SocketPath
	if socketPath == "" {
		var err error
		if socketPath, err = runtimepath.SocketPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	server := ipc.NewServer(socketPath, d.store, ipc.Hooks{
		Reload:    d.reload,
		SaveState: d.saveState,
	}, d.logger.With("component", "ipc"))
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}

// reload re-reads the config file on request.
func (d *Daemon) reload() error {
	res, err := config.LoadFromPath(d.opts.ConfigPath)
	if err != nil {
		return err
	}
	return d.applyConfig(res.Config)
}

func (d *Daemon) applyConfig(cfg *config.Config) error {
	if err := config.Reload(d.store, cfg); err != nil {
		return err
	}
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	if d.moves != nil {
		d.moves.Configure(cfg.MoveModeTimeout, cfg.ResizeStep)
	}
	if d.keys != nil {
		if err := d.keys.Apply(cfg.Keybindings); err != nil {
			d.logger.Warn("some key bindings were not installed", "error", err)
		}
	}

	// Windows declined by the old filters may be accepted now.
	d.sync.Forget()
	if _, err := d.sync.SyncWindows(); err != nil {
		return err
	}
	return nil
}

func (d *Daemon) saveState() error {
	state, err := store.Pick(d.store, store.PickSavedState())
	if err != nil {
		return err
	}
	if err := savestate.Write(d.opts.StatePath, state); err != nil {
		return err
	}
	d.logger.Info("state saved", "path", d.opts.StatePath, "workspaces", len(state.Workspaces))
	return nil
}

func (d *Daemon) logEvent(e store.Event) {
	switch e := e.(type) {
	case store.WorkspaceAddedEvent:
		d.logger.Debug("workspace added", "workspace", e.Workspace.Name)
	case store.WorkspaceRemovedEvent:
		d.logger.Debug("workspace removed", "workspace", e.Workspace.Name)
	case store.MonitorWorkspaceChangedEvent:
		d.logger.Debug("monitor workspace changed", "monitor", e.Monitor.Name, "workspace", e.Current.Name)
	case store.WindowAddedEvent:
		d.logger.Debug("window added", "window", e.Window.Handle, "process", e.Window.ProcessName)
	case store.WindowRemovedEvent:
		d.logger.Debug("window removed", "window", e.Window.Handle)
	case store.WindowRoutedEvent:
		var from string
		if e.Previous != nil {
			from = e.Previous.Name
		}
		d.logger.Debug("window routed", "window", e.Window.Handle, "from", from, "to", e.Current.Name)
	}
}
