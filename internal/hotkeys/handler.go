package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/whim/internal/store"
)

// Grabber installs global key grabs. Each call replaces the previous set.
type Grabber interface {
	BindKeys(bindings map[string]func()) error
}

// Handler manages global keyboard shortcuts
type Handler struct {
	store   *store.Store
	grabber Grabber
	logger  *slog.Logger

	moveMode func() error
}

// NewHandler creates a new hotkey handler.
func NewHandler(s *store.Store, grabber Grabber, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		store:   s,
		grabber: grabber,
		logger:  logger,
	}
}

// SetMoveMode makes the move_mode command call enter. It affects bindings
// installed by later calls to Apply.
func (h *Handler) SetMoveMode(enter func() error) {
	h.moveMode = enter
}

// Apply replaces the active bindings. Invalid bindings are skipped and
// reported in the returned error; the valid ones are still installed.
func (h *Handler) Apply(bindings []Binding) error {
	var errs []error
	callbacks := make(map[string]func(), len(bindings))
	for i, b := range bindings {
		action, err := Parse(b)
		if err != nil {
			errs = append(errs, fmt.Errorf("keybindings[%d]: %w", i, err))
			continue
		}
		if h.moveMode != nil && strings.EqualFold(strings.TrimSpace(b.Command), MoveModeCommand) {
			enter := h.moveMode
			action = func(*store.Store) error { return enter() }
		}
		if _, dup := callbacks[b.Keys]; dup {
			errs = append(errs, fmt.Errorf("keybindings[%d]: %s is bound twice", i, b.Keys))
			continue
		}
		callbacks[b.Keys] = h.callback(b, action)
	}

	if err := h.grabber.BindKeys(callbacks); err != nil {
		errs = append(errs, err)
	}
	h.logger.Info("key bindings installed", "count", len(callbacks))
	return errors.Join(errs...)
}

func (h *Handler) callback(b Binding, action Action) func() {
	return func() {
		h.logger.Debug("hotkey triggered", "keys", b.Keys, "command", b.Command)
		if err := action(h.store); err != nil {
			h.logger.Warn("hotkey command failed", "keys", b.Keys, "command", b.Command, "error", err)
		}
	}
}
