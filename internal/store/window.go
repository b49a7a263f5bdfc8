package store

import (
	"strings"

	"github.com/1broseidon/whim/internal/platform"
)

// Window is the store's record of a tracked native window.
type Window struct {
	Handle      platform.WindowHandle
	PID         int
	ProcessName string
	Title       string
	IsMinimized bool
}

func windowFromInfo(info platform.WindowInfo) Window {
	return Window{
		Handle:      info.Handle,
		PID:         info.PID,
		ProcessName: info.ProcessName,
		Title:       info.Title,
		IsMinimized: info.Minimized,
	}
}

// Filter ignores windows. Process matches the process name exactly (case
// insensitive); Title matches a substring of the title. Empty fields match
// anything, but a filter with both fields empty matches nothing.
type Filter struct {
	Process string `json:"process,omitempty" yaml:"process,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
}

func (f Filter) Matches(w Window) bool {
	if f.Process == "" && f.Title == "" {
		return false
	}
	if f.Process != "" && !strings.EqualFold(f.Process, w.ProcessName) {
		return false
	}
	if f.Title != "" && !strings.Contains(strings.ToLower(w.Title), strings.ToLower(f.Title)) {
		return false
	}
	return true
}

// Route sends windows of Process to the workspace named Workspace.
type Route struct {
	Process   string `json:"process" yaml:"process"`
	Workspace string `json:"workspace" yaml:"workspace"`
}

func (r Route) Matches(w Window) bool {
	return r.Process != "" && strings.EqualFold(r.Process, w.ProcessName)
}
