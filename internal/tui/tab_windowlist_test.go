package tui

import (
	"testing"

	"github.com/1broseidon/whim/internal/ipc"
)

func TestWindowLabel(t *testing.T) {
	tests := []struct {
		info ipc.WindowInfo
		want string
	}{
		{ipc.WindowInfo{Handle: 0x10, Process: "kitty", Title: "shell"}, `0x10 kitty "shell"`},
		{ipc.WindowInfo{Handle: 0x2a, Process: "slack", Title: "Slack", Minimized: true}, `0x2a slack "Slack" (minimized)`},
	}
	for _, tt := range tests {
		if got := windowLabel(tt.info); got != tt.want {
			t.Errorf("windowLabel(%+v) = %q, want %q", tt.info, got, tt.want)
		}
	}
}
