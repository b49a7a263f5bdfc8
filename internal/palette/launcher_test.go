package palette

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustLauncher(t *testing.T, name string) *launcher {
	t.Helper()
	l, ok := newLauncher(name)
	if !ok {
		t.Fatalf("unknown launcher %q", name)
	}
	return l
}

func TestRofiFormatRow_UsesSingleNullSeparator(t *testing.T) {
	l := mustLauncher(t, "rofi")

	out := l.formatRow(Item{Label: "Header", IsHeader: true, Icon: "folder", Meta: "meta"}, "Header")

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if !strings.HasPrefix(out, "<b>Header</b>\x00nonselectable\x1ftrue") {
		t.Fatalf("expected a bold non-selectable header, got %q", out)
	}
	if !strings.Contains(out, "icon\x1ffolder") || !strings.Contains(out, "meta\x1fmeta") {
		t.Fatalf("expected icon and meta attributes, got %q", out)
	}
}

func TestRofiFormatRow_EscapesMarkup(t *testing.T) {
	l := mustLauncher(t, "rofi")
	if out := l.formatRow(Item{Label: "a <b> & c"}, "a <b> & c"); out != "a &lt;b&gt; &amp; c" {
		t.Fatalf("expected escaped label, got %q", out)
	}
	if out := l.formatRow(Item{Label: "──", IsDivider: true}, "──"); !strings.Contains(out, "<span foreground='#666666'>") {
		t.Fatalf("expected dim span for divider, got %q", out)
	}
}

func TestDmenuFormatRow_PlainText(t *testing.T) {
	l := mustLauncher(t, "dmenu")
	if out := l.formatRow(Item{Label: "<Main>", Icon: "x", IsHeader: true}, "<Main>"); out != "<Main>" {
		t.Fatalf("expected plain label, got %q", out)
	}
}

func TestRofiArgs(t *testing.T) {
	l := mustLauncher(t, "rofi")
	items := []Item{
		{Label: "Workspaces", IsHeader: true},
		{Label: "Main", IsActive: true},
		{Label: "Chat"},
	}
	_, active, selected := l.formatInput(items, l.labels(items))
	args := l.args("whim", "hint", active, selected)

	for _, pair := range [][2]string{
		{"-format", "i"},
		{"-p", "whim"},
		{"-a", "1"},
		{"-selected-row", "1"},
		{"-kb-custom-1", "Alt+Return"},
		{"-mesg", "hint"},
	} {
		if !containsArgs(args, pair[0], pair[1]) {
			t.Errorf("expected %s %s in args, got %v", pair[0], pair[1], args)
		}
	}
	if !containsArg(args, "-no-custom") {
		t.Errorf("expected -no-custom in args, got %v", args)
	}
}

func TestFormatInput_SelectsFirstSelectableRow(t *testing.T) {
	l := mustLauncher(t, "rofi")
	items := []Item{{Label: "Header", IsHeader: true}, {Label: "a"}, {Label: "b"}}
	_, active, selected := l.formatInput(items, l.labels(items))
	if len(active) != 0 || selected != 1 {
		t.Fatalf("expected no active rows and row 1 selected, got %v %d", active, selected)
	}
}

func TestLabels_DisambiguatesForTextBackends(t *testing.T) {
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
		{Label: "Dup", Action: "c"},
		{Label: "Dup", IsHeader: true},
	}

	dmenu := mustLauncher(t, "dmenu")
	rows := dmenu.labels(items)
	if diff := cmp.Diff([]string{"Dup", "Dup (2)", "Dup (3)", "Dup"}, rows); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	got, err := dmenu.parseSelection("Dup (2)", items, rows)
	if err != nil || got.Action != "b" {
		t.Fatalf("expected action b, got %+v (%v)", got, err)
	}

	rofi := mustLauncher(t, "rofi")
	if diff := cmp.Diff([]string{"Dup", "Dup", "Dup", "Dup"}, rofi.labels(items)); diff != "" {
		t.Fatalf("index backends should keep labels (-want +got):\n%s", diff)
	}
}

func TestParseSelection(t *testing.T) {
	items := []Item{{Label: "a", Action: "a"}, {Label: "b", Action: "b"}}
	rows := []string{"a", "b"}

	tests := []struct {
		launcher  string
		selection string
		want      string
		wantErr   bool
	}{
		{"rofi", "1", "b", false},
		{"fuzzel", "0", "a", false},
		{"rofi", "5", "", true},
		{"wofi", "b", "b", false},
		{"dmenu", "zzz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.launcher+"/"+tt.selection, func(t *testing.T) {
			got, err := mustLauncher(t, tt.launcher).parseSelection(tt.selection, items, rows)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Action != tt.want {
				t.Fatalf("expected action %q, got %q", tt.want, got.Action)
			}
		})
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("ulauncher"); err == nil {
		t.Fatalf("expected an unknown backend to fail")
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
