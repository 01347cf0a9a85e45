package ui

import (
	"strings"
	"testing"

	"sstlower/internal/driver"
	"sstlower/internal/vir"
)

func TestProgressModelTracksStatuses(t *testing.T) {
	funcs := []vir.Fun{"f", "g", "h"}
	m := NewProgressModel("lowering krate.json", funcs, nil).(*progressModel)

	events := []driver.Event{
		{Func: "f", Status: driver.StatusWorking},
		{Func: "f", Status: driver.StatusDone},
		{Func: "g", Status: driver.StatusError},
		{Func: "h", Status: driver.StatusCached},
		{Func: "h", Status: driver.StatusCached},
		{Status: driver.StatusDone},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}
	if m.settled != 3 || m.failed != 1 {
		t.Fatalf("settled=%d failed=%d", m.settled, m.failed)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v", got)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: lowering krate.json (3/3), 1 failed", "cached", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a_long_function_name", 10, "a_long_..."},
		{"abcdef", 3, "abc"},
		{"名前名前", 5, "名..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
