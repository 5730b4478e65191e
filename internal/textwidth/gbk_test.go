package textwidth_test

import (
	"testing"

	"github.com/lululau/calgrid/internal/textwidth"
)

func TestStringWidthMixedScripts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"chinese", "中文", 4},
		{"mixed", "A中", 3},
		{"multiline", "ab\n中文", 4},
		{"ansi", "\x1b[38;2;52;211;153m10\x1b[0m", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textwidth.StringWidth(tt.in); got != tt.want {
				t.Fatalf("StringWidth(%q)=%d want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	got := textwidth.PadRight("中", 4)
	if got != "中  " {
		t.Fatalf("PadRight = %q", got)
	}
	if textwidth.PadRight("wide", 2) != "wide" {
		t.Fatalf("PadRight must not cut")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Standup", 10, "Standup"},
		{"Quarterly review", 8, "Quarte…"},
		{"春节联欢晚会", 7, "春节…"},
		{"abc", 1, "a"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := textwidth.Truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
