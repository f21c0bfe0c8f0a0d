package utils

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"plain prose", "the tide came in on brass gears", 7},
		{"heading stripped", "# Chapter One\n\nIt began at dawn.", 6},
		{"emphasis stripped", "a **bold** and _quiet_ morning", 5},
		{"list markers stripped", "- first\n- second\n- third", 3},
		{"code block excluded", "before\n```\nfunc main() {}\n```\nafter", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.input); got != tt.expected {
				t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}
