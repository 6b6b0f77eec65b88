package dff

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"512", 512, false},
		{"64K", 64 * 1024, false},
		{"64k", 64 * 1024, false},
		{"2M", 2 * 1024 * 1024, false},
		{"2MiB", 2 * 1024 * 1024, false},
		{"1.5K", 1536, false},
		{"1G", 1024 * 1024 * 1024, false},
		{" 8 KB ", 8 * 1024, false},
		{"", 0, true},
		{"K", 0, true},
		{"10X", 0, true},
		{"0", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHumanSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHumanSize(%q): expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHumanSize(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseHumanSize(%q): expected %d, got %d", tt.input, tt.expected, got)
		}
	}
}

func TestFormatHumanSize(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1K"},
		{1536, "1.5K"},
		{64 * 1024, "64K"},
		{2 * 1024 * 1024, "2M"},
		{3 * 1024 * 1024 * 1024, "3G"},
	}

	for _, tt := range tests {
		if got := FormatHumanSize(tt.size); got != tt.expected {
			t.Errorf("FormatHumanSize(%d): expected %s, got %s", tt.size, tt.expected, got)
		}
	}
}

func TestIsPathUnder(t *testing.T) {
	tests := []struct {
		child, parent string
		expected      bool
	}{
		{"/a/b", "/a", true},
		{"/a/b/c", "/a", true},
		{"/a", "/a", false},
		{"/ab", "/a", false},
		{"/a/", "/a", false},
		{"/x/../a/b", "/a", true},
	}

	for _, tt := range tests {
		if got := isPathUnder(tt.child, tt.parent); got != tt.expected {
			t.Errorf("isPathUnder(%q, %q): expected %v, got %v", tt.child, tt.parent, tt.expected, got)
		}
	}

	if !isPathContained("/a", "/a") || !isPathContained("/a/b", "/a") || isPathContained("/b", "/a") {
		t.Error("isPathContained returned unexpected results")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandHome("~"); got != home {
		t.Errorf("Expected %s, got %s", home, got)
	}
	if got := expandHome("~/Pictures"); got != filepath.Join(home, "Pictures") {
		t.Errorf("Expected %s, got %s", filepath.Join(home, "Pictures"), got)
	}
	if got := expandHome("~user/x"); got != "~user/x" {
		t.Errorf("Expected ~user/x unchanged, got %s", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("Expected /abs unchanged, got %s", got)
	}
}
