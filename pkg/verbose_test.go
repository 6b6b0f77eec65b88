package dff

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetDebugFlags(t *testing.T) {
	defer SetDebugFlags("")

	tests := []struct {
		name          string
		input         string
		expectHash    bool
		expectExclude bool
	}{
		{"empty string", "", false, false},
		{"single option", "hash", true, false},
		{"multiple options", "hash,exclude", true, true},
		{"options with values", "hash:false,exclude:true", false, true},
		{"all", "all", true, true},
		{"whitespace and case", " HASH , exclude:1 ", true, true},
	}

	for _, tt := range tests {
		SetDebugFlags(tt.input)
		if got := IsDebugEnabled("hash"); got != tt.expectHash {
			t.Errorf("%s: expected hash=%v, got %v", tt.name, tt.expectHash, got)
		}
		if got := IsDebugEnabled("exclude"); got != tt.expectExclude {
			t.Errorf("%s: expected exclude=%v, got %v", tt.name, tt.expectExclude, got)
		}
	}
}

func TestVerboseLogLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)
	defer SetVerboseLevel(0)

	SetVerboseLevel(1)
	VerboseLog(1, "shown %d", 1)
	VerboseLog(2, "hidden")

	SetVerboseLevel(3)
	VerboseLog(3, "trace\n")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Message != "shown 1" || entries[0].Level != zap.InfoLevel {
		t.Errorf("Expected info 'shown 1', got %s %q", entries[0].Level, entries[0].Message)
	}
	if entries[1].Message != "trace" || entries[1].Level != zap.DebugLevel {
		t.Errorf("Expected debug 'trace', got %s %q", entries[1].Level, entries[1].Message)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	for level, want := range map[int]bool{0: false, 1: true, 2: true} {
		logger, err := NewLogger(level)
		if err != nil {
			t.Fatalf("NewLogger(%d) error = %v", level, err)
		}
		if got := logger.Core().Enabled(zap.InfoLevel); got != want {
			t.Errorf("Level %d: expected info enabled=%v, got %v", level, want, got)
		}
		if !logger.Core().Enabled(zap.WarnLevel) {
			t.Errorf("Level %d: expected warnings to be enabled", level)
		}
	}
}

func TestInitLogging(t *testing.T) {
	defer SetLogger(nil)
	defer SetVerboseLevel(0)
	defer SetDebugFlags("")

	logger, err := InitLogging(2, "scan")
	if err != nil {
		t.Fatal(err)
	}
	if Logger() != logger {
		t.Error("Expected InitLogging to install the package logger")
	}
	if GetVerboseLevel() != 2 {
		t.Errorf("Expected verbose level 2, got %d", GetVerboseLevel())
	}
	if !IsDebugEnabled("scan") {
		t.Error("Expected scan debug flag to be enabled")
	}
}
