package dff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExcludeSetRelativeAndAbsolute(t *testing.T) {
	es, err := NewExcludeSet([]string{"*.tmp", "/srv/data/cache/"}, MatchOptions{})
	if err != nil {
		t.Fatalf("NewExcludeSet error = %v", err)
	}

	if !es.HasPatterns() {
		t.Fatal("Expected exclude set to have patterns")
	}
	if !es.Excluded("dup.tmp", "/srv/data/dup.tmp", false) {
		t.Error("Expected dup.tmp to be excluded by *.tmp")
	}
	if es.Excluded("dup.txt", "/srv/data/dup.txt", false) {
		t.Error("Expected dup.txt not to be excluded")
	}
	if !es.Excluded("cache", "/srv/data/cache", true) {
		t.Error("Expected absolute directory pattern to exclude /srv/data/cache")
	}
	if es.Excluded("cache", "/srv/other/cache", true) {
		t.Error("Expected absolute pattern not to match a different absolute path")
	}
}

func TestExcludeSetNil(t *testing.T) {
	var es *ExcludeSet
	if es.Excluded("anything", "/anything", false) {
		t.Error("Expected nil exclude set to exclude nothing")
	}
	if es.HasPatterns() {
		t.Error("Expected nil exclude set to have no patterns")
	}
	if len(es.Patterns()) != 0 {
		t.Errorf("Expected no patterns, got %v", es.Patterns())
	}
}

func TestExcludeSetFailsOnFirstBadPattern(t *testing.T) {
	_, err := NewExcludeSet([]string{"*.log", "bad**", "*.tmp"}, MatchOptions{})
	if err == nil {
		t.Fatal("Expected error for invalid pattern")
	}
	if !strings.Contains(err.Error(), "bad**") {
		t.Errorf("Expected error to name the bad pattern, got %v", err)
	}
}

func TestLoadExcludeFile(t *testing.T) {
	tempDir := t.TempDir()
	excludeFile := filepath.Join(tempDir, "exclude")
	content := `# editor droppings
*.swp

**/.*
build/
`
	if err := os.WriteFile(excludeFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	es, err := NewExcludeSet(nil, MatchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := es.LoadExcludeFile(excludeFile); err != nil {
		t.Fatalf("LoadExcludeFile error = %v", err)
	}

	patterns := es.Patterns()
	expected := []string{"*.swp", "**/.*", "build/"}
	if len(patterns) != len(expected) {
		t.Fatalf("Expected %d patterns, got %d: %v", len(expected), len(patterns), patterns)
	}
	for i := range expected {
		if patterns[i] != expected[i] {
			t.Errorf("Expected pattern %d to be %q, got %q", i, expected[i], patterns[i])
		}
	}
}

func TestLoadExcludeFileReportsLine(t *testing.T) {
	tempDir := t.TempDir()
	excludeFile := filepath.Join(tempDir, "exclude")
	if err := os.WriteFile(excludeFile, []byte("*.swp\n# ok\nsrc**\n"), 0644); err != nil {
		t.Fatal(err)
	}

	es, _ := NewExcludeSet(nil, MatchOptions{})
	err := es.LoadExcludeFile(excludeFile)
	if err == nil {
		t.Fatal("Expected error for invalid pattern in exclude file")
	}
	if !strings.Contains(err.Error(), excludeFile+":3:") {
		t.Errorf("Expected error to reference line 3, got %v", err)
	}
}

func TestFilterPaths(t *testing.T) {
	es, err := NewExcludeSet([]string{"**/.*", "*.tmp"}, MatchOptions{})
	if err != nil {
		t.Fatal(err)
	}

	paths := []string{"a.txt", ".env", "sub/.gitignore", "sub/.git/config", "dup.tmp", "sub/keep.tmp"}
	filtered := es.FilterPaths(paths)

	// paths are matched whole, so a file inside a dot directory is kept
	expected := []string{"a.txt", "sub/.git/config", "sub/keep.tmp"}
	if len(filtered) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, filtered)
	}
	for i := range expected {
		if filtered[i] != expected[i] {
			t.Errorf("Expected %q at %d, got %q", expected[i], i, filtered[i])
		}
	}
}
