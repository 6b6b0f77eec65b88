package dff

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ExcludeSet holds the compiled exclusion patterns applied during enumeration
type ExcludeSet struct {
	matchers []*Matcher
	opts     MatchOptions
}

// NewExcludeSet compiles patterns in order, failing on the first invalid one
func NewExcludeSet(patterns []string, opts MatchOptions) (*ExcludeSet, error) {
	es := &ExcludeSet{opts: opts}
	for _, pattern := range patterns {
		if err := es.AddPattern(pattern); err != nil {
			return nil, err
		}
	}
	return es, nil
}

// AddPattern compiles and appends a pattern
func (es *ExcludeSet) AddPattern(pattern string) error {
	m, err := CompilePattern(pattern, es.opts)
	if err != nil {
		return err
	}
	es.matchers = append(es.matchers, m)
	return nil
}

// LoadExcludeFile appends patterns read from path, one per line.
// Blank lines and lines starting with # are skipped.
func (es *ExcludeSet) LoadExcludeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open exclude file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := es.AddPattern(line); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading exclude file: %w", err)
	}

	return nil
}

// Excluded reports whether an entry should be dropped. Patterns beginning with a
// separator are matched against absPath, all others against relPath.
func (es *ExcludeSet) Excluded(relPath, absPath string, isDir bool) bool {
	if es == nil {
		return false
	}
	for _, m := range es.matchers {
		candidate := relPath
		if m.Absolute() {
			candidate = absPath
		}
		if m.MatchEntry(candidate, isDir) {
			if IsDebugEnabled("exclude") {
				VerboseLog(3, "excluded %s by pattern %q", candidate, m.Pattern())
			}
			return true
		}
	}
	return false
}

// Patterns returns the source globs in order
func (es *ExcludeSet) Patterns() []string {
	if es == nil {
		return nil
	}
	patterns := make([]string, len(es.matchers))
	for i, m := range es.matchers {
		patterns[i] = m.Pattern()
	}
	return patterns
}

// HasPatterns returns true if there are any exclusion patterns
func (es *ExcludeSet) HasPatterns() bool {
	return es != nil && len(es.matchers) > 0
}

// FilterPaths filters a slice of root-relative file paths, removing excluded ones
func (es *ExcludeSet) FilterPaths(paths []string) []string {
	if !es.HasPatterns() {
		return paths
	}

	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		if !es.Excluded(path, path, false) {
			filtered = append(filtered, path)
		}
	}
	return filtered
}
