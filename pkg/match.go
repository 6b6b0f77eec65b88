package dff

import (
	"os"
	"regexp"
	"runtime"
	"strings"
)

const (
	reSep      = `[/\\]`
	reNonSep   = `[^/\\]`
	separators = "/\\"
)

// MatchOptions controls how patterns are compared against paths
type MatchOptions struct {
	// CaseInsensitive folds case when matching. Hosts differ, so this is caller policy.
	CaseInsensitive bool
}

// DefaultMatchOptions returns the native path comparison policy of the host platform
func DefaultMatchOptions() MatchOptions {
	switch runtime.GOOS {
	case "windows", "darwin":
		return MatchOptions{CaseInsensitive: true}
	default:
		return MatchOptions{}
	}
}

// Matcher is a compiled exclusion glob.
//
// Patterns are split into segments on '/' or '\'. Within a segment '*' matches any run
// of non-separator characters, '?' one non-separator character and '[...]' a character
// class. A segment of exactly "**" matches zero or more whole segments. The pattern must
// account for the entire candidate path.
type Matcher struct {
	pattern  string
	re       *regexp.Regexp
	dirOnly  bool
	absolute bool
}

// CompilePattern compiles a glob pattern into a Matcher
func CompilePattern(pattern string, opts MatchOptions) (*Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, &InvalidPatternError{Pattern: pattern, Err: ErrEmptyPattern}
	}

	m := &Matcher{
		pattern:  pattern,
		dirOnly:  strings.ContainsRune(separators, rune(pattern[len(pattern)-1])),
		absolute: strings.ContainsRune(separators, rune(pattern[0])),
	}

	var segments []string
	for _, seg := range strings.FieldsFunc(pattern, isSeparator) {
		if seg != "**" && strings.Contains(seg, "**") {
			return nil, &InvalidPatternError{Pattern: pattern, Reason: "'**' can only be an entire path component"}
		}
		// a run of ** segments matches the same paths as one
		if seg == "**" && len(segments) > 0 && segments[len(segments)-1] == "**" {
			continue
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, &InvalidPatternError{Pattern: pattern, Reason: "pattern has no path components"}
	}

	var b strings.Builder
	b.WriteString("(?s)")
	if opts.CaseInsensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	if m.absolute {
		b.WriteString(reSep)
	}

	afterRecursive := false
	for i, seg := range segments {
		last := i == len(segments)-1
		if seg == "**" {
			switch {
			case i == 0 && last:
				b.WriteString(".*")
			case i == 0:
				b.WriteString("(?:.*" + reSep + ")?")
			case last:
				b.WriteString("(?:" + reSep + ".*)?")
			default:
				b.WriteString(reSep + "(?:.*" + reSep + ")?")
			}
			afterRecursive = true
			continue
		}
		if i > 0 && !afterRecursive {
			b.WriteString(reSep)
		}
		b.WriteString(translateSegment(seg))
		afterRecursive = false
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	m.re = re
	return m, nil
}

// translateSegment converts one glob segment to a regular expression fragment
func translateSegment(seg string) string {
	var b strings.Builder
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch c {
		case '*':
			b.WriteString(reNonSep + "*")
		case '?':
			b.WriteString(reNonSep)
		case '[':
			class, n := translateClass(seg[i:])
			if n == 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class)
			i += n - 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// translateClass converts a bracket expression at the start of s. It returns the regex
// class and the number of bytes consumed, or 0 when the bracket is never closed.
func translateClass(s string) (string, int) {
	j := 1
	if j < len(s) && (s[j] == '!' || s[j] == '^') {
		j++
	}
	// a ']' directly after the opening bracket is literal
	if j < len(s) && s[j] == ']' {
		j++
	}
	for j < len(s) && s[j] != ']' {
		j++
	}
	if j >= len(s) {
		return "", 0
	}

	body := s[1:j]
	var b strings.Builder
	b.WriteString("[")
	if strings.HasPrefix(body, "!") || strings.HasPrefix(body, "^") {
		// a negated class must still not cross a separator
		b.WriteString(`^/\\`)
		body = body[1:]
	}
	for _, r := range body {
		switch r {
		case '\\', '[', ']', '^':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	b.WriteString("]")
	return b.String(), j + 1
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// Pattern returns the source glob
func (m *Matcher) Pattern() string {
	return m.pattern
}

// DirOnly reports whether the pattern ends in a separator and so only matches directories
func (m *Matcher) DirOnly() bool {
	return m.dirOnly
}

// Absolute reports whether the pattern begins with a separator
func (m *Matcher) Absolute() bool {
	return m.absolute
}

// MatchEntry reports whether path matches, given whether path denotes a directory.
// It never touches the filesystem.
func (m *Matcher) MatchEntry(path string, isDir bool) bool {
	if m.dirOnly && !isDir {
		return false
	}
	return m.re.MatchString(path)
}

// Match reports whether path matches. For directory-only patterns the path is stat'ed;
// everything else is a pure string comparison.
func (m *Matcher) Match(path string) bool {
	if !m.re.MatchString(path) {
		return false
	}
	if !m.dirOnly {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
