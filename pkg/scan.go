package dff

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Enumeration is the outcome of walking the scan roots
type Enumeration struct {
	Roots    []string
	Records  []*FileRecord
	Errors   []*EnumerationError
	Excluded int
}

// Enumerator walks root directories and yields the regular files that survive exclusion
type Enumerator struct {
	Exclude     *ExcludeSet
	SymlinkMode string // SymlinkNone (default), SymlinkContained or SymlinkAll
	Logger      *zap.Logger
}

// scanRoot is one root being walked
type scanRoot struct {
	path     string // as given, used to build output paths
	abs      string // absolute, used for absolute exclusion patterns
	resolved string // symlink-free, used for containment checks
}

// ResolveRoots expands ~, drops roots that are missing or not directories, and drops
// roots nested inside another root. Order of the surviving roots is preserved.
func ResolveRoots(roots []string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	type candidate struct{ path, abs string }
	var valid []candidate
	for _, root := range roots {
		path := expandHome(root)
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("skipping root", zap.String("path", root), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			logger.Warn("skipping root: not a directory", zap.String("path", root))
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			logger.Warn("skipping root", zap.String("path", root), zap.Error(err))
			continue
		}
		valid = append(valid, candidate{path: path, abs: abs})
	}

	var resolved []string
	for i, c := range valid {
		redundant := false
		for j, other := range valid {
			if i == j {
				continue
			}
			if isPathUnder(c.abs, other.abs) || (j < i && c.abs == filepath.Clean(other.abs)) {
				redundant = true
				break
			}
		}
		if redundant {
			VerboseLog(2, "root %s is covered by another root", c.path)
			continue
		}
		resolved = append(resolved, c.path)
	}

	if len(resolved) == 0 {
		return nil, ErrNoValidRoots
	}
	return resolved, nil
}

func (e *Enumerator) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Enumerate walks roots in order. Within a directory entries are visited by name.
// Directories that cannot be listed are recorded in Errors and their subtree skipped.
func (e *Enumerator) Enumerate(ctx context.Context, roots []string) (*Enumeration, error) {
	defer VerboseEnter()()
	out := &Enumeration{Roots: roots}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			e.recordError(out, root, err)
			continue
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			e.recordError(out, root, err)
			continue
		}

		sr := scanRoot{path: root, abs: abs, resolved: resolved}
		visited := map[string]bool{resolved: true}
		if err := e.walkDir(ctx, sr, root, "", out, visited); err != nil {
			return nil, err
		}
	}

	e.logger().Info("enumeration complete",
		zap.Int("files", len(out.Records)),
		zap.Int("excluded", out.Excluded),
		zap.Int("errors", len(out.Errors)))
	return out, nil
}

func (e *Enumerator) walkDir(ctx context.Context, root scanRoot, dir, rel string, out *Enumeration, visited map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		e.recordError(out, dir, err)
		// ReadDir returns what it read before the failure
		if len(entries) == 0 {
			return nil
		}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		relPath := entry.Name()
		if rel != "" {
			relPath = filepath.Join(rel, entry.Name())
		}
		absPath := filepath.Join(root.abs, relPath)

		isDir := entry.IsDir()
		var info fs.FileInfo

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := e.followLink(root, path)
			if !ok {
				continue
			}
			isDir = target.IsDir()
			info = target
		}

		if e.Exclude.Excluded(relPath, absPath, isDir) {
			out.Excluded++
			continue
		}

		if isDir {
			if e.SymlinkMode != "" && e.SymlinkMode != SymlinkNone {
				realPath, err := filepath.EvalSymlinks(path)
				if err != nil {
					e.recordError(out, path, err)
					continue
				}
				if visited[realPath] {
					VerboseLog(2, "already walked %s, skipping %s", realPath, path)
					continue
				}
				visited[realPath] = true
			}
			if err := e.walkDir(ctx, root, path, relPath, out, visited); err != nil {
				return err
			}
			continue
		}

		if info == nil {
			if info, err = entry.Info(); err != nil {
				e.recordError(out, path, err)
				continue
			}
		}
		if !info.Mode().IsRegular() {
			continue
		}

		if IsDebugEnabled("scan") {
			VerboseLog(3, "found %s (%d bytes)", path, info.Size())
		}
		out.Records = append(out.Records, &FileRecord{Path: path, RelPath: relPath, Size: info.Size()})
	}
	return nil
}

// followLink applies the symlink mode and returns the target's info when the link
// should be treated as the entry it points to
func (e *Enumerator) followLink(root scanRoot, path string) (fs.FileInfo, bool) {
	switch e.SymlinkMode {
	case SymlinkAll:
	case SymlinkContained:
		target, err := filepath.EvalSymlinks(path)
		if err != nil || !isPathContained(target, root.resolved) {
			return nil, false
		}
	default:
		return nil, false
	}

	info, err := os.Stat(path)
	if err != nil {
		VerboseLog(2, "skipping broken symlink %s", path)
		return nil, false
	}
	return info, true
}

func (e *Enumerator) recordError(out *Enumeration, path string, err error) {
	enumErr := &EnumerationError{Path: path, Err: err}
	out.Errors = append(out.Errors, enumErr)
	e.logger().Warn("could not enumerate", zap.String("path", path), zap.Error(err))
}
