// Package dff finds duplicate files by narrowing candidates in stages.
//
// Files are first grouped by size. Groups of two or more are then hashed over a
// sampled prefix, middle and suffix, and the survivors of that pass are hashed in
// full. Each stage only sees what the previous stage could not rule out.
//
// # Core API
//
//	roots, err := dff.ResolveRoots([]string{"~/Pictures", "/mnt/backup"}, logger)
//	enum := &dff.Enumerator{Exclude: excludes, Logger: logger}
//	found, err := enum.Enumerate(ctx, roots)
//
//	p := &dff.Pipeline{Hasher: dff.NewHasher(nil, 0, 0), Workers: 4, Logger: logger}
//	result, err := p.Run(ctx, found.Records, dff.CompareThroughFull)
//	err = dff.Render(os.Stdout, dff.FormatJSON, result.Groups)
//
// # Exclusion
//
// Exclude patterns are globs in which * and ? never cross a path separator, ** spans
// whole path segments, and a trailing separator restricts a pattern to directories.
// Both / and \ are separators. An excluded directory prunes its whole subtree.
//
//	es, err := dff.NewExcludeSet([]string{"**/.*", "*.tmp", "build/"}, dff.DefaultMatchOptions())
//
// # Configuration
//
// Settings live in an INI file (see LoadConfig). Command-line values are applied on
// top with ApplyOverrides:
//
//	cfg, err := dff.LoadConfig(".dff.ini")
//	err = cfg.ApplyOverrides([]string{"method:partial-hash", "format:list"})
//
// Enable debug output:
//
//	dff.SetDebugFlags("hash,exclude")
//	dff.SetVerboseLevel(2)
package dff
