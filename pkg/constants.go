package dff

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the sample size used by partial hashing (64 KiB)
const DefaultChunkSize = 64 * 1024

// Default buffer size for full-content hashing reads
const DefaultHashBuffer = "2M"

// Default number of concurrent hash workers
const DefaultHashWorkers = 4

// Default config file name, looked up in the working directory
const DefaultConfigFile = ".dff.ini"

// Stage names, also used as report contexts
const (
	StageSize    = "size"
	StagePartial = "partial"
	StageFull    = "full"
)

// Symlink handling modes for the enumerator
const (
	SymlinkNone      = "none"
	SymlinkContained = "contained"
	SymlinkAll       = "all"
)

// Output formats
const (
	FormatJSON   = "json"
	FormatList   = "list"
	FormatYAML   = "yaml"
	FormatFdupes = "fdupes"
)

// HashMode selects whether a digest covers the whole file or a sampling of it
type HashMode int

const (
	HashModeFull HashMode = iota
	HashModePartial
)

func (m HashMode) String() string {
	switch m {
	case HashModeFull:
		return "full"
	case HashModePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// CompareDepth controls how many narrowing stages run
type CompareDepth int

const (
	CompareSizeOnly CompareDepth = iota
	CompareThroughPartial
	CompareThroughFull
)

// Method names as accepted on the command line and in the config file
const (
	MethodSize        = "size"
	MethodPartialHash = "partial-hash"
	MethodHash        = "hash"
)

func (d CompareDepth) String() string {
	switch d {
	case CompareSizeOnly:
		return MethodSize
	case CompareThroughPartial:
		return MethodPartialHash
	case CompareThroughFull:
		return MethodHash
	default:
		return "unknown"
	}
}

// ParseCompareDepth returns the depth for a method name (case-insensitive)
func ParseCompareDepth(name string) (CompareDepth, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MethodSize:
		return CompareSizeOnly, nil
	case MethodPartialHash, "partial":
		return CompareThroughPartial, nil
	case MethodHash, "full", "":
		return CompareThroughFull, nil
	default:
		return 0, fmt.Errorf("unsupported compare method: %s (supported: size, partial-hash, hash)", name)
	}
}
