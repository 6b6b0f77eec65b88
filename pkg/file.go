package dff

import (
	"encoding/hex"
	"sync"
)

// Digest is the raw output of a hash algorithm over file content
type Digest []byte

// String returns the lowercase hex form of the digest
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// FileRecord is one regular file under consideration.
// Path and Size are fixed at discovery time; digests are attached by hashing stages.
type FileRecord struct {
	Path string
	Size int64

	// RelPath is the path relative to the scan root it was found under.
	RelPath string

	mu      sync.Mutex
	digests [2]Digest // indexed by HashMode
}

// NewFileRecord creates a record for a file of the given size
func NewFileRecord(path string, size int64) *FileRecord {
	return &FileRecord{Path: path, Size: size}
}

// Digest returns the cached digest for mode, or nil when none has been computed
func (r *FileRecord) Digest(mode HashMode) Digest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.digests[mode]
}

// setDigest caches a digest for mode; an existing digest for that mode is never replaced
func (r *FileRecord) setDigest(mode HashMode, d Digest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.digests[mode] == nil {
		r.digests[mode] = d
	}
}

// Paths returns the paths of records in order
func Paths(records []*FileRecord) []string {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	return paths
}
