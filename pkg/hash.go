package dff

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	Size    int
	NewFunc func() hash.Hash
}

// DefaultHashAlgorithm keeps output digests compatible with earlier dff releases
const DefaultHashAlgorithm = "md5"

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "md5", "":
		return &HashAlgorithm{Name: "md5", Size: md5.Size, NewFunc: md5.New}, nil
	case "sha1":
		return &HashAlgorithm{Name: "sha1", Size: sha1.Size, NewFunc: sha1.New}, nil
	case "sha256":
		return &HashAlgorithm{Name: "sha256", Size: sha256.Size, NewFunc: sha256.New}, nil
	case "sha512":
		return &HashAlgorithm{Name: "sha512", Size: sha512.Size, NewFunc: sha512.New}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// EmptyDigest returns the digest of zero bytes of content
func (a *HashAlgorithm) EmptyDigest() Digest {
	return a.NewFunc().Sum(nil)
}

// Hasher computes content digests of file records, either over the whole file or over
// a fixed head/middle/tail sampling of it.
type Hasher struct {
	Algorithm  *HashAlgorithm
	ChunkSize  int64 // partial hashing sample size
	BufferSize int   // read buffer for full hashing

	empty Digest
}

// NewHasher creates a hasher; zero sizes fall back to the defaults
func NewHasher(algorithm *HashAlgorithm, chunkSize int64, bufferSize int) *Hasher {
	if algorithm == nil {
		algorithm, _ = GetHashAlgorithm(DefaultHashAlgorithm)
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if bufferSize <= 0 {
		bufferSize, _ = ParseHumanSize(DefaultHashBuffer)
	}
	return &Hasher{
		Algorithm:  algorithm,
		ChunkSize:  chunkSize,
		BufferSize: bufferSize,
		empty:      algorithm.EmptyDigest(),
	}
}

// SamplingThreshold is the largest size for which partial and full digests are the same
func (h *Hasher) SamplingThreshold() int64 {
	return 3 * h.ChunkSize
}

// ModesEquivalent reports whether partial and full hashing read the same bytes for a
// file of this size. When true the two digests are interchangeable.
func (h *Hasher) ModesEquivalent(size int64) bool {
	return size <= h.SamplingThreshold()
}

// EmptyDigest returns the digest shared by every zero-byte file
func (h *Hasher) EmptyDigest() Digest {
	return h.empty
}

// Hash returns the digest of rec for mode. Zero-byte files get the empty digest without
// any I/O. A digest already cached on the record for mode is reused; for files where the
// modes are equivalent, a digest cached for the other mode is reused too.
func (h *Hasher) Hash(ctx context.Context, rec *FileRecord, mode HashMode) (Digest, error) {
	if rec.Size == 0 {
		return h.empty, nil
	}
	if d := rec.Digest(mode); d != nil {
		return d, nil
	}

	equivalent := h.ModesEquivalent(rec.Size)
	other := HashModeFull
	if mode == HashModeFull {
		other = HashModePartial
	}
	if equivalent {
		if d := rec.Digest(other); d != nil {
			rec.setDigest(mode, d)
			return d, nil
		}
	}

	var digest Digest
	var err error
	if mode == HashModeFull || equivalent {
		digest, err = HashFileInterruptible(ctx, rec.Path, h.Algorithm, h.BufferSize)
	} else {
		digest, err = h.hashSampled(rec)
	}
	if err != nil {
		return nil, &HashError{Path: rec.Path, Mode: mode, Err: err}
	}

	rec.setDigest(mode, digest)
	if equivalent {
		rec.setDigest(other, digest)
	}
	return digest, nil
}

// sampleOffsets returns the head, middle and tail window offsets for a file of size
func (h *Hasher) sampleOffsets(size int64) [3]int64 {
	return [3]int64{0, size/2 - h.ChunkSize/2, size - h.ChunkSize}
}

// hashSampled digests the head, middle and tail windows concatenated in that order
func (h *Hasher) hashSampled(rec *FileRecord) (Digest, error) {
	file, err := os.Open(rec.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	adviseAccess(file, HashModePartial)

	chunk := h.ChunkSize
	buf := make([]byte, 3*chunk)
	filled := 0
	for _, off := range h.sampleOffsets(rec.Size) {
		n, err := file.ReadAt(buf[filled:filled+int(chunk)], off)
		filled += n
		// a file that shrank after discovery is hashed as read
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read at offset %d: %w", off, err)
		}
	}

	hasher := h.Algorithm.NewFunc()
	hasher.Write(buf[:filled])
	return hasher.Sum(nil), nil
}

// HashFileInterruptible calculates the hash of a file using a configurable buffer size
// and checks for cancellation between buffer reads
func HashFileInterruptible(ctx context.Context, filePath string, algorithm *HashAlgorithm, bufferSize int) (Digest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()
	adviseAccess(file, HashModeFull)

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("hash of %s interrupted: %w", filePath, err)
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum(nil), nil
}

// adviseAccess tells the kernel how the file is about to be read. Advice is best effort.
func adviseAccess(file *os.File, mode HashMode) {
	advice := unix.FADV_SEQUENTIAL
	if mode == HashModePartial {
		advice = unix.FADV_RANDOM
	}
	if err := unix.Fadvise(int(file.Fd()), 0, 0, advice); err != nil && IsDebugEnabled("hash") {
		VerboseLog(3, "fadvise %s: %v", file.Name(), err)
	}
}
