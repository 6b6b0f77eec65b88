package dff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// buildTree writes files relative to a fresh temp dir and returns the dir
func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func enumerate(t *testing.T, root string, patterns ...string) []*FileRecord {
	t.Helper()
	es, err := NewExcludeSet(patterns, MatchOptions{})
	require.NoError(t, err)
	e := &Enumerator{Exclude: es}
	found, err := e.Enumerate(context.Background(), []string{root})
	require.NoError(t, err)
	return found.Records
}

func TestPipelineHelloWorld(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a.txt": "hello",
		"b.txt": "hello",
		"c.txt": "world",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	group := result.Groups[0]
	require.NotNil(t, group.Hash)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", *group.Hash)
	assert.Equal(t, int64(5), group.Size)
	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")}, group.Paths)

	require.Len(t, result.Stages, 3)
	assert.Equal(t, 3, result.Stages[0].Survivors, "all three files share a size")
	assert.Equal(t, 2, result.Stages[1].Survivors, "c.txt is dropped once content is compared")
	assert.Equal(t, 2, result.Stages[2].Survivors)
	assert.Equal(t, 2, result.DuplicateCount())
	assert.True(t, result.HasDuplicates())
}

func TestPipelineEmptyFilesCollapse(t *testing.T) {
	root := buildTree(t, map[string]string{
		"empty1":       "",
		"sub/empty2":   "",
		"deep/x/empty": "",
		"nonempty":     "data",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	group := result.Groups[0]
	require.NotNil(t, group.Hash)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", *group.Hash)
	assert.Equal(t, int64(0), group.Size)
	assert.Len(t, group.Paths, 3)
}

func TestPipelineExcludedFileNeverReported(t *testing.T) {
	root := buildTree(t, map[string]string{
		"dup.txt": "same content",
		"dup.tmp": "same content",
		"one.txt": "other",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root, "*.tmp"), CompareThroughFull)
	require.NoError(t, err)

	assert.Empty(t, result.Groups)
	assert.False(t, result.HasDuplicates())
}

func TestPipelineUnreadableFileIsolation(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a.txt": "hello",
		"b.txt": "hello",
		"x.txt": "hello",
		"y.txt": "other",
		"z.txt": "other",
	})
	records := enumerate(t, root)

	// x.txt disappears between enumeration and hashing
	require.NoError(t, os.Remove(filepath.Join(root, "x.txt")))

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), records, CompareThroughFull)
	require.NoError(t, err)

	require.Len(t, result.Groups, 2)
	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")}, result.Groups[0].Paths)
	assert.Equal(t, []string{filepath.Join(root, "y.txt"), filepath.Join(root, "z.txt")}, result.Groups[1].Paths)
	for _, g := range result.Groups {
		assert.NotContains(t, g.Paths, filepath.Join(root, "x.txt"))
	}
	assert.Equal(t, 1, result.Stages[1].Failed)
}

func TestPipelineIdempotent(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a":     "1111",
		"b":     "1111",
		"c/d":   "1111",
		"c/e":   "22",
		"f":     "22",
		"g/h/i": "333",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0), Workers: 4}
	first, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	assert.Equal(t, first.Groups, second.Groups)
}

func TestPipelineWorkersDoNotChangeResult(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("d%d/f%02d", i%5, i)
		files[name] = strconv.Itoa(i % 4)
	}
	root := buildTree(t, files)

	sequential := &Pipeline{Hasher: NewHasher(nil, 0, 0), Workers: 1}
	parallel := &Pipeline{Hasher: NewHasher(nil, 0, 0), Workers: 8}

	want, err := sequential.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)
	got, err := parallel.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	assert.Equal(t, want.Groups, got.Groups)
	assert.Len(t, got.Groups, 4)
}

func TestPipelineMonotonicNarrowing(t *testing.T) {
	const chunk = 8
	base := bytes.Repeat([]byte{'.'}, 100)
	variant := append([]byte(nil), base...)
	variant[20] = '!' // outside every sampled window

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "base1"), base, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "base2"), base, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "variant"), variant, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lonely"), []byte("x"), 0644))

	p := &Pipeline{Hasher: NewHasher(nil, chunk, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	require.Len(t, result.Stages, 3)
	assert.Equal(t, 4, result.Stages[0].Input)
	assert.Equal(t, 3, result.Stages[0].Survivors)
	assert.Equal(t, 3, result.Stages[1].Survivors, "variant matches on sampled chunks")
	assert.Equal(t, 2, result.Stages[2].Survivors, "variant is split off by the full hash")

	for i := 1; i < len(result.Stages); i++ {
		assert.Equal(t, result.Stages[i-1].Survivors, result.Stages[i].Input)
		assert.LessOrEqual(t, result.Stages[i].Survivors, result.Stages[i].Input)
	}

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{filepath.Join(root, "base1"), filepath.Join(root, "base2")}, result.Groups[0].Paths)
}

func TestPipelineSizeOnly(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a": "abc",
		"b": "xyz",
		"c": "longer",
		"d": "widest",
		"e": "q",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root), CompareSizeOnly)
	require.NoError(t, err)

	require.Len(t, result.Stages, 1)
	require.Len(t, result.Groups, 2)
	for _, g := range result.Groups {
		assert.Nil(t, g.Hash, "size-only groups carry no hash")
	}
	assert.Equal(t, int64(3), result.Groups[0].Size)
	assert.Equal(t, int64(6), result.Groups[1].Size)
}

func TestPipelinePartialDepth(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a": "same",
		"b": "same",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root), CompareThroughPartial)
	require.NoError(t, err)

	require.Len(t, result.Stages, 2)
	assert.Equal(t, StagePartial, result.Stages[1].Name)
	require.Len(t, result.Groups, 1)
	assert.NotNil(t, result.Groups[0].Hash)
}

func TestPipelineGroupsOrderedBySize(t *testing.T) {
	root := buildTree(t, map[string]string{
		"big1":   "0123456789",
		"big2":   "0123456789",
		"small1": "ab",
		"small2": "ab",
		"mid1":   "abcde",
		"mid2":   "abcde",
	})

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0)}
	result, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	require.Len(t, result.Groups, 3)
	assert.Equal(t, int64(2), result.Groups[0].Size)
	assert.Equal(t, int64(5), result.Groups[1].Size)
	assert.Equal(t, int64(10), result.Groups[2].Size)
}

func TestPipelineCancelled(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a": "hello",
		"b": "hello",
	})
	records := enumerate(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{Hasher: NewHasher(nil, 0, 0), Workers: 4}
	result, err := p.Run(ctx, records, CompareThroughFull)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestPipelineEmptyInput(t *testing.T) {
	p := &Pipeline{}
	result, err := p.Run(context.Background(), nil, CompareThroughFull)
	require.NoError(t, err)

	assert.Empty(t, result.Groups)
	assert.Equal(t, 0, result.TotalFiles)
	assert.Len(t, result.Stages, 3)
}

type countingReporter struct {
	labels   []string
	advanced int
	finished int
}

func (r *countingReporter) StartStage(label string, total int) { r.labels = append(r.labels, label) }
func (r *countingReporter) Advance(n int)                      { r.advanced += n }
func (r *countingReporter) FinishStage()                       { r.finished++ }

func TestPipelineReportsProgress(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a": "hello",
		"b": "hello",
		"c": "x",
	})

	reporter := &countingReporter{}
	p := &Pipeline{Hasher: NewHasher(nil, 0, 0), Reporter: reporter}
	_, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	assert.Equal(t, []string{"Comparing file sizes", "Calculating partial hashes", "Calculating full hashes"}, reporter.labels)
	assert.Equal(t, 3+2+2, reporter.advanced)
	assert.Equal(t, 3, reporter.finished)
}

func TestPipelineLogsHashSettings(t *testing.T) {
	root := buildTree(t, map[string]string{"a": "same", "b": "same"})

	core, logs := observer.New(zap.InfoLevel)
	p := &Pipeline{Hasher: NewHasher(nil, 64*1024, 0), Logger: zap.New(core)}
	_, err := p.Run(context.Background(), enumerate(t, root), CompareThroughFull)
	require.NoError(t, err)

	started := logs.FilterMessage("comparing files").All()
	require.Len(t, started, 1)
	fields := started[0].ContextMap()
	assert.Equal(t, int64(2), fields["files"])
	assert.Equal(t, "md5", fields["algorithm"])
	assert.Equal(t, "64K", fields["chunk_size"])
}
