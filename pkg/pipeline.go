package dff

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// StageStats records what one stage did
type StageStats struct {
	Name      string
	Summary   string
	Input     int
	Survivors int
	Groups    int
	Failed    int
	Elapsed   time.Duration
}

// Result is the outcome of a complete pipeline run. It is only ever returned once
// every requested stage has finished.
type Result struct {
	Depth      CompareDepth
	TotalFiles int
	Groups     []DuplicateGroup
	Stages     []StageStats
	Elapsed    time.Duration
}

// DuplicateCount returns the number of files that belong to a duplicate group
func (r *Result) DuplicateCount() int {
	return countFiles(r.Groups)
}

// HasDuplicates reports whether any group was found
func (r *Result) HasDuplicates() bool {
	return len(r.Groups) > 0
}

// Pipeline narrows a file set to groups of duplicates by size, partial hash and full hash
type Pipeline struct {
	Hasher   *Hasher
	Workers  int // concurrent hash workers; <= 1 hashes sequentially
	Reporter Reporter
	Logger   *zap.Logger
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) reporter() Reporter {
	if p.Reporter == nil {
		return NopReporter{}
	}
	return p.Reporter
}

func (p *Pipeline) hasher() *Hasher {
	if p.Hasher == nil {
		p.Hasher = NewHasher(nil, 0, 0)
	}
	return p.Hasher
}

// Run executes the stages for depth over records. Cancellation is observed between
// stages and while hashing; a cancelled run returns ctx.Err() and no result.
func (p *Pipeline) Run(ctx context.Context, records []*FileRecord, depth CompareDepth) (*Result, error) {
	defer VerboseEnter()()
	start := time.Now()
	log := p.logger()

	h := p.hasher()
	log.Info("comparing files",
		zap.Int("files", len(records)),
		zap.String("algorithm", h.Algorithm.Name),
		zap.String("chunk_size", FormatHumanSize(h.ChunkSize)))

	result := &Result{Depth: depth, TotalFiles: len(records)}
	working := records
	var buckets []Bucket[StageKey]
	var last Stage

	for _, stage := range StagesFor(depth, h) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		last = stage
		stats := StageStats{Name: stage.Name, Summary: stage.Summary, Input: len(working)}
		stageStart := time.Now()

		if len(working) == 0 {
			buckets = nil
		} else {
			keys, ok := p.computeKeys(ctx, stage, working)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for i := range ok {
				if !ok[i] {
					stats.Failed++
				}
			}
			buckets = bucketize(working, keys, ok)
			working = Survivors(buckets)
		}

		stats.Survivors = len(working)
		stats.Groups = len(buckets)
		stats.Elapsed = time.Since(stageStart)
		result.Stages = append(result.Stages, stats)

		log.Info("stage complete",
			zap.String("stage", stage.Name),
			zap.Int("input", stats.Input),
			zap.Int("survivors", stats.Survivors),
			zap.Int("failed", stats.Failed),
			zap.Duration("elapsed", stats.Elapsed))
	}

	result.Groups = buildReport(buckets, last)
	result.Elapsed = time.Since(start)
	return result, nil
}

// computeKeys evaluates the stage key for every record. Keys land in a slice indexed
// like records, so bucketing afterwards is independent of worker scheduling.
func (p *Pipeline) computeKeys(ctx context.Context, stage Stage, records []*FileRecord) ([]StageKey, []bool) {
	keys := make([]StageKey, len(records))
	ok := make([]bool, len(records))
	errs := make([]error, len(records))

	reporter := p.reporter()
	reporter.StartStage(stage.Label, len(records))
	defer reporter.FinishStage()

	eval := func(i int) {
		k, err := stage.Key(ctx, records[i])
		if err != nil {
			errs[i] = err
		} else {
			keys[i], ok[i] = k, true
		}
		reporter.Advance(1)
	}

	if !stage.Hashes || p.Workers <= 1 {
		for i := range records {
			if ctx.Err() != nil {
				break
			}
			eval(i)
		}
	} else {
		sem := semaphore.NewWeighted(int64(p.Workers))
		var wg sync.WaitGroup
		for i := range records {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer sem.Release(1)
				eval(i)
			}(i)
		}
		wg.Wait()
	}

	log := p.logger()
	for i, err := range errs {
		if err != nil && ctx.Err() == nil {
			log.Warn("could not hash file, excluding it from comparison",
				zap.String("path", records[i].Path),
				zap.String("stage", stage.Name),
				zap.Error(err))
		}
	}
	return keys, ok
}
