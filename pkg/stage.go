package dff

import "context"

// StageKey is the partition key of every stage. Size-only stages leave Digest empty;
// hashing stages carry the raw digest bytes alongside the size.
type StageKey struct {
	Size   int64
	Digest string
}

// Stage describes one narrowing pass: how to key a record and how to talk about it
type Stage struct {
	Name    string // StageSize, StagePartial or StageFull
	Label   string // progress label
	Summary string // completes "Found N files ..."
	Hashes  bool   // key function reads file content
	Key     func(ctx context.Context, rec *FileRecord) (StageKey, error)
}

// StagesFor returns the ordered stage list for depth. The list is always a prefix of
// size, partial hash, full hash.
func StagesFor(depth CompareDepth, h *Hasher) []Stage {
	stages := []Stage{{
		Name:    StageSize,
		Label:   "Comparing file sizes",
		Summary: "files with matching sizes",
		Key: func(_ context.Context, rec *FileRecord) (StageKey, error) {
			return StageKey{Size: rec.Size}, nil
		},
	}}
	if depth >= CompareThroughPartial {
		stages = append(stages, hashStage(StagePartial, "Calculating partial hashes",
			"files with partial hashes that match other files", h, HashModePartial))
	}
	if depth >= CompareThroughFull {
		stages = append(stages, hashStage(StageFull, "Calculating full hashes",
			"files with hashes that match other files", h, HashModeFull))
	}
	return stages
}

func hashStage(name, label, summary string, h *Hasher, mode HashMode) Stage {
	return Stage{
		Name:    name,
		Label:   label,
		Summary: summary,
		Hashes:  true,
		Key: func(ctx context.Context, rec *FileRecord) (StageKey, error) {
			d, err := h.Hash(ctx, rec, mode)
			if err != nil {
				return StageKey{}, err
			}
			return StageKey{Size: rec.Size, Digest: string(d)}, nil
		},
	}
}
