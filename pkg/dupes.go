package dff

// DuplicateGroup represents a set of files sharing size and, when hashed, content digest.
// Hash is nil when only sizes were compared.
type DuplicateGroup struct {
	Hash  *string  `json:"hash" yaml:"hash"`
	Size  int64    `json:"size" yaml:"size"`
	Paths []string `json:"paths" yaml:"paths"`

	seq int
}

// Count returns the number of files in the group
func (g DuplicateGroup) Count() int {
	return len(g.Paths)
}

// buildReport converts the last stage's buckets into groups ordered by ascending size,
// ties broken by bucket order
func buildReport(buckets []Bucket[StageKey], stage Stage) []DuplicateGroup {
	index := newReportIndex(16)
	for _, b := range buckets {
		group := DuplicateGroup{
			Size:  b.Key.Size,
			Paths: Paths(b.Records),
		}
		if stage.Hashes {
			hash := Digest(b.Key.Digest).String()
			group.Hash = &hash
		}
		index.Insert(group, stage.Name)
	}
	return index.Groups()
}

// countFiles returns the total number of paths across groups
func countFiles(groups []DuplicateGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Paths)
	}
	return n
}
