package dff

import (
	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// reportKey orders groups by size, then by the order they were added
type reportKey struct {
	size int64
	seq  int
}

// reportIndex keeps duplicate groups sorted for output. The skiplist context carries
// the name of the stage that produced each group.
type reportIndex struct {
	skiplist *zcsl.ZeroCopySkiplist[DuplicateGroup, reportKey, string]
	next     int
}

func newReportIndex(maxLevels int) *reportIndex {
	if maxLevels < 8 {
		maxLevels = 16
	}

	getKeyFromItem := func(g *DuplicateGroup) reportKey {
		return reportKey{size: g.Size, seq: g.seq}
	}

	getItemSize := func(g *DuplicateGroup) int {
		return len(g.Paths)
	}

	cmpKey := func(a, b reportKey) int {
		switch {
		case a.size < b.size:
			return -1
		case a.size > b.size:
			return 1
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	}

	return &reportIndex{
		skiplist: zcsl.MakeZeroCopySkiplist[DuplicateGroup, reportKey, string](
			maxLevels,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// Insert adds a group; groups of equal size keep insertion order
func (ri *reportIndex) Insert(group DuplicateGroup, stage string) bool {
	group.seq = ri.next
	ri.next++
	return ri.skiplist.Insert(&group, stage)
}

// ForEach iterates groups in report order
func (ri *reportIndex) ForEach(callback func(*DuplicateGroup, string) bool) {
	for current := ri.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item(), current.Context()) {
			break
		}
	}
}

// Length returns the number of groups
func (ri *reportIndex) Length() int {
	return ri.skiplist.Length()
}

// Groups returns a copy of the groups in report order
func (ri *reportIndex) Groups() []DuplicateGroup {
	groups := make([]DuplicateGroup, 0, ri.Length())
	ri.ForEach(func(g *DuplicateGroup, _ string) bool {
		groups = append(groups, *g)
		return true
	})
	return groups
}
