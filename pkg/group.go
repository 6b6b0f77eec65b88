package dff

// Bucket is the ordered set of records sharing one key
type Bucket[K comparable] struct {
	Key     K
	Records []*FileRecord
}

// GroupBy partitions records by keyFn and keeps only keys shared by two or more records.
//
// Buckets come out in order of each key's first occurrence and members keep input order.
// A record whose key function fails is left out entirely: the failure never becomes a
// key, so unreadable files cannot form a bucket with each other.
func GroupBy[K comparable](records []*FileRecord, keyFn func(*FileRecord) (K, error)) []Bucket[K] {
	keys := make([]K, len(records))
	ok := make([]bool, len(records))
	for i, rec := range records {
		k, err := keyFn(rec)
		if err != nil {
			continue
		}
		keys[i], ok[i] = k, true
	}
	return bucketize(records, keys, ok)
}

// bucketize groups records by precomputed keys; ok[i] false drops records[i]
func bucketize[K comparable](records []*FileRecord, keys []K, ok []bool) []Bucket[K] {
	index := make(map[K]int)
	var buckets []Bucket[K]
	for i, rec := range records {
		if !ok[i] {
			continue
		}
		pos, seen := index[keys[i]]
		if !seen {
			pos = len(buckets)
			index[keys[i]] = pos
			buckets = append(buckets, Bucket[K]{Key: keys[i]})
		}
		buckets[pos].Records = append(buckets[pos].Records, rec)
	}

	kept := buckets[:0]
	for _, b := range buckets {
		if len(b.Records) > 1 {
			kept = append(kept, b)
		}
	}
	return kept
}

// Survivors flattens buckets back into a working set, bucket by bucket
func Survivors[K comparable](buckets []Bucket[K]) []*FileRecord {
	n := 0
	for _, b := range buckets {
		n += len(b.Records)
	}
	out := make([]*FileRecord, 0, n)
	for _, b := range buckets {
		out = append(out, b.Records...)
	}
	return out
}
