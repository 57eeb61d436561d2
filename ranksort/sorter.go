package ranksort

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/anatawa12/nico-ranking-tools/video"
)

// scored pairs a record with its precomputed key so the sort comparator
// never recomputes it.
type scored struct {
	key uint64
	rec video.Record
}

// Sort applies filter (if non-nil) to blob, scores every survivor under
// mode, and returns a SortedBlob ordered descending by key, ties broken
// by content_id ascending (spec.md section 4.3). Sorting fans out across
// GOMAXPROCS partitions via errgroup, then k-way merges the sorted
// partitions back together — the same "split, sort concurrently, merge"
// shape spec.md section 5 asks for in place of Rust's Rayon
// `par_sort_by_key` (the stdlib has no parallel sort).
func Sort(mode Mode, filter Expr, blob *video.AggregatedBlob) (*video.SortedBlob, error) {
	survivors := make([]scored, 0, len(blob.Records))
	for _, r := range blob.Records {
		if filter != nil && !filter.Eval(r) {
			continue
		}
		survivors = append(survivors, scored{key: Score(mode, r), rec: r})
	}

	sorted, err := parallelSort(survivors)
	if err != nil {
		return nil, err
	}

	out := make([]video.SortedRecord, len(sorted))
	for i, s := range sorted {
		out[i] = video.SortedRecord{Record: s.rec, Key: s.key}
	}
	return &video.SortedBlob{LastModified: blob.LastModified, Records: out}, nil
}

func less(a, b scored) bool {
	if a.key != b.key {
		return a.key > b.key
	}
	return a.rec.ContentID < b.rec.ContentID
}

// parallelSort splits items into GOMAXPROCS partitions, sorts each
// concurrently, and merges the results.
func parallelSort(items []scored) ([]scored, error) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if len(items) < workers*2 {
		workers = 1
	}

	partitions := make([][]scored, workers)
	chunk := (len(items) + workers - 1) / workers
	if chunk == 0 {
		chunk = 1
	}
	for i := 0; i < workers; i++ {
		start := i * chunk
		if start >= len(items) {
			partitions[i] = nil
			continue
		}
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		part := make([]scored, end-start)
		copy(part, items[start:end])
		partitions[i] = part
	}

	var group errgroup.Group
	for i := range partitions {
		part := partitions[i]
		group.Go(func() error {
			sort.Slice(part, func(a, b int) bool { return less(part[a], part[b]) })
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return mergeSortedPartitions(partitions), nil
}

// mergeSortedPartitions k-way merges already-sorted partitions, each
// ordered by the same `less` comparator.
func mergeSortedPartitions(partitions [][]scored) []scored {
	total := 0
	idx := make([]int, len(partitions))
	for _, p := range partitions {
		total += len(p)
	}
	out := make([]scored, 0, total)

	for {
		best := -1
		for i, p := range partitions {
			if idx[i] >= len(p) {
				continue
			}
			if best == -1 || less(p[idx[i]], partitions[best][idx[best]]) {
				best = i
			}
		}
		if best == -1 {
			break
		}
		out = append(out, partitions[best][idx[best]])
		idx[best]++
	}
	return out
}
