package repository

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/ladder/internal/domain/model"
)

// nameIndex is the name-ordered view over the user table. It is built
// once at population time and never mutated afterwards (usernames are
// immutable), so reads under the engine's shared lock need no extra
// synchronization.
//
// buckets partitions the sorted slice by leading byte of the normalized
// username. Each bucket is a contiguous sub-slice view, internally
// sorted, so a prefix lookup binary-searches one bucket instead of the
// whole index.
type nameIndex struct {
	sorted  []*model.User
	buckets map[byte][]*model.User
}

// normalizeUsername folds a name into the form the index is sorted by.
func normalizeUsername(s string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))
}

func buildNameIndex(users []*model.User) *nameIndex {
	sorted := make([]*model.User, len(users))
	copy(sorted, users)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].UsernameLower != sorted[j].UsernameLower {
			return sorted[i].UsernameLower < sorted[j].UsernameLower
		}
		return sorted[i].ID < sorted[j].ID
	})

	// Equal leading bytes are adjacent in sorted order, so each bucket
	// is a single contiguous run.
	buckets := make(map[byte][]*model.User)
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || leadByte(sorted[i]) != leadByte(sorted[start]) {
			buckets[leadByte(sorted[start])] = sorted[start:i]
			start = i
		}
	}

	return &nameIndex{sorted: sorted, buckets: buckets}
}

func leadByte(u *model.User) byte {
	return u.UsernameLower[0]
}

// collect returns up to limit users whose normalized username starts
// with query. It binary-searches the bucket for the query's leading
// byte when one exists, falling back to the full index otherwise, then
// scans forward until the first non-match: sorted order guarantees no
// matches remain past that point.
func (ix *nameIndex) collect(query string, limit int) []*model.User {
	list := ix.sorted
	if bucket, ok := ix.buckets[query[0]]; ok {
		list = bucket
	}

	start := sort.Search(len(list), func(i int) bool {
		return list[i].UsernameLower >= query
	})

	var out []*model.User
	for i := start; i < len(list); i++ {
		if !strings.HasPrefix(list[i].UsernameLower, query) {
			break
		}
		out = append(out, list[i])
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (ix *nameIndex) bucketCount() int {
	return len(ix.buckets)
}

func (ix *nameIndex) bucketSizes() map[string]int {
	sizes := make(map[string]int, len(ix.buckets))
	for b, bucket := range ix.buckets {
		sizes[string(b)] = len(bucket)
	}
	return sizes
}
