package registry

import (
	"slices"
	"sort"

	"github.com/arthur-debert/hasscleanup/pkg/logging"
)

// Valuer is a record whose string fields can be looked up by name
type Valuer interface {
	Value(field string) (string, bool)
}

// FindMatchingIndices returns, in ascending order, the indices of records
// whose field equals target. With stopAtFirst only the first match is
// returned. No match yields an empty, non-nil slice.
func FindMatchingIndices[T Valuer](records []T, target, field string, stopAtFirst bool) []int {
	found := []int{}
	for i, rec := range records {
		v, ok := rec.Value(field)
		if !ok || v != target {
			continue
		}
		found = append(found, i)
		if stopAtFirst {
			break
		}
	}

	log := logging.GetLogger("registry")
	log.Debug().
		Str("field", field).
		Str("target", target).
		Ints("indices", found).
		Msg("Matching records found")
	return found
}

// RemoveByIndices removes the records at indices, highest index first, so
// each removal leaves the positions of the remaining targets intact.
// Duplicate and out-of-range indices are ignored. It returns the shortened
// slice and the number of records removed.
func RemoveByIndices[T any](records []T, indices []int, label string) ([]T, int) {
	if len(indices) == 0 {
		return records, 0
	}
	log := logging.GetLogger("registry")

	ordered := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	removed := 0
	last := -1
	for _, idx := range ordered {
		if idx == last || idx < 0 || idx >= len(records) {
			continue
		}
		last = idx
		records = slices.Delete(records, idx, idx+1)
		removed++
		log.Debug().Int("index", idx).Str("from", label).Msg("Removing record")
	}
	return records, removed
}
