package access

import (
	"strconv"
	"strings"
)

// The permission tables store id lists as comma-separated strings. Parsing is
// deliberately lenient: blank, non-numeric and non-positive tokens are
// dropped, surrounding whitespace is trimmed, and a bad fragment never fails
// the request.

// IDSet is a membership set of numeric ids.
type IDSet map[int64]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// ParseIDList parses a CSV id string into an ordered, de-duplicated slice.
// The empty string parses to an empty (non-nil) slice.
func ParseIDList(s string) []int64 {
	ids := make([]int64, 0)
	seen := make(IDSet)
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if seen.Has(id) {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ParseIDSet parses a CSV id string into a membership set.
func ParseIDSet(s string) IDSet {
	set := make(IDSet)
	for _, id := range ParseIDList(s) {
		set[id] = struct{}{}
	}
	return set
}
