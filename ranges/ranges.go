// Package ranges implements ordered sets of 1-based packet ordinals,
// built from command-line text like "1,5,10-30".
package ranges

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mode controls how Keep interprets membership.
type Mode int

const (
	// Include keeps only ordinals in the set.
	Include Mode = iota
	// Exclude keeps only ordinals not in the set.
	Exclude
)

type span struct {
	lo, hi uint64
}

// Set is an immutable ordinal set. Spans are sorted and coalesced at
// parse time so Contains is a binary search.
type Set struct {
	mode  Mode
	spans []span
}

// Parse builds a Set from a comma-separated list of ordinals and
// inclusive ranges, e.g. "1,5,10-30". Ordinals are 1-based.
func Parse(text string, mode Mode) (*Set, error) {
	parts := strings.Split(text, ",")
	spans := make([]span, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.Errorf("empty entry in ordinal list %q", text)
		}

		var sp span
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			var err error
			if sp.lo, err = parseOrdinal(lo); err != nil {
				return nil, err
			}
			if sp.hi, err = parseOrdinal(hi); err != nil {
				return nil, err
			}
			if sp.lo > sp.hi {
				return nil, errors.Errorf("backwards range %q", part)
			}
		} else {
			n, err := parseOrdinal(part)
			if err != nil {
				return nil, err
			}
			sp = span{n, n}
		}
		spans = append(spans, sp)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	// Coalesce overlapping and adjacent spans.
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.lo <= last.hi+1 {
			if sp.hi > last.hi {
				last.hi = sp.hi
			}
		} else {
			merged = append(merged, sp)
		}
	}

	return &Set{mode: mode, spans: merged}, nil
}

func parseOrdinal(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad ordinal %q", s)
	}
	if n == 0 {
		return 0, errors.New("packet ordinals are 1-based; 0 is not valid")
	}
	return n, nil
}

// Mode reports how the set was configured.
func (s *Set) Mode() Mode {
	return s.mode
}

// Contains reports whether n is a member of the set.
func (s *Set) Contains(n uint64) bool {
	i := sort.Search(len(s.spans), func(i int) bool { return s.spans[i].hi >= n })
	return i < len(s.spans) && s.spans[i].lo <= n
}

// Keep reports whether a packet with ordinal n should be processed
// under the set's include/exclude mode.
func (s *Set) Keep(n uint64) bool {
	if s.mode == Include {
		return s.Contains(n)
	}
	return !s.Contains(n)
}
