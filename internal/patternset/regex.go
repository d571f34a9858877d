package patternset

import (
	"fmt"
	"regexp"
)

// RegexSet evaluates every compiled pattern against each input. Exact but
// O(N) per scan; a reasonable engine for small catalogs.
type RegexSet struct {
	ids      []int
	patterns []*regexp.Regexp
}

func (s *RegexSet) Compile(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmpty
	}
	ids := make([]int, 0, len(entries))
	patterns := make([]*regexp.Regexp, 0, len(entries))
	for _, e := range entries {
		re, err := regexp.Compile(e.Expr)
		if err != nil {
			return fmt.Errorf("patternset: pattern for id %d: %w", e.ID, err)
		}
		ids = append(ids, e.ID)
		patterns = append(patterns, re)
	}
	s.ids, s.patterns = ids, patterns
	return nil
}

func (s *RegexSet) Scan(text string, fn func(id int)) {
	for i, re := range s.patterns {
		if re.MatchString(text) {
			fn(s.ids[i])
		}
	}
}
