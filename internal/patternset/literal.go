package patternset

import (
	"fmt"
	"regexp"

	"github.com/cloudflare/ahocorasick"
)

// LiteralSet prefilters with a single Aho-Corasick pass over every
// template's literal fragments. An id becomes a candidate when all of its
// fragments occur somewhere in the input; ids with no literal fragments
// are always candidates. Weaker than regex matching, which is fine: the
// registry re-validates every candidate anyway.
type LiteralSet struct {
	matcher *ahocorasick.Matcher
	byFrag  [][]int     // fragment index -> ids requiring that fragment
	need    map[int]int // id -> distinct fragments required
	always  []int       // ids with no literal fragments
}

func (s *LiteralSet) Compile(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmpty
	}
	// Malformed patterns fail here, not at first scan.
	for _, e := range entries {
		if _, err := regexp.Compile(e.Expr); err != nil {
			return fmt.Errorf("patternset: pattern for id %d: %w", e.ID, err)
		}
	}

	var dict []string
	index := make(map[string]int)
	byFrag := make([][]int, 0)
	need := make(map[int]int)
	var always []int

	for _, e := range entries {
		if len(e.Literals) == 0 {
			always = append(always, e.ID)
			continue
		}
		distinct := make(map[int]bool)
		for _, frag := range e.Literals {
			fi, ok := index[frag]
			if !ok {
				fi = len(dict)
				index[frag] = fi
				dict = append(dict, frag)
				byFrag = append(byFrag, nil)
			}
			if !distinct[fi] {
				distinct[fi] = true
				byFrag[fi] = append(byFrag[fi], e.ID)
			}
		}
		need[e.ID] = len(distinct)
	}

	s.byFrag, s.need, s.always = byFrag, need, always
	s.matcher = nil
	if len(dict) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(dict)
	}
	return nil
}

func (s *LiteralSet) Scan(text string, fn func(id int)) {
	for _, id := range s.always {
		fn(id)
	}
	if s.matcher == nil {
		return
	}
	found := make(map[int]int)
	for _, fi := range s.matcher.Match([]byte(text)) {
		for _, id := range s.byFrag[fi] {
			found[id]++
		}
	}
	for id, n := range found {
		if n == s.need[id] {
			fn(id)
		}
	}
}
