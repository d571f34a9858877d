// Package patternset provides multi-pattern candidate generation: compile
// many (pattern, id) pairs once, scan an input once, and report every id
// whose pattern may match.
//
// Findings are advisory. A scan's match semantics may be weaker than the
// anchored, whole-line extraction the registry needs, so every reported id
// must be re-validated against the owning EventType's own pattern before
// it produces an Event. The prefilter exists to reject the large majority
// of non-matching ids in a single pass.
package patternset

import (
	"errors"
	"fmt"
)

// Entry is one pattern handed to Compile. Literals carries the template's
// literal runs for engines that prefilter on fixed strings.
type Entry struct {
	ID       int
	Expr     string
	Literals []string
}

// PatternSet is the multi-pattern matching capability. Scan must invoke
// fn for every id whose pattern may match text, never stopping at the
// first hit. Callback order is unspecified.
type PatternSet interface {
	Compile(entries []Entry) error
	Scan(text string, fn func(id int))
}

// Matcher kinds accepted by New.
const (
	KindLiteral = "literal"
	KindRegex   = "regex"
)

// ErrEmpty is returned by Compile when there are no patterns to compile.
var ErrEmpty = errors.New("patternset: no patterns to compile")

// New returns a PatternSet of the given kind. An empty kind selects the
// literal prefilter.
func New(kind string) (PatternSet, error) {
	switch kind {
	case "", KindLiteral:
		return &LiteralSet{}, nil
	case KindRegex:
		return &RegexSet{}, nil
	default:
		return nil, fmt.Errorf("patternset: unknown matcher kind %q", kind)
	}
}
