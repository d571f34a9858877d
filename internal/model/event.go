package model

import (
	"regexp"
	"sort"
)

// EventType is one registered template: its raw text, the compiled anchored
// pattern with named capture groups, and its position in the dominance
// forest supplied by the upstream control-flow analysis.
// Immutable once the registry has linked its Dominator pointer.
type EventType struct {
	ID         int
	Dominator  *EventType // nil at a root of the dominance forest
	SourcePath string
	Level      Level
	Template   string
	Pattern    *regexp.Regexp
	Literals   []string // literal runs between placeholders, in template order
	Variables  []string // placeholder names, in template order
}

// AncestorVariables returns the sorted union of variable names over the
// full dominator ancestor chain. The registry guarantees the chain is
// acyclic before any EventType is handed out.
func (t *EventType) AncestorVariables() []string {
	set := make(map[string]struct{})
	for a := t.Dominator; a != nil; a = a.Dominator {
		for _, v := range a.Variables {
			set[v] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for v := range set {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

// Event is one match of an EventType against one message. Events are
// created fresh per parse call and never mutated.
type Event struct {
	Type     *EventType
	Bindings map[string]string // variable name -> matched substring
	Score    float64           // fraction of the message consumed by literal text
}

// Log holds the top-scoring Events recognized for one input record.
// Append-only once created: at most one Event per EventType.
type Log struct {
	Message string
	Events  map[int]*Event // keyed by EventType id
	Ranked  []*Event       // score-descending
}

// Event returns the Event recognized for the given EventType id, if any.
func (l *Log) Event(typeID int) (*Event, bool) {
	e, ok := l.Events[typeID]
	return e, ok
}
