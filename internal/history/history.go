// Package history keeps the bounded backward-looking window of parsed Logs.
package history

import "github.com/sensemill/logweave/internal/model"

// Ring is an append-only sequence of Logs addressed by absolute position
// (0, 1, 2, ... in parse-call order), bounded to the most recent capacity
// entries. Nothing older than the resolver's reach is ever read again, so
// retired positions are simply overwritten.
type Ring struct {
	slots []*model.Log
	next  int // absolute position of the next Append
}

// New creates a Ring retaining the most recent capacity Logs.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{slots: make([]*model.Log, capacity)}
}

// Append stores l and returns its absolute position.
func (r *Ring) Append(l *model.Log) int {
	pos := r.next
	r.slots[pos%len(r.slots)] = l
	r.next++
	return pos
}

// Get returns the Log at absolute position pos. ok is false when pos is
// out of range or the slot has been retired.
func (r *Ring) Get(pos int) (*model.Log, bool) {
	if pos < r.Oldest() || pos >= r.next {
		return nil, false
	}
	return r.slots[pos%len(r.slots)], true
}

// Oldest returns the smallest absolute position still retained.
func (r *Ring) Oldest() int {
	if r.next <= len(r.slots) {
		return 0
	}
	return r.next - len(r.slots)
}

// Next returns the absolute position the next Append will receive.
func (r *Ring) Next() int { return r.next }
