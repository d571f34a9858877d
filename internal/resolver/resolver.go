// Package resolver recovers cross-line context values for a recognized
// event by walking its dominance chain backwards through recent history.
package resolver

import (
	"sort"
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sensemill/logweave/internal/history"
	"github.com/sensemill/logweave/internal/model"
)

// Resolver performs the backward search over a history Ring. Results are
// memoized per (position, event type) so re-querying the same pair is
// O(1) after the first resolution.
//
// FoldBindings selects between two documented behaviors for what a
// resolution returns. When true, each dominator Event found in the window
// contributes its own bound variable values before the search recurses
// from it. When false, only recursive results are unioned — which for any
// chain ending in a dominator-less root yields the empty set, so a
// resolution never surfaces concrete text. Only the true mode does.
type Resolver struct {
	history  *history.Ring
	lookback int
	fold     bool
	memo     *gocache.Cache
}

// New creates a Resolver over h. lookback is the hard bound on how many
// prior positions a single search step may inspect.
func New(h *history.Ring, lookback int, fold bool) *Resolver {
	if lookback < 0 {
		lookback = 0
	}
	return &Resolver{
		history:  h,
		lookback: lookback,
		fold:     fold,
		memo:     gocache.New(gocache.NoExpiration, 0),
	}
}

type node struct {
	pos int
	ev  *model.Event
}

// Resolve returns the sorted union of values recovered along ev's
// dominator chain, starting from absolute history position pos.
//
// The search is an explicit worklist with a visited set of
// (position, type id) pairs, so malformed inputs cannot drive unbounded
// recursion. Each step inspects the window [max(0, p-lookback), p) of
// positions prior to the step's own position p.
func (r *Resolver) Resolve(pos int, ev *model.Event) []string {
	key := memoKey(pos, ev.Type.ID)
	if v, ok := r.memo.Get(key); ok {
		return v.([]string)
	}

	values := make(map[string]struct{})
	visited := map[[2]int]bool{{pos, ev.Type.ID}: true}
	work := []node{{pos, ev}}

	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]

		dom := n.ev.Type.Dominator
		if dom == nil {
			continue
		}
		lo := n.pos - r.lookback
		if lo < 0 {
			lo = 0
		}
		for i := lo; i < n.pos; i++ {
			log, ok := r.history.Get(i)
			if !ok {
				continue
			}
			de, ok := log.Event(dom.ID)
			if !ok {
				continue
			}
			if r.fold {
				for _, v := range de.Bindings {
					values[v] = struct{}{}
				}
			}
			k := [2]int{i, dom.ID}
			if visited[k] {
				continue
			}
			visited[k] = true
			// A completed resolution for this pair stands in for
			// expanding it again.
			if v, ok := r.memo.Get(memoKey(i, dom.ID)); ok {
				for _, s := range v.([]string) {
					values[s] = struct{}{}
				}
				continue
			}
			work = append(work, node{i, de})
		}
	}

	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	r.memo.Set(key, out, gocache.NoExpiration)
	return out
}

// EvictBefore drops memoized results for history positions older than
// oldest. Called when the history ring retires positions.
func (r *Resolver) EvictBefore(oldest int) {
	for k := range r.memo.Items() {
		if posOf(k) < oldest {
			r.memo.Delete(k)
		}
	}
}

// Flush drops every memoized resolution. Required when the catalog
// changes, since cached results bake in the old dominance forest.
func (r *Resolver) Flush() { r.memo.Flush() }

// CacheLen reports the number of memoized resolutions.
func (r *Resolver) CacheLen() int { return r.memo.ItemCount() }

func memoKey(pos, typeID int) string {
	return strconv.Itoa(pos) + ":" + strconv.Itoa(typeID)
}

func posOf(key string) int {
	s, _, ok := strings.Cut(key, ":")
	if !ok {
		return 0
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return p
}
