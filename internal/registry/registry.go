// Package registry owns the EventType catalog and runs the match pipeline:
// prefilter scan, anchored re-validation, specificity scoring, top-K
// selection, history append, and dominator-chain value resolution.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/sensemill/logweave/internal/history"
	"github.com/sensemill/logweave/internal/model"
	"github.com/sensemill/logweave/internal/patternset"
	"github.com/sensemill/logweave/internal/resolver"
	"github.com/sensemill/logweave/internal/template"
)

// Defaults for Config fields left zero.
const (
	DefaultLookback  = 10
	DefaultTopK      = 1
	DefaultRetention = 2
)

// Row is one template-table entry to register.
type Row struct {
	DominatorID *int // nil at a root of the dominance forest
	ID          int
	SourcePath  string
	Level       model.Level
	Template    string
}

// Config controls a Registry. Zero fields take the package defaults;
// FoldBindings has no useful zero value, so Config carries it explicitly.
type Config struct {
	Placeholder  string // placeholder syntax, "" = template.DefaultPlaceholder
	Lookback     int
	TopK         int
	Retention    int // history capacity = Retention * Lookback
	FoldBindings bool
	Matcher      string // patternset kind, "" = literal prefilter
}

// Stats are the registry's observable counters.
type Stats struct {
	Parsed    uint64 // records run through Parse
	Unmatched uint64 // records that matched no template
	Rejected  uint64 // prefilter candidates discarded by re-validation
}

// Registry is the matching engine. Not safe for concurrent use: callers
// with multiple log sources must serialize access or partition registries
// per source.
type Registry struct {
	compiler *template.Compiler
	matcher  patternset.PatternSet
	types    map[int]*model.EventType
	order    []int       // registration order, drives deterministic scans
	doms     map[int]int // pending dominator links, applied at compile
	dirty    bool
	history  *history.Ring
	resolver *resolver.Resolver
	oldest   int // history.Oldest at the last cache eviction
	topK     int
	stats    Stats
}

// New creates a Registry from cfg.
func New(cfg Config) (*Registry, error) {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	compiler, err := template.NewCompiler(cfg.Placeholder)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	matcher, err := patternset.New(cfg.Matcher)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	hist := history.New(cfg.Retention * cfg.Lookback)
	return &Registry{
		compiler: compiler,
		matcher:  matcher,
		types:    make(map[int]*model.EventType),
		doms:     make(map[int]int),
		history:  hist,
		resolver: resolver.New(hist, cfg.Lookback, cfg.FoldBindings),
		topK:     cfg.TopK,
	}, nil
}

// Register compiles one template row and stores its EventType. The
// pattern set goes dirty and is rebuilt on the next Parse. Dominator
// links are applied then too, so rows may arrive in any order.
func (r *Registry) Register(row Row) error {
	if _, exists := r.types[row.ID]; exists {
		return fmt.Errorf("registry: duplicate event type id %d", row.ID)
	}
	compiled, err := r.compiler.Compile(row.Template)
	if err != nil {
		return fmt.Errorf("registry: event type %d: %w", row.ID, err)
	}
	r.types[row.ID] = &model.EventType{
		ID:         row.ID,
		SourcePath: row.SourcePath,
		Level:      row.Level,
		Template:   row.Template,
		Pattern:    compiled.Pattern,
		Literals:   compiled.Literals,
		Variables:  compiled.Variables,
	}
	r.order = append(r.order, row.ID)
	if row.DominatorID != nil {
		r.doms[row.ID] = *row.DominatorID
	}
	r.dirty = true
	return nil
}

// Replace swaps the whole template table for rows, keeping history
// intact. Memoized resolutions are flushed: they bake in the old
// dominance forest. The swap is all-or-nothing; a bad row leaves the
// current table untouched. Used by catalog reloads.
func (r *Registry) Replace(rows []Row) error {
	fresh := &Registry{
		compiler: r.compiler,
		types:    make(map[int]*model.EventType),
		doms:     make(map[int]int),
	}
	for _, row := range rows {
		if err := fresh.Register(row); err != nil {
			return err
		}
	}
	r.types = fresh.types
	r.order = fresh.order
	r.doms = fresh.doms
	r.dirty = true
	r.resolver.Flush()
	return nil
}

// compile links dominator pointers, verifies the dominance forest is
// acyclic, and rebuilds the pattern set. Any failure leaves the registry
// dirty; no partial state is used for parsing.
func (r *Registry) compile() error {
	for id, domID := range r.doms {
		dom, ok := r.types[domID]
		if !ok {
			return fmt.Errorf("registry: event type %d references unknown dominator %d", id, domID)
		}
		r.types[id].Dominator = dom
	}
	if err := r.checkAcyclic(); err != nil {
		return err
	}

	entries := make([]patternset.Entry, 0, len(r.order))
	for _, id := range r.order {
		t := r.types[id]
		entries = append(entries, patternset.Entry{
			ID:       t.ID,
			Expr:     t.Pattern.String(),
			Literals: t.Literals,
		})
	}
	if err := r.matcher.Compile(entries); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	r.dirty = false
	slog.Debug("pattern set compiled", "types", len(entries))
	return nil
}

// checkAcyclic walks every dominator chain once. Each node has at most
// one dominator, so a chain walk with a done set suffices.
func (r *Registry) checkAcyclic() error {
	const (
		onChain = 1
		done    = 2
	)
	state := make(map[int]int, len(r.types))
	for _, id := range r.order {
		var chain []int
		for cur := id; ; {
			if state[cur] == done {
				break
			}
			if state[cur] == onChain {
				return fmt.Errorf("registry: dominator cycle through event type %d", cur)
			}
			state[cur] = onChain
			chain = append(chain, cur)
			t := r.types[cur]
			if t.Dominator == nil {
				break
			}
			cur = t.Dominator.ID
		}
		for _, c := range chain {
			state[c] = done
		}
	}
	return nil
}

// Parse matches one message against the catalog and returns resolved
// dominator-chain values keyed by the id of each retained Event.
//
// Every call appends a Log to history — possibly an empty one — so
// history positions always equal parse-call order.
func (r *Registry) Parse(message string) (map[int][]string, error) {
	if r.dirty {
		if err := r.compile(); err != nil {
			return nil, err
		}
	}

	candidates := make(map[int]bool)
	r.matcher.Scan(message, func(id int) { candidates[id] = true })

	var events []*model.Event
	for _, id := range r.order {
		if !candidates[id] {
			continue
		}
		ev, ok := r.validate(r.types[id], message)
		if !ok {
			r.stats.Rejected++
			continue
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Score > events[j].Score
	})
	if len(events) > r.topK {
		events = events[:r.topK]
	}

	log := &model.Log{
		Message: message,
		Events:  make(map[int]*model.Event, len(events)),
		Ranked:  events,
	}
	for _, ev := range events {
		log.Events[ev.Type.ID] = ev
	}
	pos := r.history.Append(log)
	if oldest := r.history.Oldest(); oldest > r.oldest {
		r.resolver.EvictBefore(oldest)
		r.oldest = oldest
	}

	r.stats.Parsed++
	if len(events) == 0 {
		r.stats.Unmatched++
		slog.Debug("record matched no template", "position", pos)
		return map[int][]string{}, nil
	}

	out := make(map[int][]string, len(events))
	for _, ev := range events {
		out[ev.Type.ID] = r.resolver.Resolve(pos, ev)
	}
	return out, nil
}

// validate re-runs t's own anchored pattern against message. Prefilter
// findings are advisory; only this step produces an Event.
func (r *Registry) validate(t *model.EventType, message string) (*model.Event, bool) {
	if message == "" {
		return nil, false
	}
	m := t.Pattern.FindStringSubmatch(message)
	if m == nil {
		return nil, false
	}
	bindings := make(map[string]string)
	varLen := 0
	for i, name := range t.Pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		bindings[name] = m[i]
		varLen += len(m[i])
	}
	score := float64(len(message)-varLen) / float64(len(message))
	return &model.Event{Type: t, Bindings: bindings, Score: score}, true
}

// Types returns all registered EventTypes in registration order, with
// dominator links applied. Compiles first when dirty so the dominance
// forest is validated before anything is handed out.
func (r *Registry) Types() ([]*model.EventType, error) {
	if r.dirty {
		if err := r.compile(); err != nil {
			return nil, err
		}
	}
	out := make([]*model.EventType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out, nil
}

// History exposes the backing ring for tests and diagnostics.
func (r *Registry) History() *history.Ring { return r.history }

// Stats returns a copy of the observable counters.
func (r *Registry) Stats() Stats { return r.stats }
