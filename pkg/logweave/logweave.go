package logweave

import (
	"fmt"
	"sync"

	"github.com/sensemill/logweave/internal/catalog"
	"github.com/sensemill/logweave/internal/model"
	"github.com/sensemill/logweave/internal/registry"
)

// Parser is the matching-and-resolution engine. The core pipeline is
// single-threaded; Parser serializes access with a mutex so one instance
// can safely be shared between a parse loop and a catalog reloader.
type Parser struct {
	mu  sync.Mutex
	reg *registry.Registry
}

// Template is one catalog entry for registration.
type Template struct {
	DominatorID *int // nil when the template has no dominance parent
	ID          int
	SourcePath  string
	Level       string // FATAL, ERROR, WARN, INFO, DEBUG, TRACE, LOG
	Template    string
}

// Stats are the parser's observable counters.
type Stats struct {
	Parsed    uint64 // records parsed
	Unmatched uint64 // records that matched no template
	Rejected  uint64 // prefilter candidates discarded by re-validation
}

// New creates a Parser. Register templates before the first Parse call.
func New(opts ...Option) (*Parser, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	reg, err := registry.New(registry.Config{
		Placeholder:  o.placeholder,
		Lookback:     o.lookback,
		TopK:         o.topK,
		Retention:    o.retention,
		FoldBindings: o.foldBindings,
		Matcher:      o.matcher,
	})
	if err != nil {
		return nil, fmt.Errorf("logweave: %w", err)
	}
	return &Parser{reg: reg}, nil
}

// Register adds one template to the catalog. The pattern set is rebuilt
// lazily on the next Parse.
func (p *Parser) Register(t Template) error {
	row, err := toRow(t)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.reg.Register(row); err != nil {
		return fmt.Errorf("logweave: %w", err)
	}
	return nil
}

// RegisterAll adds a batch of templates; the first bad one aborts.
func (p *Parser) RegisterAll(ts []Template) error {
	for _, t := range ts {
		if err := p.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// LoadCatalog loads the CSV template table at path into the parser.
func (p *Parser) LoadCatalog(path string) error {
	rows, err := catalog.Load(path)
	if err != nil {
		return fmt.Errorf("logweave: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, row := range rows {
		if err := p.reg.Register(row); err != nil {
			return fmt.Errorf("logweave: %w", err)
		}
	}
	return nil
}

// ReloadCatalog atomically replaces the whole catalog with the table at
// path, keeping parse history. A bad table leaves the current catalog in
// effect.
func (p *Parser) ReloadCatalog(path string) error {
	rows, err := catalog.Load(path)
	if err != nil {
		return fmt.Errorf("logweave: %w", err)
	}
	return p.Replace(rows)
}

// Replace atomically swaps the catalog for the given registry rows.
func (p *Parser) Replace(rows []registry.Row) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.reg.Replace(rows); err != nil {
		return fmt.Errorf("logweave: %w", err)
	}
	return nil
}

// Parse matches one record and returns resolved dominator-chain values
// keyed by the id of each retained event. An empty map means the record
// matched no template; that is not an error.
func (p *Parser) Parse(message string) (map[int][]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.reg.Parse(message)
	if err != nil {
		return nil, fmt.Errorf("logweave: %w", err)
	}
	return out, nil
}

// Stats returns the observable counters.
func (p *Parser) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.reg.Stats()
	return Stats{Parsed: s.Parsed, Unmatched: s.Unmatched, Rejected: s.Rejected}
}

func toRow(t Template) (registry.Row, error) {
	level, err := model.ParseLevel(t.Level)
	if err != nil {
		return registry.Row{}, fmt.Errorf("logweave: template %d: %w", t.ID, err)
	}
	return registry.Row{
		DominatorID: t.DominatorID,
		ID:          t.ID,
		SourcePath:  t.SourcePath,
		Level:       level,
		Template:    t.Template,
	}, nil
}
