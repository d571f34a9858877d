package logweave

import "fmt"

// TypeInfo describes one registered event type, for debugging and
// template validation. This is read-only: consumers can inspect the
// catalog but not modify it.
type TypeInfo struct {
	ID             int      `json:"id"`
	DominatorID    *int     `json:"dominatorId,omitempty"`
	SourcePath     string   `json:"sourcePath"`
	Level          string   `json:"level"`
	Template       string   `json:"template"`
	Variables      []string `json:"variables"`      // this template's own placeholders
	ChainVariables []string `json:"chainVariables"` // union over the dominator ancestor chain
}

// Types returns every registered event type in registration order.
// Forces compilation when the catalog changed, so dominator links and
// acyclicity are validated before anything is reported.
func (p *Parser) Types() ([]TypeInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	types, err := p.reg.Types()
	if err != nil {
		return nil, fmt.Errorf("logweave: %w", err)
	}
	infos := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		info := TypeInfo{
			ID:             t.ID,
			SourcePath:     t.SourcePath,
			Level:          t.Level.String(),
			Template:       t.Template,
			Variables:      append([]string(nil), t.Variables...),
			ChainVariables: t.AncestorVariables(),
		}
		if t.Dominator != nil {
			id := t.Dominator.ID
			info.DominatorID = &id
		}
		infos = append(infos, info)
	}
	return infos, nil
}
