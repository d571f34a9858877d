// Package template compiles log-line templates into anchored regular
// expressions with named capture groups.
//
// A template mixes literal text with named placeholders ("Starting job
// {job}"). Literal runs match themselves with whitespace tolerance;
// placeholders greedily capture any text, including newlines. The
// resulting pattern is anchored to consume the entire message.
package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultPlaceholder recognizes a word wrapped in braces and captures
// the word as the variable name.
const DefaultPlaceholder = `\{(\w+)\}`

// Compiled is the result of compiling one template string.
type Compiled struct {
	Pattern   *regexp.Regexp
	Literals  []string // trimmed literal runs, in template order
	Variables []string // placeholder names, in template order
}

// Compiler turns template text into anchored patterns. The placeholder
// syntax is a regular expression with exactly one capture group holding
// the variable name.
type Compiler struct {
	placeholder *regexp.Regexp
}

// NewCompiler creates a Compiler with the given placeholder syntax.
// An empty syntax selects DefaultPlaceholder.
func NewCompiler(placeholder string) (*Compiler, error) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	re, err := regexp.Compile(placeholder)
	if err != nil {
		return nil, fmt.Errorf("template: placeholder syntax: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, errors.New("template: placeholder syntax must have exactly one capture group for the variable name")
	}
	return &Compiler{placeholder: re}, nil
}

// Compile translates one template into an anchored pattern.
//
// Literal two-character "\n" sequences become real newlines before
// scanning. Each literal run is whitespace-trimmed and quoted for exact
// matching; each placeholder becomes a greedy named group matching any
// characters. Pieces are joined by `\s*` so minor formatting drift
// between template and output still matches.
//
// Two placeholders with no literal between them compile fine but split
// ambiguously under greedy backtracking. That is a property of the
// template language, kept as-is rather than corrected here.
func (c *Compiler) Compile(text string) (Compiled, error) {
	text = strings.ReplaceAll(text, `\n`, "\n")

	var parts, literals, vars []string
	seen := make(map[string]bool)
	last := 0
	for _, loc := range c.placeholder.FindAllStringSubmatchIndex(text, -1) {
		if lit := strings.TrimSpace(text[last:loc[0]]); lit != "" {
			parts = append(parts, regexp.QuoteMeta(lit))
			literals = append(literals, lit)
		}
		name := text[loc[2]:loc[3]]
		if seen[name] {
			return Compiled{}, fmt.Errorf("template: duplicate variable %q in %q", name, text)
		}
		seen[name] = true
		vars = append(vars, name)
		parts = append(parts, "(?P<"+name+">.+)")
		last = loc[1]
	}
	if lit := strings.TrimSpace(text[last:]); lit != "" {
		parts = append(parts, regexp.QuoteMeta(lit))
		literals = append(literals, lit)
	}
	if len(parts) == 0 {
		return Compiled{}, fmt.Errorf("template: empty template %q", text)
	}

	expr := `\A(?s:` + strings.Join(parts, `\s*`) + `)\z`
	re, err := regexp.Compile(expr)
	if err != nil {
		return Compiled{}, fmt.Errorf("template: compile %q: %w", text, err)
	}
	return Compiled{Pattern: re, Literals: literals, Variables: vars}, nil
}
