// Package rules holds the detector and transformer rule set. Every rule is
// registered once at process start and stateless across files; detectors
// inspect the tree and scope table without mutating either, transformers
// record byte edits for the findings they can resolve.
package rules

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/syntax"
)

// Registry holds the registered rules in registration order.
type Registry struct {
	rules []core.Rule
	byID  map[string]core.Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]core.Rule)}
}

// Register adds a rule, replacing any previous rule with the same id.
func (r *Registry) Register(rule core.Rule) {
	if _, exists := r.byID[rule.ID()]; exists {
		for i, existing := range r.rules {
			if existing.ID() == rule.ID() {
				r.rules[i] = rule
				break
			}
		}
	} else {
		r.rules = append(r.rules, rule)
	}
	r.byID[rule.ID()] = rule
}

// Rules returns the registered rules.
func (r *Registry) Rules() []core.Rule {
	return r.rules
}

// Get retrieves a rule by id.
func (r *Registry) Get(id string) (core.Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// IDs returns all registered rule ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		ids = append(ids, rule.ID())
	}
	sort.Strings(ids)
	return ids
}

// Default returns the full built-in rule set.
func Default() *Registry {
	r := NewRegistry()
	for _, rule := range []core.Rule{
		&EmptyExpression{},
		&NestedTernary{},
		&ConditionalRender{},
		&ReservedProp{},
		&CamelCaseAttribute{},
		&QuoteStyle{},
		&RawHTML{},
		&SafeInterpolation{},
		&VoidElement{},
		&FragmentUsage{},
		&MissingKey{},
		&ComponentName{},
		&PropSpread{},
		&InlineHandler{},
	} {
		r.Register(rule)
	}
	return r
}

// meta supplies the identity methods shared by all rules.
type meta struct {
	id  string
	cat core.Category
	sev core.Severity
}

func (m meta) ID() string              { return m.id }
func (m meta) Category() core.Category { return m.cat }
func (m meta) Severity() core.Severity { return m.sev }

// finding builds a Finding positioned at n.
func finding(m meta, f *syntax.File, n *sitter.Node, msg, hint string) core.Finding {
	return core.Finding{
		Rule:     m.id,
		Severity: m.sev,
		Category: m.cat,
		Message:  msg,
		File:     f.Path,
		Line:     f.Line(n),
		Column:   f.Column(n),
		Hint:     hint,
		Node:     n,
	}
}
