package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/syntax"
)

// EmptyExpression flags markup expression containers holding no expression,
// or only comments. The fix removes the container from its parent element.
type EmptyExpression struct{}

func (r *EmptyExpression) ID() string              { return "empty-expression" }
func (r *EmptyExpression) Category() core.Category { return core.CategoryExpression }
func (r *EmptyExpression) Severity() core.Severity { return core.SeverityWarning }

func (r *EmptyExpression) meta() meta {
	return meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
}

func (r *EmptyExpression) Detect(f *syntax.File) []core.Finding {
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() == syntax.KindJSXExpression && isEmptyContainer(n) {
			findings = append(findings, finding(r.meta(), f, n,
				"empty expression container", "remove the braces or add an expression"))
		}
		return true
	})
	return findings
}

// Fix removes the container. Only containers whose parent is a markup
// element or fragment are removed; anything else would corrupt non-markup
// context and is reported as a fix failure.
func (r *EmptyExpression) Fix(f *syntax.File, fd core.Finding) (*core.Change, error) {
	n := fd.Node
	parent := n.Parent()
	if parent == nil || !isElement(parent) {
		return nil, fmt.Errorf("container parent is %s, not a markup element", parentKind(parent))
	}
	if err := f.Edits.Remove(n); err != nil {
		return nil, err
	}
	return &core.Change{
		Rule:   r.ID(),
		Kind:   core.ChangeExpressionRemoval,
		Line:   fd.Line,
		Before: f.Text(n),
	}, nil
}

func parentKind(n *sitter.Node) string {
	if n == nil {
		return "nil"
	}
	return n.Type()
}

// isEmptyContainer reports whether a jsx_expression holds no expression or
// only comments.
func isEmptyContainer(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() != syntax.KindComment {
			return false
		}
	}
	return true
}

// NestedTernary flags a ternary nested as the alternate branch of another
// ternary inside a markup expression.
type NestedTernary struct{}

func (r *NestedTernary) ID() string              { return "nested-ternary" }
func (r *NestedTernary) Category() core.Category { return core.CategoryExpression }
func (r *NestedTernary) Severity() core.Severity { return core.SeverityInfo }

func (r *NestedTernary) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() != syntax.KindTernary || !insideExpressionContainer(n) {
			return true
		}
		alt := n.ChildByFieldName("alternative")
		if alt != nil && unwrapParens(alt).Type() == syntax.KindTernary {
			findings = append(findings, finding(m, f, n,
				"ternary nested in the alternate branch of another ternary reduces readability",
				"extract the inner condition into a variable or early return"))
		}
		return true
	})
	return findings
}

// ConditionalRender recognizes conditional rendering through a ternary or a
// short-circuit && expression. It contributes to the good-practice tally,
// not the issue count.
type ConditionalRender struct{}

func (r *ConditionalRender) ID() string              { return "conditional-render" }
func (r *ConditionalRender) Category() core.Category { return core.CategoryExpression }
func (r *ConditionalRender) Severity() core.Severity { return core.SeverityGood }

func (r *ConditionalRender) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() != syntax.KindJSXExpression {
			return true
		}
		parent := n.Parent()
		if parent == nil || !isElement(parent) {
			return true
		}
		if n.NamedChildCount() == 0 {
			return true
		}
		expr := unwrapParens(n.NamedChild(0))
		switch expr.Type() {
		case syntax.KindTernary:
			cons := expr.ChildByFieldName("consequence")
			alt := expr.ChildByFieldName("alternative")
			if (cons != nil && subtreeHasElement(cons)) || (alt != nil && subtreeHasElement(alt)) {
				findings = append(findings, finding(m, f, n,
					"conditional rendering via ternary", ""))
			}
		case syntax.KindBinary:
			op := expr.ChildByFieldName("operator")
			right := expr.ChildByFieldName("right")
			if op != nil && op.Content(f.Src) == "&&" && right != nil && subtreeHasElement(right) {
				findings = append(findings, finding(m, f, n,
					"conditional rendering via short-circuit &&", ""))
			}
		}
		return true
	})
	return findings
}
