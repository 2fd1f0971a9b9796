package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/syntax"
)

// rawHTMLAttribute injects raw markup from a data value, bypassing the
// language's default escaping.
const rawHTMLAttribute = "dangerouslySetInnerHTML"

// RawHTML flags every use of the raw-markup attribute. The rule cannot
// prove sanitization, so apparently-sanitized sources are flagged too.
type RawHTML struct{}

func (r *RawHTML) ID() string              { return "raw-html" }
func (r *RawHTML) Category() core.Category { return core.CategorySecurity }
func (r *RawHTML) Severity() core.Severity { return core.SeverityWarning }

func (r *RawHTML) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() == syntax.KindJSXAttribute && syntax.AttributeName(n, f.Src) == rawHTMLAttribute {
			findings = append(findings, finding(m, f, n,
				"raw markup injection via "+rawHTMLAttribute,
				"prefer rendering data through normal interpolation; sanitize if raw HTML is unavoidable"))
		}
		return true
	})
	return findings
}

// SafeInterpolation recognizes direct interpolation of a bound identifier
// inside a markup expression container: the default escaping makes it safe.
// Good-practice tally only.
type SafeInterpolation struct{}

func (r *SafeInterpolation) ID() string              { return "safe-interpolation" }
func (r *SafeInterpolation) Category() core.Category { return core.CategorySecurity }
func (r *SafeInterpolation) Severity() core.Severity { return core.SeverityGood }

func (r *SafeInterpolation) Detect(f *syntax.File) []core.Finding {
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
		if n.NamedChildCount() != 1 {
			return true
		}
		expr := n.NamedChild(0)
		if expr.Type() != syntax.KindIdentifier {
			return true
		}
		if f.Scopes.LookupAt(f.Text(expr), expr.StartByte()) == nil {
			return true
		}
		findings = append(findings, finding(m, f, n,
			"escaped interpolation of bound identifier", ""))
		return true
	})
	return findings
}
