package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/syntax"
)

// ComponentName flags lower-case names on functions that return markup.
// Element names starting with a lower-case letter resolve as intrinsic
// tags, so such a component silently never renders. The fix capitalizes
// the name at its declaration and every reference.
type ComponentName struct{}

func (r *ComponentName) ID() string              { return "component-name" }
func (r *ComponentName) Category() core.Category { return core.CategoryNaming }
func (r *ComponentName) Severity() core.Severity { return core.SeverityWarning }

func (r *ComponentName) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		nameNode := componentNameNode(n)
		if nameNode == nil {
			return true
		}
		name := f.Text(nameNode)
		if name == "" || !startsLower(name) {
			return true
		}
		findings = append(findings, finding(m, f, nameNode,
			fmt.Sprintf("component %q has a lower-case name and will be treated as an intrinsic tag", name),
			fmt.Sprintf("rename to %s", capitalize(name))))
		return true
	})
	return findings
}

// Fix renames the binding everywhere it is referenced. The rename is
// refused when the capitalized name is already visible at the declaration
// or any reference site.
func (r *ComponentName) Fix(f *syntax.File, fd core.Finding) (*core.Change, error) {
	binding := f.Scopes.BindingFor(fd.Node, f.Src)
	if binding == nil {
		return nil, fmt.Errorf("no binding found for %q", f.Text(fd.Node))
	}
	newName := capitalize(binding.Name)
	if newName == binding.Name {
		return nil, fmt.Errorf("name %q cannot be capitalized", binding.Name)
	}

	sites := append([]*sitter.Node{binding.Decl}, binding.Refs...)
	for _, site := range sites {
		if f.Scopes.LookupAt(newName, site.StartByte()) != nil {
			return nil, fmt.Errorf("rename to %q would collide with an existing binding", newName)
		}
	}
	for _, site := range sites {
		if err := f.Edits.Replace(site, newName); err != nil {
			return nil, err
		}
	}
	return &core.Change{
		Rule:   r.ID(),
		Kind:   core.ChangeRename,
		Line:   fd.Line,
		Before: binding.Name,
		After:  newName,
	}, nil
}

// componentNameNode returns the name identifier of a component definition:
// a function declaration returning markup, or a variable declarator whose
// initializer is a function returning markup.
func componentNameNode(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case syntax.KindFunctionDecl:
		name := n.ChildByFieldName("name")
		if name == nil || !returnsElement(n) {
			return nil
		}
		return name
	case syntax.KindVariableDeclarator:
		name := n.ChildByFieldName("name")
		if name == nil {
			name = n.ChildByFieldName("id")
		}
		if name == nil || name.Type() != syntax.KindIdentifier {
			return nil
		}
		value := n.ChildByFieldName("value")
		if value == nil || !isFunctionNode(value) || !returnsElement(value) {
			return nil
		}
		return name
	}
	return nil
}

// PropSpread flags spread attributes ({...props}). Spreads forward unknown
// attributes and defeat local reasoning about what an element receives.
type PropSpread struct{}

func (r *PropSpread) ID() string              { return "prop-spread" }
func (r *PropSpread) Category() core.Category { return core.CategoryNaming }
func (r *PropSpread) Severity() core.Severity { return core.SeverityInfo }

func (r *PropSpread) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		open := n
		if !isElement(n) {
			return true
		}
		if n.Type() != syntax.KindJSXSelfClosing {
			open = syntax.OpeningElement(n)
		}
		for _, attr := range syntax.Attributes(open) {
			if isSpreadAttribute(attr) {
				findings = append(findings, finding(m, f, attr,
					"prop spread hides which attributes the element receives",
					"pass the needed props explicitly"))
			}
		}
		return true
	})
	return findings
}

// InlineHandler flags function literals used directly as attribute values.
// Each render allocates a fresh closure, defeating referential equality
// checks downstream.
type InlineHandler struct{}

func (r *InlineHandler) ID() string              { return "inline-handler" }
func (r *InlineHandler) Category() core.Category { return core.CategoryNaming }
func (r *InlineHandler) Severity() core.Severity { return core.SeverityInfo }

func (r *InlineHandler) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() != syntax.KindJSXAttribute {
			return true
		}
		value := syntax.AttributeValue(n)
		if value == nil || value.Type() != syntax.KindJSXExpression || value.NamedChildCount() == 0 {
			return true
		}
		expr := unwrapParens(value.NamedChild(0))
		if isFunctionNode(expr) {
			findings = append(findings, finding(m, f, n,
				fmt.Sprintf("inline function for attribute %q allocates on every render", syntax.AttributeName(n, f.Src)),
				"hoist the handler to a named function or memoize it"))
		}
		return true
	})
	return findings
}
