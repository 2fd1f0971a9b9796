package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/syntax"
)

// voidTags are element types that cannot contain children.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// VoidElement flags void elements written with an explicit closing tag and
// no children. The fix collapses them to self-closing form.
type VoidElement struct{}

func (r *VoidElement) ID() string              { return "void-element" }
func (r *VoidElement) Category() core.Category { return core.CategoryStructure }
func (r *VoidElement) Severity() core.Severity { return core.SeverityInfo }

func (r *VoidElement) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() != syntax.KindJSXElement {
			return true
		}
		open := syntax.OpeningElement(n)
		name := syntax.ElementName(open, f.Src)
		if !voidTags[name] {
			return true
		}
		if len(syntax.ElementChildren(n, f.Src)) > 0 {
			return true
		}
		findings = append(findings, finding(m, f, n,
			fmt.Sprintf("void element <%s> should be self-closing", name),
			fmt.Sprintf("write <%s ... />", name)))
		return true
	})
	return findings
}

// Fix rewrites everything from the end of the opening tag's attributes to
// the end of the element as " />".
func (r *VoidElement) Fix(f *syntax.File, fd core.Finding) (*core.Change, error) {
	n := fd.Node
	open := syntax.OpeningElement(n)
	if open == nil {
		return nil, fmt.Errorf("element has no opening tag")
	}
	// Start at the '>' of the opening tag, swallowing trailing whitespace
	// before it.
	start := open.EndByte() - 1
	for start > open.StartByte() && (f.Src[start-1] == ' ' || f.Src[start-1] == '\t' || f.Src[start-1] == '\n') {
		start--
	}
	if err := f.Edits.Add(start, n.EndByte(), " />"); err != nil {
		return nil, err
	}
	return &core.Change{
		Rule:   r.ID(),
		Kind:   core.ChangeTagCollapse,
		Line:   fd.Line,
		Before: f.Text(n),
		After:  string(f.Src[n.StartByte():start]) + " />",
	}, nil
}

// FragmentUsage recognizes fragments. Good-practice tally only.
type FragmentUsage struct{}

func (r *FragmentUsage) ID() string              { return "fragment" }
func (r *FragmentUsage) Category() core.Category { return core.CategoryStructure }
func (r *FragmentUsage) Severity() core.Severity { return core.SeverityGood }

func (r *FragmentUsage) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if syntax.IsElementKind(n.Type()) && syntax.IsFragment(n, f.Src) {
			findings = append(findings, finding(m, f, n, "fragment avoids a wrapper element", ""))
		}
		return true
	})
	return findings
}

// MissingKey flags .map callbacks that return a markup element without a
// key attribute. The fix references the callback's index parameter, adding
// one when absent.
type MissingKey struct{}

func (r *MissingKey) ID() string              { return "missing-key" }
func (r *MissingKey) Category() core.Category { return core.CategoryStructure }
func (r *MissingKey) Severity() core.Severity { return core.SeverityError }

func (r *MissingKey) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		callback := mapCallback(n, f.Src)
		if callback == nil {
			return true
		}
		element := returnedElement(callback)
		if element == nil {
			return true
		}
		open := syntax.OpeningElement(element)
		if open == nil || syntax.ElementName(open, f.Src) == "" {
			return true
		}
		if syntax.FindAttribute(open, f.Src, "key") != nil {
			return true
		}
		findings = append(findings, finding(m, f, callback,
			"list element produced by .map has no key attribute",
			"give each element a stable key"))
		return true
	})
	return findings
}

// Fix synthesizes key={index}. When the callback has no second parameter,
// one named index is added, provided that does not shadow an outer binding
// used inside the callback.
func (r *MissingKey) Fix(f *syntax.File, fd core.Finding) (*core.Change, error) {
	callback := fd.Node
	element := returnedElement(callback)
	if element == nil {
		return nil, fmt.Errorf("callback no longer returns an element")
	}
	open := syntax.OpeningElement(element)
	name := open.ChildByFieldName("name")
	if name == nil {
		return nil, fmt.Errorf("element has no name node")
	}

	keyName, err := r.indexParam(f, callback)
	if err != nil {
		return nil, err
	}

	if err := f.Edits.Insert(name.EndByte(), " key={"+keyName+"}"); err != nil {
		return nil, err
	}
	return &core.Change{
		Rule:  r.ID(),
		Kind:  core.ChangeAttributeInsert,
		Line:  int(element.StartPoint().Row) + 1,
		After: "key={" + keyName + "}",
	}, nil
}

// indexParam returns the name of the callback's second parameter, adding
// one when the callback only names the item.
func (r *MissingKey) indexParam(f *syntax.File, callback *sitter.Node) (string, error) {
	params := callback.ChildByFieldName("parameters")
	single := callback.ChildByFieldName("parameter")

	var named []*sitter.Node
	if params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			named = append(named, params.NamedChild(i))
		}
	} else if single != nil {
		named = []*sitter.Node{single}
	}

	if len(named) >= 2 {
		second := named[1]
		if second.Type() != syntax.KindIdentifier {
			return "", fmt.Errorf("second parameter is a %s, not an identifier", second.Type())
		}
		return f.Text(second), nil
	}
	if len(named) == 0 {
		return "", fmt.Errorf("callback has no parameters")
	}

	// Introducing the parameter must not capture or shadow an existing
	// index binding used inside the callback.
	if outer := f.Scopes.LookupAt("index", callback.StartByte()); outer != nil {
		if len(outer.RefsWithin(callback.StartByte(), callback.EndByte())) > 0 {
			return "", fmt.Errorf("adding parameter index would shadow an outer binding used in the callback")
		}
	}
	if f.Scopes.DeclaresWithin(callback.StartByte(), callback.EndByte(), "index") {
		return "", fmt.Errorf("callback already declares index")
	}

	first := named[0]
	if params != nil {
		if err := f.Edits.Insert(first.EndByte(), ", index"); err != nil {
			return "", err
		}
	} else {
		if err := f.Edits.Replace(first, "("+f.Text(first)+", index)"); err != nil {
			return "", err
		}
	}
	return "index", nil
}

// mapCallback returns the function literal passed to a .map call, or nil.
func mapCallback(n *sitter.Node, src []byte) *sitter.Node {
	if n.Type() != syntax.KindCallExpr {
		return nil
	}
	callee := n.ChildByFieldName("function")
	if callee == nil || callee.Type() != syntax.KindMemberExpr {
		return nil
	}
	prop := callee.ChildByFieldName("property")
	if prop == nil || prop.Content(src) != "map" {
		return nil
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	first := args.NamedChild(0)
	if !syntax.IsFunctionKind(first.Type()) {
		return nil
	}
	return first
}
