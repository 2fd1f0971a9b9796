package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/core"
	"github.com/termfx/jsxfix/syntax"
)

// reservedProps are attribute names colliding with reserved host-language
// properties. Loaded once, never mutated at runtime.
var reservedProps = map[string]string{
	"class": "className",
	"for":   "htmlFor",
}

// camelCaseProps maps lower-case HTML attribute spellings to the mixed-case
// form this ecosystem requires. Closed table; extending it is a code change.
var camelCaseProps = map[string]string{
	"accesskey":       "accessKey",
	"autocomplete":    "autoComplete",
	"autofocus":       "autoFocus",
	"autoplay":        "autoPlay",
	"cellpadding":     "cellPadding",
	"cellspacing":     "cellSpacing",
	"colspan":         "colSpan",
	"contenteditable": "contentEditable",
	"crossorigin":     "crossOrigin",
	"enctype":         "encType",
	"formaction":      "formAction",
	"frameborder":     "frameBorder",
	"maxlength":       "maxLength",
	"minlength":       "minLength",
	"novalidate":      "noValidate",
	"readonly":        "readOnly",
	"rowspan":         "rowSpan",
	"spellcheck":      "spellCheck",
	"srcdoc":          "srcDoc",
	"srcset":          "srcSet",
	"tabindex":        "tabIndex",
	"usemap":          "useMap",
}

// renameAttribute records the edit for an attribute-name rename and builds
// the change record. Shared by the two attribute-rename rules.
func renameAttribute(ruleID string, f *syntax.File, fd core.Finding, to string) (*core.Change, error) {
	nameNode := syntax.AttributeNameNode(fd.Node)
	if nameNode == nil {
		return nil, fmt.Errorf("attribute has no name node")
	}
	from := f.Text(nameNode)
	if err := f.Edits.Replace(nameNode, to); err != nil {
		return nil, err
	}
	return &core.Change{
		Rule:   ruleID,
		Kind:   core.ChangeAttributeRename,
		Line:   fd.Line,
		Before: from,
		After:  to,
	}, nil
}

// ReservedProp flags attributes named after reserved properties
// (class, for) and renames them to their JSX form.
type ReservedProp struct{}

func (r *ReservedProp) ID() string              { return "reserved-prop" }
func (r *ReservedProp) Category() core.Category { return core.CategoryAttribute }
func (r *ReservedProp) Severity() core.Severity { return core.SeverityError }

func (r *ReservedProp) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	return detectAttributeTable(m, f, reservedProps, "reserved property name")
}

func (r *ReservedProp) Fix(f *syntax.File, fd core.Finding) (*core.Change, error) {
	name := syntax.AttributeName(fd.Node, f.Src)
	to, ok := reservedProps[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q is not in the reserved table", name)
	}
	return renameAttribute(r.ID(), f, fd, to)
}

// CamelCaseAttribute flags known lower-case DOM attribute spellings and
// renames them to the required camelCase form.
type CamelCaseAttribute struct{}

func (r *CamelCaseAttribute) ID() string              { return "camelcase-attribute" }
func (r *CamelCaseAttribute) Category() core.Category { return core.CategoryAttribute }
func (r *CamelCaseAttribute) Severity() core.Severity { return core.SeverityWarning }

func (r *CamelCaseAttribute) Detect(f *syntax.File) []core.Finding {
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	return detectAttributeTable(m, f, camelCaseProps, "lower-case attribute spelling")
}

func (r *CamelCaseAttribute) Fix(f *syntax.File, fd core.Finding) (*core.Change, error) {
	name := syntax.AttributeName(fd.Node, f.Src)
	to, ok := camelCaseProps[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q is not in the camelCase table", name)
	}
	return renameAttribute(r.ID(), f, fd, to)
}

// detectAttributeTable walks all element attributes and flags names present
// in the table. Findings come out in source order.
func detectAttributeTable(m meta, f *syntax.File, table map[string]string, what string) []core.Finding {
	var findings []core.Finding
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() != syntax.KindJSXAttribute {
			return true
		}
		name := syntax.AttributeName(n, f.Src)
		if to, ok := table[name]; ok {
			findings = append(findings, finding(m, f, n,
				fmt.Sprintf("%s %q, use %q", what, name, to),
				fmt.Sprintf("rename to %s", to)))
		}
		return true
	})
	return findings
}

// QuoteStyle flags a file mixing single- and double-quoted attribute
// values. The minority style is reported once per file; there is no
// auto-fix.
type QuoteStyle struct{}

func (r *QuoteStyle) ID() string              { return "quote-style" }
func (r *QuoteStyle) Category() core.Category { return core.CategoryAttribute }
func (r *QuoteStyle) Severity() core.Severity { return core.SeverityWarning }

func (r *QuoteStyle) Detect(f *syntax.File) []core.Finding {
	type quoted struct {
		node   *sitter.Node
		single bool
	}
	var values []quoted
	syntax.Walk(f.Root, func(n *sitter.Node) bool {
		if n.Type() != syntax.KindJSXAttribute {
			return true
		}
		value := syntax.AttributeValue(n)
		if value == nil || value.Type() != syntax.KindString {
			return true
		}
		text := f.Text(value)
		if len(text) == 0 {
			return true
		}
		values = append(values, quoted{node: value, single: text[0] == '\''})
		return true
	})

	singles, doubles := 0, 0
	for _, v := range values {
		if v.single {
			singles++
		} else {
			doubles++
		}
	}
	if singles == 0 || doubles == 0 {
		return nil
	}

	// Double quotes are the conventional style; on a tie they win.
	minoritySingle := singles <= doubles
	m := meta{id: r.ID(), cat: r.Category(), sev: r.Severity()}
	for _, v := range values {
		if v.single == minoritySingle {
			return []core.Finding{finding(m, f, v.node,
				fmt.Sprintf("inconsistent attribute quote style (%d single, %d double)", singles, doubles),
				"pick one quote style for attribute values")}
		}
	}
	return nil
}
