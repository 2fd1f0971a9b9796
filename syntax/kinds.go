package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Node kind names produced by the tree-sitter JavaScript grammar. Rules must
// match against these constants instead of raw strings so that a grammar
// bump surfaces as a compile-visible edit here rather than a silent no-op.
const (
	KindProgram            = "program"
	KindFunctionDecl       = "function_declaration"
	KindFunctionExpr       = "function_expression"
	KindFunctionLegacy     = "function" // pre-0.20 grammar spelling
	KindArrowFunction      = "arrow_function"
	KindClassDecl          = "class_declaration"
	KindStatementBlock     = "statement_block"
	KindReturnStatement    = "return_statement"
	KindLexicalDecl        = "lexical_declaration"
	KindVariableDecl       = "variable_declaration"
	KindVariableDeclarator = "variable_declarator"
	KindFormalParameters   = "formal_parameters"
	KindIdentifier         = "identifier"
	KindPropertyIdentifier = "property_identifier"
	KindShorthandProperty  = "shorthand_property_identifier"
	KindShorthandPattern   = "shorthand_property_identifier_pattern"
	KindCallExpr           = "call_expression"
	KindMemberExpr         = "member_expression"
	KindArguments          = "arguments"
	KindParenthesized      = "parenthesized_expression"
	KindTernary            = "ternary_expression"
	KindBinary             = "binary_expression"
	KindString             = "string"
	KindSpreadElement      = "spread_element"
	KindComment            = "comment"
	KindImportStatement    = "import_statement"
	KindImportSpecifier    = "import_specifier"
	KindNamespaceImport    = "namespace_import"
	KindObjectPattern      = "object_pattern"
	KindArrayPattern       = "array_pattern"
	KindAssignmentPattern  = "assignment_pattern"
	KindRestPattern        = "rest_pattern"
	KindPairPattern        = "pair_pattern"
	KindForStatement       = "for_statement"
	KindForInStatement     = "for_in_statement"
	KindCatchClause        = "catch_clause"

	KindJSXElement     = "jsx_element"
	KindJSXSelfClosing = "jsx_self_closing_element"
	KindJSXOpening     = "jsx_opening_element"
	KindJSXClosing     = "jsx_closing_element"
	KindJSXFragment    = "jsx_fragment"
	KindJSXExpression  = "jsx_expression"
	KindJSXAttribute   = "jsx_attribute"
	KindJSXText        = "jsx_text"

	KindError = "ERROR"
)

// Class buckets the grammar's node kinds into the categories the engine
// dispatches on. Anything the engine does not know lands in ClassOther.
type Class int

const (
	ClassOther Class = iota
	ClassElement
	ClassExpressionContainer
	ClassFunction
	ClassDeclaration
	ClassIdentifier
)

// Classify maps a node kind to its engine class.
func Classify(kind string) Class {
	switch kind {
	case KindJSXElement, KindJSXSelfClosing, KindJSXFragment:
		return ClassElement
	case KindJSXExpression:
		return ClassExpressionContainer
	case KindFunctionDecl, KindFunctionExpr, KindFunctionLegacy, KindArrowFunction:
		return ClassFunction
	case KindLexicalDecl, KindVariableDecl, KindVariableDeclarator, KindClassDecl, KindImportStatement:
		return ClassDeclaration
	case KindIdentifier, KindShorthandProperty:
		return ClassIdentifier
	default:
		return ClassOther
	}
}

// IsFunctionKind reports whether kind introduces a function scope.
func IsFunctionKind(kind string) bool {
	return Classify(kind) == ClassFunction
}

// IsElementKind reports whether kind is a JSX element, self-closing element
// or fragment.
func IsElementKind(kind string) bool {
	return Classify(kind) == ClassElement
}

// IsFragment reports whether n is a JSX fragment. Depending on the grammar
// revision fragments are either a dedicated jsx_fragment kind or a
// jsx_element whose opening tag carries no name.
func IsFragment(n *sitter.Node, src []byte) bool {
	switch n.Type() {
	case KindJSXFragment:
		return true
	case KindJSXElement:
		open := OpeningElement(n)
		return open != nil && ElementName(open, src) == ""
	}
	return false
}

// OpeningElement returns the jsx_opening_element child of a jsx_element, or
// the node itself for a self-closing element.
func OpeningElement(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case KindJSXSelfClosing:
		return n
	case KindJSXElement, KindJSXFragment:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == KindJSXOpening {
				return child
			}
		}
		if n.ChildCount() > 0 && n.Child(0).Type() == KindJSXOpening {
			return n.Child(0)
		}
	}
	return nil
}

// ClosingElement returns the jsx_closing_element child of a jsx_element.
func ClosingElement(n *sitter.Node) *sitter.Node {
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		child := n.Child(i)
		if child.Type() == KindJSXClosing {
			return child
		}
	}
	return nil
}

// ElementName returns the tag name of an opening or self-closing element
// node, or "" for fragments.
func ElementName(open *sitter.Node, src []byte) string {
	if open == nil {
		return ""
	}
	if name := open.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	// Grammar revisions without a name field: first identifier-ish child.
	for i := 0; i < int(open.NamedChildCount()); i++ {
		child := open.NamedChild(i)
		switch child.Type() {
		case KindIdentifier, KindMemberExpr, KindPropertyIdentifier:
			return child.Content(src)
		case KindJSXAttribute, KindJSXExpression:
			return ""
		}
	}
	return ""
}

// Attributes returns the jsx_attribute and attribute-position jsx_expression
// children of an opening or self-closing element, in source order.
func Attributes(open *sitter.Node) []*sitter.Node {
	if open == nil {
		return nil
	}
	var attrs []*sitter.Node
	for i := 0; i < int(open.NamedChildCount()); i++ {
		child := open.NamedChild(i)
		switch child.Type() {
		case KindJSXAttribute, KindJSXExpression:
			attrs = append(attrs, child)
		}
	}
	return attrs
}

// AttributeName returns the name of a jsx_attribute node.
func AttributeName(attr *sitter.Node, src []byte) string {
	if attr.Type() != KindJSXAttribute {
		return ""
	}
	if attr.NamedChildCount() == 0 {
		return ""
	}
	return attr.NamedChild(0).Content(src)
}

// AttributeNameNode returns the identifier node carrying the attribute name.
func AttributeNameNode(attr *sitter.Node) *sitter.Node {
	if attr.Type() != KindJSXAttribute || attr.NamedChildCount() == 0 {
		return nil
	}
	return attr.NamedChild(0)
}

// AttributeValue returns the value node of a jsx_attribute (string or
// jsx_expression), or nil for bare attributes.
func AttributeValue(attr *sitter.Node) *sitter.Node {
	if attr.Type() != KindJSXAttribute || attr.NamedChildCount() < 2 {
		return nil
	}
	return attr.NamedChild(int(attr.NamedChildCount()) - 1)
}

// FindAttribute returns the jsx_attribute with the given name, if present.
func FindAttribute(open *sitter.Node, src []byte, name string) *sitter.Node {
	for _, attr := range Attributes(open) {
		if attr.Type() == KindJSXAttribute && AttributeName(attr, src) == name {
			return attr
		}
	}
	return nil
}

// ElementChildren returns the child nodes of a jsx_element between its tags,
// ignoring whitespace-only text.
func ElementChildren(n *sitter.Node, src []byte) []*sitter.Node {
	if n.Type() != KindJSXElement && n.Type() != KindJSXFragment {
		return nil
	}
	var children []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case KindJSXOpening, KindJSXClosing:
			continue
		case KindJSXText:
			if strings.TrimSpace(child.Content(src)) == "" {
				continue
			}
		}
		children = append(children, child)
	}
	return children
}

// Walk visits n and its subtree in preorder. The callback returns false to
// prune descent.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), fn)
	}
}
