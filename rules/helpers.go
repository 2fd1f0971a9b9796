package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxfix/syntax"
)

// unwrapParens strips parenthesized_expression wrappers.
func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == syntax.KindParenthesized {
		if n.NamedChildCount() == 0 {
			return n
		}
		n = n.NamedChild(0)
	}
	return n
}

// isElement reports whether n is a JSX element, self-closing element or
// fragment.
func isElement(n *sitter.Node) bool {
	return n != nil && syntax.IsElementKind(n.Type())
}

// subtreeHasElement reports whether any node under n is a JSX element.
func subtreeHasElement(n *sitter.Node) bool {
	found := false
	syntax.Walk(n, func(child *sitter.Node) bool {
		if found {
			return false
		}
		if isElement(child) {
			found = true
			return false
		}
		return true
	})
	return found
}

// isFunctionNode reports whether n is any function literal or declaration.
func isFunctionNode(n *sitter.Node) bool {
	return n != nil && syntax.IsFunctionKind(n.Type())
}

// returnedElement resolves the element a callback produces: its concise
// arrow body, a parenthesized expression around one, or the argument of a
// return statement in its block body. Nested function literals are not
// descended into.
func returnedElement(fn *sitter.Node) *sitter.Node {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if direct := unwrapParens(body); isElement(direct) {
		return direct
	}
	if body.Type() != syntax.KindStatementBlock {
		return nil
	}
	var element *sitter.Node
	syntax.Walk(body, func(n *sitter.Node) bool {
		if element != nil {
			return false
		}
		if n != body && isFunctionNode(n) {
			return false
		}
		if n.Type() == syntax.KindReturnStatement && n.NamedChildCount() > 0 {
			if arg := unwrapParens(n.NamedChild(0)); isElement(arg) {
				element = arg
			}
			return false
		}
		return true
	})
	return element
}

// returnsElement reports whether fn provably returns JSX.
func returnsElement(fn *sitter.Node) bool {
	return returnedElement(fn) != nil
}

// startsLower reports whether name begins with a lower-case letter.
func startsLower(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r)
}

// capitalize upper-cases the first rune, leaving the remainder unchanged.
func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// isSpreadAttribute reports whether an attribute-position node is a prop
// spread ({...props}).
func isSpreadAttribute(n *sitter.Node) bool {
	if strings.Contains(n.Type(), "spread") {
		return true
	}
	if n.Type() != syntax.KindJSXExpression {
		return false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == syntax.KindSpreadElement {
			return true
		}
	}
	return false
}

// insideExpressionContainer reports whether n sits under a jsx_expression.
func insideExpressionContainer(n *sitter.Node) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Type() == syntax.KindJSXExpression {
			return true
		}
		if isElement(cur) {
			return false
		}
	}
	return false
}
