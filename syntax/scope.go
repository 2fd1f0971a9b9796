package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Binding is one declared name: its declaration identifier and every
// identifier node that resolves to it. Refs is in source order and never
// contains the declaration node itself.
type Binding struct {
	Name string
	Decl *sitter.Node
	Refs []*sitter.Node
}

// Scope is one lexical scope. Bindings declared here shadow outer bindings
// of the same name.
type Scope struct {
	Kind     string
	start    uint32
	end      uint32
	parent   *Scope
	children []*Scope
	bindings map[string]*Binding
}

// Lookup resolves name at this scope, walking outward. Nearest enclosing
// scope wins.
func (s *Scope) Lookup(name string) *Binding {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// LookupLocal resolves name in this scope only.
func (s *Scope) LookupLocal(name string) *Binding {
	return s.bindings[name]
}

// ScopeTable holds the binding information for one tree. It is built once
// per file before any rule runs: detectors read it, rename transformers
// rewrite through it. A rename is only valid because every reference of a
// binding is accounted for here.
type ScopeTable struct {
	root      *Scope
	declSpans map[[2]uint32]bool
}

// Root returns the program scope.
func (t *ScopeTable) Root() *Scope {
	return t.root
}

// InnermostAt returns the innermost scope containing the byte offset.
func (t *ScopeTable) InnermostAt(pos uint32) *Scope {
	cur := t.root
	for {
		descended := false
		for _, child := range cur.children {
			if child.start <= pos && pos < child.end {
				cur = child
				descended = true
				break
			}
		}
		if !descended {
			return cur
		}
	}
}

// LookupAt resolves name as seen from the given byte offset.
func (t *ScopeTable) LookupAt(name string, pos uint32) *Binding {
	return t.InnermostAt(pos).Lookup(name)
}

// BindingFor returns the binding whose declaration identifier is node, if
// node is a declaration site.
func (t *ScopeTable) BindingFor(node *sitter.Node, src []byte) *Binding {
	name := node.Content(src)
	b := t.LookupAt(name, node.StartByte())
	if b == nil || b.Decl == nil {
		return nil
	}
	if b.Decl.StartByte() == node.StartByte() && b.Decl.EndByte() == node.EndByte() {
		return b
	}
	return nil
}

// DeclaresWithin reports whether any scope inside [start, end) declares name.
func (t *ScopeTable) DeclaresWithin(start, end uint32, name string) bool {
	var found bool
	var visit func(s *Scope)
	visit = func(s *Scope) {
		if found {
			return
		}
		if s.start >= start && s.end <= end {
			if b, ok := s.bindings[name]; ok && b.Decl != nil {
				found = true
				return
			}
		}
		for _, child := range s.children {
			if child.end <= start || child.start >= end {
				continue
			}
			visit(child)
		}
	}
	visit(t.root)
	return found
}

// RefsWithin returns the binding's references inside [start, end).
func (b *Binding) RefsWithin(start, end uint32) []*sitter.Node {
	var refs []*sitter.Node
	for _, r := range b.Refs {
		if r.StartByte() >= start && r.EndByte() <= end {
			refs = append(refs, r)
		}
	}
	return refs
}

// Resolve builds the scope table in two passes: collect declarations per
// lexical scope, then resolve every identifier reference to its nearest
// enclosing binding. All declarators are scoped to their nearest enclosing
// block; var hoisting is not modeled.
func Resolve(f *File) *ScopeTable {
	t := &ScopeTable{
		root: &Scope{
			Kind:     KindProgram,
			start:    f.Root.StartByte(),
			end:      f.Root.EndByte(),
			bindings: make(map[string]*Binding),
		},
		declSpans: make(map[[2]uint32]bool),
	}
	t.collect(f.Root, t.root, f.Src)
	t.resolveRefs(f.Root, f.Src)
	return t
}

func (t *ScopeTable) newScope(parent *Scope, n *sitter.Node) *Scope {
	s := &Scope{
		Kind:     n.Type(),
		start:    n.StartByte(),
		end:      n.EndByte(),
		parent:   parent,
		bindings: make(map[string]*Binding),
	}
	parent.children = append(parent.children, s)
	return s
}

func (t *ScopeTable) declare(scope *Scope, nameNode *sitter.Node, src []byte) {
	name := nameNode.Content(src)
	if name == "" {
		return
	}
	scope.bindings[name] = &Binding{Name: name, Decl: nameNode}
	t.declSpans[[2]uint32{nameNode.StartByte(), nameNode.EndByte()}] = true
}

// declarePattern records every identifier bound by a (possibly destructuring)
// pattern node.
func (t *ScopeTable) declarePattern(scope *Scope, pattern *sitter.Node, src []byte) {
	if pattern == nil {
		return
	}
	switch pattern.Type() {
	case KindIdentifier, KindShorthandPattern:
		t.declare(scope, pattern, src)
	case KindAssignmentPattern:
		if left := pattern.ChildByFieldName("left"); left != nil {
			t.declarePattern(scope, left, src)
		} else if pattern.NamedChildCount() > 0 {
			t.declarePattern(scope, pattern.NamedChild(0), src)
		}
	case KindRestPattern:
		for i := 0; i < int(pattern.NamedChildCount()); i++ {
			t.declarePattern(scope, pattern.NamedChild(i), src)
		}
	case KindPairPattern:
		if value := pattern.ChildByFieldName("value"); value != nil {
			t.declarePattern(scope, value, src)
		}
	case KindObjectPattern, KindArrayPattern:
		for i := 0; i < int(pattern.NamedChildCount()); i++ {
			t.declarePattern(scope, pattern.NamedChild(i), src)
		}
	}
}

func declaratorName(n *sitter.Node) *sitter.Node {
	if name := n.ChildByFieldName("name"); name != nil {
		return name
	}
	return n.ChildByFieldName("id")
}

func functionParams(n *sitter.Node) []*sitter.Node {
	if single := n.ChildByFieldName("parameter"); single != nil {
		return []*sitter.Node{single}
	}
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		out = append(out, params.NamedChild(i))
	}
	return out
}

// collect is the first pass: build the scope tree and record declarations.
func (t *ScopeTable) collect(n *sitter.Node, scope *Scope, src []byte) {
	next := scope

	switch n.Type() {
	case KindFunctionDecl:
		if name := n.ChildByFieldName("name"); name != nil {
			t.declare(scope, name, src)
		}
		next = t.newScope(scope, n)
		for _, p := range functionParams(n) {
			t.declarePattern(next, p, src)
		}
	case KindArrowFunction, KindFunctionExpr, KindFunctionLegacy:
		next = t.newScope(scope, n)
		if name := n.ChildByFieldName("name"); name != nil {
			t.declare(next, name, src)
		}
		for _, p := range functionParams(n) {
			t.declarePattern(next, p, src)
		}
	case KindStatementBlock, KindForStatement, KindForInStatement:
		next = t.newScope(scope, n)
	case KindCatchClause:
		next = t.newScope(scope, n)
		if p := n.ChildByFieldName("parameter"); p != nil {
			t.declarePattern(next, p, src)
		}
	case KindClassDecl:
		if name := n.ChildByFieldName("name"); name != nil {
			t.declare(scope, name, src)
		}
	case KindVariableDeclarator:
		t.declarePattern(scope, declaratorName(n), src)
	case KindImportSpecifier:
		if alias := n.ChildByFieldName("alias"); alias != nil {
			t.declare(scope, alias, src)
		} else if name := n.ChildByFieldName("name"); name != nil {
			t.declare(scope, name, src)
		}
	case KindNamespaceImport:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == KindIdentifier {
				t.declare(scope, child, src)
			}
		}
	case "import_clause":
		// Default import: a bare identifier child of the clause.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == KindIdentifier {
				t.declare(scope, child, src)
			}
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		t.collect(n.Child(i), next, src)
	}
}

// resolveRefs is the second pass: attach every non-declaration identifier to
// the binding it resolves to.
func (t *ScopeTable) resolveRefs(root *sitter.Node, src []byte) {
	Walk(root, func(n *sitter.Node) bool {
		kind := n.Type()
		if kind != KindIdentifier && kind != KindShorthandProperty {
			return true
		}
		if t.declSpans[[2]uint32{n.StartByte(), n.EndByte()}] {
			return true
		}
		if b := t.LookupAt(n.Content(src), n.StartByte()); b != nil {
			b.Refs = append(b.Refs, n)
		}
		return true
	})
}
