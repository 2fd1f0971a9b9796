package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ParseError reports a file whose source could not be parsed. The file is
// skipped; the run continues.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.File, e.Message)
}

// File is the per-file analysis context: the parsed tree, its source bytes,
// the scope table and the pending edit set. One File is private to one
// pipeline instance; nothing here is shared across files.
type File struct {
	Path   string
	Src    []byte
	Tree   *sitter.Tree
	Root   *sitter.Node
	Scopes *ScopeTable
	Edits  *EditSet
}

// Text returns the source text covered by n.
func (f *File) Text(n *sitter.Node) string {
	return n.Content(f.Src)
}

// Line returns the 1-based line of n's start position.
func (f *File) Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// Column returns the 1-based column of n's start position.
func (f *File) Column(n *sitter.Node) int {
	return int(n.StartPoint().Column) + 1
}

// Close releases the underlying tree.
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
	}
}

// Parse parses JSX/JS source into a File with position metadata on every
// node. Malformed source yields a *ParseError; the tree is closed before
// returning it.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil || tree == nil {
		return nil, &ParseError{File: path, Message: fmt.Sprintf("parser failed: %v", err)}
	}

	root := tree.RootNode()
	if msg, bad := firstSyntaxError(root); bad {
		tree.Close()
		return nil, &ParseError{File: path, Message: msg}
	}

	f := &File{
		Path:  path,
		Src:   src,
		Tree:  tree,
		Root:  root,
		Edits: NewEditSet(),
	}
	f.Scopes = Resolve(f)
	return f, nil
}

// firstSyntaxError scans for ERROR or missing nodes and reports the first.
func firstSyntaxError(root *sitter.Node) (string, bool) {
	if !root.HasError() {
		return "", false
	}
	msg := "syntax error"
	found := false
	Walk(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == KindError || n.IsMissing() {
			msg = fmt.Sprintf("syntax error at line %d, column %d",
				n.StartPoint().Row+1, n.StartPoint().Column+1)
			found = true
			return false
		}
		return true
	})
	return msg, true
}
