// Package syntax provides the structural model of a Rust source file used by
// the codestyle rules. It wraps a tree-sitter parse tree with position lookup,
// item extraction, and macro-invocation helpers precise enough for the rule
// set, without attempting full semantic analysis.
package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// ParseError reports a file whose text could not be built into a structural
// tree. It is surfaced per file and never aborts the run.
type ParseError struct {
	Path string
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at %s:%d:%d", e.Path, e.Line, e.Col)
}

// Parse builds the structural tree for a single Rust source file.
// The returned File is immutable; fixes produce new text which is re-parsed.
func Parse(path string, src []byte) (*File, error) {
	// Parsers hold per-parse state, so each call gets its own instance.
	// This keeps Parse safe to call from concurrent per-file workers.
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		line, col := 1, 1
		if bad := firstErrorNode(root); bad != nil {
			line = int(bad.StartPoint().Row) + 1
			col = int(bad.StartPoint().Column) + 1
		}
		tree.Close()
		return nil, &ParseError{Path: path, Line: line, Col: col}
	}

	f := &File{
		Path: path,
		Src:  src,
		tree: tree,
		root: root,
	}
	f.buildLineIndex()
	return f, nil
}

// firstErrorNode finds the first ERROR or missing node in document order.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return n
}
