package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// File is the parsed, position-annotated representation of one Rust source
// file. It owns the tree-sitter tree and the raw text it was parsed from.
type File struct {
	Path string
	Src  []byte

	tree *sitter.Tree
	root *sitter.Node

	// lineOffsets[i] is the byte offset of the start of line i+1.
	lineOffsets []int
}

// Root returns the root node of the structural tree.
func (f *File) Root() *sitter.Node { return f.root }

// Close releases the underlying tree-sitter tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Text returns the source text spanned by a node.
func (f *File) Text(n *sitter.Node) string {
	return string(f.Src[n.StartByte():n.EndByte()])
}

// Position returns the 1-based line and column of a node's start.
func (f *File) Position(n *sitter.Node) (line, col int) {
	p := n.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}

func (f *File) buildLineIndex() {
	f.lineOffsets = []int{0}
	for i, b := range f.Src {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
}

// NumLines returns the number of lines in the file (a trailing newline does
// not start a new line for counting purposes unless followed by text).
func (f *File) NumLines() int { return len(f.lineOffsets) }

// LineStart returns the byte offset of the start of a 1-based line.
func (f *File) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(f.lineOffsets) {
		return len(f.Src)
	}
	return f.lineOffsets[line-1]
}

// LineEnd returns the byte offset of the newline terminating a 1-based line,
// or len(Src) for the last line.
func (f *File) LineEnd(line int) int {
	if line < 1 {
		return 0
	}
	if line >= len(f.lineOffsets) {
		return len(f.Src)
	}
	return f.lineOffsets[line] - 1
}

// LineText returns the text of a 1-based line without its newline.
// Out-of-range lines yield "".
func (f *File) LineText(line int) string {
	if line < 1 || line > len(f.lineOffsets) {
		return ""
	}
	return string(f.Src[f.LineStart(line):f.LineEnd(line)])
}

// Indentation returns the leading whitespace of a 1-based line.
func (f *File) Indentation(line int) string {
	text := f.LineText(line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

// LineEndAt returns the offset of the first newline at or after pos,
// or len(Src) if there is none.
func (f *File) LineEndAt(pos int) int {
	for i := pos; i < len(f.Src); i++ {
		if f.Src[i] == '\n' {
			return i
		}
	}
	return len(f.Src)
}

// LineStartAt returns the offset of the start of the line containing pos.
func (f *File) LineStartAt(pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if f.Src[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// Walk visits every node in preorder. Returning false from visit skips the
// node's children.
func (f *File) Walk(visit func(n *sitter.Node) bool) {
	walk(f.root, visit)
}

func walk(n *sitter.Node, visit func(n *sitter.Node) bool) {
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// NodesOfType returns every node of the given type in document order.
func (f *File) NodesOfType(nodeType string) []*sitter.Node {
	var nodes []*sitter.Node
	f.Walk(func(n *sitter.Node) bool {
		if n.Type() == nodeType {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}
