package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// MacroCall is a macro invocation located anywhere in the file.
type MacroCall struct {
	Node *sitter.Node
	// Path holds the invocation path segments ("insta", "assert_snapshot").
	Path []string
	// Name is the last path segment.
	Name string
	// Tokens is the delimited token_tree argument node, nil when absent.
	Tokens *sitter.Node
}

// MacroCalls returns every macro invocation in document order.
func (f *File) MacroCalls() []MacroCall {
	var calls []MacroCall
	f.Walk(func(n *sitter.Node) bool {
		if n.Type() != "macro_invocation" {
			return true
		}
		mc := MacroCall{Node: n}
		if m := n.ChildByFieldName("macro"); m != nil {
			mc.Path = strings.Split(f.Text(m), "::")
			mc.Name = mc.Path[len(mc.Path)-1]
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "token_tree" {
				mc.Tokens = c
				break
			}
		}
		calls = append(calls, mc)
		return true
	})
	return calls
}

// TokenTreeDelimiter returns the opening delimiter of a token_tree:
// "(", "[" or "{".
func (f *File) TokenTreeDelimiter(tt *sitter.Node) string {
	if tt == nil || tt.ChildCount() == 0 {
		return ""
	}
	return tt.Child(0).Type()
}

// MacroArgs splits the top level of a token_tree on commas, returning one
// group of token nodes per macro argument. The surrounding delimiters are
// excluded. Nested token_trees stay as single nodes, so commas inside them
// never split a group.
func (f *File) MacroArgs(tt *sitter.Node) [][]*sitter.Node {
	if tt == nil {
		return nil
	}
	var groups [][]*sitter.Node
	var cur []*sitter.Node
	count := int(tt.ChildCount())
	for i := 1; i < count-1; i++ {
		c := tt.Child(i)
		if c.Type() == "," {
			if len(cur) > 0 {
				groups = append(groups, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, c)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// IsStringLiteral reports whether a token node is a (raw) string literal.
func IsStringLiteral(n *sitter.Node) bool {
	t := n.Type()
	return t == "string_literal" || t == "raw_string_literal"
}

// GroupText returns the source text covering a macro argument group.
func (f *File) GroupText(group []*sitter.Node) string {
	if len(group) == 0 {
		return ""
	}
	return string(f.Src[group[0].StartByte():group[len(group)-1].EndByte()])
}

// GroupSpan returns the byte span covering a macro argument group.
func GroupSpan(group []*sitter.Node) (start, end int) {
	return int(group[0].StartByte()), int(group[len(group)-1].EndByte())
}
