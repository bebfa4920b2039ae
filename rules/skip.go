package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/valeratrades/codestyle/syntax"
)

// skipAttr is the opt-out marker: an item annotated with it is exempt from
// every rule.
const skipAttr = "codestyle::skip"

// SkipRanges returns the byte ranges of items annotated `#[codestyle::skip]`,
// each range covering the attribute through the end of the annotated item.
func SkipRanges(f *syntax.File) [][2]int {
	var ranges [][2]int
	f.Walk(func(n *sitter.Node) bool {
		if n.Type() != "attribute_item" {
			return true
		}
		if attrText := f.Text(n); !isSkipAttr(attrText) {
			return true
		}
		item := annotatedItem(n)
		if item == nil {
			return true
		}
		ranges = append(ranges, [2]int{int(n.StartByte()), int(item.EndByte())})
		return true
	})
	return ranges
}

func isSkipAttr(text string) bool {
	// Attribute text looks like "#[codestyle::skip]".
	return text == "#["+skipAttr+"]"
}

// annotatedItem resolves the item an attribute applies to: the next named
// sibling that is not itself an attribute or comment.
func annotatedItem(attr *sitter.Node) *sitter.Node {
	n := attr.NextNamedSibling()
	for n != nil {
		switch n.Type() {
		case "attribute_item", "line_comment", "block_comment":
			n = n.NextNamedSibling()
		default:
			return n
		}
	}
	return nil
}

// FilterSkipped drops violations located inside a skip range. Rules stay
// unaware of the marker; the engine applies this after every Check.
func FilterSkipped(f *syntax.File, vs []Violation) []Violation {
	ranges := SkipRanges(f)
	if len(ranges) == 0 {
		return vs
	}
	kept := vs[:0]
	for _, v := range vs {
		pos := f.LineStart(v.Line) + v.Col - 1
		if !inRanges(pos, ranges) {
			kept = append(kept, v)
		}
	}
	return kept
}

func inRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}
