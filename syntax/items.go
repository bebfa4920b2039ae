package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ItemKind classifies the top-level items the rules care about.
type ItemKind int

const (
	KindOther ItemKind = iota
	KindStruct
	KindEnum
	KindUnion
	KindTrait
	KindImpl
	KindFn
	KindMod
)

// Item is a top-level declaration with its span extended backward over any
// contiguous attributes and doc comments, so relocating the item keeps them
// attached.
type Item struct {
	Node *sitter.Node
	Kind ItemKind
	// Name is the declared identifier; for impl blocks it is the last path
	// segment of the self type.
	Name string
	// TraitImpl is set for `impl Trait for T` blocks.
	TraitImpl bool
	// StartByte and EndByte cover the item plus its attributes/doc comments.
	StartByte int
	EndByte   int
}

var itemKinds = map[string]ItemKind{
	"struct_item":   KindStruct,
	"enum_item":     KindEnum,
	"union_item":    KindUnion,
	"trait_item":    KindTrait,
	"impl_item":     KindImpl,
	"function_item": KindFn,
	"mod_item":      KindMod,
}

// Items returns the ordered top-level items of the file.
func (f *File) Items() []Item {
	var items []Item
	for i := 0; i < int(f.root.NamedChildCount()); i++ {
		n := f.root.NamedChild(i)
		kind, ok := itemKinds[n.Type()]
		if !ok {
			continue
		}
		item := Item{
			Node:      n,
			Kind:      kind,
			StartByte: int(n.StartByte()),
			EndByte:   int(n.EndByte()),
		}
		switch kind {
		case KindImpl:
			item.Name = f.implTargetName(n)
			item.TraitImpl = n.ChildByFieldName("trait") != nil
		default:
			if name := n.ChildByFieldName("name"); name != nil {
				item.Name = f.Text(name)
			}
		}
		item.StartByte = f.attachedStart(n)
		items = append(items, item)
	}
	return items
}

// attachedStart walks back over attribute items and outer doc comments that
// sit directly above the node and returns the earliest start byte.
func (f *File) attachedStart(n *sitter.Node) int {
	start := int(n.StartByte())
	cur := n
	for {
		prev := cur.PrevNamedSibling()
		if prev == nil {
			break
		}
		switch prev.Type() {
		case "attribute_item":
		case "line_comment":
			if !strings.HasPrefix(f.Text(prev), "///") {
				return start
			}
		case "block_comment":
			if !strings.HasPrefix(f.Text(prev), "/**") {
				return start
			}
		default:
			return start
		}
		// Must be directly above (or on the same line as) what it annotates.
		if int(prev.EndPoint().Row)+1 < int(cur.StartPoint().Row) {
			return start
		}
		start = int(prev.StartByte())
		cur = prev
	}
	return start
}

// implTargetName returns the last path segment of an impl block's self type.
func (f *File) implTargetName(impl *sitter.Node) string {
	t := impl.ChildByFieldName("type")
	if t == nil {
		return ""
	}
	return f.typeName(t)
}

func (f *File) typeName(t *sitter.Node) string {
	switch t.Type() {
	case "type_identifier":
		return f.Text(t)
	case "scoped_type_identifier":
		if name := t.ChildByFieldName("name"); name != nil {
			return f.Text(name)
		}
	case "generic_type":
		if inner := t.ChildByFieldName("type"); inner != nil {
			return f.typeName(inner)
		}
	case "reference_type", "pointer_type":
		if inner := t.ChildByFieldName("type"); inner != nil {
			return f.typeName(inner)
		}
	}
	// Fallback: trim generics off the raw text.
	text := f.Text(t)
	if idx := strings.IndexByte(text, '<'); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.LastIndex(text, "::"); idx >= 0 {
		text = text[idx+2:]
	}
	return strings.TrimSpace(text)
}

// IsAsyncFn reports whether a function_item node declares an async function.
func (f *File) IsAsyncFn(fn *sitter.Node) bool {
	for i := 0; i < int(fn.ChildCount()); i++ {
		c := fn.Child(i)
		switch c.Type() {
		case "fn":
			return false
		case "async":
			return true
		case "function_modifiers":
			if strings.Contains(f.Text(c), "async") {
				return true
			}
		}
	}
	return false
}

// AttributePaths returns the attribute paths (e.g. "tracing::instrument",
// "tokio::test") attached to a node via preceding attribute_item siblings.
func (f *File) AttributePaths(n *sitter.Node) []string {
	var paths []string
	cur := n
	for {
		prev := cur.PrevNamedSibling()
		if prev == nil {
			break
		}
		t := prev.Type()
		if t != "attribute_item" && t != "line_comment" && t != "block_comment" {
			break
		}
		if t == "attribute_item" {
			if p := attrPath(f.Text(prev)); p != "" {
				paths = append(paths, p)
			}
		}
		cur = prev
	}
	return paths
}

// attrPath extracts the path from an attribute's raw text:
// "#[tracing::instrument(skip_all)]" -> "tracing::instrument".
func attrPath(text string) string {
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimPrefix(text, "!")
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(strings.TrimSpace(text), "]")
	if idx := strings.IndexAny(text, "(= \t"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// LastPathSegment returns the final `::`-separated segment of a path.
func LastPathSegment(path string) string {
	if idx := strings.LastIndex(path, "::"); idx >= 0 {
		return path[idx+2:]
	}
	return path
}
