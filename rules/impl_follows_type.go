package rules

import (
	"fmt"
	"strings"

	"github.com/valeratrades/codestyle/syntax"
)

// ImplFollowsType requires every top-level `impl T` block (inherent and trait
// impls alike) to sit directly below the declaration of `T`, at most one blank
// line apart. Chained impls for the same type extend the anchor, so several
// impl blocks may stack below one declaration. Impls for types declared
// elsewhere are ignored.
type ImplFollowsType struct{}

func (ImplFollowsType) Name() string         { return "impl-follows-type" }
func (ImplFollowsType) DefaultEnabled() bool { return true }

// anchor tracks where the impls of a type are currently expected to attach:
// initially the type declaration, then the end of its last well-placed impl.
type anchor struct {
	declStart int
	endLine   int
	endByte   int
}

func (ImplFollowsType) Check(f *syntax.File) []Violation {
	var vs []Violation
	items := f.Items()

	// Anchors are registered as declarations are passed, so an impl pairs
	// with the nearest preceding declaration of its type (cfg-gated
	// duplicates each anchor their own group of impls).
	anchors := make(map[string]*anchor)

	for _, it := range items {
		switch it.Kind {
		case syntax.KindStruct, syntax.KindEnum, syntax.KindUnion:
			anchors[it.Name] = &anchor{
				declStart: it.StartByte,
				endLine:   int(it.Node.EndPoint().Row) + 1,
				endByte:   it.EndByte,
			}

		case syntax.KindImpl:
			if it.Name == "" {
				continue
			}
			line, col := f.Position(it.Node)

			a, declared := anchors[it.Name]
			if !declared {
				decl, found := declAfter(items, it)
				if !found {
					// Type lives in another file.
					continue
				}
				vs = append(vs, Violation{
					Rule:    "impl-follows-type",
					Path:    f.Path,
					Line:    line,
					Col:     col,
					Message: fmt.Sprintf("`impl %s` appears before the declaration of `%s`", it.Name, it.Name),
					Fix:     relocateBefore(f, it, decl),
				})
				continue
			}

			implStartLine := posLine(f, it.StartByte)
			if implStartLine > a.endLine+2 {
				vs = append(vs, Violation{
					Rule:    "impl-follows-type",
					Path:    f.Path,
					Line:    line,
					Col:     col,
					Message: fmt.Sprintf("`impl %s` should directly follow the declaration of `%s` (line %d)", it.Name, it.Name, a.endLine),
					Fix:     relocateAfter(f, a, it),
				})
			}

			a.endLine = int(it.Node.EndPoint().Row) + 1
			a.endByte = it.EndByte
		}
	}

	return sortViolations(vs)
}

// declAfter finds the first declaration of the impl's type that starts after
// the impl block.
func declAfter(items []syntax.Item, impl syntax.Item) (syntax.Item, bool) {
	for _, it := range items {
		switch it.Kind {
		case syntax.KindStruct, syntax.KindEnum, syntax.KindUnion:
			if it.Name == impl.Name && it.StartByte > impl.EndByte {
				return it, true
			}
		}
	}
	return syntax.Item{}, false
}

// relocateAfter moves an impl block up so it directly follows its anchor,
// pushing any code that stood between them below the impl. Both the impl and
// the displaced code are preserved byte for byte.
func relocateAfter(f *syntax.File, a *anchor, it syntax.Item) *syntax.Edit {
	implLineStart := f.LineStartAt(it.StartByte)
	implText := strings.TrimLeft(string(f.Src[implLineStart:it.EndByte]), "\n")
	insertPos := f.LineEndAt(a.endByte)
	between := string(f.Src[insertPos:implLineStart])

	if strings.TrimSpace(between) == "" {
		// Only blank lines separate them: collapse to a single one.
		return &syntax.Edit{Start: insertPos, End: it.EndByte, Text: "\n" + implText}
	}
	return &syntax.Edit{
		Start: insertPos,
		End:   it.EndByte,
		Text:  "\n" + implText + "\n\n" + strings.TrimSpace(between),
	}
}

// relocateBefore moves an impl block down past the declaration of its type,
// keeping whatever stood between them above the declaration.
func relocateBefore(f *syntax.File, it, decl syntax.Item) *syntax.Edit {
	implLineStart := f.LineStartAt(it.StartByte)
	declLineStart := f.LineStartAt(decl.StartByte)
	implText := string(f.Src[implLineStart:it.EndByte])
	declText := string(f.Src[declLineStart:decl.EndByte])
	middle := strings.TrimSpace(string(f.Src[it.EndByte:declLineStart]))

	text := declText + "\n" + implText
	if middle != "" {
		text = middle + "\n\n" + text
	}
	return &syntax.Edit{Start: implLineStart, End: decl.EndByte, Text: text}
}

// posLine returns the 1-based line containing a byte offset.
func posLine(f *syntax.File, pos int) int {
	line := 1
	for l := 1; l <= f.NumLines(); l++ {
		if f.LineStart(l) > pos {
			break
		}
		line = l
	}
	return line
}
