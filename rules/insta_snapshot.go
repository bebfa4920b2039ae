package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/valeratrades/codestyle/syntax"
)

// InstaInlineSnapshot requires insta snapshot assertions to use the inline
// `@"..."` form instead of external .snap files. The fix appends an empty
// `@""` inline snapshot, which `cargo insta review` then populates; callers
// using bracket or brace delimiters are reported for manual fixing.
type InstaInlineSnapshot struct{}

func (InstaInlineSnapshot) Name() string         { return "insta-inline-snapshot" }
func (InstaInlineSnapshot) DefaultEnabled() bool { return true }

var instaSnapshotMacros = map[string]bool{
	"assert_snapshot":               true,
	"assert_debug_snapshot":         true,
	"assert_display_snapshot":       true,
	"assert_json_snapshot":          true,
	"assert_yaml_snapshot":          true,
	"assert_ron_snapshot":           true,
	"assert_toml_snapshot":          true,
	"assert_csv_snapshot":           true,
	"assert_compact_json_snapshot":  true,
	"assert_compact_debug_snapshot": true,
}

func (InstaInlineSnapshot) Check(f *syntax.File) []Violation {
	var vs []Violation
	seen := make(map[[2]int]bool)

	for _, mc := range f.MacroCalls() {
		if !instaSnapshotMacros[mc.Name] || mc.Tokens == nil {
			continue
		}
		// Accept the bare macro name and the insta::-qualified form only.
		if len(mc.Path) > 2 || (len(mc.Path) == 2 && mc.Path[0] != "insta") {
			continue
		}
		key := [2]int{int(mc.Node.StartByte()), int(mc.Node.EndByte())}
		if seen[key] {
			continue
		}
		seen[key] = true

		if hasInlineSnapshot(f, mc.Tokens) {
			continue
		}

		line, col := f.Position(mc.Node)
		vs = append(vs, Violation{
			Rule:    "insta-inline-snapshot",
			Path:    f.Path,
			Line:    line,
			Col:     col,
			Message: fmt.Sprintf("`%s!` must use an inline snapshot with `@r\"\"` or `@\"\"`", mc.Name),
			Fix:     appendInlineSnapshotFix(f, mc.Tokens),
		})
	}
	return sortViolations(vs)
}

// hasInlineSnapshot scans the top level of the token tree for `@` followed by
// a string literal.
func hasInlineSnapshot(f *syntax.File, tt *sitter.Node) bool {
	count := int(tt.ChildCount())
	for i := 0; i < count-1; i++ {
		if tt.Child(i).Type() == "@" && syntax.IsStringLiteral(tt.Child(i+1)) {
			return true
		}
	}
	return false
}

// appendInlineSnapshotFix inserts `, @""` (or `@""` when the macro has no
// arguments yet) in front of the invocation's closing parenthesis. Returns
// nil for non-parenthesized invocations, which need manual fixing.
func appendInlineSnapshotFix(f *syntax.File, tt *sitter.Node) *syntax.Edit {
	if f.TokenTreeDelimiter(tt) != "(" {
		return nil
	}
	closing := int(tt.EndByte()) - 1
	if closing < 0 || closing >= len(f.Src) || f.Src[closing] != ')' {
		return nil
	}

	inner := strings.TrimSpace(string(f.Src[tt.StartByte()+1 : closing]))
	text := ", @\"\")"
	if inner == "" || strings.HasSuffix(inner, ",") {
		text = "@\"\")"
	}
	return &syntax.Edit{Start: closing, End: closing + 1, Text: text}
}
