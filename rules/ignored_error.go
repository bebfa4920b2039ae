package rules

import (
	"fmt"

	"github.com/valeratrades/codestyle/syntax"
)

// ignoredErrorHint is shared by the two rules that guard silent fallbacks.
const ignoredErrorHint = "could the pattern be allowing to continue with corrupted state? Error out properly or explain why it's part of the intended logic"

// LetUnderscoreComment requires a `//IGNORED_ERROR` justification next to
// `let _ = ...` statements, which can silently discard Results.
type LetUnderscoreComment struct{}

func (LetUnderscoreComment) Name() string         { return "let-underscore-comment" }
func (LetUnderscoreComment) DefaultEnabled() bool { return true }

func (LetUnderscoreComment) Check(f *syntax.File) []Violation {
	var vs []Violation
	for _, let := range f.NodesOfType("let_declaration") {
		pat := let.ChildByFieldName("pattern")
		// Only the standalone wildcard counts; `_name` and destructuring
		// patterns keep the value reachable or intentional.
		if pat == nil || f.Text(pat) != "_" {
			continue
		}
		if let.ChildByFieldName("value") == nil {
			continue
		}
		line, col := f.Position(pat)
		if hasMarkerNear(f, line, "IGNORED_ERROR") {
			continue
		}
		vs = append(vs, Violation{
			Rule:    "let-underscore-comment",
			Path:    f.Path,
			Line:    line,
			Col:     col,
			Message: "`let _ = ...` without `//IGNORED_ERROR` comment; " + ignoredErrorHint,
		})
	}
	return sortViolations(vs)
}

// UnwrapOrComment requires a `//IGNORED_ERROR` justification next to
// unwrap_or-family calls, which can mask corrupted state behind fallbacks.
type UnwrapOrComment struct{}

func (UnwrapOrComment) Name() string         { return "unwrap-or-comment" }
func (UnwrapOrComment) DefaultEnabled() bool { return true }

var unwrapOrMethods = map[string]bool{
	"unwrap_or":         true,
	"unwrap_or_default": true,
	"unwrap_or_else":    true,
}

func (UnwrapOrComment) Check(f *syntax.File) []Violation {
	var vs []Violation
	for _, call := range f.NodesOfType("call_expression") {
		fn := call.ChildByFieldName("function")
		if fn == nil || fn.Type() != "field_expression" {
			continue
		}
		field := fn.ChildByFieldName("field")
		if field == nil {
			continue
		}
		method := f.Text(field)
		if !unwrapOrMethods[method] {
			continue
		}
		line, col := f.Position(field)
		if hasMarkerNear(f, line, "IGNORED_ERROR") {
			continue
		}
		vs = append(vs, Violation{
			Rule:    "unwrap-or-comment",
			Path:    f.Path,
			Line:    line,
			Col:     col,
			Message: fmt.Sprintf("`%s` without `//IGNORED_ERROR` comment; %s", method, ignoredErrorHint),
		})
	}
	return sortViolations(vs)
}
