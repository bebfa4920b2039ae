// Package rules defines the convention-rule contract and the fixed rule set.
// Each rule is an independent detector over the structural tree; a rule that
// can repair an occurrence attaches a span-replacement fix to the violation.
package rules

import (
	"sort"
	"strings"

	"github.com/valeratrades/codestyle/syntax"
)

// Violation is one reported instance of a broken convention.
type Violation struct {
	Rule    string
	Path    string
	Line    int // 1-based
	Col     int // 1-based
	Message string
	// Fix replaces the offending span when the occurrence is auto-fixable;
	// nil marks it as needing manual correction.
	Fix *syntax.Edit
}

// Fixable reports whether the occurrence carries an automatic fix.
func (v Violation) Fixable() bool { return v.Fix != nil }

// Rule is a single check unit. Check must be deterministic, side-effect free,
// and return violations in ascending (line, col) order. Applying a rule's
// fixes and re-running its Check must yield no violations from that rule,
// except occurrences it reported without a fix.
type Rule interface {
	Name() string
	DefaultEnabled() bool
	Check(f *syntax.File) []Violation
}

// All returns the complete rule set in its fixed application order.
// The set is closed: configuration can disable rules but not add to it.
func All() []Rule {
	return []Rule{
		Instrument{},
		Loops{},
		ImplFollowsType{},
		EmbedSimpleVars{},
		InstaInlineSnapshot{},
		TestFnPrefix{},
		LetUnderscoreComment{},
		UnwrapOrComment{},
		NoTokioSpawn{},
	}
}

// Defaults maps every rule name to its default enabled state.
func Defaults() map[string]bool {
	defaults := make(map[string]bool)
	for _, r := range All() {
		defaults[r.Name()] = r.DefaultEnabled()
	}
	return defaults
}

// sortViolations orders violations by ascending (line, col).
func sortViolations(vs []Violation) []Violation {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Line != vs[j].Line {
			return vs[i].Line < vs[j].Line
		}
		return vs[i].Col < vs[j].Col
	})
	return vs
}

// hasMarkerNear reports whether the given 1-based line, or the line directly
// above it, carries the marker as a `//MARKER` or `// MARKER` comment.
func hasMarkerNear(f *syntax.File, line int, marker string) bool {
	for _, l := range []int{line, line - 1} {
		text := f.LineText(l)
		if containsComment(text, marker) {
			return true
		}
	}
	return false
}

func containsComment(lineText, marker string) bool {
	return strings.Contains(lineText, "//"+marker) || strings.Contains(lineText, "// "+marker)
}
