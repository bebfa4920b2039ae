package rules

import (
	"github.com/valeratrades/codestyle/syntax"
)

// Loops requires every `loop { .. }` expression to carry a `// LOOP` marker
// comment on its own line or the line directly above. The marker forces the
// author to acknowledge the missing bound instead of leaving it implicit.
type Loops struct{}

func (Loops) Name() string         { return "loops" }
func (Loops) DefaultEnabled() bool { return true }

func (Loops) Check(f *syntax.File) []Violation {
	var vs []Violation
	// Nested loops are evaluated independently, so every loop_expression in
	// the file is visited regardless of depth.
	for _, loop := range f.NodesOfType("loop_expression") {
		line, col := f.Position(loop)
		if hasMarkerNear(f, line, "LOOP") {
			continue
		}
		lineStart := f.LineStart(line)
		vs = append(vs, Violation{
			Rule:    "loops",
			Path:    f.Path,
			Line:    line,
			Col:     col,
			Message: "endless `loop` without `// LOOP` comment; rewrite with `while let` or keep the marker to justify the missing bound",
			Fix: &syntax.Edit{
				Start: lineStart,
				End:   lineStart,
				Text:  f.Indentation(line) + "// LOOP\n",
			},
		})
	}
	return sortViolations(vs)
}
