// Package report renders engine results as the tool's terminal output.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/valeratrades/codestyle/engine"
	"github.com/valeratrades/codestyle/rules"
)

var (
	passColor = color.New(color.FgGreen)
	ruleColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// sortForReport orders violations by (path, line, col, rule) so output is
// stable across runs regardless of evaluation order.
func sortForReport(vs []rules.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Rule < b.Rule
	})
}

func writeViolations(w io.Writer, vs []rules.Violation) {
	sortForReport(vs)
	for _, v := range vs {
		fmt.Fprintf(w, "  [%s] %s:%d:%d: %s\n",
			ruleColor.Sprint(v.Rule), v.Path, v.Line, v.Col, v.Message)
	}
}

func writeParseErrors(w io.Writer, res *engine.Result) bool {
	found := false
	for _, fr := range res.Files {
		if fr.ParseErr != nil {
			fmt.Fprintf(w, "%s: failed to parse %s: %v\n",
				failColor.Sprint("codestyle"), fr.Path, fr.ParseErr)
			found = true
		}
	}
	return found
}

// Render writes the human-readable report for a run to w.
func Render(w io.Writer, res *engine.Result) {
	if res.Mode == engine.ModeFormat {
		renderFormat(w, res)
		return
	}
	renderAssert(w, res)
}

func renderAssert(w io.Writer, res *engine.Result) {
	hadParseErr := writeParseErrors(w, res)

	var all []rules.Violation
	for _, fr := range res.Files {
		all = append(all, fr.Violations...)
	}
	if len(all) == 0 {
		if !hadParseErr {
			fmt.Fprintf(w, "%s\n", passColor.Sprint("codestyle: all checks passed"))
		}
		return
	}
	fmt.Fprintf(w, "codestyle: found %d violation(s):\n", len(all))
	writeViolations(w, all)
}

func renderFormat(w io.Writer, res *engine.Result) {
	hadParseErr := writeParseErrors(w, res)

	if n := res.TotalFixed(); n > 0 {
		fmt.Fprintf(w, "codestyle: fixed %d violation(s)\n", n)
	}

	var remaining, conflicts []rules.Violation
	for _, fr := range res.Files {
		remaining = append(remaining, fr.Remaining...)
		conflicts = append(conflicts, fr.Conflicts...)
	}

	if len(remaining) > 0 {
		fmt.Fprintf(w, "codestyle: %d violation(s) need manual fixing:\n", len(remaining))
		writeViolations(w, remaining)
	}
	if len(conflicts) > 0 {
		fmt.Fprintf(w, "%s: internal error: %d fix(es) did not converge:\n",
			failColor.Sprint("codestyle"), len(conflicts))
		writeViolations(w, conflicts)
	}
	if !hadParseErr && res.TotalFixed() == 0 && len(remaining) == 0 && len(conflicts) == 0 {
		fmt.Fprintf(w, "%s\n", passColor.Sprint("codestyle: all checks passed"))
	}
}
