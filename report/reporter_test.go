package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/valeratrades/codestyle/engine"
	"github.com/valeratrades/codestyle/rules"
)

func init() {
	// Escape codes would make the expected strings unreadable.
	color.NoColor = true
}

func render(res *engine.Result) string {
	var buf bytes.Buffer
	Render(&buf, res)
	return buf.String()
}

func TestRenderAssertClean(t *testing.T) {
	out := render(&engine.Result{Mode: engine.ModeAssert, Files: []engine.FileResult{
		{Path: "src/main.rs"},
	}})

	assert.Equal(t, "codestyle: all checks passed\n", out)
}

func TestRenderAssertViolationsSorted(t *testing.T) {
	out := render(&engine.Result{Mode: engine.ModeAssert, Files: []engine.FileResult{
		{Path: "src/b.rs", Violations: []rules.Violation{
			{Rule: "loops", Path: "src/b.rs", Line: 4, Col: 5, Message: "msg b"},
		}},
		{Path: "src/a.rs", Violations: []rules.Violation{
			{Rule: "instrument", Path: "src/a.rs", Line: 9, Col: 1, Message: "late"},
			{Rule: "loops", Path: "src/a.rs", Line: 2, Col: 5, Message: "early"},
		}},
	}})

	assert.Equal(t, "codestyle: found 3 violation(s):\n"+
		"  [loops] src/a.rs:2:5: early\n"+
		"  [instrument] src/a.rs:9:1: late\n"+
		"  [loops] src/b.rs:4:5: msg b\n", out)
}

func TestRenderAssertParseError(t *testing.T) {
	out := render(&engine.Result{Mode: engine.ModeAssert, Files: []engine.FileResult{
		{Path: "bad.rs", ParseErr: errors.New("syntax error at bad.rs:3:1")},
	}})

	assert.Contains(t, out, "codestyle: failed to parse bad.rs: syntax error at bad.rs:3:1\n")
	assert.NotContains(t, out, "all checks passed")
}

func TestRenderFormatFixedAndManual(t *testing.T) {
	out := render(&engine.Result{Mode: engine.ModeFormat, Files: []engine.FileResult{
		{Path: "src/a.rs", Fixed: 2},
		{Path: "src/b.rs", Fixed: 1, Remaining: []rules.Violation{
			{Rule: "let-underscore-comment", Path: "src/b.rs", Line: 7, Col: 5, Message: "needs a comment"},
		}},
	}})

	assert.Equal(t, "codestyle: fixed 3 violation(s)\n"+
		"codestyle: 1 violation(s) need manual fixing:\n"+
		"  [let-underscore-comment] src/b.rs:7:5: needs a comment\n", out)
}

func TestRenderFormatClean(t *testing.T) {
	out := render(&engine.Result{Mode: engine.ModeFormat, Files: []engine.FileResult{
		{Path: "src/a.rs"},
	}})

	assert.Equal(t, "codestyle: all checks passed\n", out)
}

func TestRenderFormatConflicts(t *testing.T) {
	out := render(&engine.Result{Mode: engine.ModeFormat, Files: []engine.FileResult{
		{Path: "src/a.rs", Fixed: 1, Conflicts: []rules.Violation{
			{Rule: "impl-follows-type", Path: "src/a.rs", Line: 3, Col: 1, Message: "did not settle"},
		}},
	}})

	assert.Contains(t, out, "codestyle: fixed 1 violation(s)\n")
	assert.Contains(t, out, "codestyle: internal error: 1 fix(es) did not converge:\n")
	assert.Contains(t, out, "  [impl-follows-type] src/a.rs:3:1: did not settle\n")
}
