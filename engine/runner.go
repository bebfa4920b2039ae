// Package engine orchestrates rule evaluation over a set of source files,
// in read-only assert mode or fix-applying format mode.
package engine

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/valeratrades/codestyle/discover"
	"github.com/valeratrades/codestyle/rules"
	"github.com/valeratrades/codestyle/syntax"
)

// Mode selects between reporting violations and repairing them.
type Mode int

const (
	// ModeAssert reports violations without touching any file.
	ModeAssert Mode = iota
	// ModeFormat applies available fixes and reports what remains.
	ModeFormat
)

// maxFixPasses bounds the fix/re-check cycle per file. Overlapping fixes
// are deferred to the next pass, so a couple of passes converge in
// practice; the cap keeps a misbehaving fix from looping forever.
const maxFixPasses = 4

// FileResult holds the outcome of evaluating one file.
type FileResult struct {
	// Path is the root-relative path used in reports
	Path string
	// AbsPath is the on-disk location written back in format mode
	AbsPath string
	// ParseErr is set when the file could not be parsed; no rules ran
	ParseErr error
	// Violations are the findings in assert mode (empty in format mode)
	Violations []rules.Violation
	// Fixed counts edits applied in format mode
	Fixed int
	// Remaining are post-fix violations with no automatic fix
	Remaining []rules.Violation
	// Conflicts are post-fix violations that still carry a fix, meaning
	// the fix cycle failed to converge
	Conflicts []rules.Violation
	// Output is the rewritten file content when format mode changed it
	Output []byte
	// SnapshotRuleFired marks that the inline-snapshot rule reported on
	// this file, which triggers pending-snapshot cleanup afterwards
	SnapshotRuleFired bool
}

// Result aggregates per-file outcomes for one invocation.
type Result struct {
	Mode  Mode
	Files []FileResult
}

// ExitCode maps the result onto the process exit code: 2 for parse errors
// or non-converged fixes, 1 for violations the caller must act on, 0 when
// everything passed.
func (r *Result) ExitCode() int {
	code := 0
	for _, fr := range r.Files {
		if fr.ParseErr != nil || len(fr.Conflicts) > 0 {
			return 2
		}
		if len(fr.Violations) > 0 || len(fr.Remaining) > 0 {
			code = 1
		}
	}
	return code
}

// TotalFixed sums applied fixes across files.
func (r *Result) TotalFixed() int {
	n := 0
	for _, fr := range r.Files {
		n += fr.Fixed
	}
	return n
}

// Runner evaluates rules over files with bounded parallelism.
type Runner struct {
	Rules []rules.Rule
	// Jobs bounds concurrent files (0 = GOMAXPROCS)
	Jobs   int
	Logger *slog.Logger
}

// NewRunner creates a runner over the given rule set.
func NewRunner(ruleSet []rules.Rule, jobs int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Rules: ruleSet, Jobs: jobs, Logger: logger}
}

// Run evaluates every file and returns the aggregated result. Files are
// processed concurrently; results keep the input order so reports stay
// deterministic. A file that fails to parse is recorded and does not stop
// the others.
func (r *Runner) Run(ctx context.Context, files []discover.SourceFile, mode Mode) (*Result, error) {
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)

	for i, sf := range files {
		i, sf := i, sf
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			switch mode {
			case ModeFormat:
				results[i] = r.formatFile(sf)
			default:
				results[i] = r.assertFile(sf)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{Mode: mode, Files: results}, nil
}

func (r *Runner) assertFile(sf discover.SourceFile) FileResult {
	res := FileResult{Path: sf.Rel, AbsPath: sf.Path}

	f, err := syntax.Parse(sf.Rel, sf.Content)
	if err != nil {
		res.ParseErr = err
		return res
	}
	defer f.Close()

	res.Violations = r.checkAll(f)
	res.SnapshotRuleFired = anyFromRule(res.Violations, "insta-inline-snapshot")
	r.Logger.Debug("checked file",
		slog.String("path", sf.Rel),
		slog.Int("violations", len(res.Violations)))
	return res
}

// formatFile repeatedly applies fixes and re-parses until a pass applies
// nothing, then partitions the surviving violations into manual ones and
// fixes that failed to converge.
func (r *Runner) formatFile(sf discover.SourceFile) FileResult {
	res := FileResult{Path: sf.Rel, AbsPath: sf.Path}

	src := sf.Content
	for pass := 0; pass < maxFixPasses; pass++ {
		f, err := syntax.Parse(sf.Rel, src)
		if err != nil {
			if pass == 0 {
				res.ParseErr = err
				return res
			}
			// A fix produced unparseable code. Keep the last good
			// content and let the final check surface the conflict.
			r.Logger.Warn("fix pass produced unparseable code",
				slog.String("path", sf.Rel),
				slog.Int("pass", pass))
			break
		}

		violations := r.checkAll(f)
		if pass == 0 {
			res.SnapshotRuleFired = anyFromRule(violations, "insta-inline-snapshot")
		}

		var edits []syntax.Edit
		for _, v := range violations {
			if v.Fix != nil {
				edits = append(edits, *v.Fix)
			}
		}
		f.Close()
		if len(edits) == 0 {
			break
		}

		fixed, applied := syntax.Apply(src, edits)
		if applied == 0 {
			break
		}
		src = fixed
		res.Fixed += applied
	}

	// Final check on the settled content. Fixable violations here mean
	// the cycle did not converge; everything else needs a human.
	final, err := syntax.Parse(sf.Rel, src)
	if err != nil {
		res.ParseErr = err
		return res
	}
	defer final.Close()
	for _, v := range r.checkAll(final) {
		if v.Fix != nil {
			res.Conflicts = append(res.Conflicts, v)
		} else {
			res.Remaining = append(res.Remaining, v)
		}
	}

	if res.Fixed > 0 {
		res.Output = src
	}
	r.Logger.Debug("formatted file",
		slog.String("path", sf.Rel),
		slog.Int("fixed", res.Fixed),
		slog.Int("remaining", len(res.Remaining)))
	return res
}

// checkAll runs every active rule and drops violations inside skip ranges.
func (r *Runner) checkAll(f *syntax.File) []rules.Violation {
	var all []rules.Violation
	for _, rule := range r.Rules {
		all = append(all, rule.Check(f)...)
	}
	return rules.FilterSkipped(f, all)
}

func anyFromRule(vs []rules.Violation, name string) bool {
	for _, v := range vs {
		if v.Rule == name {
			return true
		}
	}
	return false
}

// WriteResults writes rewritten file contents back to disk.
func WriteResults(res *Result) error {
	for _, fr := range res.Files {
		if fr.Output == nil {
			continue
		}
		if err := os.WriteFile(fr.AbsPath, fr.Output, 0o644); err != nil {
			return err
		}
	}
	return nil
}
