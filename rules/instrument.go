package rules

import (
	"fmt"
	"path/filepath"

	"github.com/valeratrades/codestyle/syntax"
)

// Instrument flags async functions that lack an `#[instrument]`-family
// attribute. Assert-only: adding tracing spans is a judgement call, so no
// automatic fix is offered.
type Instrument struct{}

func (Instrument) Name() string         { return "instrument" }
func (Instrument) DefaultEnabled() bool { return false }

func (Instrument) Check(f *syntax.File) []Violation {
	// Helper modules collect one-off free functions; instrumenting them all
	// adds noise, so the whole file is exempt.
	if filepath.Base(f.Path) == "utils.rs" {
		return nil
	}

	var vs []Violation
	for _, item := range f.Items() {
		if item.Kind != syntax.KindFn {
			continue
		}
		if !f.IsAsyncFn(item.Node) {
			continue
		}
		if item.Name == "main" {
			continue
		}
		if hasInstrumentAttr(f, item) {
			continue
		}
		name := item.Node.ChildByFieldName("name")
		if name == nil {
			continue
		}
		line, col := f.Position(name)
		vs = append(vs, Violation{
			Rule:    "instrument",
			Path:    f.Path,
			Line:    line,
			Col:     col,
			Message: fmt.Sprintf("no #[instrument] on async fn `%s`", item.Name),
		})
	}
	return sortViolations(vs)
}

func hasInstrumentAttr(f *syntax.File, item syntax.Item) bool {
	for _, path := range f.AttributePaths(item.Node) {
		if syntax.LastPathSegment(path) == "instrument" {
			return true
		}
	}
	return false
}
