package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/valeratrades/codestyle/syntax"
)

// TestFnPrefix strips the tautological `test_` prefix from functions that
// already carry a test attribute.
type TestFnPrefix struct{}

func (TestFnPrefix) Name() string         { return "test-fn-prefix" }
func (TestFnPrefix) DefaultEnabled() bool { return true }

func (TestFnPrefix) Check(f *syntax.File) []Violation {
	var vs []Violation
	for _, fn := range f.NodesOfType("function_item") {
		if !hasTestAttr(f, fn) {
			continue
		}
		nameNode := fn.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := f.Text(nameNode)
		stripped := strings.TrimPrefix(name, "test_")
		if stripped == name || stripped == "" {
			continue
		}
		line, col := f.Position(nameNode)
		vs = append(vs, Violation{
			Rule:    "test-fn-prefix",
			Path:    f.Path,
			Line:    line,
			Col:     col,
			Message: fmt.Sprintf("test function `%s` has a redundant `test_` prefix", name),
			Fix: &syntax.Edit{
				Start: int(nameNode.StartByte()),
				End:   int(nameNode.EndByte()),
				Text:  stripped,
			},
		})
	}
	return sortViolations(vs)
}

// hasTestAttr matches #[test], #[rstest], and any path ending in ::test such
// as #[tokio::test].
func hasTestAttr(f *syntax.File, fn *sitter.Node) bool {
	for _, path := range f.AttributePaths(fn) {
		if path == "rstest" || syntax.LastPathSegment(path) == "test" {
			return true
		}
	}
	return false
}
