package rules

import (
	"fmt"

	"github.com/valeratrades/codestyle/syntax"
)

// NoTokioSpawn forbids unstructured task spawning. spawn_blocking is allowed:
// it runs sync code on the blocking pool and creates no detached task.
type NoTokioSpawn struct{}

func (NoTokioSpawn) Name() string         { return "no-tokio-spawn" }
func (NoTokioSpawn) DefaultEnabled() bool { return true }

const structuredConcurrencyURL = "https://vorpus.org/blog/notes-on-structured-concurrency-or-go-statement-considered-harmful/"

var spawnPaths = map[string]bool{
	"tokio::spawn":             true,
	"tokio::spawn_local":       true,
	"tokio::task::spawn":       true,
	"tokio::task::spawn_local": true,
}

func (NoTokioSpawn) Check(f *syntax.File) []Violation {
	var vs []Violation
	for _, call := range f.NodesOfType("call_expression") {
		fn := call.ChildByFieldName("function")
		if fn == nil {
			continue
		}
		path := f.Text(fn)
		if !spawnPaths[path] {
			continue
		}
		line, col := f.Position(fn)
		vs = append(vs, Violation{
			Rule: "no-tokio-spawn",
			Path: f.Path,
			Line: line,
			Col:  col,
			Message: fmt.Sprintf(
				"usage of `%s` is disallowed; unstructured concurrency makes code harder to reason about, see %s",
				path, structuredConcurrencyURL),
		})
	}
	return sortViolations(vs)
}
