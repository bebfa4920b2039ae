package rules

import (
	"fmt"
	"strings"

	"github.com/valeratrades/codestyle/syntax"
)

// EmbedSimpleVars rewrites format-macro calls that pass a bare variable as a
// positional argument into the `{var}` inline-capture form. Only bare
// identifiers are embedded; anything with a field access, call, or method
// chain stays as a positional argument.
type EmbedSimpleVars struct{}

func (EmbedSimpleVars) Name() string         { return "embed-simple-vars" }
func (EmbedSimpleVars) DefaultEnabled() bool { return true }

// formatMacros lists the macro names whose first string literal is a format
// string with trailing positional arguments.
var formatMacros = map[string]bool{
	// std formatting
	"format": true, "write": true, "writeln": true, "print": true,
	"println": true, "eprint": true, "eprintln": true, "format_args": true,
	// panicking
	"panic": true, "todo": true, "unimplemented": true, "unreachable": true,
	// logging (log and tracing share names)
	"log": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true,
	// assertions
	"assert": true, "assert_eq": true, "assert_ne": true,
	"debug_assert": true, "debug_assert_eq": true, "debug_assert_ne": true,
	// error construction (anyhow, eyre)
	"bail": true, "ensure": true, "anyhow": true, "eyre": true,
}

func (EmbedSimpleVars) Check(f *syntax.File) []Violation {
	var vs []Violation
	seen := make(map[[2]int]bool)

	for _, mc := range f.MacroCalls() {
		if !formatMacros[mc.Name] || mc.Tokens == nil {
			continue
		}
		// Nested invocations can be visited twice through different parents.
		key := [2]int{int(mc.Node.StartByte()), int(mc.Node.EndByte())}
		if seen[key] {
			continue
		}
		seen[key] = true

		vs = append(vs, checkFormatCall(f, mc)...)
	}
	return sortViolations(vs)
}

func checkFormatCall(f *syntax.File, mc syntax.MacroCall) []Violation {
	groups := f.MacroArgs(mc.Tokens)

	// The format string is the first argument that is a lone string literal;
	// write!-style macros put the writer before it.
	fmtIdx := -1
	for i, g := range groups {
		if len(g) == 1 && syntax.IsStringLiteral(g[0]) {
			fmtIdx = i
			break
		}
	}
	if fmtIdx < 0 {
		return nil
	}

	lit := groups[fmtIdx][0]
	litText := f.Text(lit)
	args := groups[fmtIdx+1:]

	placeholders := findEmbeddablePlaceholders(litText)
	// Positional pairing is only unambiguous when counts line up.
	if len(placeholders) == 0 || len(placeholders) != len(args) {
		return nil
	}

	simple := make([]bool, len(args))
	anySimple := false
	for i, g := range args {
		if len(g) == 1 && g[0].Type() == "identifier" {
			simple[i] = true
			anySimple = true
		}
	}
	if !anySimple {
		return nil
	}

	// Embed the simple identifiers into their placeholders, back to front so
	// earlier placeholder offsets stay valid.
	newFmt := litText
	for i := len(args) - 1; i >= 0; i-- {
		if !simple[i] {
			continue
		}
		ph := placeholders[i]
		ident := f.Text(args[i][0])
		newFmt = newFmt[:ph.start] + "{" + ident + ph.spec + "}" + newFmt[ph.end:]
	}

	var remaining []string
	for i, g := range args {
		if !simple[i] {
			remaining = append(remaining, f.GroupText(g))
		}
	}
	replacement := newFmt
	if len(remaining) > 0 {
		replacement += ", " + strings.Join(remaining, ", ")
	}

	_, lastEnd := syntax.GroupSpan(args[len(args)-1])
	fix := &syntax.Edit{Start: int(lit.StartByte()), End: lastEnd, Text: replacement}

	var vs []Violation
	for i, g := range args {
		if !simple[i] {
			continue
		}
		ident := f.Text(g[0])
		line, col := f.Position(g[0])
		specDisplay := "{" + placeholders[i].spec + "}"
		vs = append(vs, Violation{
			Rule: "embed-simple-vars",
			Path: f.Path,
			Line: line,
			Col:  col,
			Message: fmt.Sprintf(
				"variable `%s` should be embedded in the format string: use `{%s%s}` instead of `%s, %s`",
				ident, ident, placeholders[i].spec, specDisplay, ident),
			Fix: fix,
		})
	}
	return vs
}

// placeholder is an anonymous `{}` or `{:spec}` slot in a format string,
// located by byte offsets within the literal text (quotes included).
type placeholder struct {
	start int
	end   int
	spec  string // ":?"-style format specifier, "" for Display
}

// findEmbeddablePlaceholders locates the anonymous placeholders a variable
// can be moved into. Placeholders that already name a variable ("{foo}",
// "{foo:?}") and escaped braces ("{{") are left alone.
func findEmbeddablePlaceholders(litText string) []placeholder {
	var phs []placeholder
	i := 0
	for i < len(litText) {
		if litText[i] != '{' {
			i++
			continue
		}
		if i+1 < len(litText) && litText[i+1] == '{' {
			i += 2
			continue
		}
		end := strings.IndexByte(litText[i+1:], '}')
		if end < 0 {
			break
		}
		end += i + 1
		content := litText[i+1 : end]
		switch {
		case content == "":
			phs = append(phs, placeholder{start: i, end: end + 1})
		case strings.HasPrefix(content, ":"):
			phs = append(phs, placeholder{start: i, end: end + 1, spec: content})
		}
		i = end + 1
	}
	return phs
}
