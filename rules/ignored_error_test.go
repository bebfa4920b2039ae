package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetUnderscoreUnmarked(t *testing.T) {
	f := parseFile(t, `fn main() {
    let _ = std::fs::remove_file("stale.lock");
}
`)

	vs := LetUnderscoreComment{}.Check(f)
	require.Len(t, vs, 1)
	assert.Equal(t, "let-underscore-comment", vs[0].Rule)
	assert.Equal(t, 2, vs[0].Line)
	assert.False(t, vs[0].Fixable())
}

func TestLetUnderscoreMarked(t *testing.T) {
	sameLine := parseFile(t, "fn main() {\n    let _ = cleanup(); //IGNORED_ERROR\n}\n")
	assert.Empty(t, LetUnderscoreComment{}.Check(sameLine))

	lineAbove := parseFile(t, "fn main() {\n    // IGNORED_ERROR: best-effort cleanup\n    let _ = cleanup();\n}\n")
	assert.Empty(t, LetUnderscoreComment{}.Check(lineAbove))
}

func TestLetNamedUnderscoreIgnored(t *testing.T) {
	f := parseFile(t, `fn main() {
    let _guard = lock.lock();
    let (_, rest) = pair;
}
`)

	assert.Empty(t, LetUnderscoreComment{}.Check(f))
}

func TestUnwrapOrUnmarked(t *testing.T) {
	f := parseFile(t, `fn main() {
    let a = parse().unwrap_or(0);
    let b = parse().unwrap_or_default();
    let c = parse().unwrap_or_else(|_| fallback());
}
`)

	vs := UnwrapOrComment{}.Check(f)
	require.Len(t, vs, 3)
	assert.Contains(t, vs[0].Message, "`unwrap_or`")
	assert.Contains(t, vs[1].Message, "`unwrap_or_default`")
	assert.Contains(t, vs[2].Message, "`unwrap_or_else`")
}

func TestUnwrapOrMarked(t *testing.T) {
	f := parseFile(t, `fn main() {
    // IGNORED_ERROR: missing config falls back to defaults
    let a = parse().unwrap_or(0);
}
`)

	assert.Empty(t, UnwrapOrComment{}.Check(f))
}

func TestPlainUnwrapNotThisRule(t *testing.T) {
	f := parseFile(t, `fn main() {
    let a = parse().unwrap();
    let b = parse().expect("must parse");
}
`)

	assert.Empty(t, UnwrapOrComment{}.Check(f))
}
