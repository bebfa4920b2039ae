package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func relPaths(files []SourceFile) []string {
	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.Rel
	}
	return rels
}

func TestRustFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "src/lib.rs", "pub fn f() {}")
	writeFile(t, root, "src/notes.txt", "not rust")
	writeFile(t, root, "build.rs", "fn main() {}")

	files, err := RustFiles(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"build.rs", "src/lib.rs", "src/main.rs"}, relPaths(files))
	assert.Equal(t, []byte("pub fn f() {}"), files[1].Content)
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
	}
}

func TestRustFilesSkipsBuildAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "target/debug/gen.rs", "fn g() {}")
	writeFile(t, root, "libs/vendored/lib.rs", "fn v() {}")
	writeFile(t, root, ".git/hooks/fake.rs", "fn h() {}")

	files, err := RustFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.rs"}, relPaths(files))
}

func TestRustFilesIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "src/generated/schema.rs", "fn s() {}")
	writeFile(t, root, "tests/it.rs", "fn t() {}")

	files, err := RustFiles(root, []string{"src/generated/**", "tests/*.rs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.rs"}, relPaths(files))
}

func TestRustFilesSingleFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")

	files, err := RustFiles(filepath.Join(root, "src", "main.rs"), nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "main.rs", files[0].Rel)

	writeFile(t, root, "README.md", "hi")
	_, err = RustFiles(filepath.Join(root, "README.md"), nil)
	assert.Error(t, err)
}

func TestRustFilesMissingRoot(t *testing.T) {
	_, err := RustFiles(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
