package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.py", "def helper(): pass")
	writeFile(t, dir, "readme.txt", "hello")
	writeFile(t, dir, "stubs.pyi", "x: int")
	writeFile(t, dir, ".hidden.py", "secret")

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("lib", "util.py"), "main.py"}, files)
}

func TestFiles_SkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".venv/lib/site.py", "pass")
	writeFile(t, dir, "pyenv/pyvenv.cfg", "home = /usr/bin")
	writeFile(t, dir, "pyenv/lib/mod.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, files)
}

func TestFiles_Gitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated/\n*_pb2.py\n")
	writeFile(t, dir, "app.py", "pass")
	writeFile(t, dir, "api_pb2.py", "pass")
	writeFile(t, dir, "generated/models.py", "pass")

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, files)
}

func TestFiles_MissingRoot(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
