package file_walker

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/aboutwriter/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x\n"), 0644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestNormalizeFilters(t *testing.T) {
	cases := map[string][]string{
		"":              {"*"},
		"all":           {"*"},
		"py,*":          {"*"},
		"py":            {"*.py"},
		".py, JS ,*.c":  {"*.py", "*.js", "*.c"},
		"py,py,.py":     {"*.py"},
		"src/**/*.go":   {"src/**/*.go"},
		" , ,":          {"*"},
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeFilters(in), in)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("a/b/App.PY", []string{"*.py"}))
	assert.True(t, Matches("src/x/y.go", []string{"src/**/*.go"}))
	assert.False(t, Matches("lib/y.go", []string{"src/**/*.go"}))
	assert.True(t, Matches("anything", []string{"*"}))
	assert.False(t, Matches("a.js", []string{"*.py"}))
}

func TestCollect(t *testing.T) {
	utils.ClearIgnoreCache()
	root := t.TempDir()
	writeTree(t, root,
		"main.py",
		"lib/util.py",
		"lib/util.js",
		"node_modules/pkg/index.js",
		"build/out.py",
		"assets/logo.png",
		"big.py.bak",
	)

	t.Run("all files", func(t *testing.T) {
		files, err := Collect(root, []string{"*"}, DefaultOptions)
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/util.js", "lib/util.py", "main.py"}, rel(t, root, files))
	})

	t.Run("extension filter", func(t *testing.T) {
		files, err := Collect(root, NormalizeFilters("py"), DefaultOptions)
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/util.py", "main.py"}, rel(t, root, files))
	})

	t.Run("overlapping filters are deduplicated", func(t *testing.T) {
		files, err := Collect(root, []string{"*.py", "*.PY", "main.*"}, DefaultOptions)
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/util.py", "main.py"}, rel(t, root, files))
	})

	t.Run("non recursive", func(t *testing.T) {
		files, err := Collect(root, []string{"*"}, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"main.py"}, rel(t, root, files))
	})
}

func TestCollect_ExcludedSegmentNeverAppears(t *testing.T) {
	utils.ClearIgnoreCache()
	root := t.TempDir()
	writeTree(t, root, "node_modules/a.py", "src/node_modules/b.py", ".git/c.py")

	files, err := Collect(root, []string{"*.py", "*"}, DefaultOptions)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCollect_IgnoreFileAndLimits(t *testing.T) {
	utils.ClearIgnoreCache()
	root := t.TempDir()
	writeTree(t, root, "keep.go", "api.gen.go", "generated/x.go", "notes.orig")
	require.NoError(t, os.WriteFile(filepath.Join(root, "large.go"), make([]byte, 2048), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, utils.DefaultIgnoreFile), []byte("*.gen.go\ngenerated/\n"), 0644))

	opts := Options{
		Recursive:       true,
		IgnoreFile:      utils.DefaultIgnoreFile,
		MaxFileSize:     1024,
		ExcludeSuffixes: []string{".orig"},
	}
	files, err := Collect(root, NormalizeFilters("go,orig"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.go"}, rel(t, root, files))
}

func TestCollect_MissingRoot(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "missing"), []string{"*"}, DefaultOptions)
	assert.Error(t, err)
}

func TestCollect_UnreadableSubdirIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, "a.go", "locked/b.go", "open/c.go")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var logs bytes.Buffer
	opts := DefaultOptions
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	files, err := Collect(root, []string{"*"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "open/c.go"}, rel(t, root, files))
	assert.Contains(t, logs.String(), "skipping unreadable path")
}
