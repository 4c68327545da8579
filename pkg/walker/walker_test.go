package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/crazy-max/unrarall/pkg/report"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkfiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root,
		"top.rar",
		"A/movie.rar",
		"A/movie.r00",
		"A/B/deep.rar",
		"C/readme.txt",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	visited := map[string][]string{}
	var order []string
	res, err := Walk(root, func(dir string, files []string) report.Result {
		order = append(order, dir)
		visited[dir] = files
		return report.Result{Extracted: len(files)}
	}, Opts{Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Extracted)
	assert.Len(t, visited, 4)
	assert.NotContains(t, visited, filepath.Join(root, "empty"))

	a := visited[filepath.Join(root, "A")]
	sort.Strings(a)
	assert.Equal(t, []string{
		filepath.Join(root, "A", "movie.r00"),
		filepath.Join(root, "A", "movie.rar"),
	}, a)
	assert.Equal(t, []string{filepath.Join(root, "top.rar")}, visited[root])

	// children are visited before their parent
	assert.Equal(t, root, order[len(order)-1])
	assert.Less(t, indexOf(order, filepath.Join(root, "A", "B")), indexOf(order, filepath.Join(root, "A")))
}

func TestWalkRelativeRoot(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root, "A/movie.rar")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	var files []string
	_, err = Walk(".", func(dir string, f []string) report.Result {
		files = append(files, f...)
		return report.Result{}
	}, Opts{Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, []string{"." + string(filepath.Separator) + filepath.Join("A", "movie.rar")}, files)
}

func TestWalkSymlinkedDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	mkfiles(t, root, "A/movie.rar", "target.rar")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "A", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "target.rar"), filepath.Join(root, "A", "link.rar")))

	visited := map[string][]string{}
	_, err := Walk(root, func(dir string, files []string) report.Result {
		visited[dir] = files
		return report.Result{}
	}, Opts{Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "A", "link.rar"),
		filepath.Join(root, "A", "movie.rar"),
	}, visited[filepath.Join(root, "A")])
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "missing"), func(string, []string) report.Result {
		return report.Result{}
	}, Opts{Logger: zerolog.Nop()})
	require.Error(t, err)
}

func TestWalkCanceled(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root, "A/movie.rar")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Walk(root, func(string, []string) report.Result {
		called = true
		return report.Result{}
	}, Opts{Context: ctx, Logger: zerolog.Nop()})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestJoin(t *testing.T) {
	sep := string(filepath.Separator)
	assert.Equal(t, "."+sep+"a", Join(".", "a"))
	assert.Equal(t, sep+"a", Join(sep, "a"))
	assert.Equal(t, "src"+sep+"a", Join("src", "a"))
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}
