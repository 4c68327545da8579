package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crazy-max/unrarall/pkg/pathutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	dst := filepath.Join(t.TempDir(), "target")

	testCases := []struct {
		desc     string
		source   string
		base     string
		single   bool
		expected string
	}{
		{
			desc:     "single set drops the set level",
			source:   src,
			base:     filepath.Join(src, "A", "movie"),
			single:   true,
			expected: filepath.Join(dst, "A"),
		},
		{
			desc:     "multi set keeps the set level",
			source:   src,
			base:     filepath.Join(src, "A", "movie"),
			expected: filepath.Join(dst, "A", "movie"),
		},
		{
			desc:     "single set in source root",
			source:   src,
			base:     filepath.Join(src, "movie"),
			single:   true,
			expected: filepath.Join(dst, "movie"),
		},
		{
			desc:     "deep single set",
			source:   src,
			base:     filepath.Join(src, "A", "B", "movie"),
			single:   true,
			expected: filepath.Join(dst, "A", "B"),
		},
		{
			desc:     "source with trailing separator",
			source:   src + string(filepath.Separator),
			base:     filepath.Join(src, "X", "one"),
			single:   true,
			expected: filepath.Join(dst, "X"),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			r := Resolver{SourceDir: tt.source, TargetDir: dst}
			got, err := r.Resolve(tt.base, tt.single)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveCollision(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	dst := t.TempDir()
	r := Resolver{SourceDir: src, TargetDir: dst, MaxSuffix: 2}
	base := filepath.Join(src, "foo", "movie")

	require.NoError(t, os.MkdirAll(filepath.Join(dst, "foo"), 0o755))
	got, err := r.Resolve(base, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dst, "foo-01"), got)

	require.NoError(t, os.Mkdir(got, 0o755))
	got, err = r.Resolve(base, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dst, "foo-02"), got)

	require.NoError(t, os.Mkdir(got, 0o755))
	_, err = r.Resolve(base, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pathutil.ErrTooManyCollisions))
}

func TestRelative(t *testing.T) {
	sep := string(filepath.Separator)
	r := Resolver{SourceDir: "."}
	assert.Equal(t, sep+filepath.Join("A", "movie.rar"), r.Relative("."+sep+filepath.Join("A", "movie.rar")))

	r = Resolver{SourceDir: sep}
	assert.Equal(t, sep+filepath.Join("A", "movie.rar"), r.Relative(sep+filepath.Join("A", "movie.rar")))
}
