package target

import (
	"path/filepath"
	"strings"

	"github.com/crazy-max/unrarall/pkg/pathutil"
)

const sep = string(filepath.Separator)

// Resolver builds extraction directories mirroring the source tree
type Resolver struct {
	// SourceDir is the scanned root, as given to the walker
	SourceDir string
	// TargetDir is the root extraction directories are created under
	TargetDir string
	// MaxSuffix caps the -NN suffix used when a directory already exists
	MaxSuffix int
}

// Relative returns path relative to the source directory, with a leading
// separator.
func (r Resolver) Relative(path string) string {
	return pathutil.TruncatePrefix(path, strings.TrimSuffix(r.SourceDir, sep))
}

// Resolve returns a directory that does not exist yet for the archive set
// with the given base. With single, the set is alone in its directory and is
// extracted into the mirror of that directory instead of a sub directory
// named after the set, unless the set sits in the source root.
func (r Resolver) Resolve(base string, single bool) (string, error) {
	sub := r.Relative(base)
	if single {
		if parent := filepath.Dir(sub); parent != sep && parent != "." {
			sub = parent
		}
	}
	return pathutil.UniqueDir(filepath.Join(r.TargetDir, sub), r.MaxSuffix)
}
