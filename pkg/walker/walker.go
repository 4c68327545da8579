package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/crazy-max/unrarall/pkg/report"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// VisitFunc is called once per directory holding at least one file.
// files are the paths of the non-directory entries of dir.
type VisitFunc func(dir string, files []string) report.Result

// Opts holds walk options
type Opts struct {
	Context context.Context
	Logger  zerolog.Logger
}

// Walk descends root recursively. Subdirectories are walked before the files
// of their parent are visited, and their results are merged into the
// returned one. Symlinks to directories are not followed.
func Walk(root string, visit VisitFunc, opts Opts) (report.Result, error) {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	w := &walker{
		visit: visit,
		opts:  opts,
	}
	return w.walk(root, true)
}

type walker struct {
	visit VisitFunc
	opts  Opts
}

func (w *walker) walk(dir string, root bool) (report.Result, error) {
	var res report.Result
	if err := w.opts.Context.Err(); err != nil {
		return res, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if root {
			return res, errors.Wrapf(err, "cannot read directory %q", dir)
		}
		w.opts.Logger.Warn().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
		return res, nil
	}

	var files []string
	for _, entry := range entries {
		p := Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			sub, err := w.walk(p, false)
			res = res.Merge(sub)
			if err != nil {
				return res, err
			}
		case entry.Type()&fs.ModeSymlink != 0 && isDir(p):
			w.opts.Logger.Debug().Str("path", p).Msg("Skipping symlinked directory")
		default:
			files = append(files, p)
		}
	}

	if len(files) == 0 {
		return res, nil
	}
	return res.Merge(w.visit(dir, files)), nil
}

// Join appends name to dir keeping dir as given, so "." and relative roots
// survive as a prefix of every path.
func Join(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
