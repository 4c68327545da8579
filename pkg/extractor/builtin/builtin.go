package builtin

import (
	"context"
	"io"
	"io/fs"
	stdlog "log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/crazy-max/unrarall/pkg/extractor"
	"github.com/dustin/go-humanize"
	"github.com/mholt/archives"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxDamagedHeaders is the number of consecutive unreadable headers
// tolerated with ContinueOnError before the archive set is given up
const MaxDamagedHeaders = 16

// ErrTooDamaged is returned when MaxDamagedHeaders is reached
var ErrTooDamaged = errors.New("too many consecutive damaged headers")

// Client represents an active in-process extractor object
type Client struct {
	logger zerolog.Logger
}

// New creates new builtin extractor instance
func New() (*extractor.Client, error) {
	return &extractor.Client{
		Handler: &Client{
			logger: log.With().Str("extractor", "builtin").Logger(),
		},
	}, nil
}

// Type returns the extractor type
func (c *Client) Type() string {
	return "builtin"
}

// Extract decodes an archive set starting at plan.Source. Following
// volumes are looked up next to the starting volume.
//
// With plan.ContinueOnError, damaged entries are skipped and Warning is
// returned once the remaining entries are extracted. Headers the decoder
// cannot read are reported through the standard logger, so a single
// Extract must not run concurrently with another one in that mode.
func (c *Client) Extract(ctx context.Context, plan extractor.Plan) (extractor.ExitCode, error) {
	logger := c.logger.With().Str("archive", plan.Source).Logger()

	if err := identify(ctx, plan.Source); err != nil {
		return Classify(err), err
	}
	if plan.DryRun {
		logger.Debug().Msg("Dry run, nothing extracted")
		return extractor.Success, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var damaged *headerGuard
	if plan.ContinueOnError {
		damaged = &headerGuard{next: stdlog.Writer(), cancel: cancel}
		stdlog.SetOutput(damaged)
		defer stdlog.SetOutput(damaged.next)
	}

	format := archives.Rar{
		Name:            filepath.Base(plan.Source),
		FS:              os.DirFS(filepath.Dir(plan.Source)),
		Password:        plan.Password,
		ContinueOnError: plan.ContinueOnError,
	}

	var st stats
	err := format.Extract(ctx, nil, func(ctx context.Context, f archives.FileInfo) error {
		if damaged != nil {
			damaged.reset()
		}
		err := c.extractEntry(ctx, logger, plan, f, &st)
		if err == nil || !plan.ContinueOnError || ctx.Err() != nil {
			return err
		}
		switch Classify(err) {
		case extractor.CRCError, extractor.WriteError, extractor.CreateError:
			logger.Warn().Err(err).Msgf("Skipping damaged entry %s", f.NameInArchive)
			st.skipped++
			return nil
		}
		return err
	})
	if damaged != nil && damaged.tripped {
		return extractor.Fatal, errors.Wrapf(ErrTooDamaged, "cannot extract %s", plan.Source)
	}
	if err != nil {
		return Classify(err), errors.Wrapf(err, "cannot extract %s", plan.Source)
	}

	skipped := st.skipped
	if damaged != nil {
		skipped += damaged.total
	}
	logger.Debug().Msgf("%d files extracted (%s), %d skipped", st.files, humanize.Bytes(uint64(st.size)), skipped)
	if skipped > 0 {
		return extractor.Warning, nil
	}
	return extractor.Success, nil
}

type stats struct {
	files   int
	size    int64
	skipped int
}

func (c *Client) extractEntry(ctx context.Context, logger zerolog.Logger, plan extractor.Plan, f archives.FileInfo, st *stats) error {
	dest, err := entryPath(plan, f.NameInArchive, f.IsDir())
	if err != nil {
		return err
	}
	if dest == "" {
		logger.Trace().Msgf("Skipping %s", f.NameInArchive)
		return nil
	}

	if f.IsDir() {
		logger.Trace().Msgf("Extracting %s", f.NameInArchive)
	} else if plan.Verbose {
		logger.Info().Msgf("Extracting %s", f.NameInArchive)
	} else {
		logger.Debug().Msgf("Extracting %s", f.NameInArchive)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return withCode(extractor.CreateError, err)
	}

	switch {
	case f.IsDir():
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return withCode(extractor.CreateError, err)
		}
		return nil
	case f.Mode().IsRegular():
		n, err := writeFile(ctx, dest, f)
		if err != nil {
			return err
		}
		st.files++
		st.size += n
		return nil
	case f.Mode()&fs.ModeSymlink != 0:
		return linkEntry(plan, dest, f.LinkTarget)
	default:
		return withCode(extractor.CreateError, errors.Errorf("cannot handle file mode: %v", f.Mode()))
	}
}

func identify(ctx context.Context, filename string) error {
	dt, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer dt.Close()

	format, _, err := archives.Identify(ctx, filename, dt)
	if err != nil {
		return withCode(extractor.OpenError, errors.Wrapf(err, "cannot identify %s", filename))
	}
	if _, ok := format.(archives.Rar); !ok {
		return withCode(extractor.OpenError, errors.Errorf("%s is not a rar archive: %s detected", filename, format.Extension()))
	}
	return nil
}

// entryPath returns where an archive entry lands. An empty path means the
// entry is skipped. Without KeepPaths every file is flattened into the
// target and directory entries are dropped.
func entryPath(plan extractor.Plan, name string, isDir bool) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if !plan.KeepPaths {
		base := path.Base(name)
		if isDir || base == "." || base == "/" || strings.HasSuffix(name, "/") {
			return "", nil
		}
		return filepath.Join(plan.Target, base), nil
	}

	dest := filepath.Join(plan.Target, filepath.FromSlash(name))
	if !within(plan.Target, dest) {
		return "", withCode(extractor.CreateError, errors.Errorf("illegal file path in archive: %s", name))
	}
	return dest, nil
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// writeFile copies an entry to path. A file left incomplete by a damaged
// entry or a canceled extraction is removed.
func writeFile(ctx context.Context, path string, f archives.FileInfo) (n int64, err error) {
	r, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer r.Close()

	w, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, f.Mode().Perm()|0o200)
	if err != nil {
		return 0, withCode(extractor.CreateError, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = withCode(extractor.WriteError, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	dst := &entryWriter{ctx: ctx, w: w}
	if _, err = io.Copy(dst, r); err != nil {
		if dst.err != nil {
			return dst.n, dst.err
		}
		return dst.n, err
	}
	return dst.n, nil
}

// entryWriter writes decoded data to the target file. It stops as soon as
// the extraction context is done and tags disk failures as WriteError so
// they are not mistaken for archive damage.
type entryWriter struct {
	ctx context.Context
	w   io.Writer
	n   int64
	err error
}

func (e *entryWriter) Write(p []byte) (int, error) {
	if err := e.ctx.Err(); err != nil {
		e.err = err
		return 0, err
	}
	n, err := e.w.Write(p)
	e.n += int64(n)
	if err != nil {
		e.err = withCode(extractor.WriteError, err)
		return n, e.err
	}
	return n, nil
}

// linkEntry recreates a symbolic link stored in the archive. Links are
// only kept with KeepPaths and must resolve inside the target directory.
func linkEntry(plan extractor.Plan, dest, linkTarget string) error {
	if !plan.KeepPaths {
		return nil
	}
	if linkTarget == "" {
		return withCode(extractor.CreateError, errors.Errorf("empty link target for %s", dest))
	}
	resolved := filepath.FromSlash(linkTarget)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(dest), resolved)
	}
	if !within(plan.Target, resolved) {
		return withCode(extractor.CreateError, errors.Errorf("link %s points outside of target: %s", dest, linkTarget))
	}
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return withCode(extractor.CreateError, err)
	}
	if err := os.Symlink(linkTarget, dest); err != nil {
		return withCode(extractor.CreateError, err)
	}
	return nil
}

// headerGuard sits in front of the standard logger while an archive set is
// extracted with ContinueOnError. The decoder reports every header it
// cannot read there and retries, so the guard gives up after
// MaxDamagedHeaders failures in a row.
type headerGuard struct {
	next    io.Writer
	cancel  context.CancelFunc
	streak  int
	total   int
	tripped bool
}

func (g *headerGuard) Write(p []byte) (int, error) {
	if strings.Contains(string(p), "[ERROR]") {
		g.total++
		g.streak++
		if g.streak >= MaxDamagedHeaders && !g.tripped {
			g.tripped = true
			g.cancel()
		}
	}
	if g.tripped && g.streak > MaxDamagedHeaders {
		return len(p), nil
	}
	return g.next.Write(p)
}

func (g *headerGuard) reset() {
	g.streak = 0
}
