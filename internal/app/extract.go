package app

import (
	"context"
	"os"

	"github.com/crazy-max/unrarall/pkg/archiveset"
	"github.com/crazy-max/unrarall/pkg/extractor"
	"github.com/crazy-max/unrarall/pkg/report"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// extractDir extracts the archive sets found in the files of one directory
func (c *Unrarall) extractDir(dir string, files []string) report.Result {
	var res report.Result

	sets := archiveset.Group(files)
	if len(sets) == 0 {
		return res
	}
	c.logger.Debug().Str("dir", dir).Int("sets", len(sets)).Msg("Archive sets found")

	// a lone set is extracted into the mirror of its directory
	single := len(sets) == 1
	for _, set := range sets {
		if c.ctx.Err() != nil {
			break
		}
		res = res.Merge(c.extractSet(set, single))
	}
	return res
}

func (c *Unrarall) extractSet(set archiveset.Set, single bool) report.Result {
	first := set.StartingVolume()
	archive := c.resolver.Relative(first)

	dest, err := c.resolver.Resolve(set.Base, single)
	if err != nil {
		c.logger.Error().Err(err).Str("archive", archive).Msg("Cannot resolve target directory")
		return failed(archive, extractor.CreateError, err)
	}

	logger := c.logger.With().Str("archive", archive).Str("dest", dest).Logger()
	logger.Info().
		Int("volumes", len(set.Members)).
		Str("size", humanize.Bytes(setSize(set))).
		Msgf("%s => %s", archive, dest)

	if !c.cli.DryRun {
		if err = os.MkdirAll(dest, 0o755); err != nil {
			err = errors.Wrapf(err, "cannot create target directory %q", dest)
			logger.Error().Err(err).Send()
			return failed(archive, extractor.CreateError, err)
		}
	}

	ctx := c.ctx
	if c.cli.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cli.Timeout)
		defer cancel()
	}

	code, err := c.extractor.Extract(ctx, extractor.Plan{
		Source:          first,
		Target:          dest,
		DryRun:          c.cli.DryRun,
		Verbose:         c.cli.Verbose,
		KeepPaths:       c.cli.KeepPaths,
		Password:        c.cli.Password,
		ContinueOnError: c.cli.ContinueOnError,
	})
	if err == nil && code == extractor.Success {
		return report.Result{Extracted: 1}
	}
	if code == extractor.Success {
		code = extractor.Fatal
	}
	logger.Error().Err(err).Int("code", int(code)).Msg(code.String())
	return failed(archive, code, err)
}

func failed(archive string, code extractor.ExitCode, err error) report.Result {
	return report.Result{
		Failures: []report.Failure{{
			Archive: archive,
			Code:    code,
			Err:     err,
		}},
	}
}

func setSize(set archiveset.Set) uint64 {
	var size uint64
	for _, m := range set.Members {
		if fi, err := os.Stat(m); err == nil && fi.Size() > 0 {
			size += uint64(fi.Size())
		}
	}
	return size
}
