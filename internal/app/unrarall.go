package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/crazy-max/unrarall/pkg/config"
	"github.com/crazy-max/unrarall/pkg/extractor"
	"github.com/crazy-max/unrarall/pkg/extractor/builtin"
	"github.com/crazy-max/unrarall/pkg/extractor/unrar"
	"github.com/crazy-max/unrarall/pkg/report"
	"github.com/crazy-max/unrarall/pkg/target"
	"github.com/crazy-max/unrarall/pkg/walker"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrExtractionFailed is returned by Start when at least one archive set
// could not be extracted
var ErrExtractionFailed = errors.New("archive errors encountered")

// Unrarall represents an active unrarall object
type Unrarall struct {
	ctx       context.Context
	cancel    context.CancelFunc
	meta      config.Meta
	cli       config.Cli
	extractor *extractor.Client
	resolver  target.Resolver
	logger    zerolog.Logger
}

// New creates new unrarall instance
func New(meta config.Meta, cli config.Cli) (*Unrarall, error) {
	cli.Source = filepath.Clean(cli.Source)
	cli.Target = filepath.Clean(cli.Target)

	if fi, err := os.Stat(cli.Source); err != nil || !fi.IsDir() {
		return nil, errors.Errorf("invalid source directory %q", cli.Source)
	}
	if !cli.DryRun {
		if err := os.MkdirAll(cli.Target, 0o755); err != nil {
			return nil, errors.Wrapf(err, "unable to create target directory %q", cli.Target)
		}
	}

	var ext *extractor.Client
	var err error
	switch cli.Extractor {
	case config.ExtractorBuiltin:
		ext, err = builtin.New()
	default:
		if !cli.DryRun {
			if _, err = unrar.LookPath(cli.UnrarBin); err != nil {
				return nil, err
			}
		}
		ext, err = unrar.New(unrar.Options{
			Bin: cli.UnrarBin,
		})
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create %s extractor", cli.Extractor)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Unrarall{
		ctx:       ctx,
		cancel:    cancel,
		meta:      meta,
		cli:       cli,
		extractor: ext,
		resolver: target.Resolver{
			SourceDir: cli.Source,
			TargetDir: cli.Target,
			MaxSuffix: cli.MaxSuffix,
		},
		logger: log.With().Str("extractor", ext.Type()).Logger(),
	}, nil
}

// Start walks the source directory and extracts every archive set found
func (c *Unrarall) Start() error {
	c.logger.Info().
		Str("source", c.cli.Source).
		Str("target", c.cli.Target).
		Bool("dry-run", c.cli.DryRun).
		Msg("Scanning source directory")

	res, err := walker.Walk(c.cli.Source, c.extractDir, walker.Opts{
		Context: c.ctx,
		Logger:  c.logger,
	})
	c.report(res)
	if err != nil {
		return errors.Wrap(err, "cannot process source directory")
	}
	if res.Failed() {
		return ErrExtractionFailed
	}
	return nil
}

// Close stops a running extraction
func (c *Unrarall) Close() {
	c.cancel()
}

func (c *Unrarall) report(res report.Result) {
	c.logger.Info().
		Int("extracted", res.Extracted).
		Int("errors", len(res.Failures)).
		Msg(res.Summary())
	if !res.Failed() {
		return
	}
	c.logger.Warn().Msg("Archive errors encountered")
	for _, f := range res.Failures {
		c.logger.Error().
			Str("archive", f.Archive).
			Int("code", int(f.Code)).
			Msgf("%s => %s", f.Archive, f.Message())
	}
}
