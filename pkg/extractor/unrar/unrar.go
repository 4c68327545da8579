package unrar

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/crazy-max/unrarall/pkg/extractor"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBin is the unrar binary looked up in PATH
const DefaultBin = "unrar"

// Client represents an active unrar extractor object
type Client struct {
	opts   Options
	logger zerolog.Logger
}

// Options represents unrar extractor options
type Options struct {
	// Bin is the unrar binary name or path
	Bin string
}

// New creates new unrar extractor instance
func New(opts Options) (*extractor.Client, error) {
	if opts.Bin == "" {
		opts.Bin = DefaultBin
	}
	return &extractor.Client{
		Handler: &Client{
			opts:   opts,
			logger: log.With().Str("extractor", "unrar").Logger(),
		},
	}, nil
}

// LookPath resolves the unrar binary
func LookPath(bin string) (string, error) {
	if bin == "" {
		bin = DefaultBin
	}
	p, err := exec.LookPath(bin)
	if err != nil {
		return "", errors.Wrapf(err, "cannot find %s binary", bin)
	}
	return p, nil
}

// Type returns the extractor type
func (c *Client) Type() string {
	return "unrar"
}

// Extract runs unrar on the starting volume of an archive set
func (c *Client) Extract(ctx context.Context, plan extractor.Plan) (extractor.ExitCode, error) {
	if plan.DryRun {
		return extractor.Success, nil
	}
	logger := c.logger.With().Str("archive", plan.Source).Logger()

	args := Args(plan)
	logger.Debug().Strs("args", redact(args)).Msgf("Running %s", c.opts.Bin)

	cmd := exec.CommandContext(ctx, c.opts.Bin, args...)
	if plan.Verbose {
		out := &outputWriter{logger: logger}
		cmd.Stdout = out
		cmd.Stderr = out
		defer out.Flush()
	}

	err := cmd.Run()
	if err == nil {
		return extractor.Success, nil
	}
	if ctx.Err() != nil {
		logger.Warn().Err(ctx.Err()).Msg("unrar interrupted")
		return extractor.UserBreak, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() < 0 {
			return extractor.UserBreak, nil
		}
		return extractor.ExitCode(exitErr.ExitCode()), nil
	}
	return extractor.Fatal, errors.Wrapf(err, "cannot run %s", c.opts.Bin)
}

// Args returns the unrar command line for a plan
func Args(plan extractor.Plan) []string {
	cmd := "e"
	if plan.KeepPaths {
		cmd = "x"
	}
	args := []string{cmd}
	if !plan.Verbose {
		args = append(args, "-inul")
	}
	if plan.Password != "" {
		args = append(args, "-p"+plan.Password)
	} else {
		// never let unrar prompt for a password
		args = append(args, "-p-")
	}
	target := plan.Target
	if !strings.HasSuffix(target, string(filepath.Separator)) {
		target += string(filepath.Separator)
	}
	return append(args, plan.Source, target)
}

func redact(args []string) []string {
	res := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "-p") && arg != "-p-" {
			arg = "-p***"
		}
		res[i] = arg
	}
	return res
}

type outputWriter struct {
	logger zerolog.Logger
	buf    bytes.Buffer
}

func (w *outputWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.log(line)
	}
	return len(p), nil
}

func (w *outputWriter) Flush() {
	w.log(w.buf.String())
	w.buf.Reset()
}

func (w *outputWriter) log(line string) {
	if line = strings.TrimSpace(line); line != "" {
		w.logger.Info().Msg(line)
	}
}
