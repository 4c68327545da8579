package logging

import (
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/crazy-max/unrarall/pkg/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Configure configures logger
func Configure(cli config.Cli) error {
	var w io.Writer

	// Adds support for NO_COLOR. More info https://no-color.org/
	_, noColor := os.LookupEnv("NO_COLOR")

	if !cli.LogJSON {
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			NoColor:    noColor || cli.LogNoColor,
			TimeFormat: time.RFC1123,
		}
	} else {
		w = os.Stdout
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	ctx := zerolog.New(w).With().Timestamp()
	if cli.LogCaller {
		ctx = ctx.Caller()
	}

	log.Logger = ctx.Logger()

	logLevel, err := zerolog.ParseLevel(cli.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "unknown log level %q", cli.LogLevel)
	}
	zerolog.SetGlobalLevel(logLevel)

	stdlog.SetFlags(0)
	stdlog.SetOutput(new(StdWriter))

	return nil
}
