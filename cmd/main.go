package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/crazy-max/unrarall/internal/app"
	"github.com/crazy-max/unrarall/internal/logging"
	"github.com/crazy-max/unrarall/pkg/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	unrarall *app.Unrarall
	cli      config.Cli
	version  = "dev"
	meta     = config.Meta{
		ID:     "unrarall",
		Name:   "Unrarall",
		Desc:   "Extract every multi-volume RAR archive set found in a directory tree",
		URL:    "https://github.com/crazy-max/unrarall",
		Author: "CrazyMax",
	}
)

func main() {
	var err error

	meta.Version = version

	_ = kong.Parse(&cli,
		kong.Name(meta.ID),
		kong.Description(fmt.Sprintf("%s. More info: %s", meta.Desc, meta.URL)),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	// Logging
	if err = logging.Configure(cli); err != nil {
		log.Fatal().Err(err).Msg("cannot configure logging")
	}

	// Init
	if unrarall, err = app.New(meta, cli); err != nil {
		log.Fatal().Err(err).Msg("cannot initialize unrarall")
	}

	// Handle os signals
	channel := make(chan os.Signal, 1)
	signal.Notify(channel, os.Interrupt, SIGTERM)
	go func() {
		sig := <-channel
		log.Warn().Msgf("caught signal %v", sig)
		unrarall.Close()
	}()

	// Start
	if err = unrarall.Start(); err != nil {
		if errors.Is(err, app.ErrExtractionFailed) {
			os.Exit(1)
		}
		log.Fatal().Stack().Err(err).Send()
	}
}
