package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func logInit(conf config) zerolog.Logger {
	return newLogger(os.Stdout, *conf.logVerbose)
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {

	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()

	// no condition here, as you'll only see the message if
	// verbose logging really is enabled!
	logger.Debug().Msg("Verbose logging enabled")

	return logger
}
