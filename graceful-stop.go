package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// gracefulStop cancels the poll loop on ^C or SIGTERM. The batch in hand is
// still finished and deleted.
func gracefulStop(log zerolog.Logger, cancel context.CancelFunc) {

	var stop = make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-stop
		log.Info().Str("signal", sig.String()).Msg("Caught signal")
		cancel()
	}()
}
