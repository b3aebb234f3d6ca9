package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// runPollMode polls SQS outside Lambda and, if configured, serves metrics
// until the poller stops.
func runPollMode(conf config, sess *session.Session, processor *Processor, logger zerolog.Logger) error {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gracefulStop(logger, cancel)

	poller, err := newSQSPoller(
		ctx,
		sqs.New(sess),
		*conf.sqsName,
		*conf.sqsPollTimeout,
		*conf.sqsPollMaxMessages,
		logger,
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if *conf.metricsAddr != "" {
		srv := &http.Server{
			Addr:              *conf.metricsAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Msg("Serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return runPoller(gctx, poller, processor, *conf.doneAfterCountEmptyPolls, logger)
	})

	return g.Wait()
}
