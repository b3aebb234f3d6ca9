package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scan_batches_total",
		Help: "the number of SQS batches handled",
	})
	recordsProcessedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scan_records_processed_total",
		Help: "the number of result records written to the destination bucket",
	})
	envelopesFailedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scan_envelopes_failed_total",
		Help: "the number of SQS messages that could not be fully processed",
	})
	metadataFallbackCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scan_metadata_fallback_total",
		Help: "the number of metadata lookups that failed and used default values",
	})
)
