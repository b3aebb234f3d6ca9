package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Outcome struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type Processor struct {
	lookup            MetadataLookup
	writer            ObjectWriter
	destinationBucket string
	log               zerolog.Logger

	now  func() time.Time
	mu   sync.Mutex
	last time.Time
}

func NewProcessor(
	lookup MetadataLookup,
	writer ObjectWriter,
	destinationBucket string,
	logger zerolog.Logger,
) (*Processor, error) {
	if lookup == nil {
		return nil, errors.New("metadata lookup cannot be nil")
	}
	if writer == nil {
		return nil, errors.New("object writer cannot be nil")
	}
	if destinationBucket == "" {
		return nil, errors.New("destination bucket is required")
	}
	return &Processor{
		lookup:            lookup,
		writer:            writer,
		destinationBucket: destinationBucket,
		log:               logger.With().Str("component", "Processor").Logger(),
		now:               time.Now,
	}, nil
}

// ProcessBatch never fails. A bad message adds one to Failed and skips its remaining records.
func (p *Processor) ProcessBatch(ctx context.Context, invocationID string, msgs []events.SQSMessage) Outcome {

	var outcome Outcome
	log := p.log.With().Str("invocation_id", invocationID).Logger()
	batchCount.Inc()

	for i := range msgs {
		processed, err := p.processEnvelope(ctx, log, &msgs[i])
		outcome.Processed += processed
		recordsProcessedCount.Add(float64(processed))
		if err != nil {
			outcome.Failed++
			envelopesFailedCount.Inc()
			dump, _ := json.Marshal(msgs[i])
			log.Error().
				Err(err).
				Str("message_id", msgs[i].MessageId).
				Str("record", string(dump)).
				Msg("Error processing record")
		}
	}

	log.Info().Int("processed", outcome.Processed).Int("failed", outcome.Failed).Msg("Batch complete")
	return outcome
}

func (p *Processor) processEnvelope(ctx context.Context, log zerolog.Logger, msg *events.SQSMessage) (processed int, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	storageEvents, err := decodeEnvelope(msg.Body)
	if err != nil {
		return 0, err
	}
	log.Debug().Str("message_id", msg.MessageId).Int("events", len(storageEvents)).Msg("Decoded message")

	for _, ev := range storageEvents {
		if err := p.processEvent(ctx, log, ev); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (p *Processor) processEvent(ctx context.Context, log zerolog.Logger, ev StorageEvent) error {

	log.Info().Msgf("Processing: s3://%s/%s", ev.Bucket, ev.Key)

	md := lookupOrDefault(ctx, p.lookup, ev.Bucket, ev.Key, log)

	processedAt := p.nextTimestamp()
	rec := newResultRecord(ev, md, processedAt)
	key := outputKey(processedAt, ev.Key)

	body, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	if err := p.writer.PutObject(ctx, p.destinationBucket, key, body, resultContentType); err != nil {
		return err
	}

	log.Info().Msgf("Result stored: s3://%s/%s", p.destinationBucket, key)
	return nil
}

// nextTimestamp never returns the same microsecond twice.
func (p *Processor) nextTimestamp() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.now().UTC().Truncate(time.Microsecond)
	if !t.After(p.last) {
		t = p.last.Add(time.Microsecond)
	}
	p.last = t
	return t
}
