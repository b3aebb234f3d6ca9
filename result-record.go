package main

import (
	"fmt"
	"strings"
	"time"
)

const (
	statusProcessed   = "processed"
	outputPrefix      = "processed/"
	resultContentType = "application/json"
	// always six fraction digits, even when they are all zero
	processedAtLayout = "2006-01-02T15:04:05.000000"
)

// field order is the order in the written JSON
type ResultRecord struct {
	SourceBucket string `json:"source_bucket"`
	ObjectKey    string `json:"object_key"`
	ObjectSize   int64  `json:"object_size"`
	ContentType  string `json:"content_type"`
	EventTime    string `json:"event_time"`
	LastModified string `json:"last_modified"`
	ProcessedAt  string `json:"processed_at"`
	Status       string `json:"status"`
}

func newResultRecord(ev StorageEvent, md ObjectMetadata, processedAt time.Time) *ResultRecord {
	return &ResultRecord{
		SourceBucket: ev.Bucket,
		ObjectKey:    ev.Key,
		ObjectSize:   ev.Size,
		ContentType:  md.ContentType,
		EventTime:    ev.EventTime,
		LastModified: md.LastModified,
		ProcessedAt:  processedAt.UTC().Format(processedAtLayout),
		Status:       statusProcessed,
	}
}

// outputKey returns processed/<YYYYMMDD>-<HHMMSS>-<micros>-<key>.json, with
// every "/" in the object key replaced by "_".
func outputKey(processedAt time.Time, objectKey string) string {
	t := processedAt.UTC()
	return fmt.Sprintf(
		"%s%s-%06d-%s.json",
		outputPrefix,
		t.Format("20060102-150405"),
		t.Nanosecond()/int(time.Microsecond),
		strings.ReplaceAll(objectKey, "/", "_"),
	)
}
