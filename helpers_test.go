package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func loadTestData(t *testing.T, filename string) string {
	t.Helper()
	b, err := os.ReadFile(filename)
	require.NoError(t, err, "reading %s", filename)
	return string(b)
}

func sqsMessage(id, body string) events.SQSMessage {
	return events.SQSMessage{
		MessageId:     id,
		ReceiptHandle: "rh-" + id,
		Body:          body,
		EventSource:   "aws:sqs",
	}
}

type storedObject struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

// fakeStore is an in-memory MetadataLookup and ObjectWriter.
type fakeStore struct {
	mu sync.Mutex

	heads     map[string]ObjectInfo
	headErr   error
	headCalls []string

	// putErrAt fails the n-th PutObject call (1-based), 0 never fails
	putErrAt int
	putCalls int
	objects  []storedObject
}

var _ MetadataLookup = (*fakeStore)(nil)
var _ ObjectWriter = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{heads: map[string]ObjectInfo{}}
}

func (f *fakeStore) HeadObject(_ context.Context, bucket, key string) (ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.headCalls = append(f.headCalls, bucket+"/"+key)
	if f.headErr != nil {
		return ObjectInfo{}, f.headErr
	}
	info, ok := f.heads[bucket+"/"+key]
	if !ok {
		return ObjectInfo{}, errors.Wrapf(ErrObjectNotFound, "s3://%s/%s", bucket, key)
	}
	return info, nil
}

func (f *fakeStore) PutObject(_ context.Context, bucket, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putCalls++
	if f.putErrAt > 0 && f.putCalls == f.putErrAt {
		return fmt.Errorf("put %d failed", f.putCalls)
	}
	f.objects = append(f.objects, storedObject{
		Bucket:      bucket,
		Key:         key,
		Body:        append([]byte(nil), body...),
		ContentType: contentType,
	})
	return nil
}
