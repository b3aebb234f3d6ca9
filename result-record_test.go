package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputKey(t *testing.T) {

	at := time.Date(2024, 3, 9, 7, 5, 2, 4500, time.UTC)

	keyTests := []struct {
		ObjectKey string
		Want      string
	}{
		{"a+b.png", "processed/20240309-070502-000004-a+b.png.json"},
		{"dir/sub/x.png", "processed/20240309-070502-000004-dir_sub_x.png.json"},
		{"my file.png", "processed/20240309-070502-000004-my file.png.json"},
	}

	for _, kt := range keyTests {
		t.Run(fmt.Sprintf("Key: %s", kt.ObjectKey), func(t *testing.T) {
			assert.Equal(t, kt.Want, outputKey(at, kt.ObjectKey))
		})
	}
}

func TestOutputKeyUsesUTC(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2024, 3, 9, 9, 0, 0, 123456000, zone)
	assert.Equal(t, "processed/20240309-000000-123456-k.json", outputKey(at, "k"))
}

func TestEncodeRecord(t *testing.T) {

	ev := StorageEvent{Bucket: "srcbkt", Key: "a+b.png", Size: 1024, EventTime: "2024-01-01T00:00:00Z"}
	md := ObjectMetadata{ContentType: "image/png", LastModified: "2024-01-01T00:00:00+00:00"}
	at := time.Date(2024, 1, 1, 0, 0, 5, 1000, time.UTC)

	body, err := EncodeRecord(newResultRecord(ev, md, at))
	require.NoError(t, err)

	want := strings.Join([]string{
		`{`,
		`  "source_bucket": "srcbkt",`,
		`  "object_key": "a+b.png",`,
		`  "object_size": 1024,`,
		`  "content_type": "image/png",`,
		`  "event_time": "2024-01-01T00:00:00Z",`,
		`  "last_modified": "2024-01-01T00:00:00+00:00",`,
		`  "processed_at": "2024-01-01T00:00:05.000001",`,
		`  "status": "processed"`,
		`}`,
	}, "\n")
	assert.Equal(t, want, string(body))
}

func TestEncodeRecordReturnsOwnedBytes(t *testing.T) {

	first, err := EncodeRecord(&ResultRecord{ObjectKey: "first", Status: statusProcessed})
	require.NoError(t, err)
	_, err = EncodeRecord(&ResultRecord{ObjectKey: "second", Status: statusProcessed})
	require.NoError(t, err)

	var rec ResultRecord
	require.NoError(t, json.Unmarshal(first, &rec))
	assert.Equal(t, "first", rec.ObjectKey)
}
