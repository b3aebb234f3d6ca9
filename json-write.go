package main

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// EncodeRecord renders a record as 2-space indented JSON. The returned slice
// is owned by the caller.
func EncodeRecord(rec *ResultRecord) ([]byte, error) {

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, errors.Wrap(err, "JSON Encode Error")
	}

	body := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return append([]byte(nil), body...), nil
}
