// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bufio"
	"bytes"
	"io"
	"mime"
	"reflect"

	"github.com/ugorji/go/codec"
)

var mapStringInterface = reflect.TypeOf(map[string]interface{}(nil))

// NewJSONHandle returns the codec handle used for all JSON on the
// wire.  Objects decode as map[string]interface{} and integers as
// int64, so values read from the service compare predictably.
func NewJSONHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.MapType = mapStringInterface
	h.SignedInteger = true
	return h
}

// Decode tries to decode a JSON object from a reader, such as an
// HTTP response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// The service omits Content-Type on some empty-ish
		// responses; everything it sends is JSON.
		contentType = JSONMediaType
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	switch mediaType {
	case "text/json", "text/javascript", JSONMediaType:
	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}

	decoder := codec.NewDecoder(r, NewJSONHandle())
	return decoder.Decode(out)
}

// DecodeBytes decodes JSON from a byte slice.
func DecodeBytes(b []byte, out interface{}) error {
	decoder := codec.NewDecoderBytes(b, NewJSONHandle())
	return decoder.Decode(out)
}

// Encode writes the JSON encoding of v.
func Encode(w io.Writer, v interface{}) error {
	encoder := codec.NewEncoder(w, NewJSONHandle())
	return encoder.Encode(v)
}

// EncodeLines encodes each row as one line of JSON, the format of
// JSON uploads and reports.
func EncodeLines(rows []interface{}) ([]byte, error) {
	var buf bytes.Buffer
	h := NewJSONHandle()
	for _, row := range rows {
		var line []byte
		encoder := codec.NewEncoderBytes(&line, h)
		if err := encoder.Encode(row); err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// maxLine bounds a single JSON line; report rows carry every
// judgment of a unit and can be large.
const maxLine = 16 * 1024 * 1024

// DecodeLines reads one JSON object per line.  Blank lines are
// skipped.
func DecodeLines(r io.Reader) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record map[string]interface{}
		if err := DecodeBytes(line, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
