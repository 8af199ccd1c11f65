// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zip"
)

// ReadReport decompresses a report archive and decodes every JSON
// line of every file in it, in archive order.
func ReadReport(archive []byte) ([]map[string]interface{}, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}
	var records []map[string]interface{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		lines, err := DecodeLines(rc)
		closeErr := rc.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, err
		}
		records = append(records, lines...)
	}
	return records, nil
}

// WriteReport writes a report archive holding a single file of JSON
// lines.
func WriteReport(w io.Writer, name string, records []map[string]interface{}) error {
	rows := make([]interface{}, len(records))
	for i, r := range records {
		rows[i] = r
	}
	content, err := EncodeLines(rows)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	fw, err := zw.Create(name)
	if err == nil {
		_, err = fw.Write(content)
	}
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
