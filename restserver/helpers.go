// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains helpers to turn request bodies into the inputs
// of the memory service.

import (
	"bytes"
	"encoding/csv"
	"io"
	"mime"

	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/mitchellh/mapstructure"
)

// decodeForm decodes the unflattened form into a struct tagged with
// mapstructure names.  Form values are strings, so conversions are
// weakly typed.
func decodeForm(ctx *context, out interface{}) error {
	config := mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(ctx.Fields(""))
	}
	if err != nil {
		err = restdata.ErrBadRequest{Err: err}
	}
	return err
}

// uploadRows parses an upload body into one map per unit.  JSON
// bodies hold one object per line; CSV and TSV bodies have a header
// row naming the columns.
func uploadRows(ctx *context) ([]map[string]interface{}, error) {
	mediaType, _, err := mime.ParseMediaType(ctx.ContentType)
	if err != nil {
		return nil, restdata.ErrBadRequest{Err: err}
	}
	switch mediaType {
	case restdata.JSONMediaType, "text/json":
		rows, err := restdata.DecodeLines(bytes.NewReader(ctx.Body))
		if err != nil {
			return nil, restdata.ErrBadRequest{Err: err}
		}
		return rows, nil
	case "text/csv":
		return tableRows(ctx.Body, ',')
	case "text/tab-separated-values":
		return tableRows(ctx.Body, '\t')
	}
	return nil, restdata.ErrUnsupportedMediaType{Type: mediaType}
}

func tableRows(body []byte, comma rune) ([]map[string]interface{}, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.Comma = comma
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, restdata.ErrBadRequest{Err: err}
	}
	var rows []map[string]interface{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, restdata.ErrBadRequest{Err: err}
		}
		row := make(map[string]interface{}, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
}

// errMissingParam builds a 422 error for a request missing a
// required parameter.
func errMissingParam(name string) error {
	return restdata.ErrUnprocessable{Problems: []string{name + " is required"}}
}
