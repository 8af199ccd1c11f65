// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"mime"
	"path/filepath"

	"github.com/diffeo/go-crowdflower/crowdflower"
)

// Upload formats the service accepts that are missing from Go's
// built-in extension table.
var uploadTypes = map[string]string{
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
}

func init() {
	for ext, typ := range uploadTypes {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

// UploadContentType picks the Content-Type of an upload.  An explicit
// contentType always wins; otherwise it is guessed from the
// extension of filename.  Returns crowdflower.ErrTypeUnknown if
// neither gives an answer.
func UploadContentType(filename, contentType string) (string, error) {
	if contentType != "" {
		return contentType, nil
	}
	if filename != "" {
		if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
			return t, nil
		}
	}
	return "", crowdflower.ErrTypeUnknown{Filename: filename}
}
