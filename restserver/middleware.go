// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

var errNoKey = errors.New("API key missing or invalid")

// keyChecker rejects requests without the right API key.
type keyChecker struct {
	Key string
}

func (k *keyChecker) ServeHTTP(rw http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	key := req.URL.Query().Get(restdata.KeyParam)
	if key == "" || (k.Key != "" && key != k.Key) {
		response := restdata.ErrorResponse{}
		response.FromError(errNoKey)
		rw.Header().Set("Content-Type", restdata.JSONMediaType)
		rw.WriteHeader(http.StatusUnauthorized)
		_ = restdata.Encode(rw, response)
		return
	}
	next(rw, req)
}

// requestLogger logs every request with its outcome.
type requestLogger struct {
	Logger logrus.FieldLogger
}

func (l *requestLogger) ServeHTTP(rw http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(rw, req)
	status := 0
	if res, ok := rw.(negroni.ResponseWriter); ok {
		status = res.Status()
	}
	l.Logger.WithFields(logrus.Fields{
		"method":     req.Method,
		"url":        restdata.RedactKey(req.URL),
		"status":     status,
		"duration":   time.Since(start),
		"request_id": req.Header.Get("X-Request-Id"),
	}).Info("request")
}
