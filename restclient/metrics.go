// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "crowdflower",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Requests sent to the CrowdFlower API by status",
	},
	[]string{
		"method",
		"status",
	},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "crowdflower",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests to the CrowdFlower API",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{
		"method",
	},
)

// RegisterMetrics registers the client's request metrics.  Metrics
// are collected whether or not they are registered.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{requestsTotal, requestDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// observe records one finished request.  status is 0 if no response
// arrived.
func observe(method string, status int, elapsed time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(method, label).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
