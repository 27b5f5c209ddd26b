package client

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const clientMetricsNamespace = "fuego_client"

// InstrumentedDoer counts requests and measures their duration.
type InstrumentedDoer struct {
	next     Doer
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInstrumentedDoer wraps next and registers its collectors in reg.
// A nil reg leaves the collectors unregistered.
func NewInstrumentedDoer(next Doer, reg prometheus.Registerer) (*InstrumentedDoer, error) {
	d := &InstrumentedDoer{
		next: next,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: clientMetricsNamespace,
				Name:      "requests_total",
				Help:      "Fuego API requests count",
			},
			[]string{"method", "path", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: clientMetricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "Fuego API round trip duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{d.requests, d.duration} {
			if err := reg.Register(c); err != nil {
				return nil, errors.Wrap(err, "failed to register client metrics")
			}
		}
	}
	return d, nil
}

// Do sends req and records it under its endpoint template, e.g.
// "node/block_header_by_height/{height}", so every height shares one series.
// Requests not made by this package are recorded under their URL path.
func (d *InstrumentedDoer) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := d.next.Do(req)
	path := requestRoute(req)
	d.duration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		d.requests.WithLabelValues(req.Method, path, "error").Inc()
		return resp, err
	}
	d.requests.WithLabelValues(req.Method, path, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func requestRoute(req *http.Request) string {
	if route, ok := routeFromContext(req.Context()); ok {
		return route
	}
	return req.URL.Path
}
