package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/fuego-project/fuego-api/pkg/logging"
)

func logMetrics(log *slog.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		log.Warn("Failed to gather metrics", logging.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := make([]any, 0, len(m.GetLabel())+2)
			attrs = append(attrs, slog.String("metric", mf.GetName()))
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, slog.String(lp.GetName(), lp.GetValue()))
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				attrs = append(attrs, slog.Float64("value", m.GetCounter().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				attrs = append(attrs, slog.Uint64("count", h.GetSampleCount()), slog.Float64("sum", h.GetSampleSum()))
			default:
				continue
			}
			log.Info("Metric", attrs...)
		}
	}
}
