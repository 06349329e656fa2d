package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type processorMetrics struct {
	statementsProcessed prometheus.Counter
	overspendsDetected  prometheus.Counter
	projectsCreated     *prometheus.CounterVec
	memberErrors        prometheus.Counter
	processDuration     prometheus.Histogram
}

var (
	metricsInstance *processorMetrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

func newProcessorMetrics() *processorMetrics {
	metricsOnce.Do(func() {
		metricsInstance = &processorMetrics{
			statementsProcessed: promauto.With(defaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "overspend_statements_processed_total",
				Help: "Total number of statements run through overspend detection",
			}),
			overspendsDetected: promauto.With(defaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "overspend_detections_total",
				Help: "Total number of members whose charges exceeded the threshold",
			}),
			projectsCreated: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "overspend_projects_created_total",
				Help: "Total number of accountability projects created by initial status",
			}, []string{"status"}),
			memberErrors: promauto.With(defaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "overspend_member_errors_total",
				Help: "Total number of member branches that failed",
			}),
			processDuration: promauto.With(defaultRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "overspend_process_duration_seconds",
				Help:    "Time taken to process a statement's charges",
				Buckets: prometheus.DefBuckets,
			}),
		}
	})
	return metricsInstance
}

// For testing purposes - reset metrics
func resetMetricsForTesting() {
	defaultRegistry = prometheus.NewRegistry()
	metricsInstance = nil
	metricsOnce = sync.Once{}
}
