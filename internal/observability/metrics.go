// Package observability holds the engine-wide watermark gauges. Per-package
// counters live next to the code that increments them.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	importPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthsync",
		Subsystem: "persistence",
		Name:      "last_import_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent imported sample persisted locally.",
	})
	exportWrittenGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthsync",
		Subsystem: "platform",
		Name:      "last_export_written_timestamp_seconds",
		Help:      "Unix timestamp of the most recent sample written to the platform.",
	})
)

func init() {
	prometheus.MustRegister(importPersistGauge, exportWrittenGauge)
}

// RecordImportPersisted updates the local-persistence watermark gauge.
func RecordImportPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	importPersistGauge.Set(float64(ts.Unix()))
}

// RecordExportWritten updates the platform-write watermark gauge.
func RecordExportWritten(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exportWrittenGauge.Set(float64(ts.Unix()))
}
