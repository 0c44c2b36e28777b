package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	samplesImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "syncer",
		Name:      "samples_imported_total",
		Help:      "Number of platform samples persisted locally per category.",
	}, []string{"category"})

	duplicatesSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "syncer",
		Name:      "duplicates_skipped_total",
		Help:      "Number of samples skipped because their external ID was already imported.",
	}, []string{"category"})

	selfAuthoredSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "syncer",
		Name:      "self_authored_skipped_total",
		Help:      "Number of samples skipped because the engine wrote them itself.",
	}, []string{"category"})

	categoryFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "syncer",
		Name:      "category_sync_failures_total",
		Help:      "Number of per-category sync task failures.",
	}, []string{"category"})

	syncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthsync",
		Subsystem: "syncer",
		Name:      "sync_duration_seconds",
		Help:      "Wall-clock duration of one sync attempt.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	lastSyncGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthsync",
		Subsystem: "syncer",
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix timestamp of the persisted sync cursor.",
	})
)

func init() {
	prometheus.MustRegister(samplesImported, duplicatesSkipped, selfAuthoredSkipped, categoryFailures, syncDuration, lastSyncGauge)
}
