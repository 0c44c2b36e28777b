package watcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsQueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "watcher",
		Name:      "events_queued_total",
		Help:      "Number of change notifications queued for sync per category.",
	}, []string{"category"})

	eventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "watcher",
		Name:      "events_dropped_total",
		Help:      "Number of change notifications dropped because the buffer was full.",
	}, []string{"category"})

	eventsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "watcher",
		Name:      "feed_events_dispatched_total",
		Help:      "Number of change-feed messages dispatched and committed per category.",
	}, []string{"category"})

	decodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "watcher",
		Name:      "feed_decode_errors_total",
		Help:      "Number of malformed change-feed messages.",
	})
)

func init() {
	prometheus.MustRegister(eventsQueued, eventsDropped, eventsDispatched, decodeErrors)
}
