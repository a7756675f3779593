package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_scheduled_total",
			Help: "Total number of notifications scheduled",
		},
		[]string{"type", "channel", "smart"},
	)

	NotificationsPromoted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_promoted_total",
			Help: "Total number of due scheduled notifications promoted",
		},
		[]string{"channel", "result"},
	)

	EmailsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_dispatched_total",
			Help: "Total number of email dispatch attempts",
		},
		[]string{"type", "result"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dispatch_duration_seconds",
			Help: "Duration of email dispatch in seconds",
		},
		[]string{"result"},
	)

	IngestEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_events_total",
			Help: "Total number of producer events consumed",
		},
		[]string{"result"},
	)
)
