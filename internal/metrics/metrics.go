package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsDropped counts realtime events rejected at the boundary, by reason
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhive_realtime_events_dropped_total",
		Help: "Realtime events dropped before delivery",
	}, []string{"reason"})

	// MessagesBroadcast counts chat messages fanned out to rooms
	MessagesBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskhive_realtime_messages_broadcast_total",
		Help: "Chat messages broadcast to group rooms",
	})

	// NotificationsCreated counts reminder notifications written by the scanner
	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskhive_reminder_notifications_created_total",
		Help: "Reminder notifications created by the scheduler",
	})

	// ScanErrors counts failed reminder scan operations
	ScanErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskhive_reminder_scan_errors_total",
		Help: "Errors encountered during reminder scans",
	})
)
