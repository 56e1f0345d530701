package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_created_total",
			Help: "Reservations successfully created",
		},
	)

	BookingsCanceled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_canceled_total",
			Help: "Reservations canceled by their creator or an admin",
		},
	)

	QueuePromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_queue_promotions_total",
			Help: "Queue entries promoted into concrete reservations",
		},
	)

	ReconcilePasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_reconcile_passes_total",
			Help: "Completed reconciliation passes",
		},
	)

	ReconcileItemErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_reconcile_item_errors_total",
			Help: "Per-item failures contained inside a reconciliation pass",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_notifications_sent_total",
			Help: "One-shot lifecycle notifications, by transition",
		},
		[]string{"transition"},
	)

	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booking_live_subscribers",
			Help: "Currently connected live-update subscribers",
		},
	)
)
