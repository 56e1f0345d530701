package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cowork-booking/internal/domain/booking"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/pkg/config"
	"cowork-booking/internal/pkg/metrics"
	"cowork-booking/internal/usecase/commands"
	"cowork-booking/internal/usecase/queries"
	"cowork-booking/internal/usecase/shared"
)

// Reconciler runs one reconciliation pass: purge elapsed queue entries, then
// drive the four one-shot lifecycle notifications. Every item is handled
// independently; a failing booking is logged and skipped, never aborting the
// pass. Flags are set even when delivery fails, so each notification is
// attempted at most once.
type Reconciler struct {
	uow       shared.UnitOfWork
	lifecycle queries.LifecycleQueries
	fanout    commands.LiveFanout
	notifier  commands.DirectNotifier
	clock     clock.Clock
	cfg       config.BookingConfig
}

func NewReconciler(
	uow shared.UnitOfWork,
	lifecycle queries.LifecycleQueries,
	fanout commands.LiveFanout,
	notifier commands.DirectNotifier,
	clk clock.Clock,
	cfg config.BookingConfig,
) *Reconciler {
	return &Reconciler{
		uow:       uow,
		lifecycle: lifecycle,
		fanout:    fanout,
		notifier:  notifier,
		clock:     clk,
		cfg:       cfg,
	}
}

func (r *Reconciler) Pass(ctx context.Context) {
	now := r.clock.Now()

	r.purgeQueue(ctx, now)
	r.notifyPreEnd(ctx, now)
	r.notifyPreStart(ctx, now)
	r.notifyClientEnd(ctx, now)
	r.notifyClientStart(ctx, now)

	metrics.ReconcilePasses.Inc()
}

func (r *Reconciler) purgeQueue(ctx context.Context, now time.Time) {
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		purged, err := tx.Queue().DeleteExpired(ctx, tx.DB(), now)
		if err != nil {
			return err
		}
		if purged > 0 {
			slog.Info("purged elapsed queue entries", "count", purged)
		}
		return nil
	})
	if err != nil {
		metrics.ReconcileItemErrors.Inc()
		slog.Error("queue purge failed", "error", err.Error())
	}
}

func (r *Reconciler) notifyPreEnd(ctx context.Context, now time.Time) {
	candidates, err := r.lifecycle.DuePreEnd(ctx, now, r.cfg.PreEndWindow)
	if err != nil {
		metrics.ReconcileItemErrors.Inc()
		slog.Error("pre-end candidate query failed", "error", err.Error())
		return
	}

	for _, c := range candidates {
		text := fmt.Sprintf(
			"Your booking of seat %s ends at %s. Want to extend it?",
			c.SeatName, c.TimeEnd.Format("15:04"),
		)
		extend := commands.Action{Label: "Extend", Command: "extend_booking:" + c.BookingID.String()}
		if err := r.notifier.Send(ctx, c.CreatorID, text, extend); err != nil {
			slog.Warn("pre-end notice delivery failed", "booking_id", c.BookingID, "error", err.Error())
		}
		r.setFlag(ctx, c, booking.FlagPreEnd, "pre_end")
	}
}

func (r *Reconciler) notifyPreStart(ctx context.Context, now time.Time) {
	candidates, err := r.lifecycle.DuePreStart(ctx, now, r.cfg.PreStartWindow)
	if err != nil {
		metrics.ReconcileItemErrors.Inc()
		slog.Error("pre-start candidate query failed", "error", err.Error())
		return
	}

	for _, c := range candidates {
		text := fmt.Sprintf(
			"Your booking of seat %s starts at %s. Cancel if your plans changed.",
			c.SeatName, c.TimeStart.Format("15:04"),
		)
		cancel := commands.Action{Label: "Cancel booking", Command: "cancel_booking:" + c.BookingID.String()}
		if err := r.notifier.Send(ctx, c.CreatorID, text, cancel); err != nil {
			slog.Warn("pre-start notice delivery failed", "booking_id", c.BookingID, "error", err.Error())
		}
		r.setFlag(ctx, c, booking.FlagPreStart, "pre_start")
	}
}

// notifyClientEnd tells live subscribers the seat is about to free up.
// The event name is the cancellation one even when the booking simply ran
// out; deployed clients key their refresh on it.
func (r *Reconciler) notifyClientEnd(ctx context.Context, now time.Time) {
	candidates, err := r.lifecycle.DueClientEnd(ctx, now, r.cfg.ClientEndWindow)
	if err != nil {
		metrics.ReconcileItemErrors.Inc()
		slog.Error("client-end candidate query failed", "error", err.Error())
		return
	}

	for _, c := range candidates {
		r.fanout.Notify(c.LocationID, commands.Event{
			Event:     commands.EventBookingCanceled,
			TableID:   c.SeatName,
			TimeStart: c.TimeStart.Format(time.RFC3339),
			TimeEnd:   c.TimeEnd.Format(time.RFC3339),
		})
		r.setFlag(ctx, c, booking.FlagClientEnd, "client_end")
	}
}

func (r *Reconciler) notifyClientStart(ctx context.Context, now time.Time) {
	candidates, err := r.lifecycle.DueClientStart(ctx, now, r.cfg.ClientStartWindow)
	if err != nil {
		metrics.ReconcileItemErrors.Inc()
		slog.Error("client-start candidate query failed", "error", err.Error())
		return
	}

	for _, c := range candidates {
		r.fanout.Notify(c.LocationID, commands.Event{
			Event:     commands.EventBookingStarted,
			TableID:   c.SeatName,
			TimeStart: c.TimeStart.Format(time.RFC3339),
			TimeEnd:   c.TimeEnd.Format(time.RFC3339),
		})
		r.setFlag(ctx, c, booking.FlagClientStart, "client_start")
	}
}

func (r *Reconciler) setFlag(ctx context.Context, c *queries.LifecycleCandidate, flag booking.Flag, transition string) {
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().SetFlag(ctx, tx.DB(), c.BookingID, flag)
	})
	if err != nil {
		// Flag untouched means the next pass retries this booking naturally.
		metrics.ReconcileItemErrors.Inc()
		slog.Error("failed to set lifecycle flag",
			"booking_id", c.BookingID,
			"flag", string(flag),
			"error", err.Error())
		return
	}
	metrics.NotificationsSent.WithLabelValues(transition).Inc()
}
