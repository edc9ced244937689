// README: Periodic sweeps: stale-pending cancellation and start/end reminders.
package trip

import (
	"context"
	"log"
	"time"

	"gonow/internal/notify"
)

// SweepStalePending cancels pending trips whose start is inside the
// 15-minute lead window with no guide found. The resulting status change
// flows through the normal transition pipeline, which notifies the client.
// One trip's failure never aborts the batch.
func (s *Service) SweepStalePending(ctx context.Context) error {
	now := s.now()
	trips, err := s.trips.PendingBefore(ctx, now.Add(stalePendingLead))
	if err != nil {
		return err
	}
	for _, t := range trips {
		ok, err := s.trips.UpdateStatus(ctx, t.ID, StatusPending, StatusCanceled, "")
		if err != nil {
			log.Printf("pending sweep: canceling trip %s: %v", t.ID, err)
			continue
		}
		if !ok {
			// A guide accepted (or someone else canceled) since the query.
			continue
		}
		e := Event{
			Action:       EventActionCanceled,
			CreatedBy:    CreatedBySystemSweep,
			Reason:       ReasonGuideUnavailable,
			CreationDate: now,
		}
		if err := s.trips.AppendEvent(ctx, t.ID, e); err != nil {
			log.Printf("pending sweep: recording event for trip %s: %v", t.ID, err)
		}
	}
	return nil
}

// SweepReminders sends start reminders for booked trips around their start
// time and end reminders for started trips well past their computed finish.
// No status changes; Redis markers keep each reminder to one send even
// though the window is wider than the sweep cadence.
func (s *Service) SweepReminders(ctx context.Context) error {
	now := s.now()

	booked, err := s.trips.BookedBetween(ctx, now.Add(-startReminderBehind), now.Add(startReminderAhead))
	if err != nil {
		return err
	}
	for _, t := range booked {
		first, err := s.reminders.MarkOnce(ctx, "start", t.ID)
		if err != nil {
			log.Printf("reminder sweep: marking trip %s: %v", t.ID, err)
			continue
		}
		if !first {
			continue
		}
		for _, c := range []Notify{
			{Template: notify.TemplateStartReminderGuide, To: RecipientGuide},
			{Template: notify.TemplateStartReminderClient, To: RecipientClient},
		} {
			if err := s.runNotify(ctx, t, c); err != nil {
				log.Printf("reminder sweep: trip %s %s: %v", t.ID, c.To, err)
			}
		}
	}

	started, err := s.trips.StartedBefore(ctx, now.Add(-endReminderMin))
	if err != nil {
		return err
	}
	for _, t := range started {
		tour, err := s.trips.GetTour(ctx, t.TourID)
		if err != nil {
			log.Printf("reminder sweep: tour of trip %s: %v", t.ID, err)
			continue
		}
		overdue := now.Sub(t.Date.Add(tour.Duration()))
		if overdue < endReminderMin || overdue > endReminderMax {
			continue
		}
		first, err := s.reminders.MarkOnce(ctx, "end", t.ID)
		if err != nil {
			log.Printf("reminder sweep: marking trip %s: %v", t.ID, err)
			continue
		}
		if !first {
			continue
		}
		if err := s.runNotify(ctx, t, Notify{Template: notify.TemplateEndReminderGuide, To: RecipientGuide}); err != nil {
			log.Printf("reminder sweep: trip %s guide: %v", t.ID, err)
		}
	}
	return nil
}

// RunStalePendingSweeper fires the stale-pending sweep on a ticker inside
// the 08-19h daily window.
func (s *Service) RunStalePendingSweeper(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h := s.now().Hour(); h < pendingSweepHourFrom || h >= pendingSweepHourTo {
				continue
			}
			if err := s.SweepStalePending(ctx); err != nil {
				log.Printf("pending sweep: %v", err)
			}
		}
	}
}

// RunReminderSweeper fires the reminder sweep on a ticker inside the
// 07-22h daily window.
func (s *Service) RunReminderSweeper(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h := s.now().Hour(); h < reminderSweepHourFrom || h >= reminderSweepHourTo {
				continue
			}
			if err := s.SweepReminders(ctx); err != nil {
				log.Printf("reminder sweep: %v", err)
			}
		}
	}
}
