// README: Trip lifecycle runner: executes transition commands against stores and FCM.
package trip

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gonow/internal/modules/availability"
	"gonow/internal/modules/guide"
	"gonow/internal/modules/matching"
	"gonow/internal/notify"
	"gonow/internal/types"
)

// TripStore is the persistence the runner needs from the document store.
type TripStore interface {
	Get(ctx context.Context, id types.ID) (*Trip, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, guideID string) (bool, error)
	AppendEvent(ctx context.Context, tripID types.ID, e Event) error
	ListEvents(ctx context.Context, tripID types.ID) ([]Event, error)
	PendingBefore(ctx context.Context, cutoff time.Time) ([]Trip, error)
	BookedBetween(ctx context.Context, from, to time.Time) ([]Trip, error)
	StartedBefore(ctx context.Context, cutoff time.Time) ([]Trip, error)
	GetTour(ctx context.Context, tourID string) (*Tour, error)
}

// UserDirectory resolves users: candidate pools for guides, single lookups
// for guides and clients (one users collection holds both).
type UserDirectory interface {
	Eligible(ctx context.Context, f guide.Filter) ([]guide.Guide, error)
	Get(ctx context.Context, id types.ID) (*guide.Guide, error)
}

// Availability is the slice of the availability service the runner uses.
type Availability interface {
	UnavailableGuides(ctx context.Context, day string, slots []string) (map[types.ID]bool, error)
	MarkGuideUnavailable(ctx context.Context, guideID types.ID, day string, slots []string) error
}

// Matcher selects one guide from a pre-filtered pool.
type Matcher interface {
	SelectGuide(candidates []matching.Candidate, requiredSeats int) (*matching.Candidate, error)
}

// Notifier dispatches one rendered notification.
type Notifier interface {
	Dispatch(ctx context.Context, req notify.Request) error
}

type Service struct {
	trips     TripStore
	users     UserDirectory
	avail     Availability
	matcher   Matcher
	notifier  Notifier
	reminders ReminderMarks
	audit     AuditLog // optional; nil disables the transition log
	now       func() time.Time
}

func NewService(trips TripStore, users UserDirectory, avail Availability, matcher Matcher, notifier Notifier, reminders ReminderMarks, audit AuditLog) *Service {
	return &Service{
		trips:     trips,
		users:     users,
		avail:     avail,
		matcher:   matcher,
		notifier:  notifier,
		reminders: reminders,
		audit:     audit,
		now:       time.Now,
	}
}

// HandleTransition executes the side effects Decide prescribes for one
// lifecycle event. A failed per-recipient notification is logged and never
// aborts the rest; pool computation or matching failures abort this trip's
// unit of work only.
func (s *Service) HandleTransition(ctx context.Context, ev TransitionEvent) error {
	if s.audit != nil && !ev.Created {
		if err := s.audit.AppendTransition(ctx, ev.TripID, ev.From, ev.To, "app"); err != nil {
			log.Printf("trip %s: audit %s->%s: %v", ev.TripID, ev.From, ev.To, err)
		}
	}
	for _, cmd := range Decide(ev) {
		switch c := cmd.(type) {
		case OfferToCandidates:
			if err := s.offerToCandidates(ctx, ev.Trip); err != nil {
				return fmt.Errorf("trip %s: offering: %w", ev.TripID, err)
			}
		case Rematch:
			if err := s.rematch(ctx, ev.Trip); err != nil {
				return fmt.Errorf("trip %s: rematch: %w", ev.TripID, err)
			}
		case Notify:
			if err := s.runNotify(ctx, ev.Trip, c); err != nil {
				log.Printf("trip %s: notify %s/%s: %v", ev.TripID, c.Template, c.To, err)
			}
		}
	}
	return nil
}

// offerToCandidates pushes a new-opportunity notification to every eligible
// guide who is free for the trip's occupied slots.
func (s *Service) offerToCandidates(ctx context.Context, t Trip) error {
	tour, err := s.trips.GetTour(ctx, t.TourID)
	if err != nil {
		return err
	}
	slots := availability.ComputeOccupiedSlots(t.Date, tour.DurationSlots)
	busy, err := s.avail.UnavailableGuides(ctx, availability.DayKey(t.Date), slots)
	if err != nil {
		return err
	}
	pool, err := s.users.Eligible(ctx, filterFor(t))
	if err != nil {
		return err
	}
	offered := 0
	for _, g := range pool {
		if busy[g.ID] {
			continue
		}
		req := notify.Request{
			Template: notify.TemplateNewOpportunity,
			Token:    g.FirebaseToken,
			TripID:   t.ID,
			UserID:   g.ID,
			Render:   s.renderContext(t, tour),
		}
		if err := s.notifier.Dispatch(ctx, req); err != nil {
			log.Printf("trip %s: offering to guide %s: %v", t.ID, g.ID, err)
			continue
		}
		offered++
	}
	log.Printf("trip %s: offered to %d candidates", t.ID, offered)
	return nil
}

// rematch tries to book a replacement guide for a trip in rescheduling.
// Guides with a prior canceled event on the trip are excluded even when
// otherwise eligible and free. Finding nobody is a valid outcome: the trip
// stays in rescheduling for the next external update or sweep.
func (s *Service) rematch(ctx context.Context, t Trip) error {
	tour, err := s.trips.GetTour(ctx, t.TourID)
	if err != nil {
		return err
	}
	day := availability.DayKey(t.Date)
	slots := availability.ComputeOccupiedSlots(t.Date, tour.DurationSlots)
	busy, err := s.avail.UnavailableGuides(ctx, day, slots)
	if err != nil {
		return err
	}
	declined, err := s.declinedGuides(ctx, t.ID)
	if err != nil {
		return err
	}
	pool, err := s.users.Eligible(ctx, filterFor(t))
	if err != nil {
		return err
	}

	candidates := make([]matching.Candidate, 0, len(pool))
	for _, g := range pool {
		if busy[g.ID] || declined[string(g.ID)] {
			continue
		}
		candidates = append(candidates, matching.Candidate{ID: g.ID, Seats: g.TukTukSeats})
	}

	pick, err := s.matcher.SelectGuide(candidates, t.Persons)
	if err != nil {
		return err
	}
	if pick == nil {
		log.Printf("trip %s: no guide available for rematch", t.ID)
		return nil
	}

	ok, err := s.trips.UpdateStatus(ctx, t.ID, StatusRescheduling, StatusBooked, string(pick.ID))
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("trip %s: lost rematch race, leaving as-is", t.ID)
		return nil
	}
	// The availability check above and this mark are not atomic as a pair:
	// two trips can race the same guide into the same slots. Accepted, see
	// DESIGN.md.
	if err := s.avail.MarkGuideUnavailable(ctx, pick.ID, day, slots); err != nil {
		return fmt.Errorf("marking guide %s busy: %w", pick.ID, err)
	}
	return nil
}

func (s *Service) declinedGuides(ctx context.Context, tripID types.ID) (map[string]bool, error) {
	events, err := s.trips.ListEvents(ctx, tripID)
	if err != nil {
		return nil, err
	}
	declined := make(map[string]bool)
	for _, e := range events {
		if e.Action == EventActionCanceled {
			declined[e.CreatedBy] = true
		}
	}
	return declined, nil
}

// runNotify resolves the recipient, renders, and dispatches one Notify
// command. A trip without an assigned guide simply skips guide-addressed
// notifications.
func (s *Service) runNotify(ctx context.Context, t Trip, c Notify) error {
	tour, err := s.trips.GetTour(ctx, t.TourID)
	if err != nil {
		return err
	}
	var userID types.ID
	switch c.To {
	case RecipientGuide:
		if t.GuideID == "" {
			log.Printf("trip %s: no guide assigned, skipping %s", t.ID, c.Template)
			return nil
		}
		userID = types.ID(t.GuideID)
	case RecipientClient:
		userID = types.ID(t.ClientID)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	return s.notifier.Dispatch(ctx, notify.Request{
		Template: c.Template,
		Token:    u.FirebaseToken,
		TripID:   t.ID,
		UserID:   userID,
		Render:   s.renderContext(t, tour),
		Record:   c.Record,
	})
}

func (s *Service) renderContext(t Trip, tour *Tour) notify.RenderContext {
	reservation := t.ReservationID
	if reservation == "" {
		reservation = tour.ReservationID
	}
	return notify.RenderContext{
		TourName:      tour.Name,
		TripDate:      t.Date,
		FinishTime:    t.Date.Add(tour.Duration()),
		ReservationID: reservation,
		Now:           s.now(),
	}
}

func filterFor(t Trip) guide.Filter {
	return guide.Filter{
		OnlyElectric: t.OnlyElectric,
		Languages:    strings.Fields(strings.ToLower(t.GuideLang)),
		MinSeats:     t.Persons,
	}
}
