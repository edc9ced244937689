// README: Trip store backed by Firestore (trips, events subcollection, tours).
package trip

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gonow/internal/types"
)

const (
	tripsCollection  = "trips"
	toursCollection  = "tours"
	eventsCollection = "events"
)

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// tripDoc is the raw Firestore shape; references are flattened to ids for
// the domain model.
type tripDoc struct {
	TourID               *firestore.DocumentRef `firestore:"tourId"`
	ClientRef            *firestore.DocumentRef `firestore:"clientRef"`
	GuideRef             *firestore.DocumentRef `firestore:"guideRef"`
	Date                 time.Time              `firestore:"date"`
	Status               string                 `firestore:"status"`
	Persons              int                    `firestore:"persons"`
	OnlyElectricVehicles bool                   `firestore:"onlyElectricVehicles"`
	GuideLang            string                 `firestore:"guideLang"`
	CanceledDate         *time.Time             `firestore:"canceledDate"`
	ReservationID        string                 `firestore:"reservationId"`
}

func (d *tripDoc) toTrip(id string) Trip {
	return Trip{
		ID:            types.ID(id),
		TourID:        refID(d.TourID),
		ClientID:      refID(d.ClientRef),
		GuideID:       refID(d.GuideRef),
		Date:          d.Date,
		Status:        Status(d.Status),
		Persons:       d.Persons,
		OnlyElectric:  d.OnlyElectricVehicles,
		GuideLang:     d.GuideLang,
		CanceledDate:  d.CanceledDate,
		ReservationID: d.ReservationID,
	}
}

func refID(ref *firestore.DocumentRef) string {
	if ref == nil {
		return ""
	}
	return ref.ID
}

// DecodeSnapshot converts a raw trip document snapshot into a Trip.
// Shared with the watcher, which receives snapshots rather than reading.
func DecodeSnapshot(snap *firestore.DocumentSnapshot) (Trip, error) {
	var d tripDoc
	if err := snap.DataTo(&d); err != nil {
		return Trip{}, fmt.Errorf("decoding trip %s: %w", snap.Ref.ID, err)
	}
	return d.toTrip(snap.Ref.ID), nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	snap, err := s.client.Collection(tripsCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t, err := DecodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateStatus moves a trip from one status to another inside a
// transaction, optionally assigning a guide. Returns false without error
// when the trip is no longer in the expected status (a concurrent update
// won; the caller abandons this unit of work).
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, guideID string) (bool, error) {
	ref := s.client.Collection(tripsCollection).Doc(string(id))
	conflicted := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if current != string(from) {
			conflicted = true
			return nil
		}
		updates := []firestore.Update{{Path: "status", Value: string(to)}}
		if guideID != "" {
			updates = append(updates, firestore.Update{
				Path:  "guideRef",
				Value: s.client.Collection("users").Doc(guideID),
			})
		}
		if to == StatusCanceled {
			updates = append(updates, firestore.Update{Path: "canceledDate", Value: time.Now()})
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		return false, err
	}
	return !conflicted, nil
}

func (s *Store) AppendEvent(ctx context.Context, tripID types.ID, e Event) error {
	_, err := s.client.Collection(tripsCollection).Doc(string(tripID)).
		Collection(eventsCollection).NewDoc().Set(ctx, e)
	return err
}

func (s *Store) ListEvents(ctx context.Context, tripID types.ID) ([]Event, error) {
	iter := s.client.Collection(tripsCollection).Doc(string(tripID)).
		Collection(eventsCollection).Documents(ctx)
	defer iter.Stop()

	var events []Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating events of %s: %w", tripID, err)
		}
		var e Event
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decoding event %s: %w", doc.Ref.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// PendingBefore returns pending trips starting at or before the cutoff.
func (s *Store) PendingBefore(ctx context.Context, cutoff time.Time) ([]Trip, error) {
	return s.collect(ctx, s.client.Collection(tripsCollection).Query.
		Where("status", "==", string(StatusPending)).
		Where("date", "<=", cutoff))
}

// BookedBetween returns booked trips starting inside [from, to].
func (s *Store) BookedBetween(ctx context.Context, from, to time.Time) ([]Trip, error) {
	return s.collect(ctx, s.client.Collection(tripsCollection).Query.
		Where("status", "==", string(StatusBooked)).
		Where("date", ">=", from).
		Where("date", "<=", to))
}

// StartedBefore returns started trips whose start is at or before the
// cutoff. Finish-time filtering needs the tour duration, so the caller
// narrows further.
func (s *Store) StartedBefore(ctx context.Context, cutoff time.Time) ([]Trip, error) {
	return s.collect(ctx, s.client.Collection(tripsCollection).Query.
		Where("status", "==", string(StatusStarted)).
		Where("date", "<=", cutoff))
}

func (s *Store) collect(ctx context.Context, q firestore.Query) ([]Trip, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var trips []Trip
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating trips: %w", err)
		}
		t, err := DecodeSnapshot(doc)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, nil
}

// GetTour loads the tour a trip references.
func (s *Store) GetTour(ctx context.Context, tourID string) (*Tour, error) {
	snap, err := s.client.Collection(toursCollection).Doc(tourID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("tour %s not found", tourID)
	}
	if err != nil {
		return nil, err
	}
	var t Tour
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("decoding tour %s: %w", tourID, err)
	}
	return &t, nil
}
