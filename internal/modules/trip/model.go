// README: Trip aggregate, status transition table, and sweep constants.
package trip

import (
	"errors"
	"time"

	"gonow/internal/types"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusBooked       Status = "booked"
	StatusRescheduling Status = "rescheduling"
	StatusStarted      Status = "started"
	StatusFinished     Status = "finished"
	StatusCanceled     Status = "canceled"
)

// AllowedTransitions represents the trip status flow as code. finished and
// canceled are terminal: no outgoing edges.
var AllowedTransitions = map[Status][]Status{
	StatusPending:      {StatusBooked, StatusCanceled},
	StatusBooked:       {StatusRescheduling, StatusStarted, StatusCanceled},
	StatusRescheduling: {StatusBooked, StatusCanceled},
	StatusStarted:      {StatusFinished},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Trip mirrors a trips/{id} document with references flattened to ids.
type Trip struct {
	ID            types.ID
	TourID        string
	ClientID      string
	GuideID       string // empty until a guide is assigned
	Date          time.Time
	Status        Status
	Persons       int
	OnlyElectric  bool
	GuideLang     string // space-separated language codes as stored
	CanceledDate  *time.Time
	ReservationID string
}

// Tour is the immutable service offering a trip references.
type Tour struct {
	Name          string `firestore:"name"`
	DurationSlots int    `firestore:"durationSlots"`
	ReservationID string `firestore:"reservationId"`
}

// Duration is the tour's total span on the 30-minute slot grid.
func (t Tour) Duration() time.Duration {
	return time.Duration(t.DurationSlots) * 30 * time.Minute
}

// Event is an append-only trips/{id}/events/{id} record. A guide who
// declined or canceled leaves a canceled event, which excludes them from
// re-matching on the same trip.
type Event struct {
	Action       string    `firestore:"action"`
	CreatedBy    string    `firestore:"createdBy"`
	Reason       string    `firestore:"reason"`
	Notes        string    `firestore:"notes"`
	CreationDate time.Time `firestore:"creationDate"`
}

const (
	EventActionCanceled    = "canceled"
	CreatedBySystemSweep   = "system-sweep"
	ReasonGuideUnavailable = "guideUnavailable"
)

// TransitionEvent is one observed lifecycle event: a trip document was
// created, or its status field changed.
type TransitionEvent struct {
	TripID  types.ID
	From    Status // empty on creation
	To      Status
	Trip    Trip
	Created bool
}

var (
	ErrNotFound = errors.New("trip not found")
	ErrConflict = errors.New("trip state conflict")
)

const (
	// stalePendingLead is how close to its start a pending trip may get
	// before the sweep cancels it for lack of a guide.
	stalePendingLead = 15 * time.Minute
	// startReminderAhead/Behind bound the start-reminder window around now:
	// trips starting within the next 30 minutes, or overdue by up to 2 hours.
	startReminderAhead  = 30 * time.Minute
	startReminderBehind = 2 * time.Hour
	// endReminderMin/Max bound how far past its computed finish a started
	// trip triggers the guide end reminder.
	endReminderMin = 2 * time.Hour
	endReminderMax = 4 * time.Hour
	// Daily windows (hours) during which the periodic sweeps fire.
	pendingSweepHourFrom  = 8
	pendingSweepHourTo    = 19
	reminderSweepHourFrom = 7
	reminderSweepHourTo   = 22
)
