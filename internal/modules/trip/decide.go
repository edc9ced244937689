// README: Pure transition decision: lifecycle event -> side-effect commands.
package trip

import (
	"gonow/internal/notify"
)

// Recipient names who a Notify command addresses.
type Recipient string

const (
	RecipientGuide  Recipient = "guide"
	RecipientClient Recipient = "client"
)

// Command is one side effect the runner must execute for a transition.
type Command interface {
	isCommand()
}

// OfferToCandidates computes the candidate pool for a fresh pending trip
// and pushes a new-opportunity notification to every candidate.
type OfferToCandidates struct{}

// Rematch recomputes the candidate pool (excluding guides who previously
// declined the trip), runs the matcher, and on success books the new guide
// and marks their availability.
type Rematch struct{}

// Notify renders a template for one recipient; Record also persists an
// in-app notification record.
type Notify struct {
	Template notify.Template
	To       Recipient
	Record   bool
}

func (OfferToCandidates) isCommand() {}
func (Rematch) isCommand()           {}
func (Notify) isCommand()            {}

// Decide maps an observed lifecycle event to the side effects it requires.
// Pure: no I/O, so the full transition table is unit-testable. Transitions
// outside the table produce no commands.
func Decide(ev TransitionEvent) []Command {
	if ev.Created {
		switch ev.To {
		case StatusPending:
			return []Command{OfferToCandidates{}}
		case StatusBooked:
			// Pre-assigned booking: tell the guide, leave an in-app record.
			return []Command{Notify{Template: notify.TemplateBookingAssigned, To: RecipientGuide, Record: true}}
		}
		return nil
	}

	switch {
	case ev.From == StatusBooked && ev.To == StatusRescheduling:
		return []Command{Rematch{}}

	case ev.From == StatusPending && ev.To == StatusCanceled:
		// Copy depends on whether a guide was ever found for the trip.
		tpl := notify.TemplateCanceledClientNoGuide
		if ev.Trip.GuideID != "" {
			tpl = notify.TemplateCanceledClient
		}
		return []Command{Notify{Template: tpl, To: RecipientClient, Record: true}}

	case ev.From == StatusBooked && ev.To == StatusCanceled:
		return []Command{
			Notify{Template: notify.TemplateCanceledGuide, To: RecipientGuide, Record: true},
			Notify{Template: notify.TemplateCanceledClient, To: RecipientClient, Record: true},
		}

	case ev.From == StatusPending && ev.To == StatusBooked:
		return []Command{Notify{Template: notify.TemplateBookingConfirmed, To: RecipientClient, Record: true}}

	case ev.From == StatusRescheduling && ev.To == StatusBooked:
		// Rebooked after a decline: the replacement guide learns about the
		// assignment and the client gets a fresh confirmation.
		return []Command{
			Notify{Template: notify.TemplateBookingAssigned, To: RecipientGuide, Record: true},
			Notify{Template: notify.TemplateBookingConfirmed, To: RecipientClient, Record: true},
		}

	case ev.From == StatusBooked && ev.To == StatusStarted:
		return []Command{Notify{Template: notify.TemplateTripStarted, To: RecipientClient, Record: true}}

	case ev.From == StatusStarted && ev.To == StatusFinished:
		// Ships the started copy on finish, matching the app's observed
		// behaviour; the shared template id keeps a future fix one line.
		return []Command{Notify{Template: notify.TemplateTripStarted, To: RecipientClient, Record: true}}
	}
	return nil
}
