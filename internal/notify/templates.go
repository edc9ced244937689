// README: Notification template catalog (pt-PT copy as shipped in the app).
package notify

import (
	"fmt"
	"time"
)

// Template identifies a notification kind. Which template fires on which
// trip transition, and who receives it, is part of the state machine's
// contract; the wording itself is presentation.
type Template string

const (
	TemplateNewOpportunity        Template = "newOpportunity"
	TemplateBookingAssigned       Template = "bookingAssigned"
	TemplateBookingConfirmed      Template = "bookingConfirmed"
	TemplateTripStarted           Template = "tripStarted"
	TemplateCanceledClient        Template = "canceledClient"
	TemplateCanceledClientNoGuide Template = "canceledClientNoGuide"
	TemplateCanceledGuide         Template = "canceledGuide"
	TemplateStartReminderGuide    Template = "startReminderGuide"
	TemplateStartReminderClient   Template = "startReminderClient"
	TemplateEndReminderGuide      Template = "endReminderGuide"
)

// Content is a rendered title/body pair.
type Content struct {
	Title string
	Body  string
}

// RenderContext carries the trip facts the templates interpolate.
type RenderContext struct {
	TourName      string
	TripDate      time.Time
	FinishTime    time.Time
	ReservationID string
	Now           time.Time
}

// Render produces the pt-PT copy for a template. Reminder templates word
// differently depending on whether the trip's nominal start is still ahead
// of Now.
func Render(tpl Template, rc RenderContext) Content {
	tripTime := rc.TripDate.Format("15:04")
	tripDateTime := rc.TripDate.Format("02/01/2006, 15:04")
	beforeStart := rc.Now.Before(rc.TripDate)

	switch tpl {
	case TemplateNewOpportunity:
		return Content{
			Title: "Novo Go Now",
			Body:  tripDateTime + " - " + rc.TourName + "\nEntre na App para aceitar a viagem.",
		}
	case TemplateBookingAssigned:
		return Content{
			Title: "Nova viagem marcada",
			Body:  rc.TourName + "\nTem uma viagem marcada para as " + tripTime + ". Reserva " + rc.ReservationID + ".",
		}
	case TemplateBookingConfirmed:
		return Content{
			Title: "Viagem confirmada!",
			Body:  rc.TourName + "\nA sua viagem das " + tripTime + " foi confirmada. Reserva " + rc.ReservationID + ".",
		}
	case TemplateTripStarted:
		return Content{
			Title: "A sua viagem começou!",
			Body:  rc.TourName + "\nBoa viagem!",
		}
	case TemplateCanceledClient:
		return Content{
			Title: "Viagem cancelada",
			Body:  rc.TourName + "\nA sua viagem das " + tripTime + " foi cancelada.",
		}
	case TemplateCanceledClientNoGuide:
		return Content{
			Title: "Viagem cancelada",
			Body:  rc.TourName + "\nNão foi possível encontrar um guia disponível. Reserva " + rc.ReservationID + ".",
		}
	case TemplateCanceledGuide:
		return Content{
			Title: "Viagem cancelada",
			Body:  rc.TourName + "\nA viagem das " + tripTime + " foi cancelada.",
		}
	case TemplateStartReminderClient:
		title := "Tem um tour por iniciar!"
		line := "Urgente: o seu tour deveria ter iniciado às " + tripTime + "!"
		if beforeStart {
			title = "O seu tour começa em breve!"
			line = "Não perca: o seu tour começa às " + tripTime + "!"
		}
		return Content{Title: title, Body: rc.TourName + "\n" + line}
	case TemplateStartReminderGuide:
		title := "Tem um tour por iniciar!"
		line := "Atenção: este tour já devia ter iniciado às " + tripTime + "!"
		if beforeStart {
			title = "Próximo tour começa em breve!"
			line = "Prepare-se: você tem um tour às " + tripTime + "!"
		}
		return Content{Title: title, Body: rc.TourName + "\n" + line}
	case TemplateEndReminderGuide:
		finish := rc.FinishTime.Format("15:04")
		return Content{
			Title: "Tem um tour por finalizar!",
			Body:  rc.TourName + "\nAtenção: este tour já devia ter terminado às " + finish + "!",
		}
	}
	return Content{Title: "Go Now", Body: fmt.Sprintf("%s (%s)", rc.TourName, tpl)}
}
