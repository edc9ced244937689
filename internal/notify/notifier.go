// README: Notification dispatcher: FCM push + in-app notification records.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"

	"gonow/internal/types"
)

// Sender delivers a rendered push message to one device token.
type Sender interface {
	Send(ctx context.Context, token string, c Content, data map[string]string) error
}

// RecordStore persists in-app notification records; a separate pipeline
// delivers and marks them read.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec Record) error
}

// Record mirrors a notifications/{id} document.
type Record struct {
	Type      string    `firestore:"type"`
	TripRef   string    `firestore:"tripRef"`
	UserRef   string    `firestore:"userRef"`
	Status    string    `firestore:"status"`
	Content   string    `firestore:"content"`
	Timestamp time.Time `firestore:"timestamp"`
}

// Request is one notification to dispatch: a template rendered for a
// recipient, optionally persisted as an in-app record.
type Request struct {
	Template Template
	Token    string
	TripID   types.ID
	UserID   types.ID
	Render   RenderContext
	Record   bool
}

// Dispatcher renders templates, pushes via the Sender, and writes records.
type Dispatcher struct {
	sender  Sender
	records RecordStore
	now     func() time.Time
}

func NewDispatcher(sender Sender, records RecordStore) *Dispatcher {
	return &Dispatcher{sender: sender, records: records, now: time.Now}
}

// Dispatch sends one notification. An absent device token is a normal state
// (the user never registered for push): the push is skipped silently and the
// in-app record is still written.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	content := Render(req.Template, req.Render)

	if req.Token == "" {
		log.Printf("notify: user %s has no push token, skipping %s push", req.UserID, req.Template)
	} else {
		data := map[string]string{"tripId": string(req.TripID)}
		if err := d.sender.Send(ctx, req.Token, content, data); err != nil {
			return fmt.Errorf("sending %s to user %s: %w", req.Template, req.UserID, err)
		}
	}

	if !req.Record {
		return nil
	}
	rec := Record{
		Type:      string(req.Template),
		TripRef:   string(req.TripID),
		UserRef:   string(req.UserID),
		Status:    "new",
		Content:   content.Title + "\n" + content.Body,
		Timestamp: d.now(),
	}
	if err := d.records.CreateRecord(ctx, rec); err != nil {
		return fmt.Errorf("recording %s for user %s: %w", req.Template, req.UserID, err)
	}
	return nil
}

// SendDirect pushes an ad-hoc title/body/data payload to a token, bypassing
// the template catalog. Backs the manual send endpoint.
func (d *Dispatcher) SendDirect(ctx context.Context, token, title, body string, data map[string]string) error {
	return d.sender.Send(ctx, token, Content{Title: title, Body: body}, data)
}

// FCMSender sends pushes through Firebase Cloud Messaging with the app's
// standard sound settings on both platforms.
type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, token string, c Content, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: c.Title,
			Body:  c.Body,
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{Sound: "default"},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
		Data: data,
	}
	id, err := s.client.Send(ctx, msg)
	if err != nil {
		return err
	}
	log.Printf("notify: FCM sent, message_id=%s", id)
	return nil
}

// FirestoreRecords writes notification records to the notifications
// collection with generated ids.
type FirestoreRecords struct {
	client *firestore.Client
}

func NewFirestoreRecords(client *firestore.Client) *FirestoreRecords {
	return &FirestoreRecords{client: client}
}

func (r *FirestoreRecords) CreateRecord(ctx context.Context, rec Record) error {
	_, err := r.client.Collection("notifications").Doc(uuid.NewString()).Set(ctx, rec)
	return err
}
