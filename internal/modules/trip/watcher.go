// README: Firestore snapshot watcher turning trip document changes into events.
package trip

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"gonow/internal/types"
)

// Handler consumes one lifecycle event as an independent unit of work.
type Handler interface {
	HandleTransition(ctx context.Context, ev TransitionEvent) error
}

// Watcher listens to the trips collection and emits a TransitionEvent per
// document creation and per status change (other field updates are
// ignored). Each event is handled in its own goroutine: units of work for
// different trips run concurrently and are internally sequential.
type Watcher struct {
	client   *firestore.Client
	handler  Handler
	statuses map[string]Status
}

func NewWatcher(client *firestore.Client, handler Handler) *Watcher {
	return &Watcher{
		client:   client,
		handler:  handler,
		statuses: make(map[string]Status),
	}
}

// Run blocks until ctx is canceled or the listener fails. The first
// snapshot replays every existing trip; it only primes the status cache and
// emits nothing.
func (w *Watcher) Run(ctx context.Context) error {
	snaps := w.client.Collection(tripsCollection).Snapshots(ctx)
	defer snaps.Stop()

	primed := false
	for {
		qs, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, change := range qs.Changes {
			id := change.Doc.Ref.ID
			switch change.Kind {
			case firestore.DocumentAdded:
				t, err := DecodeSnapshot(change.Doc)
				if err != nil {
					log.Printf("watcher: %v", err)
					continue
				}
				w.statuses[id] = t.Status
				if !primed {
					continue
				}
				w.emit(ctx, TransitionEvent{TripID: types.ID(id), To: t.Status, Trip: t, Created: true})
			case firestore.DocumentModified:
				t, err := DecodeSnapshot(change.Doc)
				if err != nil {
					log.Printf("watcher: %v", err)
					continue
				}
				prev, known := w.statuses[id]
				w.statuses[id] = t.Status
				if !primed || !known || prev == t.Status {
					continue
				}
				w.emit(ctx, TransitionEvent{TripID: types.ID(id), From: prev, To: t.Status, Trip: t})
			case firestore.DocumentRemoved:
				delete(w.statuses, id)
			}
		}
		primed = true
	}
}

func (w *Watcher) emit(ctx context.Context, ev TransitionEvent) {
	go func() {
		if err := w.handler.HandleTransition(ctx, ev); err != nil {
			log.Printf("watcher: trip %s %s->%s: %v", ev.TripID, ev.From, ev.To, err)
		}
	}()
}
