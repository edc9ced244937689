// README: Guide directory backed by the Firestore users collection.
package guide

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gonow/internal/types"
)

const usersCollection = "users"

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Eligible returns validated guides matching the filter, in query order.
// Availability and decline-history exclusions are the caller's concern.
func (s *Store) Eligible(ctx context.Context, f Filter) ([]Guide, error) {
	q := s.client.Collection(usersCollection).Query.
		Where("accountValidated", "==", true)
	if f.OnlyElectric {
		q = q.Where("tuktukElectric", "==", true)
	}
	if len(f.Languages) > 0 {
		q = q.Where("language", "array-contains-any", f.Languages)
	}
	if f.MinSeats > 0 {
		q = q.Where("tuktukSeats", ">=", f.MinSeats)
	}
	return s.collect(ctx, q)
}

// Active returns guides eligible for the daily vehicle-selection sweep:
// validated, accepted, not disabled, and in guide mode.
func (s *Store) Active(ctx context.Context) ([]Guide, error) {
	q := s.client.Collection(usersCollection).Query.
		Where("accountValidated", "==", true).
		Where("accountAccepted", "==", true).
		Where("disabled", "==", false).
		Where("guideMode", "==", true)
	return s.collect(ctx, q)
}

func (s *Store) collect(ctx context.Context, q firestore.Query) ([]Guide, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var guides []Guide
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating users: %w", err)
		}
		var g Guide
		if err := doc.DataTo(&g); err != nil {
			return nil, fmt.Errorf("decoding user %s: %w", doc.Ref.ID, err)
		}
		g.ID = types.ID(doc.Ref.ID)
		guides = append(guides, g)
	}
	return guides, nil
}

// Get loads a single user document. Works for guides and clients alike.
func (s *Store) Get(ctx context.Context, id types.ID) (*Guide, error) {
	snap, err := s.client.Collection(usersCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	var g Guide
	if err := snap.DataTo(&g); err != nil {
		return nil, fmt.Errorf("decoding user %s: %w", id, err)
	}
	g.ID = types.ID(snap.Ref.ID)
	return &g, nil
}

// FlagVehicleSelection marks a guide as needing to re-select their tuk-tuk.
func (s *Store) FlagVehicleSelection(ctx context.Context, id types.ID) error {
	_, err := s.client.Collection(usersCollection).Doc(string(id)).
		Set(ctx, map[string]interface{}{"needSelectTukTuk": true}, firestore.MergeAll)
	return err
}
