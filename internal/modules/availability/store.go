// README: Availability store backed by Firestore array-union/remove toggles.
package availability

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gonow/internal/types"
)

const (
	usersCollection          = "users"
	unavailabilityCollection = "unavailability"
)

// FirestoreStore implements Store on top of Firestore documents.
// ArrayUnion/ArrayRemove make each projection write an idempotent
// set-membership toggle, which is what makes the dual write retry-safe.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) UpdateGuideProjection(ctx context.Context, guideID types.ID, day string, slots []string, add bool) error {
	doc := s.client.Collection(usersCollection).Doc(string(guideID)).
		Collection(unavailabilityCollection).Doc(day)
	_, err := doc.Set(ctx, map[string]interface{}{
		"date":  day,
		"slots": toggle(slots, add),
	}, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) UpdateGlobalProjection(ctx context.Context, guideID types.ID, day string, slots []string, add bool) error {
	fields := make(map[string]interface{}, len(slots))
	for _, slot := range slots {
		fields[slot] = toggle([]string{string(guideID)}, add)
	}
	doc := s.client.Collection(unavailabilityCollection).Doc(day)
	_, err := doc.Set(ctx, fields, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) GlobalProjection(ctx context.Context, day string) (map[string][]types.ID, error) {
	snap, err := s.client.Collection(unavailabilityCollection).Doc(day).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make(map[string][]types.ID)
	for slot, v := range snap.Data() {
		ids, ok := v.([]interface{})
		if !ok {
			continue
		}
		for _, id := range ids {
			if g, ok := id.(string); ok {
				out[slot] = append(out[slot], types.ID(g))
			}
		}
	}
	return out, nil
}

func toggle(members []string, add bool) interface{} {
	vals := make([]interface{}, len(members))
	for i, m := range members {
		vals[i] = m
	}
	if add {
		return firestore.ArrayUnion(vals...)
	}
	return firestore.ArrayRemove(vals...)
}
