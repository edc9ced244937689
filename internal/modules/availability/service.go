// README: Availability service maintains the two mirrored busy-slot projections.
package availability

import (
	"context"
	"fmt"

	"gonow/internal/types"
)

// Store persists the two projections of "guide G is busy during slot H on
// day D": per-guide (users/{id}/unavailability/{day}) and global
// (unavailability/{day}). Every write must be an idempotent set-membership
// toggle so a retried call converges without reconciliation.
type Store interface {
	UpdateGuideProjection(ctx context.Context, guideID types.ID, day string, slots []string, add bool) error
	UpdateGlobalProjection(ctx context.Context, guideID types.ID, day string, slots []string, add bool) error
	// GlobalProjection returns slot label -> busy guide ids for a day.
	// A missing day document is not an error: nobody recorded as busy yet.
	GlobalProjection(ctx context.Context, day string) (map[string][]types.ID, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// MarkGuideUnavailable records the guide as busy for the given slots in both
// projections. Idempotent: marking twice yields the same state as once.
func (s *Service) MarkGuideUnavailable(ctx context.Context, guideID types.ID, day string, slots []string) error {
	return s.apply(ctx, guideID, day, slots, true)
}

// MarkGuideAvailable removes the guide from the given slots in both
// projections, restoring the pre-mark state.
func (s *Service) MarkGuideAvailable(ctx context.Context, guideID types.ID, day string, slots []string) error {
	return s.apply(ctx, guideID, day, slots, false)
}

// apply is the single writer both directions go through, keeping the two
// projections from drifting. Per-guide first, then global; a crash between
// the two writes is repaired by retrying the whole call, because both
// writes are idempotent toggles.
func (s *Service) apply(ctx context.Context, guideID types.ID, day string, slots []string, add bool) error {
	if len(slots) == 0 {
		return nil
	}
	if err := s.store.UpdateGuideProjection(ctx, guideID, day, slots, add); err != nil {
		return fmt.Errorf("per-guide projection for %s/%s: %w", guideID, day, err)
	}
	if err := s.store.UpdateGlobalProjection(ctx, guideID, day, slots, add); err != nil {
		return fmt.Errorf("global projection for %s: %w", day, err)
	}
	return nil
}

// UnavailableGuides returns the union, without duplicates, of the guides
// recorded busy in any of the given slots on the given day.
func (s *Service) UnavailableGuides(ctx context.Context, day string, slots []string) (map[types.ID]bool, error) {
	bySlot, err := s.store.GlobalProjection(ctx, day)
	if err != nil {
		return nil, err
	}
	busy := make(map[types.ID]bool)
	for _, slot := range slots {
		for _, id := range bySlot[slot] {
			busy[id] = true
		}
	}
	return busy, nil
}
