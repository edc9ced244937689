// README: Guide service tests for the daily vehicle-selection sweep.
package guide

import (
	"context"
	"errors"
	"testing"

	"gonow/internal/types"
)

func TestFlagDailyVehicleSelection(t *testing.T) {
	dir := &fakeDirectory{
		active: []Guide{{ID: "g1"}, {ID: "g2"}, {ID: "g3"}},
	}
	svc := NewService(dir)

	if err := svc.FlagDailyVehicleSelection(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for _, id := range []types.ID{"g1", "g2", "g3"} {
		if !dir.flagged[id] {
			t.Errorf("guide %s not flagged", id)
		}
	}
}

func TestFlagDailyVehicleSelectionContinuesPastFailures(t *testing.T) {
	dir := &fakeDirectory{
		active:  []Guide{{ID: "g1"}, {ID: "bad"}, {ID: "g3"}},
		failFor: "bad",
	}
	svc := NewService(dir)

	if err := svc.FlagDailyVehicleSelection(context.Background()); err != nil {
		t.Fatalf("one guide's failure must not abort the sweep: %v", err)
	}
	if !dir.flagged["g1"] || !dir.flagged["g3"] {
		t.Errorf("guides after the failing one were skipped: %v", dir.flagged)
	}
}

type fakeDirectory struct {
	active  []Guide
	flagged map[types.ID]bool
	failFor types.ID
}

func (f *fakeDirectory) Active(context.Context) ([]Guide, error) {
	return f.active, nil
}

func (f *fakeDirectory) FlagVehicleSelection(_ context.Context, id types.ID) error {
	if id == f.failFor {
		return errors.New("injected failure")
	}
	if f.flagged == nil {
		f.flagged = make(map[types.ID]bool)
	}
	f.flagged[id] = true
	return nil
}
