// README: Availability tests: slot arithmetic, idempotence, dual-write retry convergence.
package availability

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"gonow/internal/types"
)

var slotLabel = regexp.MustCompile(`^[0-2][0-9]:[0-5][0-9]$`)

func TestComputeOccupiedSlotsProperties(t *testing.T) {
	cases := []struct {
		start time.Time
		count int
	}{
		{time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC), 4},
		{time.Date(2026, 8, 30, 14, 15, 0, 0, time.UTC), 3},
		{time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC), 4}, // crosses midnight
		{time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), 48},  // full day
	}
	for _, tc := range cases {
		slots := ComputeOccupiedSlots(tc.start, tc.count)
		if len(slots) != tc.count {
			t.Fatalf("start %v: got %d slots, want %d", tc.start, len(slots), tc.count)
		}
		prev := -1
		for i, s := range slots {
			if !slotLabel.MatchString(s) {
				t.Errorf("slot %q does not match HH:MM", s)
			}
			var h, m int
			fmt.Sscanf(s, "%d:%d", &h, &m)
			minute := h*60 + m
			if prev >= 0 {
				want := (prev + SlotMinutes) % (24 * 60)
				if minute != want {
					t.Errorf("slot[%d]=%q: minute-of-day %d, want %d", i, s, minute, want)
				}
			}
			prev = minute
		}
	}
}

func TestComputeOccupiedSlotsWrapsMidnight(t *testing.T) {
	slots := ComputeOccupiedSlots(time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC), 3)
	want := []string{"23:30", "00:00", "00:30"}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slots = %v, want %v", slots, want)
		}
	}
}

func TestDayKey(t *testing.T) {
	got := DayKey(time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC))
	if got != "2026-08-30" {
		t.Fatalf("DayKey = %q, want 2026-08-30", got)
	}
}

func TestMarkUnavailableIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	slots := []string{"09:00", "09:30"}

	if err := svc.MarkGuideUnavailable(ctx, "g1", "2026-08-30", slots); err != nil {
		t.Fatalf("mark: %v", err)
	}
	first := store.snapshot()
	if err := svc.MarkGuideUnavailable(ctx, "g1", "2026-08-30", slots); err != nil {
		t.Fatalf("mark again: %v", err)
	}
	if second := store.snapshot(); second != first {
		t.Fatalf("double mark diverged:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestMarkAvailableRestoresPreMarkState(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	slots := []string{"09:00", "09:30"}

	before := store.snapshot()
	if err := svc.MarkGuideUnavailable(ctx, "g1", "2026-08-30", slots); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := svc.MarkGuideAvailable(ctx, "g1", "2026-08-30", slots); err != nil {
		t.Fatalf("unmark: %v", err)
	}
	if after := store.snapshot(); after != before {
		t.Fatalf("unmark did not restore state:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestUnavailableGuidesUnion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	mustMark(t, svc, "g1", "2026-08-30", []string{"09:00", "09:30"})
	mustMark(t, svc, "g2", "2026-08-30", []string{"09:30", "10:00"})
	mustMark(t, svc, "g3", "2026-08-30", []string{"18:00"})

	busy, err := svc.UnavailableGuides(ctx, "2026-08-30", []string{"09:00", "09:30", "10:00"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(busy) != 2 || !busy["g1"] || !busy["g2"] {
		t.Fatalf("busy = %v, want {g1,g2}", busy)
	}
}

func TestUnavailableGuidesMissingDay(t *testing.T) {
	svc := NewService(newFakeStore())
	busy, err := svc.UnavailableGuides(context.Background(), "2026-01-01", []string{"09:00"})
	if err != nil {
		t.Fatalf("missing day should not error: %v", err)
	}
	if len(busy) != 0 {
		t.Fatalf("busy = %v, want empty", busy)
	}
}

// TestRetryAfterCrashBetweenProjections simulates a crash after the per-guide
// write but before the global write, then retries the whole call. Both
// projections must end up consistent: guide present in both.
func TestRetryAfterCrashBetweenProjections(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	slots := []string{"11:00", "11:30"}

	store.failGlobal = true
	if err := svc.MarkGuideUnavailable(ctx, "g1", "2026-08-30", slots); err == nil {
		t.Fatal("expected injected failure on global projection")
	}
	if !store.guideHas("g1", "2026-08-30", "11:00") {
		t.Fatal("per-guide projection should have been written before the crash")
	}
	if store.globalHas("g1", "2026-08-30", "11:00") {
		t.Fatal("global projection should not have been written")
	}

	store.failGlobal = false
	if err := svc.MarkGuideUnavailable(ctx, "g1", "2026-08-30", slots); err != nil {
		t.Fatalf("retry: %v", err)
	}
	for _, slot := range slots {
		if !store.guideHas("g1", "2026-08-30", slot) || !store.globalHas("g1", "2026-08-30", slot) {
			t.Fatalf("projections inconsistent for slot %s after retry", slot)
		}
	}
}

func mustMark(t *testing.T, svc *Service, guide types.ID, day string, slots []string) {
	t.Helper()
	if err := svc.MarkGuideUnavailable(context.Background(), guide, day, slots); err != nil {
		t.Fatalf("mark %s: %v", guide, err)
	}
}

// fakeStore is an in-memory Store with the same toggle semantics as the
// Firestore implementation, plus failure injection for the retry test.
type fakeStore struct {
	guide      map[string]map[string]bool // guideID/day -> slot -> busy
	global     map[string]map[string]map[types.ID]bool
	failGuide  bool
	failGlobal bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		guide:  make(map[string]map[string]bool),
		global: make(map[string]map[string]map[types.ID]bool),
	}
}

func (f *fakeStore) UpdateGuideProjection(_ context.Context, guideID types.ID, day string, slots []string, add bool) error {
	if f.failGuide {
		return errors.New("injected per-guide failure")
	}
	key := string(guideID) + "/" + day
	if f.guide[key] == nil {
		f.guide[key] = make(map[string]bool)
	}
	for _, s := range slots {
		if add {
			f.guide[key][s] = true
		} else {
			delete(f.guide[key], s)
		}
	}
	return nil
}

func (f *fakeStore) UpdateGlobalProjection(_ context.Context, guideID types.ID, day string, slots []string, add bool) error {
	if f.failGlobal {
		return errors.New("injected global failure")
	}
	if f.global[day] == nil {
		f.global[day] = make(map[string]map[types.ID]bool)
	}
	for _, s := range slots {
		if f.global[day][s] == nil {
			f.global[day][s] = make(map[types.ID]bool)
		}
		if add {
			f.global[day][s][guideID] = true
		} else {
			delete(f.global[day][s], guideID)
		}
	}
	return nil
}

func (f *fakeStore) GlobalProjection(_ context.Context, day string) (map[string][]types.ID, error) {
	out := make(map[string][]types.ID)
	for slot, guides := range f.global[day] {
		for id, busy := range guides {
			if busy {
				out[slot] = append(out[slot], id)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) guideHas(guideID types.ID, day, slot string) bool {
	return f.guide[string(guideID)+"/"+day][slot]
}

func (f *fakeStore) globalHas(guideID types.ID, day, slot string) bool {
	return f.global[day][slot][guideID]
}

// snapshot renders a canonical view of both projections for equality checks.
func (f *fakeStore) snapshot() string {
	var entries []string
	for key, slots := range f.guide {
		for s, busy := range slots {
			if busy {
				entries = append(entries, "guide:"+key+":"+s)
			}
		}
	}
	for day, slots := range f.global {
		for s, guides := range slots {
			for id, busy := range guides {
				if busy {
					entries = append(entries, "global:"+day+":"+s+":"+string(id))
				}
			}
		}
	}
	sort.Strings(entries)
	return strings.Join(entries, ";")
}
