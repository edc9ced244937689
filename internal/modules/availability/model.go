// README: Slot label arithmetic for the 30-minute availability grid.
package availability

import (
	"fmt"
	"time"
)

// SlotMinutes is the fixed width of one availability slot.
const SlotMinutes = 30

// DayKey returns the calendar-day document key for an instant.
// Unavailability documents are keyed per day, e.g. "2026-08-30".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ComputeOccupiedSlots returns the ordered slot labels a trip occupies,
// starting at the trip's start time and spanning slotCount slots of 30
// minutes each. Labels are zero-padded "HH:MM". A tour that runs past
// midnight wraps the hour modulo 24 so every label stays parseable and the
// per-day document stays self-contained.
func ComputeOccupiedSlots(start time.Time, slotCount int) []string {
	base := start.Hour()*60 + start.Minute()
	labels := make([]string, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		total := base + i*SlotMinutes
		labels = append(labels, fmt.Sprintf("%02d:%02d", (total/60)%24, total%60))
	}
	return labels
}
