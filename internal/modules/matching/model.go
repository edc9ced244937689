// README: Matching candidates and shortlist constants.
package matching

import (
	"errors"

	"gonow/internal/types"
)

// Candidate is one guide eligible for a trip, carried in pool order.
// The pool is pre-filtered by the caller (validation, language, vehicle,
// seats, availability, decline history); selection only ranks and draws.
type Candidate struct {
	ID    types.ID
	Seats int
}

// shortlistSize is how many pool-ordered candidates are eligible for the
// weighted draw. Earlier positions get strictly higher weights.
const shortlistSize = 5

// ErrBadShortlist signals an internal precondition violation: the shortlist
// and its weights fell out of sync. Programmer error, never retried.
var ErrBadShortlist = errors.New("matching: shortlist and weights out of sync")
