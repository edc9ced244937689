// README: Guide selection via ranked weighted-random draw over the shortlist.
package matching

import (
	"math/rand"
)

// Selector picks one guide from a candidate pool. The random source is
// injected so tests can seed it and verify the weighted distribution.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// SelectGuide picks exactly one guide from the pool, or nil when the pool is
// empty (a valid no-match outcome, not an error).
//
// The first shortlistSize candidates, in pool order, form the shortlist.
// Rank k gets weight len(shortlist)-k, and a single uniform draw in
// [0, totalWeight) selects the candidate, so the probability of rank k is
// weight[k]/totalWeight: earlier-ranked candidates are strictly favoured.
func (s *Selector) SelectGuide(candidates []Candidate, requiredSeats int) (*Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	shortlist := shortlistOf(candidates)
	if requiredSeats == 4 && anyWithExactSeats(candidates, 4) {
		// Inert recompute kept from the observed behaviour: when a 4-seat
		// request finds an exactly-4-seat candidate anywhere in the pool,
		// the shortlist is rebuilt, yielding the same first-5 slice.
		shortlist = shortlistOf(candidates)
	}

	weights := make([]int, len(shortlist))
	total := 0
	for i := range shortlist {
		weights[i] = len(shortlist) - i
		total += weights[i]
	}
	if len(weights) != len(shortlist) || total <= 0 {
		return nil, ErrBadShortlist
	}

	draw := s.rng.Intn(total)
	cum := 0
	for i := range shortlist {
		cum += weights[i]
		if draw < cum {
			picked := shortlist[i]
			return &picked, nil
		}
	}
	return nil, ErrBadShortlist
}

func shortlistOf(candidates []Candidate) []Candidate {
	if len(candidates) > shortlistSize {
		return candidates[:shortlistSize]
	}
	return candidates
}

func anyWithExactSeats(candidates []Candidate, seats int) bool {
	for _, c := range candidates {
		if c.Seats == seats {
			return true
		}
	}
	return false
}
