// README: Matching tests: shortlist containment, weighted distribution, seat branch.
package matching

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"gonow/internal/types"
)

func TestSelectGuideEmptyPool(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))
	got, err := s.SelectGuide(nil, 2)
	if err != nil {
		t.Fatalf("empty pool must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("empty pool must yield no guide, got %v", got)
	}
	got, err = s.SelectGuide([]Candidate{}, 2)
	if err != nil || got != nil {
		t.Fatalf("empty slice must yield (nil, nil), got (%v, %v)", got, err)
	}
}

func TestSelectGuideSingleCandidate(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))
	pool := []Candidate{{ID: "only", Seats: 6}}
	for i := 0; i < 50; i++ {
		got, err := s.SelectGuide(pool, 2)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if got == nil || got.ID != "only" {
			t.Fatalf("got %v, want the single candidate", got)
		}
	}
}

func TestSelectGuideNeverOutsideShortlist(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(42)))
	pool := makePool(8)
	for i := 0; i < 2000; i++ {
		got, err := s.SelectGuide(pool, 2)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		for _, outside := range pool[5:] {
			if got.ID == outside.ID {
				t.Fatalf("selected %s from outside the 5-element shortlist", got.ID)
			}
		}
	}
}

// TestSelectGuideDistribution verifies that over many seeded draws with a
// 6-candidate pool the selection frequency of each shortlisted candidate
// converges to weight/15, weights being [5,4,3,2,1] by pool position.
func TestSelectGuideDistribution(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(7)))
	pool := makePool(6)
	const runs = 150000
	counts := make(map[types.ID]int, 5)
	for i := 0; i < runs; i++ {
		got, err := s.SelectGuide(pool, 2)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		counts[got.ID]++
	}
	if counts[pool[5].ID] != 0 {
		t.Fatalf("candidate outside shortlist selected %d times", counts[pool[5].ID])
	}
	for i := 0; i < 5; i++ {
		want := float64(5-i) / 15.0
		got := float64(counts[pool[i].ID]) / runs
		if math.Abs(got-want) > 0.01 {
			t.Errorf("rank %d frequency = %.4f, want %.4f ± 0.01", i, got, want)
		}
	}
}

// TestSelectGuideSeatBranchIsInert pins the current behaviour: a 4-seat
// request with an exactly-4-seat candidate in the pool draws from the same
// first-5 shortlist as any other request, so with identical random state the
// picks are identical.
func TestSelectGuideSeatBranchIsInert(t *testing.T) {
	pool := makePool(7)
	pool[6].Seats = 4 // outside the shortlist, triggers the branch

	a := NewSelector(rand.New(rand.NewSource(99)))
	b := NewSelector(rand.New(rand.NewSource(99)))
	for i := 0; i < 500; i++ {
		gotA, err := a.SelectGuide(pool, 4)
		if err != nil {
			t.Fatalf("select seats=4: %v", err)
		}
		gotB, err := b.SelectGuide(pool, 2)
		if err != nil {
			t.Fatalf("select seats=2: %v", err)
		}
		if gotA.ID != gotB.ID {
			t.Fatalf("iteration %d: seat branch changed the pick: %s vs %s", i, gotA.ID, gotB.ID)
		}
	}
}

func TestSelectGuideDoesNotMutatePool(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(3)))
	pool := makePool(6)
	orig := make([]Candidate, len(pool))
	copy(orig, pool)
	if _, err := s.SelectGuide(pool, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	for i := range pool {
		if pool[i] != orig[i] {
			t.Fatalf("pool mutated at index %d", i)
		}
	}
}

func makePool(n int) []Candidate {
	pool := make([]Candidate, n)
	for i := range pool {
		pool[i] = Candidate{ID: types.ID(fmt.Sprintf("g%d", i)), Seats: 6}
	}
	return pool
}
