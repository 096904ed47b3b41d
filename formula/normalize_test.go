package formula

import (
	"testing"

	"github.com/hellige/ccs-go/selector"
)

func TestNormalizeDropsImpliedLargerClauses(t *testing.T) {
	// a=1 OR (a=1 AND b=1): the second clause strictly implies the first
	// appearing in the same disjunction, so it's redundant.
	small := NewClause([]selector.Key{key("a", "1")})
	big := NewClause([]selector.Key{key("a", "1"), key("b", "1")})
	f := Normalize(New([]Clause{small, big}))
	if f.Len() != 1 {
		t.Fatalf("expected normalization to drop the subsumed clause, got %d clauses: %s", f.Len(), f.String())
	}
	if !f.First().Equal(small) {
		t.Fatalf("expected the surviving clause to be the smaller one")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	a := NewClause([]selector.Key{key("a", "1")})
	b := NewClause([]selector.Key{key("b", "1")})
	f := New([]Clause{a, b})
	once := Normalize(f)
	twice := Normalize(once)
	if !once.Equal(twice) {
		t.Fatalf("Normalize not idempotent: %s vs %s", once.String(), twice.String())
	}
}

func TestNormalizeKeepsIncomparableClauses(t *testing.T) {
	a := NewClause([]selector.Key{key("a", "1")})
	b := NewClause([]selector.Key{key("b", "1")})
	f := Normalize(New([]Clause{a, b}))
	if f.Len() != 2 {
		t.Fatalf("expected both incomparable clauses to survive, got %d", f.Len())
	}
}

func TestNormalizePrunesSharedToOnlySubsetsOfSurvivors(t *testing.T) {
	a := NewClause([]selector.Key{key("a", "1")})
	ab := NewClause([]selector.Key{key("a", "1"), key("b", "1")})
	stale := NewClause([]selector.Key{key("z", "1"), key("y", "1")})
	f := New([]Clause{ab}).WithShared(map[string]Clause{
		a.ID():     a,
		stale.ID(): stale,
	})
	normalized := Normalize(f)
	shared := normalized.Shared()
	if len(shared) != 1 || !shared[0].Equal(a) {
		t.Fatalf("expected only the subset-of-a-survivor shared clause to remain, got %v", shared)
	}
}
