package selector

import "testing"

func step(name, value string) Selector {
	return Step{Key: NewKey(name, map[string]struct{}{value: {}})}
}

func TestFlattenGroupsSameNameLiteralsUnderOr(t *testing.T) {
	expr := Disj([]Selector{step("env", "dev"), step("env", "prod")})
	flat := Flatten(expr)
	s, ok := flat.(Step)
	if !ok {
		t.Fatalf("expected a single grouped Step, got %T: %s", flat, flat.String())
	}
	if len(s.Key.Values) != 2 {
		t.Fatalf("expected 2 grouped values, got %d (%s)", len(s.Key.Values), s.String())
	}
}

func TestFlattenMergesNestedSameOpChildren(t *testing.T) {
	inner := Conj([]Selector{step("a", "1"), step("b", "1")})
	outer := Conj([]Selector{inner, step("c", "1")})
	flat := Flatten(outer)
	e, ok := flat.(Expr)
	if !ok {
		t.Fatalf("expected Expr, got %T", flat)
	}
	if len(e.Children) != 3 {
		t.Fatalf("expected nested And to flatten into 3 siblings, got %d: %s", len(e.Children), flat.String())
	}
}

func TestFlattenSingleChildCollapses(t *testing.T) {
	expr := Conj([]Selector{step("a", "1")})
	flat := Flatten(expr)
	if _, ok := flat.(Step); !ok {
		t.Fatalf("expected a lone child to collapse to a Step, got %T", flat)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	expr := Disj([]Selector{
		Conj([]Selector{step("a", "1"), step("b", "1")}),
		step("a", "2"),
	})
	once := Flatten(expr)
	twice := Flatten(once)
	if once.String() != twice.String() {
		t.Fatalf("Flatten not idempotent: %s vs %s", once.String(), twice.String())
	}
}

func TestFlattenLeavesDistinctOpsNested(t *testing.T) {
	// (a AND b) OR c should NOT collapse the And into the Or's children.
	expr := Disj([]Selector{
		Conj([]Selector{step("a", "1"), step("b", "1")}),
		step("c", "1"),
	})
	flat := Flatten(expr)
	e, ok := flat.(Expr)
	if !ok || e.Op != Or {
		t.Fatalf("expected top-level Or, got %T", flat)
	}
	if len(e.Children) != 2 {
		t.Fatalf("expected 2 children (the And group and the grouped c literal), got %d", len(e.Children))
	}
}
