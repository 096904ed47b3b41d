package dnf

import (
	"errors"
	"testing"

	"github.com/hellige/ccs-go/ccserr"
	"github.com/hellige/ccs-go/formula"
	"github.com/hellige/ccs-go/selector"
)

func step(name, value string) selector.Selector {
	return selector.Step{Key: selector.NewKey(name, map[string]struct{}{value: {}})}
}

func TestToDNFStepIsSingleClause(t *testing.T) {
	f, err := ToDNF(step("env", "prod"), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() != 1 || f.First().Len() != 1 {
		t.Fatalf("expected a single single-literal clause, got %s", f.String())
	}
}

func TestToDNFOrProducesOneClausePerTerm(t *testing.T) {
	expr := selector.Disj([]selector.Selector{step("env", "dev"), step("env", "prod")})
	f, err := ToDNF(expr, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() != 2 {
		t.Fatalf("expected 2 clauses from a 2-term Or, got %d: %s", f.Len(), f.String())
	}
}

func TestToDNFAndDistributesOverOr(t *testing.T) {
	// (a=1 OR a=2) AND (b=1 OR b=2) expands to 4 clauses.
	left := selector.Disj([]selector.Selector{step("a", "1"), step("a", "2")})
	right := selector.Disj([]selector.Selector{step("b", "1"), step("b", "2")})
	expr := selector.Conj([]selector.Selector{left, right})
	f, err := ToDNF(expr, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() != 4 {
		t.Fatalf("expected 4 clauses from 2x2 distribution, got %d: %s", f.Len(), f.String())
	}
	for _, c := range f.Clauses() {
		if c.Len() != 2 {
			t.Fatalf("expected every expanded clause to have 2 literals, got %d", c.Len())
		}
	}
}

func TestExpandReturnsExpansionLimitError(t *testing.T) {
	left := selector.Disj([]selector.Selector{step("a", "1"), step("a", "2"), step("a", "3")})
	right := selector.Disj([]selector.Selector{step("b", "1"), step("b", "2"), step("b", "3")})
	expr := selector.Conj([]selector.Selector{left, right})
	_, err := ToDNF(expr, 4) // 3x3=9 > limit of 4
	if err == nil {
		t.Fatalf("expected an expansion limit error")
	}
	if !errors.Is(err, ccserr.ErrExpansionLimit) {
		t.Fatalf("expected ErrExpansionLimit, got %v", err)
	}
	var limitErr *ccserr.ExpansionLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected an *ExpansionLimitError, got %T", err)
	}
	if limitErr.Actual != 9 || limitErr.Limit != 4 {
		t.Fatalf("unexpected limit error detail: %+v", limitErr)
	}
}

func TestMergePreservesAllClausesAcrossFormulae(t *testing.T) {
	f1, _ := ToDNF(step("a", "1"), 100)
	f2, _ := ToDNF(step("b", "1"), 100)
	merged := Merge([]formula.Formula{f1, f2})
	if merged.Len() != 2 {
		t.Fatalf("expected 2 distinct clauses after merge, got %d", merged.Len())
	}
}
