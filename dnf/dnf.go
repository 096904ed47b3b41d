// Package dnf converts flattened selector.Selector trees into
// formula.Formula values in disjunctive normal form, subject to a
// bounded expansion limit (spec §4.2).
package dnf

import (
	"github.com/hellige/ccs-go/ccserr"
	"github.com/hellige/ccs-go/formula"
	"github.com/hellige/ccs-go/internal/debug"
	"github.com/hellige/ccs-go/selector"
)

// ToDNF converts a (typically already-flattened) selector into a
// normalized Formula, expanding conjunctions up to limit clauses.
func ToDNF(expr selector.Selector, limit int) (formula.Formula, error) {
	switch e := expr.(type) {
	case selector.Step:
		return formula.New([]formula.Clause{formula.NewClause([]selector.Key{e.Key})}), nil
	case selector.Expr:
		if e.Op == selector.Or {
			forms := make([]formula.Formula, len(e.Children))
			for i, c := range e.Children {
				f, err := ToDNF(c, limit)
				if err != nil {
					return formula.Formula{}, err
				}
				forms[i] = f
			}
			return Merge(forms), nil
		}
		forms := make([]formula.Formula, len(e.Children))
		for i, c := range e.Children {
			f, err := ToDNF(c, limit)
			if err != nil {
				return formula.Formula{}, err
			}
			forms[i] = f
		}
		return Expand(limit, forms...)
	default:
		panic("dnf: unknown selector kind")
	}
}

// Merge unions a sequence of formulae into one, preserving shared
// subclauses, and renormalizes (spec §4.2).
func Merge(forms []formula.Formula) formula.Formula {
	clauses := map[string]formula.Clause{}
	shared := map[string]formula.Clause{}
	for _, f := range forms {
		for _, c := range f.Clauses() {
			clauses[c.ID()] = c
		}
		for _, c := range f.Shared() {
			shared[c.ID()] = c
		}
	}
	cs := make([]formula.Clause, 0, len(clauses))
	for _, c := range clauses {
		cs = append(cs, c)
	}
	return formula.Normalize(formula.New(cs).WithShared(shared))
}

// Expand computes the Cartesian product of the given formulae's
// clauses, unioning them pairwise, while tracking which sub-clauses end
// up shared across the result due to duplication (spec §4.2).
func Expand(limit int, forms ...formula.Formula) (formula.Formula, error) {
	nontrivial := 0
	common := formula.Empty()
	resultSize := 1
	for _, f := range forms {
		resultSize *= f.Len()
		if f.Len() == 1 {
			common = common.Union(f.First())
		} else {
			nontrivial++
		}
	}

	if resultSize > limit {
		return formula.Formula{}, &ccserr.ExpansionLimitError{Actual: resultSize, Limit: limit}
	}

	res := expandRec(forms)

	allShared := map[string]formula.Clause{}
	if nontrivial > 0 && common.Len() > 1 {
		allShared[common.ID()] = common
	}
	if nontrivial > 1 {
		for _, f := range forms {
			if f.Len() > 1 {
				for _, c := range f.Clauses() {
					if c.Len() > 1 {
						allShared[c.ID()] = c
					}
				}
			}
		}
	}
	for _, c := range res.Shared() {
		allShared[c.ID()] = c
	}

	cs := res.Clauses()
	result := formula.New(cs).WithShared(allShared)
	normalized := formula.Normalize(result)
	if debug.Dnf() {
		debug.Logf("expand: %d forms -> %d clauses (limit %d)\n", len(forms), normalized.Len(), limit)
	}
	return normalized, nil
}

func expandRec(forms []formula.Formula) formula.Formula {
	if len(forms) == 0 {
		return formula.New([]formula.Clause{formula.Empty()})
	}
	first := forms[0]
	rest := expandRec(forms[1:])

	shared := map[string]formula.Clause{}
	for _, c := range first.Shared() {
		shared[c.ID()] = c
	}
	for _, c := range rest.Shared() {
		shared[c.ID()] = c
	}

	var cs []formula.Clause
	for _, c1 := range first.Clauses() {
		for _, c2 := range rest.Clauses() {
			cs = append(cs, c1.Union(c2))
		}
	}
	return formula.New(cs).WithShared(shared)
}
