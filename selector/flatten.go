package selector

import (
	"github.com/hellige/ccs-go/internal/debug"
)

// Flatten normalizes a selector tree into alternating normal form: every
// And/Or node's children are either leaves or nodes of the opposite
// operator. It also short-circuits a common source of DNF blow-up by
// grouping same-named Steps that appear directly under an Or into a
// single multi-valued Step (spec §4.1, step 2).
//
// Flatten is idempotent: Flatten(Flatten(e)) produces a tree equal (by
// structure, modulo child order) to Flatten(e).
func Flatten(expr Selector) Selector {
	step, ok := expr.(Step)
	if ok {
		return step
	}
	e := expr.(Expr)

	litByName := map[string]map[string]struct{}{}
	var litOrder []string
	var newChildren []Selector

	addChild := func(c Selector) {
		if cs, isStep := c.(Step); isStep && e.Op == Or {
			// Grouping Or-level same-name literals avoids expanding a
			// disjunction of distinct values into separate DNF clauses
			// only to recombine them as one literal later.
			vals, seen := litByName[cs.Key.Name]
			if !seen {
				vals = map[string]struct{}{}
				litByName[cs.Key.Name] = vals
				litOrder = append(litOrder, cs.Key.Name)
			}
			for v := range cs.Key.Values {
				vals[v] = struct{}{}
			}
			return
		}
		newChildren = append(newChildren, c)
	}

	for _, c := range e.Children {
		fc := Flatten(c)
		if fe, isExpr := fc.(Expr); isExpr && fe.Op == e.Op {
			for _, gc := range fe.Children {
				addChild(gc)
			}
		} else {
			addChild(fc)
		}
	}

	for _, name := range litOrder {
		newChildren = append(newChildren, Step{Key: NewKey(name, litByName[name])})
	}

	if debug.Flatten() {
		debug.Logf("flatten: %d children under %s\n", len(newChildren), e.Op)
	}

	if len(newChildren) == 1 {
		return newChildren[0]
	}
	return Expr{Op: e.Op, Children: newChildren}
}
