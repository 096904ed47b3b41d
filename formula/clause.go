// Package formula implements the clause/formula algebra: Clause is a
// conjunction of selector.Key literals, Formula is a disjunction of
// clauses plus a set of shared subclauses used only to induce DAG
// sharing (spec §3).
package formula

import (
	"sort"
	"strings"

	"github.com/hellige/ccs-go/selector"
)

// Clause is an immutable set of Keys interpreted as their conjunction.
type Clause struct {
	literals map[string]selector.Key // keyed by Key.ID() for set semantics
}

// NewClause builds a Clause from a slice of literals, deduplicating by
// Key identity.
func NewClause(lits []selector.Key) Clause {
	m := make(map[string]selector.Key, len(lits))
	for _, l := range lits {
		m[l.ID()] = l
	}
	return Clause{literals: m}
}

// Empty is the clause with no literals: the universally-true conjunction.
func Empty() Clause { return NewClause(nil) }

// Len returns the number of literals in the clause.
func (c Clause) Len() int { return len(c.literals) }

// Elements returns the clause's literals in a deterministic order.
func (c Clause) Elements() []selector.Key {
	out := make([]selector.Key, 0, len(c.literals))
	for _, l := range c.literals {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// First returns an arbitrary (but deterministic, for a singleton clause)
// literal. Callers only use it when Len() == 1.
func (c Clause) First() selector.Key {
	return c.Elements()[0]
}

// Union returns the conjunction of c and o's literals.
func (c Clause) Union(o Clause) Clause {
	m := make(map[string]selector.Key, len(c.literals)+len(o.literals))
	for k, v := range c.literals {
		m[k] = v
	}
	for k, v := range o.literals {
		m[k] = v
	}
	return Clause{literals: m}
}

// IsSubsetOf reports whether every literal in c also appears in o —
// i.e. whether o's conjunction logically implies c's (spec §3,
// "subsumes").
func (c Clause) IsSubsetOf(o Clause) bool {
	if len(c.literals) > len(o.literals) {
		return false
	}
	for k := range c.literals {
		if _, ok := o.literals[k]; !ok {
			return false
		}
	}
	return true
}

// Specificity sums the specificity of every literal in the clause.
func (c Clause) Specificity() selector.Specificity {
	s := selector.Zero
	for _, l := range c.literals {
		s = s.Add(l.Specificity)
	}
	return s
}

// ID is a canonical string usable as a map key / for deterministic
// ordering, built from the sorted literal IDs.
func (c Clause) ID() string {
	ids := make([]string, 0, len(c.literals))
	for k := range c.literals {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// Equal reports literal-set equality.
func (c Clause) Equal(o Clause) bool { return c.ID() == o.ID() }

func (c Clause) String() string {
	els := c.Elements()
	parts := make([]string, len(els))
	for i, l := range els {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}

// ClauseLess orders clauses by size then lexicographically by element
// ID, matching the DAG builder's deterministic-tiebreak requirement
// (spec §4.3 "tiebreak by clause ordering").
func ClauseLess(a, b Clause) bool {
	if a.Len() != b.Len() {
		return a.Len() < b.Len()
	}
	return a.ID() < b.ID()
}
