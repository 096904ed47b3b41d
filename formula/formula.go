package formula

import "sort"

// Formula is an immutable pair (clauses, shared): clauses is interpreted
// as their disjunction and kept in normal form (no clause a proper subset
// of another); shared records intermediate clauses that appeared as
// common sub-conjunctions during expansion, used only by the DAG builder
// to induce node sharing (spec §3).
type Formula struct {
	clauses map[string]Clause
	shared  map[string]Clause
}

// New builds a Formula from a slice of clauses with no shared set. Use
// Normalize to bring it into normal form.
func New(clauses []Clause) Formula {
	m := make(map[string]Clause, len(clauses))
	for _, c := range clauses {
		m[c.ID()] = c
	}
	return Formula{clauses: m}
}

// WithShared returns a copy of f with its shared set replaced.
func (f Formula) WithShared(shared map[string]Clause) Formula {
	return Formula{clauses: f.clauses, shared: shared}
}

// True is the universally-true formula: a single empty clause. It's the
// formula attached to the root scope (spec §3).
func True() Formula { return New([]Clause{Empty()}) }

// Len returns the number of clauses.
func (f Formula) Len() int { return len(f.clauses) }

// Clauses returns the formula's clauses in a deterministic order.
func (f Formula) Clauses() []Clause {
	out := make([]Clause, 0, len(f.clauses))
	for _, c := range f.clauses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return ClauseLess(out[i], out[j]) })
	return out
}

// Shared returns the formula's shared subclauses in a deterministic
// order.
func (f Formula) Shared() []Clause {
	out := make([]Clause, 0, len(f.shared))
	for _, c := range f.shared {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return ClauseLess(out[i], out[j]) })
	return out
}

// First returns an arbitrary clause; callers only use it when Len() == 1.
func (f Formula) First() Clause {
	return f.Clauses()[0]
}

// ID is a canonical string over the clause set, suitable as a map key
// and for deterministic sort ordering of formulae (the DAG builder
// processes formulae "in ascending size order", spec §4.3).
func (f Formula) ID() string {
	cs := f.Clauses()
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID()
	}
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += "||"
		}
		s += id
	}
	return s
}

// Equal reports clause-set equality (the shared set is non-semantic).
func (f Formula) Equal(o Formula) bool { return f.ID() == o.ID() }

func (f Formula) String() string {
	cs := f.Clauses()
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out
}

// FormulaLess orders formulae by clause count then ID, for
// deterministic ascending-size processing in the DAG builder.
func FormulaLess(a, b Formula) bool {
	if a.Len() != b.Len() {
		return a.Len() < b.Len()
	}
	return a.ID() < b.ID()
}
