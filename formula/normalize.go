package formula

// Subsumes reports whether c subsumes d: c's conjunction is a subset of
// d's, so d ⇒ c as a logical implication over positive conjunctions,
// and d is redundant in a disjunction that contains c (spec §3).
func Subsumes(c, d Clause) bool { return c.IsSubsetOf(d) }

// Normalize brings a formula into normal form: no clause is a proper
// subset of another, and the shared set is pruned to only clauses that
// remain a strict subset of some surviving clause (spec §3, §4.2).
//
// Normalize is idempotent: Normalize(Normalize(f)) equals Normalize(f).
func Normalize(f Formula) Formula {
	minimized := map[string]Clause{}
	for _, c := range f.Clauses() {
		for id, s := range minimized {
			if Subsumes(c, s) {
				delete(minimized, id)
			}
		}
		subsumed := false
		for _, s := range minimized {
			if Subsumes(s, c) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			minimized[c.ID()] = c
		}
	}

	shared := map[string]Clause{}
	for _, s := range f.Shared() {
		for _, c := range minimized {
			if s.Len() < c.Len() && s.IsSubsetOf(c) {
				shared[s.ID()] = s
				break
			}
		}
	}

	result := Formula{clauses: minimized, shared: shared}
	return result
}
