package matchdag

// Stats summarizes a built Dag's shape, for tuning expansion limits and
// diagnosing unexpectedly large rule sets (mirrors dag.py's DagStats).
type Stats struct {
	Literals  int
	Clauses   int
	Formulae  int
	Props     int
	Edges     int
	TallyMax  int
	FanoutMax int
}

// Stats computes summary counts over the whole built Dag.
func (d *Dag) Stats() Stats {
	var s Stats
	for _, n := range d.nodes {
		switch n.Kind {
		case KindLiteral:
			s.Literals++
		case KindClause:
			s.Clauses++
		case KindFormula:
			s.Formulae++
		}
		s.Props += len(n.Props)
		s.Edges += len(n.Children)
		if n.TallyCount > s.TallyMax {
			s.TallyMax = n.TallyCount
		}
		if len(n.Children) > s.FanoutMax {
			s.FanoutMax = len(n.Children)
		}
	}
	s.Props += len(d.Root.Props)
	return s
}
