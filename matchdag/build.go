package matchdag

import (
	"sort"

	"github.com/hellige/ccs-go/formula"
	"github.com/hellige/ccs-go/internal/debug"
	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

// Build turns a rule tree into a shared match Dag. root's own formula
// (the universally-true empty clause) is handled as a dedicated pseudo
// root node rather than run through the general clause/formula
// builder, which sidesteps a zero-literal-clause edge case the
// reference implementation left as an open TODO (see DESIGN.md).
func Build(root *ruletree.Node) *Dag {
	dag := newDag()
	dag.Root = &Node{Kind: KindFormula, Props: root.Props, Constraints: root.Constraints}

	nodes := root.All()[1:] // everything but the root itself

	allClauses := map[string]formula.Clause{}
	for _, n := range nodes {
		for _, c := range n.Formula.Clauses() {
			allClauses[c.ID()] = c
		}
		for _, c := range n.Formula.Shared() {
			allClauses[c.ID()] = c
		}
	}

	litKeys := map[string]selector.Key{}
	for _, c := range allClauses {
		for _, l := range c.Elements() {
			litKeys[l.ID()] = l
		}
	}
	litOrder := make([]selector.Key, 0, len(litKeys))
	for _, l := range litKeys {
		litOrder = append(litOrder, l)
	}
	sort.Slice(litOrder, func(i, j int) bool { return litOrder[i].Less(litOrder[j]) })

	litNodes := map[string]*Node{}
	for _, l := range litOrder {
		n := dag.newNode(KindLiteral)
		n.Specificity = l.Specificity
		n.addLink()
		dag.matcher(l.Name).AddValues(l.Values, n)
		litNodes[l.ID()] = n
	}

	clauseOrder := make([]formula.Clause, 0, len(allClauses))
	for _, c := range allClauses {
		clauseOrder = append(clauseOrder, c)
	}
	sort.Slice(clauseOrder, func(i, j int) bool { return formula.ClauseLess(clauseOrder[i], clauseOrder[j]) })

	clauseNodes := map[string]*Node{}
	var builtClauses []formula.Clause
	for _, c := range clauseOrder {
		n := buildClauseNode(dag, c, litNodes, clauseNodes, builtClauses)
		clauseNodes[c.ID()] = n
		builtClauses = append(builtClauses, c)
	}

	sort.SliceStable(nodes, func(i, j int) bool { return formula.FormulaLess(nodes[i].Formula, nodes[j].Formula) })

	formulaNodes := map[string]*Node{}
	var builtFormulae []formula.Formula
	for _, rn := range nodes {
		f := rn.Formula
		n, alreadyBuilt := formulaNodes[f.ID()]
		if !alreadyBuilt {
			n = buildFormulaNode(dag, f, clauseNodes, formulaNodes, builtFormulae)
			formulaNodes[f.ID()] = n
			builtFormulae = append(builtFormulae, f)
		}
		n.Props = append(n.Props, rn.Props...)
		n.Constraints = append(n.Constraints, rn.Constraints...)
	}

	if debug.Dag() {
		debug.Logf("build_dag: %d literals, %d clauses, %d formulae, %d nodes total\n",
			len(litOrder), len(clauseOrder), len(builtFormulae), dag.NodeCount())
	}

	return dag
}

// buildClauseNode constructs (or reuses) the AndNode for clause c,
// using greedy weighted set cover over already-built smaller clauses
// to minimize new edges (spec §4.3).
func buildClauseNode(dag *Dag, c formula.Clause, litNodes map[string]*Node,
	clauseNodes map[string]*Node, builtClauses []formula.Clause) *Node {

	if c.Len() == 1 {
		return litNodes[c.First().ID()]
	}
	if n, ok := clauseNodes[c.ID()]; ok {
		return n
	}
	if c.Len() == 2 {
		node := dag.newNode(KindClause)
		node.Specificity = c.Specificity()
		for _, l := range c.Elements() {
			ln := litNodes[l.ID()]
			ln.Children = append(ln.Children, node)
			node.addLink()
		}
		return node
	}

	type candidate struct {
		clause formula.Clause
		weight int
		used   bool
	}
	var candidates []*candidate
	byLiteral := map[string][]*candidate{}
	for _, sc := range builtClauses {
		if sc.Len() < c.Len() && sc.IsSubsetOf(c) {
			cand := &candidate{clause: sc, weight: sc.Len()}
			candidates = append(candidates, cand)
			for _, l := range sc.Elements() {
				byLiteral[l.ID()] = append(byLiteral[l.ID()], cand)
			}
		}
	}

	node := dag.newNode(KindClause)
	node.Specificity = c.Specificity()
	covered := map[string]struct{}{}

	for {
		var best *candidate
		for _, cand := range candidates {
			if cand.used {
				continue
			}
			if best == nil || cand.weight > best.weight ||
				(cand.weight == best.weight && formula.ClauseLess(best.clause, cand.clause)) {
				best = cand
			}
		}
		if best == nil || best.weight == 0 {
			break
		}
		best.used = true
		bn := clauseNodes[best.clause.ID()]
		bn.Children = append(bn.Children, node)
		node.addLink()
		for _, l := range best.clause.Elements() {
			if _, seen := covered[l.ID()]; !seen {
				covered[l.ID()] = struct{}{}
				for _, cand := range byLiteral[l.ID()] {
					cand.weight--
				}
			}
		}
	}

	for _, l := range c.Elements() {
		if _, ok := covered[l.ID()]; !ok {
			ln := litNodes[l.ID()]
			ln.Children = append(ln.Children, node)
			node.addLink()
		}
	}
	return node
}

// buildFormulaNode constructs (or aliases) the OrNode for formula f. A
// single-clause formula is aliased directly to its clause's AndNode —
// no wrapping OrNode is needed, since a disjunction of one clause fires
// exactly when that clause does (spec §4.3 step 4's sharing applies
// equally here).
func buildFormulaNode(dag *Dag, f formula.Formula, clauseNodes map[string]*Node,
	formulaNodes map[string]*Node, builtFormulae []formula.Formula) *Node {

	if f.Len() == 1 {
		return clauseNodes[f.First().ID()]
	}
	if n, ok := formulaNodes[f.ID()]; ok {
		return n
	}

	type candidate struct {
		formula formula.Formula
		weight  int
		used    bool
	}
	var candidates []*candidate
	byClause := map[string][]*candidate{}
	for _, sf := range builtFormulae {
		if sf.Len() < f.Len() && formulaIsSubsetOf(sf, f) {
			cand := &candidate{formula: sf, weight: sf.Len()}
			candidates = append(candidates, cand)
			for _, c := range sf.Clauses() {
				byClause[c.ID()] = append(byClause[c.ID()], cand)
			}
		}
	}

	node := dag.newNode(KindFormula)
	covered := map[string]struct{}{}

	for {
		var best *candidate
		for _, cand := range candidates {
			if cand.used {
				continue
			}
			if best == nil || cand.weight > best.weight ||
				(cand.weight == best.weight && formula.FormulaLess(best.formula, cand.formula)) {
				best = cand
			}
		}
		if best == nil || best.weight == 0 {
			break
		}
		best.used = true
		bn := formulaNodes[best.formula.ID()]
		bn.Children = append(bn.Children, node)
		node.addLink()
		for _, c := range best.formula.Clauses() {
			if _, seen := covered[c.ID()]; !seen {
				covered[c.ID()] = struct{}{}
				for _, cand := range byClause[c.ID()] {
					cand.weight--
				}
			}
		}
	}

	for _, c := range f.Clauses() {
		if _, ok := covered[c.ID()]; !ok {
			cn := clauseNodes[c.ID()]
			cn.Children = append(cn.Children, node)
			node.addLink()
		}
	}
	return node
}

func formulaIsSubsetOf(sub, super formula.Formula) bool {
	superSet := map[string]struct{}{}
	for _, c := range super.Clauses() {
		superSet[c.ID()] = struct{}{}
	}
	for _, c := range sub.Clauses() {
		if _, ok := superSet[c.ID()]; !ok {
			return false
		}
	}
	return true
}
