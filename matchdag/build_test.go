package matchdag

import (
	"testing"

	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

func sel(name, value string) selector.Selector {
	return selector.Step{Key: selector.NewKey(name, map[string]struct{}{value: {}})}
}

func conj(parts ...selector.Selector) selector.Selector { return selector.Conj(parts) }

func findByProp(dag *Dag, propName string) *Node {
	for h := 0; h < dag.NodeCount(); h++ {
		n := dag.NodeByHandle(Handle(h))
		for _, p := range n.Props {
			if p.Name == propName {
				return n
			}
		}
	}
	return nil
}

func TestBuildAliasesSingleLiteralClauseToLiteralNode(t *testing.T) {
	root := ruletree.NewRoot(100)
	child, err := root.Traverse(sel("env", "prod"))
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	child.AddProperty("greeting", "hi", ruletree.Origin{}, false)

	dag := Build(root)
	stats := dag.Stats()
	if stats.Clauses != 0 || stats.Formulae != 0 {
		t.Fatalf("expected a single-literal scope to need no clause/formula node, got %+v", stats)
	}
	if stats.Literals != 1 {
		t.Fatalf("expected exactly 1 literal node, got %d", stats.Literals)
	}

	matcher := dag.Children["env"]
	if matcher == nil {
		t.Fatalf("expected a dispatch entry for %q", "env")
	}
	nodes := matcher.PositiveValues["prod"]
	if len(nodes) != 1 {
		t.Fatalf("expected exactly 1 node registered for env=prod, got %d", len(nodes))
	}
	if len(nodes[0].Props) != 1 || nodes[0].Props[0].Name != "greeting" {
		t.Fatalf("expected the literal node to carry the scope's property directly")
	}
}

func TestBuildSharesSmallerClauseAsPrerequisite(t *testing.T) {
	root := ruletree.NewRoot(100)

	c1, err := root.Traverse(conj(sel("a", "x"), sel("b", "y")))
	if err != nil {
		t.Fatalf("Traverse c1: %v", err)
	}
	c1.AddProperty("marker1", "c1", ruletree.Origin{}, false)

	c2, err := root.Traverse(conj(sel("a", "x"), sel("b", "y"), sel("c", "z")))
	if err != nil {
		t.Fatalf("Traverse c2: %v", err)
	}
	c2.AddProperty("marker2", "c2", ruletree.Origin{}, false)

	dag := Build(root)

	node1 := findByProp(dag, "marker1")
	node2 := findByProp(dag, "marker2")
	if node1 == nil || node2 == nil {
		t.Fatalf("expected to find both clause nodes by their markers")
	}
	if node1.Kind != KindClause || node2.Kind != KindClause {
		t.Fatalf("expected both to be clause nodes, got %s and %s", node1.Kind, node2.Kind)
	}

	// The 3-literal clause should link in via the already-built 2-literal
	// clause as a single prerequisite edge, plus the uncovered literal
	// 'c' directly: tally 2, not 3 (spec §4.3's set-cover sharing).
	if node2.TallyCount != 2 {
		t.Fatalf("expected the larger clause to share the smaller one as a prerequisite (tally 2), got %d", node2.TallyCount)
	}

	found := false
	for _, c := range node1.Children {
		if c == node2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the smaller clause node to list the larger one as a child")
	}
}

func TestBuildSingleClauseFormulaAliasesToClauseNode(t *testing.T) {
	root := ruletree.NewRoot(100)
	child, err := root.Traverse(conj(sel("a", "x"), sel("b", "y")))
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	child.AddProperty("prop", "val", ruletree.Origin{}, false)

	dag := Build(root)
	if dag.Stats().Formulae != 0 {
		t.Fatalf("expected a single-clause formula to need no wrapping OrNode, got %+v", dag.Stats())
	}
}

func TestBuildRootPropsAttachToDedicatedRootNode(t *testing.T) {
	root := ruletree.NewRoot(100)
	root.AddProperty("global", "rootval", ruletree.Origin{}, false)

	dag := Build(root)
	if len(dag.Root.Props) != 1 || dag.Root.Props[0].Property.Value != "rootval" {
		t.Fatalf("expected root-level property to surface on Dag.Root, got %+v", dag.Root.Props)
	}
}
