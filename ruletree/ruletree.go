// Package ruletree accumulates the cumulative formula, properties, and
// constraints of each nested selector scope into a tree the DAG builder
// consumes. It's the seam between a parser front-end (which drives
// Node.Traverse, AddProperty and AddConstraint) and matchdag.Build
// (spec §2, §4.3).
package ruletree

import (
	"github.com/hellige/ccs-go/dnf"
	"github.com/hellige/ccs-go/formula"
	"github.com/hellige/ccs-go/selector"
)

// Origin names where a property setting came from, for diagnostics.
type Origin struct {
	Filename string
	Line     int
}

// Property is a single (value, origin, override-level) setting. Per
// spec §3, OverrideLevel is 0 for a plain `prop = value` and 1 for
// `@override prop = value`.
type Property struct {
	Value         string
	Origin        Origin
	OverrideLevel int
}

// NamedProperty pairs a property name with its setting, preserving
// declaration order within a scope.
type NamedProperty struct {
	Name     string
	Property Property
}

// Node is one scope in the rule tree: its cumulative formula from the
// root, the properties and constraints declared directly in it, and its
// nested children.
type Node struct {
	ExpandLimit int
	Formula     formula.Formula
	Children    []*Node
	Props       []NamedProperty
	Constraints []selector.Key
}

// NewRoot creates the root rule-tree node: the universally-true formula
// (spec §3's "empty formula... the root scope"), with the given
// expansion limit applied to every DNF conversion beneath it.
func NewRoot(expandLimit int) *Node {
	if expandLimit <= 0 {
		expandLimit = 100
	}
	return &Node{ExpandLimit: expandLimit, Formula: formula.True()}
}

// Traverse appends a new child scope for sel, with a cumulative formula
// computed by expanding sel's DNF against this node's formula, and
// returns it. This is the Go analog of rule_tree.py's
// RuleTreeNode.traverse.
func (n *Node) Traverse(sel selector.Selector) (*Node, error) {
	flat := selector.Flatten(sel)
	d, err := dnf.ToDNF(flat, n.ExpandLimit)
	if err != nil {
		return nil, err
	}
	combined, err := dnf.Expand(n.ExpandLimit, n.Formula, d)
	if err != nil {
		return nil, err
	}
	child := &Node{ExpandLimit: n.ExpandLimit, Formula: combined}
	n.Children = append(n.Children, child)
	return child, nil
}

// AddProperty records a property setting directly in this scope.
func (n *Node) AddProperty(name, value string, origin Origin, override bool) {
	lvl := 0
	if override {
		lvl = 1
	}
	n.Props = append(n.Props, NamedProperty{Name: name, Property: Property{
		Value: value, Origin: origin, OverrideLevel: lvl,
	}})
}

// AddConstraint records a `@constrain key.value` in this scope: a step
// that fires automatically whenever this scope's formula fires during
// context activation (spec §4.4, "Root activation" and "firing").
func (n *Node) AddConstraint(key selector.Key) {
	n.Constraints = append(n.Constraints, key)
}

// All returns every node in the tree (this node and its descendants),
// in a pre-order traversal, for the DAG builder to consume.
func (n *Node) All() []*Node {
	out := []*Node{n}
	for _, c := range n.Children {
		out = append(out, c.All()...)
	}
	return out
}

// Stats reports basic counts, mirroring rule_tree.py's stats() used for
// diagnostics/tuning.
type Stats struct {
	Nodes       int
	Props       int
	Constraints int
	Edges       int
}

// Stats accumulates counts over the subtree rooted at n.
func (n *Node) Stats() Stats {
	var s Stats
	n.accumulate(&s)
	return s
}

func (n *Node) accumulate(s *Stats) {
	s.Nodes++
	s.Props += len(n.Props)
	s.Constraints += len(n.Constraints)
	s.Edges += len(n.Children)
	for _, c := range n.Children {
		c.accumulate(s)
	}
}
