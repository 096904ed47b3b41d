// Package matchdag builds and represents the shared match DAG: a
// layered graph of literal, clause (AndNode), and formula (OrNode)
// nodes with greedy-set-cover reuse of intermediate nodes, so that
// matching cost is proportional to activated subgraphs rather than to
// rule count (spec §2, §4.3).
package matchdag

import (
	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

// Handle is a stable, dense node identifier assigned at build time.
// evalctx uses it as the key into its persistent maps instead of a raw
// pointer, since it needs a comparable, serializable key (spec §9,
// "nodes refer to each other by index").
type Handle uint32

// Kind distinguishes the three flavors of node the DAG builder
// produces. AndNode and OrNode share the same Go struct (they differ
// only in firing policy, applied by evalctx) per spec §9's "tagged
// variants... AndNode/OrNode... share fields but their firing policies
// differ".
type Kind int

const (
	// KindLiteral is an AndNode built for a single distinct Key, with
	// TallyCount always 1 even when the key is set-valued.
	KindLiteral Kind = iota
	// KindClause is an AndNode built for a multi-literal conjunction.
	KindClause
	// KindFormula is an OrNode built for a disjunction of clauses.
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindClause:
		return "clause"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Node is a single DAG node. For AndNode kinds (KindLiteral,
// KindClause), Specificity and TallyCount drive firing: the node fires
// once its tally is decremented to zero. For KindFormula, TallyCount is
// used only during poisoning — firing happens the first time any child
// clause activates with a new maximum specificity (spec §4.4).
type Node struct {
	Handle      Handle
	Kind        Kind
	Specificity selector.Specificity
	TallyCount  int
	Children    []*Node
	Props       []ruletree.NamedProperty
	Constraints []selector.Key
}

func (n *Node) addLink() { n.TallyCount++ }

// IsAnd reports whether the node fires on a decrementing tally
// (literal or clause), as opposed to on a specificity improvement
// (formula).
func (n *Node) IsAnd() bool { return n.Kind == KindLiteral || n.Kind == KindClause }
