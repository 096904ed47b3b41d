package matchdag

// LiteralMatcher dispatches on the value asserted for one key name: a
// wildcard node (fires on any assertion of the bare name) and, per
// value, the list of nodes that should activate when that value is
// asserted. A multi-valued literal (spec §4.3 step 2's grouped Or
// literal) maps every one of its values to the same node, so it fires
// once when any of its values is asserted.
type LiteralMatcher struct {
	Wildcard       *Node
	PositiveValues map[string][]*Node
}

func newLiteralMatcher() *LiteralMatcher {
	return &LiteralMatcher{PositiveValues: map[string][]*Node{}}
}

// AddValues registers node as the handler for each of values, or as the
// wildcard handler if values is empty.
func (m *LiteralMatcher) AddValues(values map[string]struct{}, node *Node) {
	if len(values) == 0 {
		m.Wildcard = node
		return
	}
	for v := range values {
		m.PositiveValues[v] = append(m.PositiveValues[v], node)
	}
}

// Dag is the shared, immutable match graph: a per-key-name dispatch
// table over LiteralMatchers plus the root pseudo-node carrying
// root-level (empty-formula) properties and constraints (spec §3).
// Once built, a Dag is read-only and safe for concurrent use by many
// evalctx.Context values (spec §5).
type Dag struct {
	Children map[string]*LiteralMatcher
	Root     *Node
	nodes    []*Node
}

func newDag() *Dag {
	return &Dag{Children: map[string]*LiteralMatcher{}}
}

func (d *Dag) matcher(name string) *LiteralMatcher {
	m, ok := d.Children[name]
	if !ok {
		m = newLiteralMatcher()
		d.Children[name] = m
	}
	return m
}

func (d *Dag) newNode(kind Kind) *Node {
	n := &Node{Handle: Handle(len(d.nodes)), Kind: kind}
	d.nodes = append(d.nodes, n)
	return n
}

// NodeCount returns the number of distinct nodes in the built DAG.
func (d *Dag) NodeCount() int { return len(d.nodes) }

// NodeByHandle looks up a node by its stable handle.
func (d *Dag) NodeByHandle(h Handle) *Node { return d.nodes[int(h)] }
