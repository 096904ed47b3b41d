// Package evalctx implements the persistent context-matching engine:
// augmenting a Context with asserted steps activates the portion of a
// matchdag.Dag those steps make reachable, without ever mutating a
// previously-returned Context (spec §3, §4.4).
package evalctx

import (
	"encoding/binary"
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/hellige/ccs-go/internal/debug"
	"github.com/hellige/ccs-go/matchdag"
	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

// Context is an immutable activation state over a shared Dag. Copying
// a Context by value is cheap and safe: every field is either a
// pointer into a persistent structure or a read-only slice.
type Context struct {
	dag             *matchdag.Dag
	newAccumulator  func() Accumulator
	tallies         *iradix.Tree
	orSpecificities *iradix.Tree
	props           *iradix.Tree // name -> Accumulator
	poisoned        *iradix.Tree // nil disables poisoning entirely
	path            []string
	trace           func(format string, args ...any)
}

type config struct {
	newAccumulator func() Accumulator
	poisoning      bool
	trace          func(format string, args ...any)
}

// Option configures a new root Context.
type Option func(*config)

// WithAccumulator overrides the default MaxAccumulator strategy.
func WithAccumulator(f func() Accumulator) Option {
	return func(c *config) { c.newAccumulator = f }
}

// WithPoisoning enables constraint-exclusivity poisoning (spec §4.5).
// It's off by default since it adds bookkeeping that most rule sets
// never need.
func WithPoisoning() Option {
	return func(c *config) { c.poisoning = true }
}

// WithTrace registers a function invoked on every successful
// single-property lookup (spec §4.4's "Trace hook").
func WithTrace(trace func(format string, args ...any)) Option {
	return func(c *config) { c.trace = trace }
}

// New builds a root Context over dag, activating its root pseudo-node
// (spec §4.4, "Root activation").
func New(dag *matchdag.Dag, opts ...Option) Context {
	cfg := config{newAccumulator: func() Accumulator { return NewMaxAccumulator() }}
	for _, o := range opts {
		o(&cfg)
	}
	c := Context{
		dag:             dag,
		newAccumulator:  cfg.newAccumulator,
		tallies:         iradix.New(),
		orSpecificities: iradix.New(),
		props:           iradix.New(),
		trace:           cfg.trace,
	}
	if cfg.poisoning {
		c.poisoned = iradix.New()
	}
	return c.seedRoot()
}

func (c Context) seedRoot() Context {
	props := c.props
	for _, np := range c.dag.Root.Props {
		spec := selector.Specificity{Override: np.Property.OverrideLevel}
		props = accumProp(props, c.newAccumulator, np.Name, np.Property, spec)
	}
	c.props = props
	initial := make([]pendingKey, 0, len(c.dag.Root.Constraints))
	for _, k := range c.dag.Root.Constraints {
		initial = append(initial, keyToPending(k))
	}
	return c.drain(initial)
}

// Augment asserts that step name (optionally with one value) holds in
// the new context, activating whatever portion of the dag that makes
// newly reachable. The receiver is left untouched.
func (c Context) Augment(name string, value *string) Context {
	if debug.Augment() {
		v := "<wildcard>"
		if value != nil {
			v = *value
		}
		debug.Logf("augment: %s = %s\n", name, v)
	}
	next := c.drain([]pendingKey{{name: name, value: value}})
	next.path = append(append([]string{}, c.path...), pathEntry(name, value))
	return next
}

func pathEntry(name string, value *string) string {
	if value == nil {
		return name
	}
	return name + "." + *value
}

// Stats reports basic shape counts for the dag underlying this
// context, for diagnostics.
func (c Context) Stats() matchdag.Stats {
	return c.dag.Stats()
}

// PathString renders the chain of steps asserted to reach this
// context, for trace output (spec §4.4's "[<k1> > <k2> > ...]", with
// the unaugmented root rendered as "<root>").
func (c Context) PathString() string {
	if len(c.path) == 0 {
		return "<root>"
	}
	return strings.Join(c.path, " > ")
}

type pendingKey struct {
	name  string
	value *string
}

func keyToPending(k selector.Key) pendingKey {
	if len(k.Values) == 0 {
		return pendingKey{name: k.Name}
	}
	for v := range k.Values {
		v := v
		return pendingKey{name: k.Name, value: &v}
	}
	return pendingKey{name: k.Name}
}

func handleKey(h matchdag.Handle) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(h))
	return b[:]
}

func rawTally(t *iradix.Tree, n *matchdag.Node) (int, bool) {
	v, ok := t.Get(handleKey(n.Handle))
	if !ok {
		return 0, false
	}
	return v.(int), true
}

func getTally(t *iradix.Tree, n *matchdag.Node) int {
	if v, ok := rawTally(t, n); ok {
		return v
	}
	return n.TallyCount
}

func getOrSpec(t *iradix.Tree, n *matchdag.Node) selector.Specificity {
	if v, ok := t.Get(handleKey(n.Handle)); ok {
		return v.(selector.Specificity)
	}
	return selector.Zero
}

func isPoisoned(t *iradix.Tree, n *matchdag.Node) bool {
	if t == nil {
		return false
	}
	_, ok := t.Get(handleKey(n.Handle))
	return ok
}

// drain processes a queue of asserted steps against the dag, folding
// every resulting activation and poisoning effect into fresh
// persistent maps, and returns the resulting Context. This is the Go
// analog of search_state.py's Context.augment.
func (c Context) drain(initial []pendingKey) Context {
	tallies := c.tallies
	orSpecs := c.orSpecificities
	poisoned := c.poisoned
	props := c.props
	queue := append([]pendingKey{}, initial...)

	accumTally := func(n *matchdag.Node) bool {
		count := getTally(tallies, n)
		if count > 0 {
			count--
			tallies, _, _ = tallies.Insert(handleKey(n.Handle), count)
			if count == 0 {
				return true
			}
		}
		return false
	}

	var activate func(n *matchdag.Node, propagated selector.Specificity)
	activate = func(n *matchdag.Node, propagated selector.Specificity) {
		if isPoisoned(poisoned, n) {
			return
		}
		var activationSpec selector.Specificity
		fired := false
		if n.IsAnd() {
			if accumTally(n) {
				activationSpec = n.Specificity
				fired = true
			}
		} else {
			prev := getOrSpec(orSpecs, n)
			if propagated.Greater(prev) {
				orSpecs, _, _ = orSpecs.Insert(handleKey(n.Handle), propagated)
				activationSpec = propagated
				fired = true
			}
		}
		if !fired {
			return
		}
		for _, k := range n.Constraints {
			queue = append(queue, keyToPending(k))
		}
		for _, np := range n.Props {
			spec := selector.Specificity{Override: np.Property.OverrideLevel}.Add(activationSpec)
			props = accumProp(props, c.newAccumulator, np.Name, np.Property, spec)
		}
		for _, child := range n.Children {
			activate(child, activationSpec)
		}
	}

	var poison func(n *matchdag.Node)
	poison = func(n *matchdag.Node) {
		fullyPoisoned := false
		if n.IsAnd() {
			raw, ok := rawTally(tallies, n)
			if (!ok || raw != 0) && !isPoisoned(poisoned, n) {
				fullyPoisoned = true
			}
		} else {
			fullyPoisoned = accumTally(n)
		}
		if !fullyPoisoned {
			return
		}
		poisoned, _, _ = poisoned.Insert(handleKey(n.Handle), struct{}{})
		for _, child := range n.Children {
			poison(child)
		}
	}

	matchStep := func(name string, value *string) {
		matcher, ok := c.dag.Children[name]
		if !ok {
			return
		}
		if matcher.Wildcard != nil {
			activate(matcher.Wildcard, selector.Zero)
		}
		if value != nil {
			for _, n := range matcher.PositiveValues[*value] {
				activate(n, selector.Zero)
			}
		}
		if poisoned != nil {
			for v2, nodes := range matcher.PositiveValues {
				if value == nil || *value != v2 {
					for _, n := range nodes {
						poison(n)
					}
				}
			}
		}
	}

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		matchStep(k.name, k.value)
	}

	return Context{
		dag:             c.dag,
		newAccumulator:  c.newAccumulator,
		tallies:         tallies,
		orSpecificities: orSpecs,
		props:           props,
		poisoned:        poisoned,
		path:            c.path,
		trace:           c.trace,
	}
}

func accumProp(props *iradix.Tree, newAcc func() Accumulator, name string,
	prop ruletree.Property, spec selector.Specificity) *iradix.Tree {

	key := []byte(name)
	var acc Accumulator
	if v, ok := props.Get(key); ok {
		acc = v.(Accumulator)
	} else {
		acc = newAcc()
	}
	acc = acc.Accum(spec, PropValue{
		Value:         prop.Value,
		OverrideLevel: prop.OverrideLevel,
		Filename:      prop.Origin.Filename,
		Line:          prop.Origin.Line,
	})
	next, _, _ := props.Insert(key, acc)
	return next
}
