package evalctx

import "github.com/hellige/ccs-go/selector"

// Accumulator collects candidate property settings for one name as a
// context is augmented, per a pluggable tie-breaking strategy (spec
// §3, "pluggable property accumulators").
type Accumulator interface {
	// Accum folds in one more candidate setting at the given
	// activation specificity, returning a new Accumulator (the
	// receiver is never mutated).
	Accum(prop selector.Specificity, value PropValue) Accumulator
	// Values returns the candidates currently retained.
	Values() []PropValue
}

// PropValue pairs a property's textual value with its declaration
// site, independent of which rule-tree node it came from.
type PropValue struct {
	Value         string
	OverrideLevel int
	Filename      string
	Line          int
}

// MaxAccumulator keeps only the candidates at the highest specificity
// seen so far (Specificity.Greater's lexicographic order), discarding
// strictly lower ones as soon
// as a higher specificity arrives. This is the default: CCS resolves
// the single most-specific setting, and ties surface as
// AmbiguousProperty rather than being silently broken.
type MaxAccumulator struct {
	specificity selector.Specificity
	values      []PropValue
}

func NewMaxAccumulator() Accumulator { return MaxAccumulator{} }

func (m MaxAccumulator) Accum(spec selector.Specificity, value PropValue) Accumulator {
	switch {
	case spec.Greater(m.specificity):
		return MaxAccumulator{specificity: spec, values: []PropValue{value}}
	case spec.Equal(m.specificity):
		next := make([]PropValue, len(m.values), len(m.values)+1)
		copy(next, m.values)
		return MaxAccumulator{specificity: m.specificity, values: append(next, value)}
	default:
		return m
	}
}

func (m MaxAccumulator) Values() []PropValue { return m.values }

// SetAccumulator retains every candidate regardless of specificity,
// useful for diagnosing why a property resolved the way it did.
type SetAccumulator struct {
	values []PropValue
}

func NewSetAccumulator() Accumulator { return SetAccumulator{} }

func (s SetAccumulator) Accum(_ selector.Specificity, value PropValue) Accumulator {
	next := make([]PropValue, len(s.values), len(s.values)+1)
	copy(next, s.values)
	return SetAccumulator{values: append(next, value)}
}

func (s SetAccumulator) Values() []PropValue { return s.values }
