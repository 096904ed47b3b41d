// Package selector defines the selector AST (steps, conjunction,
// disjunction) and the Key/Specificity value types the rest of the
// evaluation core builds on.
package selector

import (
	"fmt"
	"sort"
	"strings"
)

// Specificity is the four-component tuple used to rank competing
// property settings: (override, positive, negative, wildcard), compared
// lexicographically left to right with greater-is-more-specific.
type Specificity struct {
	Override int
	Positive int
	Negative int
	Wildcard int
}

// Add returns the componentwise sum of two specificities. Addition is
// associative and commutative, as required by spec §3.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{
		Override: s.Override + o.Override,
		Positive: s.Positive + o.Positive,
		Negative: s.Negative + o.Negative,
		Wildcard: s.Wildcard + o.Wildcard,
	}
}

// Less reports whether s is strictly less specific than o.
func (s Specificity) Less(o Specificity) bool {
	if s.Override != o.Override {
		return s.Override < o.Override
	}
	if s.Positive != o.Positive {
		return s.Positive < o.Positive
	}
	if s.Negative != o.Negative {
		return s.Negative < o.Negative
	}
	return s.Wildcard < o.Wildcard
}

// Greater reports whether s is strictly more specific than o.
func (s Specificity) Greater(o Specificity) bool { return o.Less(s) }

// Equal reports componentwise equality.
func (s Specificity) Equal(o Specificity) bool { return s == o }

var (
	// PosLitSpec is the specificity contribution of a key asserting one
	// or more concrete values.
	PosLitSpec = Specificity{Positive: 1}
	// WildcardSpec is the specificity contribution of a key asserting no
	// value (a wildcard match on the name alone).
	WildcardSpec = Specificity{Wildcard: 1}
	// Zero is the identity element for Add.
	Zero = Specificity{}
)

// Key is a (name, values) pair: an asserted step carries zero or one
// value, a selector step may carry zero (wildcard) or many (shorthand
// disjunction) values. Keys are immutable and hashable by (name, sorted
// values), so they're safe to use as map keys after construction.
type Key struct {
	Name        string
	Values      map[string]struct{}
	Specificity Specificity
}

// NewKey builds a Key from a name and a set of values. An empty values
// set denotes a wildcard.
func NewKey(name string, values map[string]struct{}) Key {
	spec := WildcardSpec
	if len(values) > 0 {
		spec = PosLitSpec
	}
	// copy defensively: Key must be immutable once constructed.
	cp := make(map[string]struct{}, len(values))
	for v := range values {
		cp[v] = struct{}{}
	}
	return Key{Name: name, Values: cp, Specificity: spec}
}

// NewValueKey is a convenience constructor for the common single-value
// or wildcard case used when asserting a step during augmentation.
func NewValueKey(name string, value *string) Key {
	if value == nil {
		return NewKey(name, nil)
	}
	return NewKey(name, map[string]struct{}{*value: {}})
}

func (k Key) sortedValues() []string {
	vs := make([]string, 0, len(k.Values))
	for v := range k.Values {
		vs = append(vs, v)
	}
	sort.Strings(vs)
	return vs
}

// ID is a canonical string form suitable for use as a map key, since
// Go maps can't be hashed directly. It's also what Equal/hashing in
// formula.Clause relies on internally.
func (k Key) ID() string {
	var b strings.Builder
	b.WriteString(k.Name)
	b.WriteByte('\x00')
	for i, v := range k.sortedValues() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v)
	}
	return b.String()
}

// Equal reports whether two keys carry the same name and value set.
func (k Key) Equal(o Key) bool { return k.ID() == o.ID() }

func (k Key) String() string {
	switch len(k.Values) {
	case 0:
		return k.Name
	case 1:
		return fmt.Sprintf("%s.%s", k.Name, k.sortedValues()[0])
	default:
		vals := k.sortedValues()
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = fmt.Sprintf("%s.%s", k.Name, v)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// Less provides a deterministic total order over Keys, used to order a
// clause's literals and the DAG builder's literal nodes (spec §4.3).
func (k Key) Less(o Key) bool {
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	a, b := k.sortedValues(), o.sortedValues()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
