package evalctx

import (
	"errors"

	"github.com/hellige/ccs-go/ccserr"
)

// GetSingleProperty resolves name to its single most-specific setting
// in this context (spec §4.4's property-resolution algorithm: missing
// name, zero candidates, and more-than-one tied candidate are each
// distinct, recoverable error kinds).
func (c Context) GetSingleProperty(name string) (PropValue, error) {
	v, ok := c.props.Get([]byte(name))
	if !ok {
		return PropValue{}, &ccserr.MissingPropertyError{Name: name}
	}
	values := v.(Accumulator).Values()
	switch len(values) {
	case 0:
		return PropValue{}, &ccserr.EmptyPropertyError{Name: name}
	case 1:
		if c.trace != nil {
			c.trace("Found property: %s = %s\n\tin context: [%s]", name, values[0].Value, c.PathString())
		}
		return values[0], nil
	default:
		candidates := make([]string, len(values))
		for i, v := range values {
			candidates[i] = v.Value
		}
		return PropValue{}, &ccserr.AmbiguousPropertyError{Name: name, Candidates: candidates}
	}
}

// GetSingleValue is GetSingleProperty's value-only shorthand.
func (c Context) GetSingleValue(name string) (string, error) {
	p, err := c.GetSingleProperty(name)
	if err != nil {
		return "", err
	}
	return p.Value, nil
}

// TryGetSingleValue is GetSingleValue but substitutes def when name is
// altogether missing; any other error (ambiguous or empty) still
// propagates.
func (c Context) TryGetSingleValue(name, def string) (string, error) {
	v, err := c.GetSingleValue(name)
	if errors.Is(err, ccserr.ErrMissingProperty) {
		return def, nil
	}
	return v, err
}

// GetSingleValueAs resolves name and casts its value with cast. Cast
// failures propagate verbatim, letting the caller distinguish a
// malformed value from an unset one.
func GetSingleValueAs[T any](c Context, name string, cast func(string) (T, error)) (T, error) {
	var zero T
	v, err := c.GetSingleValue(name)
	if err != nil {
		return zero, err
	}
	return cast(v)
}

// TryGetSingleValueAs is GetSingleValueAs but substitutes def when
// name is missing.
func TryGetSingleValueAs[T any](c Context, name string, def T, cast func(string) (T, error)) (T, error) {
	v, err := c.GetSingleValue(name)
	if errors.Is(err, ccserr.ErrMissingProperty) {
		return def, nil
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return cast(v)
}
