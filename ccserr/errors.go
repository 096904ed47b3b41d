// Package ccserr collects the error kinds observable at the CCS
// embedding-API boundary (spec §7): sentinel values wrapped with
// context at the point of failure, via the familiar
// "var Err... = errors.New(...)" convention rather than a typed
// exception hierarchy.
package ccserr

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProperty is returned when no setting for a queried
	// property name has been activated in the context, whether or not
	// the ruleset mentions the name.
	ErrMissingProperty = errors.New("missing property")
	// ErrEmptyProperty is returned when the context holds an entry for
	// a property name but its accumulator retains no candidates.
	ErrEmptyProperty = errors.New("empty property")
	// ErrAmbiguousProperty is returned when more than one candidate
	// shares the maximal specificity for a queried property.
	ErrAmbiguousProperty = errors.New("ambiguous property")
	// ErrExpansionLimit is returned when a DNF expansion would exceed
	// its configured limit.
	ErrExpansionLimit = errors.New("expansion limit exceeded")
	// ErrParse is returned for lexical/syntactic failures in the
	// surface syntax.
	ErrParse = errors.New("parse error")
)

// AmbiguousPropertyError carries the competing candidates for a
// property query that resolved to more than one value.
type AmbiguousPropertyError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousPropertyError) Error() string {
	return fmt.Sprintf("ambiguous property %q: candidates %v", e.Name, e.Candidates)
}

func (e *AmbiguousPropertyError) Unwrap() error { return ErrAmbiguousProperty }

// MissingPropertyError names the property that had no matching rule.
type MissingPropertyError struct {
	Name string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing property %q", e.Name)
}

func (e *MissingPropertyError) Unwrap() error { return ErrMissingProperty }

// EmptyPropertyError names the property whose candidate set was empty.
type EmptyPropertyError struct {
	Name string
}

func (e *EmptyPropertyError) Error() string {
	return fmt.Sprintf("empty property %q", e.Name)
}

func (e *EmptyPropertyError) Unwrap() error { return ErrEmptyProperty }

// ExpansionLimitError reports the actual and configured expansion
// limit, per spec §4.2 ("fail with an expansion-limit error naming the
// actual and limit sizes").
type ExpansionLimitError struct {
	Actual int
	Limit  int
}

func (e *ExpansionLimitError) Error() string {
	return fmt.Sprintf("expanded form would have %d clauses, which is more than "+
		"the limit of %d; consider increasing the limit or stratifying this rule",
		e.Actual, e.Limit)
}

func (e *ExpansionLimitError) Unwrap() error { return ErrExpansionLimit }

// ParseError carries the location of a lexical/syntactic failure.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }
