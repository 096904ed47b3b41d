// Package stringval represents quoted CCS string literals that may
// contain ${...} interpolations, evaluated against a host-supplied
// environment with expr-lang (spec §6, §12 — ported from
// stringval.py's Literal/Interpolant/StringVal).
package stringval

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Element is one piece of a StringVal: either a literal run of text or
// an interpolated expression.
type Element interface {
	interpolate(env map[string]any) (string, error)
	isInterpolant() bool
}

// Literal is a run of text copied through verbatim.
type Literal struct{ Text string }

func (l Literal) interpolate(map[string]any) (string, error) { return l.Text, nil }
func (l Literal) isInterpolant() bool                         { return false }

// Interpolant is a `${expr}` expression evaluated against the
// environment at resolution time.
type Interpolant struct{ Expr string }

func (n Interpolant) isInterpolant() bool { return true }

func (n Interpolant) interpolate(env map[string]any) (string, error) {
	program, err := expr.Compile(n.Expr, expr.Env(env))
	if err != nil {
		return "", fmt.Errorf("stringval: compiling %q: %w", n.Expr, err)
	}
	out, err := vm.Run(program, env)
	if err != nil {
		return "", fmt.Errorf("stringval: evaluating %q: %w", n.Expr, err)
	}
	return fmt.Sprint(out), nil
}

// StringVal is a quoted string value as a sequence of literal and
// interpolated elements, resolved against the environment passed to
// Resolve. The lang parser resolves property values at parse time with
// an empty environment, so a property value containing an interpolant
// fails to load.
type StringVal struct {
	Elements []Element
}

// AddLiteral appends a literal text run.
func (s *StringVal) AddLiteral(text string) {
	if text == "" {
		return
	}
	s.Elements = append(s.Elements, Literal{Text: text})
}

// AddInterpolant appends a `${expr}` expression.
func (s *StringVal) AddInterpolant(exprSrc string) {
	s.Elements = append(s.Elements, Interpolant{Expr: exprSrc})
}

// HasInterpolation reports whether the value has more than one element
// or a single interpolant element. The lexer only splits a string into
// several elements around an interpolant, so for lexed strings this
// means the value needs an environment to resolve.
func (s *StringVal) HasInterpolation() bool {
	if len(s.Elements) != 1 {
		return len(s.Elements) > 1
	}
	return s.Elements[0].isInterpolant()
}

// Resolve concatenates every element's interpolation against env.
func (s *StringVal) Resolve(env map[string]string) (string, error) {
	asAny := make(map[string]any, len(env))
	for k, v := range env {
		asAny[k] = v
	}
	var out string
	for _, e := range s.Elements {
		part, err := e.interpolate(asAny)
		if err != nil {
			return "", err
		}
		out += part
	}
	return out, nil
}

func (s *StringVal) String() string {
	out, err := s.Resolve(nil)
	if err != nil {
		return ""
	}
	return out
}
