// Package ccs is the embedding API: load a CCS ruleset, walk it with
// Augment as a host discovers context, and resolve properties out the
// other side. It wires lang (parse), ruletree (formula accumulation),
// matchdag (shared DAG), and evalctx (persistent activation state)
// behind the single Context surface spec §7 describes, the way the
// teacher's go-tony packages expose one entry point per capability and
// keep the wiring internal (go-tony/eval/expand_env.go's NewEnv).
package ccs

import (
	"io"

	"github.com/hellige/ccs-go/ccserr"
	"github.com/hellige/ccs-go/evalctx"
	"github.com/hellige/ccs-go/lang"
	"github.com/hellige/ccs-go/matchdag"
	"github.com/hellige/ccs-go/ruletree"
)

// Stats is a built ruleset's shape summary (matchdag.Stats), exposed
// here so cmd/ccs's dump subcommand doesn't need to import matchdag
// directly.
type Stats = matchdag.Stats

// Re-exported so callers never need to import ccserr directly for the
// common case of errors.Is against a sentinel.
var (
	ErrMissingProperty   = ccserr.ErrMissingProperty
	ErrEmptyProperty     = ccserr.ErrEmptyProperty
	ErrAmbiguousProperty = ccserr.ErrAmbiguousProperty
	ErrExpansionLimit    = ccserr.ErrExpansionLimit
	ErrParse             = ccserr.ErrParse
)

// ImportResolver turns an `@import "location"` string into a readable
// stream. Embedders implement this to source rule files from disk, an
// embedded FS, or a config service.
type ImportResolver = lang.ImportResolver

// Property is a single resolved (value, origin, override-level)
// property setting.
type Property = evalctx.PropValue

// TraceFunc receives one line of trace output per successful
// single-property lookup, when registered via WithTrace.
type TraceFunc func(format string, args ...any)

type config struct {
	resolver    ImportResolver
	expandLimit int
	evalOpts    []evalctx.Option
}

// Option configures loading and evaluation of a ruleset.
type Option func(*config)

// WithImportResolver supplies the resolver used for `@import`
// directives. Without one, `@import` directives are not resolved and
// contribute no rules.
func WithImportResolver(r ImportResolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithExpandLimit overrides the default DNF expansion bound (spec
// §4.2) applied at every nested selector scope.
func WithExpandLimit(n int) Option {
	return func(c *config) { c.expandLimit = n }
}

// WithPoisoning enables constraint-exclusivity poisoning (spec §4.5).
func WithPoisoning() Option {
	return func(c *config) { c.evalOpts = append(c.evalOpts, evalctx.WithPoisoning()) }
}

// WithAccumulator overrides the default max-specificity-only
// candidate-tracking strategy, e.g. to keep every tied candidate for
// diagnostics.
func WithAccumulator(f func() evalctx.Accumulator) Option {
	return func(c *config) { c.evalOpts = append(c.evalOpts, evalctx.WithAccumulator(f)) }
}

// WithTrace registers trace, invoked on every successful single-
// property lookup with the resolved value and the path of steps that
// reached it (spec §4.4's "Trace hook").
func WithTrace(trace TraceFunc) Option {
	return func(c *config) { c.evalOpts = append(c.evalOpts, evalctx.WithTrace(func(format string, args ...any) { trace(format, args...) })) }
}

// Context is a root activation state over a ruleset, ready to be
// augmented with discovered steps and queried for properties. It is
// immutable: Augment and the query methods never modify the receiver.
type Context struct {
	eval evalctx.Context
}

// FromStream parses stream as a CCS ruleset (resolving any `@import`
// directives through the resolver supplied via WithImportResolver) and
// builds a root Context over it (spec §7's `Context::from_stream`).
func FromStream(stream io.Reader, filename string, opts ...Option) (Context, error) {
	cfg := config{expandLimit: 100}
	for _, o := range opts {
		o(&cfg)
	}

	root := ruletree.NewRoot(cfg.expandLimit)
	if err := lang.Load(stream, filename, cfg.resolver, root); err != nil {
		return Context{}, err
	}

	dag := matchdag.Build(root)
	return Context{eval: evalctx.New(dag, cfg.evalOpts...)}, nil
}

// Augment asserts that step name holds (with no particular value),
// returning a new Context with whatever that newly activates folded
// in. The receiver is left untouched.
func (c Context) Augment(name string) Context {
	return Context{eval: c.eval.Augment(name, nil)}
}

// AugmentValue asserts that step name holds with the given value.
func (c Context) AugmentValue(name, value string) Context {
	return Context{eval: c.eval.Augment(name, &value)}
}

// GetSingleProperty resolves name to its single most-specific setting
// in this context. See ccserr for the distinct error kinds a caller
// can test for with errors.Is/errors.As.
func (c Context) GetSingleProperty(name string) (Property, error) {
	return c.eval.GetSingleProperty(name)
}

// GetSingleValue is GetSingleProperty's value-only shorthand.
func (c Context) GetSingleValue(name string) (string, error) {
	return c.eval.GetSingleValue(name)
}

// TryGetSingleValue is GetSingleValue but substitutes def when name is
// missing altogether; an ambiguous or empty property still errors.
func (c Context) TryGetSingleValue(name, def string) (string, error) {
	return c.eval.TryGetSingleValue(name, def)
}

// GetSingleValueAs resolves name and casts its value with cast.
func GetSingleValueAs[T any](c Context, name string, cast func(string) (T, error)) (T, error) {
	return evalctx.GetSingleValueAs(c.eval, name, cast)
}

// TryGetSingleValueAs is GetSingleValueAs but substitutes def when
// name is missing.
func TryGetSingleValueAs[T any](c Context, name string, def T, cast func(string) (T, error)) (T, error) {
	return evalctx.TryGetSingleValueAs(c.eval, name, def, cast)
}

// PathString renders the chain of steps asserted to reach this
// context, as shown in trace output.
func (c Context) PathString() string {
	return c.eval.PathString()
}

// Stats reports basic shape counts for the dag underlying this
// ruleset (literal/clause/formula counts, edge and fan-out bounds),
// for the dump CLI and for diagnosing unexpectedly large rule sets.
func (c Context) Stats() matchdag.Stats {
	return c.eval.Stats()
}
