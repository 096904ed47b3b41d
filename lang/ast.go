package lang

import (
	"fmt"
	"io"

	"github.com/hellige/ccs-go/internal/debug"
	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

// ImportResolver turns an `@import "location"` string into a readable
// stream, letting embedders source rule files from disk, an embedded
// FS, a config service, or anywhere else (spec §7).
type ImportResolver interface {
	Resolve(location string) (io.Reader, error)
}

// ruleNode is one parsed construct: a property setting, a constraint,
// an import, or a nested scope. Mirrors ast.py's add_to/resolve_imports
// duo, kept separate from ruletree.Node so a whole file can be fully
// parsed (and its imports resolved) before anything mutates the rule
// tree (spec §7, "parse fully, then apply").
type ruleNode interface {
	addTo(target *ruletree.Node) error
	resolveImports(resolver ImportResolver, load loadFunc, inProgress []string) error
}

// loadFunc parses one CCS stream into a ruleNode, given the import
// stack so far — load passes itself, so an importDef can parse the
// imported stream recursively.
type loadFunc func(r io.Reader, filename string, resolver ImportResolver, inProgress []string) (ruleNode, error)

type propDef struct {
	name     string
	value    string
	origin   ruletree.Origin
	override bool
}

func (p *propDef) addTo(target *ruletree.Node) error {
	target.AddProperty(p.name, p.value, p.origin, p.override)
	return nil
}

func (p *propDef) resolveImports(ImportResolver, loadFunc, []string) error { return nil }

type constraintDef struct {
	key selector.Key
}

func (c *constraintDef) addTo(target *ruletree.Node) error {
	target.AddConstraint(c.key)
	return nil
}

func (c *constraintDef) resolveImports(ImportResolver, loadFunc, []string) error { return nil }

type importDef struct {
	location string
	resolved ruleNode
}

func (imp *importDef) addTo(target *ruletree.Node) error {
	if imp.resolved == nil {
		return nil // circular import (reported by resolveImports), or no resolver: skipped
	}
	return imp.resolved.addTo(target)
}

func (imp *importDef) resolveImports(resolver ImportResolver, load loadFunc, inProgress []string) error {
	for _, p := range inProgress {
		if p == imp.location {
			debug.Logf("circular import detected involving %q\n", imp.location)
			return nil
		}
	}
	stream, err := resolver.Resolve(imp.location)
	if err != nil {
		return fmt.Errorf("resolving import %q: %w", imp.location, err)
	}
	ast, err := load(stream, imp.location, resolver, append(inProgress, imp.location))
	if err != nil {
		return fmt.Errorf("importing %q: %w", imp.location, err)
	}
	imp.resolved = ast
	return nil
}

// nested is a scope: an optional selector plus the ordered rules
// declared directly inside it (spec §6's `:`/`{}` forms).
type nested struct {
	selector selector.Selector // nil at the ruleset root
	rules    []ruleNode
}

func (n *nested) addTo(target *ruletree.Node) error {
	if n.selector != nil {
		child, err := target.Traverse(n.selector)
		if err != nil {
			return err
		}
		target = child
	}
	for _, r := range n.rules {
		if err := r.addTo(target); err != nil {
			return err
		}
	}
	return nil
}

func (n *nested) resolveImports(resolver ImportResolver, load loadFunc, inProgress []string) error {
	for _, r := range n.rules {
		if err := r.resolveImports(resolver, load, inProgress); err != nil {
			return err
		}
	}
	return nil
}
