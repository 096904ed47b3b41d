package lang

import (
	"fmt"
	"io"

	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

// Load parses stream as a CCS ruleset, resolves any @import
// directives through resolver, and applies the result to root. No
// part of the rule tree is mutated unless the entire file (and its
// transitive imports) parses successfully (spec §7).
func Load(stream io.Reader, filename string, resolver ImportResolver, root *ruletree.Node) error {
	rule, err := load(stream, filename, resolver, nil)
	if err != nil {
		return err
	}
	return rule.addTo(root)
}

// load is the loadFunc passed to ruleNode.resolveImports, letting an
// importDef recurse back into the parser without lang exporting parser
// internals.
func load(stream io.Reader, filename string, resolver ImportResolver, inProgress []string) (ruleNode, error) {
	p, err := newParser(stream, filename)
	if err != nil {
		return nil, err
	}
	rules, err := p.parseRuleset()
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", filename, err)
	}
	if resolver != nil {
		if err := rules.resolveImports(resolver, load, inProgress); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// ParseSelector parses a standalone selector expression, e.g. for a
// `@context (...)` header supplied from outside a rule file.
func ParseSelector(stream io.Reader, filename string) (selector.Selector, error) {
	p, err := newParser(stream, filename)
	if err != nil {
		return nil, err
	}
	return p.parseSelector()
}
