package lang

import (
	"fmt"
	"io"

	"github.com/hellige/ccs-go/ccserr"
	"github.com/hellige/ccs-go/ruletree"
	"github.com/hellige/ccs-go/selector"
)

// parser is a recursive-descent parser over a Lexer, producing a
// nested ruleNode tree (ast.py's ParserImpl, ported directly).
type parser struct {
	filename string
	lex      *Lexer
	cur      Token
	last     Token
}

func newParser(r io.Reader, filename string) (*parser, error) {
	lex, err := NewLexer(r, filename)
	if err != nil {
		return nil, err
	}
	p := &parser{filename: filename, lex: lex}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	p.last = p.cur
	tok, err := p.lex.Consume()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) advanceIf(kind TokenKind) (bool, error) {
	if p.cur.Kind == kind {
		return true, p.advance()
	}
	return false, nil
}

func (p *parser) expect(kind TokenKind) error {
	ok, err := p.advanceIf(kind)
	if err != nil {
		return err
	}
	if !ok {
		return p.errf(p.cur.Loc, "Expected %s, found %s", kind, p.cur.Kind)
	}
	return nil
}

func (p *parser) errf(loc Location, format string, args ...any) error {
	return &ccserr.ParseError{Filename: p.filename, Line: loc.Line, Column: loc.Column, Message: fmt.Sprintf(format, args...)}
}

// parseRuleset parses an entire file: an optional `@context (...)`
// header followed by a flat sequence of rules.
func (p *parser) parseRuleset() (*nested, error) {
	rules := &nested{}
	if ok, err := p.advanceIf(Context); err != nil {
		return nil, err
	} else if ok {
		sel, err := p.parseContext()
		if err != nil {
			return nil, err
		}
		rules.selector = sel
	}
	for p.cur.Kind != EOS {
		if err := p.parseRule(rules); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

func (p *parser) parseContext() (selector.Selector, error) {
	if err := p.expect(LParen); err != nil {
		return nil, err
	}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if err := p.expect(RParen); err != nil {
		return nil, err
	}
	if _, err := p.advanceIf(Semi); err != nil {
		return nil, err
	}
	return sel, nil
}

func (p *parser) parseRule(rules *nested) error {
	ok, err := p.parsePrimRule(rules)
	if err != nil {
		return err
	}
	if ok {
		_, err := p.advanceIf(Semi)
		return err
	}

	sel, err := p.parseSelector()
	if err != nil {
		return err
	}
	child := &nested{selector: sel}

	if colon, err := p.advanceIf(Colon); err != nil {
		return err
	} else if colon {
		ok, err := p.parsePrimRule(child)
		if err != nil {
			return err
		}
		if !ok {
			return p.errf(p.cur.Loc, "Expected @import, @constrain, or property setting")
		}
		if _, err := p.advanceIf(Semi); err != nil {
			return err
		}
	} else if brace, err := p.advanceIf(LBrace); err != nil {
		return err
	} else if brace {
		for {
			done, err := p.advanceIf(RBrace)
			if err != nil {
				return err
			}
			if done {
				break
			}
			if err := p.parseRule(child); err != nil {
				return err
			}
		}
	} else {
		return p.errf(p.cur.Loc, "Expected ':' or '{' following selector")
	}

	rules.rules = append(rules.rules, child)
	return nil
}

// parsePrimRule recognizes the rules that don't require a selector:
// @import, @constrain, @override, or a bare `name = value`. It
// reports ok=false without consuming anything if cur doesn't start one
// of those.
func (p *parser) parsePrimRule(rules *nested) (bool, error) {
	switch p.cur.Kind {
	case Import:
		if err := p.advance(); err != nil {
			return false, err
		}
		if err := p.expect(String); err != nil {
			return false, err
		}
		if p.last.StringValue.HasInterpolation() {
			return false, p.errf(p.last.Loc, "Interpolation not allowed in import statements")
		}
		loc, err := p.last.StringValue.Resolve(nil)
		if err != nil {
			return false, err
		}
		rules.rules = append(rules.rules, &importDef{location: loc})
		return true, nil
	case Constrain:
		if err := p.advance(); err != nil {
			return false, err
		}
		key, err := p.parseSingleStep()
		if err != nil {
			return false, err
		}
		rules.rules = append(rules.rules, &constraintDef{key: key})
		return true, nil
	case Override:
		if err := p.advance(); err != nil {
			return false, err
		}
		prop, err := p.parseProperty(true)
		if err != nil {
			return false, err
		}
		rules.rules = append(rules.rules, prop)
		return true, nil
	case Ident, String:
		if p.lex.Peek().Kind == Eq {
			prop, err := p.parseProperty(false)
			if err != nil {
				return false, err
			}
			rules.rules = append(rules.rules, prop)
			return true, nil
		}
	}
	return false, nil
}

func (p *parser) parseProperty(override bool) (*propDef, error) {
	name, err := p.parseIdent("property name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(Eq); err != nil {
		return nil, err
	}
	origin := ruletree.Origin{Filename: p.filename, Line: p.last.Loc.Line}

	switch p.cur.Kind {
	case Int, Double, String, NumID, Ident:
	default:
		return nil, p.errf(p.cur.Loc, "%s cannot occur here. Expected property value "+
			"(number, identifier, string, or boolean)", p.cur.Kind)
	}

	var value string
	if p.cur.Kind == String {
		value, err = p.cur.StringValue.Resolve(nil)
		if err != nil {
			return nil, err
		}
	} else {
		value = p.cur.Value
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &propDef{name: name, value: value, origin: origin, override: override}, nil
}

func (p *parser) parseSelector() (selector.Selector, error) { return p.parseSum() }

func (p *parser) parseSum() (selector.Selector, error) {
	first, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []selector.Selector{first}
	for {
		ok, err := p.advanceIf(Comma)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return selector.Disj(terms), nil
}

func (p *parser) couldStartStep(tok Token) bool {
	return tok.Kind == Ident || tok.Kind == String || tok.Kind == LParen
}

func (p *parser) parseProduct() (selector.Selector, error) {
	first, err := p.parseStep()
	if err != nil {
		return nil, err
	}
	terms := []selector.Selector{first}
	for p.couldStartStep(p.cur) {
		t, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return selector.Conj(terms), nil
}

func (p *parser) parseStep() (selector.Selector, error) {
	if ok, err := p.advanceIf(LParen); err != nil {
		return nil, err
	} else if ok {
		sel, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RParen); err != nil {
			return nil, err
		}
		return sel, nil
	}
	key, err := p.parseSingleStep()
	if err != nil {
		return nil, err
	}
	return selector.Step{Key: key}, nil
}

func (p *parser) parseSingleStep() (selector.Key, error) {
	name, err := p.parseIdent("selector name")
	if err != nil {
		return selector.Key{}, err
	}
	values := map[string]struct{}{}
	if ok, err := p.advanceIf(Dot); err != nil {
		return selector.Key{}, err
	} else if ok {
		v, err := p.parseIdent("selector value")
		if err != nil {
			return selector.Key{}, err
		}
		values[v] = struct{}{}
	}
	return selector.NewKey(name, values), nil
}

func (p *parser) parseIdent(what string) (string, error) {
	if ok, err := p.advanceIf(Ident); err != nil {
		return "", err
	} else if ok {
		return p.last.Value, nil
	}
	if ok, err := p.advanceIf(String); err != nil {
		return "", err
	} else if ok {
		if p.last.StringValue.HasInterpolation() {
			return "", p.errf(p.last.Loc, "Interpolation not allowed in %s", what)
		}
		return p.last.StringValue.Resolve(nil)
	}
	return "", p.errf(p.cur.Loc, "%s cannot occur here. Expected %s", p.cur.Kind, what)
}
