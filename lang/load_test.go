package lang

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/hellige/ccs-go/ruletree"
)

func TestLoadFlatProperties(t *testing.T) {
	root := ruletree.NewRoot(100)
	src := `greeting = "hi"; count = 42;`
	if err := Load(strings.NewReader(src), "t.ccs", nil, root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(root.Props) != 2 {
		t.Fatalf("expected 2 properties on root, got %d", len(root.Props))
	}
	if root.Props[0].Name != "greeting" || root.Props[0].Property.Value != "hi" {
		t.Fatalf("got %+v", root.Props[0])
	}
	if root.Props[1].Name != "count" || root.Props[1].Property.Value != "42" {
		t.Fatalf("got %+v", root.Props[1])
	}
}

func TestLoadNestedSelectorScope(t *testing.T) {
	root := ruletree.NewRoot(100)
	src := `env.prod { mode = "live"; }`
	if err := Load(strings.NewReader(src), "t.ccs", nil, root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected a single nested scope, got %d children", len(root.Children))
	}
	child := root.Children[0]
	if len(child.Props) != 1 || child.Props[0].Name != "mode" {
		t.Fatalf("got %+v", child.Props)
	}
}

func TestLoadColonShorthandAndOverride(t *testing.T) {
	root := ruletree.NewRoot(100)
	src := `env.prod: @override mode = "forced";`
	if err := Load(strings.NewReader(src), "t.ccs", nil, root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected a single nested scope from the colon form, got %d", len(root.Children))
	}
	child := root.Children[0]
	if len(child.Props) != 1 || child.Props[0].Property.OverrideLevel != 1 {
		t.Fatalf("expected an @override property, got %+v", child.Props)
	}
}

func TestLoadConstraint(t *testing.T) {
	root := ruletree.NewRoot(100)
	src := `env.prod { @constrain region.us; mode = "live"; }`
	if err := Load(strings.NewReader(src), "t.ccs", nil, root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	child := root.Children[0]
	if len(child.Constraints) != 1 || child.Constraints[0].Name != "region" {
		t.Fatalf("got %+v", child.Constraints)
	}
}

func TestLoadParseErrorLeavesRootUntouched(t *testing.T) {
	root := ruletree.NewRoot(100)
	root.AddProperty("existing", "1", ruletree.Origin{}, false)
	src := `good = "value"; env.prod { `
	if err := Load(strings.NewReader(src), "t.ccs", nil, root); err == nil {
		t.Fatalf("expected a parse error for an unterminated nested scope")
	}
	if len(root.Props) != 1 {
		t.Fatalf("expected the rule tree to be untouched after a parse failure, got %+v", root.Props)
	}
}

type mapResolver map[string]string

func (m mapResolver) Resolve(location string) (io.Reader, error) {
	src, ok := m[location]
	if !ok {
		return nil, fmt.Errorf("no such import: %s", location)
	}
	return strings.NewReader(src), nil
}

func TestLoadResolvesImport(t *testing.T) {
	resolver := mapResolver{
		"common.ccs": `shared = "yes";`,
	}
	root := ruletree.NewRoot(100)
	src := `@import "common.ccs"; local = "also";`
	if err := Load(strings.NewReader(src), "t.ccs", resolver, root); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(root.Props) != 2 {
		t.Fatalf("expected both the imported and local property, got %+v", root.Props)
	}
	if root.Props[0].Name != "shared" || root.Props[1].Name != "local" {
		t.Fatalf("got %+v", root.Props)
	}
}

func TestLoadCircularImportIsSkippedSilently(t *testing.T) {
	resolver := mapResolver{
		"a.ccs": `@import "b.ccs"; from_a = "1";`,
		"b.ccs": `@import "a.ccs"; from_b = "1";`,
	}
	root := ruletree.NewRoot(100)
	src := `@import "a.ccs";`
	if err := Load(strings.NewReader(src), "t.ccs", resolver, root); err != nil {
		t.Fatalf("expected circular imports to be skipped rather than erroring: %v", err)
	}
	names := map[string]bool{}
	for _, p := range root.Props {
		names[p.Name] = true
	}
	if !names["from_a"] || !names["from_b"] {
		t.Fatalf("expected both non-circular properties to load, got %+v", root.Props)
	}
}

func TestParseSelectorStandalone(t *testing.T) {
	sel, err := ParseSelector(strings.NewReader("env.prod, env.staging"), "ctx")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}
	if sel == nil {
		t.Fatalf("expected a non-nil selector")
	}
}
