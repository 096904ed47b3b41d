package stringval

import "testing"

func TestHasInterpolationTruthTable(t *testing.T) {
	cases := []struct {
		name string
		sv   StringVal
		want bool
	}{
		{"empty", StringVal{}, false},
		{"single literal", StringVal{Elements: []Element{Literal{Text: "hi"}}}, false},
		{"single interpolant", StringVal{Elements: []Element{Interpolant{Expr: "1+1"}}}, true},
		{"literal then interpolant", StringVal{Elements: []Element{
			Literal{Text: "x="}, Interpolant{Expr: "1+1"},
		}}, true},
		{"two literals", StringVal{Elements: []Element{
			Literal{Text: "a"}, Literal{Text: "b"},
		}}, true},
	}
	for _, c := range cases {
		if got := c.sv.HasInterpolation(); got != c.want {
			t.Errorf("%s: HasInterpolation() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestAddLiteralSkipsEmptyRuns(t *testing.T) {
	var s StringVal
	s.AddLiteral("")
	if len(s.Elements) != 0 {
		t.Fatalf("expected an empty literal run to be skipped, got %d elements", len(s.Elements))
	}
	s.AddLiteral("hi")
	if len(s.Elements) != 1 {
		t.Fatalf("expected one element after a non-empty literal, got %d", len(s.Elements))
	}
}

func TestResolvePlainLiteral(t *testing.T) {
	var s StringVal
	s.AddLiteral("hello world")
	out, err := s.Resolve(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("got %q", out)
	}
}

func TestResolveInterpolatesAgainstEnv(t *testing.T) {
	var s StringVal
	s.AddLiteral("host-")
	s.AddInterpolant("region")
	s.AddLiteral(".example.com")

	out, err := s.Resolve(map[string]string{"region": "us-east"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "host-us-east.example.com" {
		t.Fatalf("got %q", out)
	}
}

func TestResolveInterpolantExpression(t *testing.T) {
	var s StringVal
	s.AddInterpolant(`name + "-1"`)
	out, err := s.Resolve(map[string]string{"name": "prod"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "prod-1" {
		t.Fatalf("got %q", out)
	}
}

func TestResolveReportsCompileError(t *testing.T) {
	var s StringVal
	s.AddInterpolant("this is not valid (((")
	if _, err := s.Resolve(nil); err == nil {
		t.Fatalf("expected a compile error for malformed expr-lang syntax")
	}
}

func TestResolveReportsUndefinedVariable(t *testing.T) {
	var s StringVal
	s.AddInterpolant("missing")
	if _, err := s.Resolve(map[string]string{"present": "x"}); err == nil {
		t.Fatalf("expected an evaluation error for an undefined variable")
	}
}

func TestStringStringerSwallowsErrors(t *testing.T) {
	var s StringVal
	s.AddInterpolant("this is not valid (((")
	if got := s.String(); got != "" {
		t.Fatalf("expected String() to fall back to empty on error, got %q", got)
	}
}
