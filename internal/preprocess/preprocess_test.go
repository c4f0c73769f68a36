package preprocess

import (
	"testing"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

func newPreprocessor() *Preprocessor {
	ns := nsenv.New()
	r := errors.NewReporter("test.nb", "")
	return New(ns, r)
}

func TestUnitDefPrimitive(t *testing.T) {
	p := newPreprocessor()
	p.Start(&ast.Header{
		Units: []*ast.UnitDefinition{{Name: "meter"}},
	})
	if _, ok := p.Units["meter"]; !ok {
		t.Fatal("expected meter to be registered")
	}
	if _, ok := p.Bases["meter"]; !ok {
		t.Fatal("expected meter's base conversion to be registered")
	}
}

func TestUnitDefDerivedLinear(t *testing.T) {
	p := newPreprocessor()
	p.Start(&ast.Header{
		Units: []*ast.UnitDefinition{
			{Name: "meter"},
			{Name: "kilometer", Value: &unit.Product{Values: []unit.Node{
				unit.NewScalar(1000),
				&unit.Identifier{Name: "meter"},
			}}},
		},
	})
	if p.Logarithmic["kilometer"] {
		t.Fatal("expected a linear unit conversion, not logarithmic")
	}
	if _, ok := p.Inverted["kilometer"]; !ok {
		t.Fatal("expected kilometer to have an inverse")
	}
}

func TestNumberLiteralConversion(t *testing.T) {
	p := newPreprocessor()
	p.Start(&ast.Header{
		Units: []*ast.UnitDefinition{
			{Name: "meter"},
			{Name: "kilometer", Value: &unit.Product{Values: []unit.Node{
				unit.NewScalar(1000),
				&unit.Identifier{Name: "meter"},
			}}},
		},
	})
	lit := &ast.Number{Kind: ast.FloatLit, Value: "2", Unit: &ast.Unit{Value: &unit.Identifier{Name: "kilometer"}}}
	p.NS.Nodes[1] = lit
	p.process(lit, 1)

	got, ok := p.NS.Nodes[1].(*ast.Number)
	if !ok {
		t.Fatal("expected a rewritten Number node")
	}
	if got.Value == "2" {
		t.Fatalf("expected the literal to be converted to its base unit, got %q", got.Value)
	}
}
