package unit

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustEqual(t *testing.T, got, want Node) {
	t.Helper()
	if !Equals(got, want) {
		t.Fatalf("not equal:\n got:  %s\n want: %s", got.String(), want.String())
	}
}

func TestSimplifyConstantFold(t *testing.T) {
	s := NewSimplifier(nil)
	// 2 * 3 -> 6
	got := s.Simplify(&Product{Values: []Node{NewScalar(2), NewScalar(3)}}, false)
	mustEqual(t, got, &Expression{Value: NewScalar(6)})
}

func TestSimplifyPowerRules(t *testing.T) {
	s := NewSimplifier(nil)

	// x^1 -> x
	x := &Identifier{Name: "x"}
	got := s.Simplify(&Power{Base: x, Exponent: NewScalar(1)}, true)
	mustEqual(t, got, &Expression{Value: x})

	// x^0 -> 1, cancel leaves One
	got2 := s.Simplify(&Power{Base: x, Exponent: NewScalar(0)}, true)
	if _, ok := got2.(*One); !ok {
		t.Fatalf("expected One, got %s", got2.String())
	}

	// (x^2)^3 -> x^6
	nested := &Power{Base: &Power{Base: x, Exponent: NewScalar(2)}, Exponent: NewScalar(3)}
	got3 := s.Simplify(nested, true)
	mustEqual(t, got3, &Expression{Value: &Power{Base: x, Exponent: NewScalar(6)}})
}

func TestSimplifyProductMergesEqualBases(t *testing.T) {
	s := NewSimplifier(nil)
	m := &Identifier{Name: "m"}
	// m * m -> m^2
	got := s.Simplify(&Product{Values: []Node{m, m}}, true)
	mustEqual(t, got, &Expression{Value: &Power{Base: m, Exponent: NewScalar(2)}})
}

func TestSimplifySumCombinesLikeTerms(t *testing.T) {
	s := NewSimplifier(nil)
	m := &Identifier{Name: "m"}
	// m + m -> 2*m
	got := s.Simplify(&Sum{Values: []Node{m, m}}, false)
	mustEqual(t, got, &Expression{Value: &Product{Values: []Node{NewScalar(2), m}}})
}

func TestIsLinear(t *testing.T) {
	x := &Scalar{Placeholder: true}
	if !IsLinear(&Product{Values: []Node{NewScalar(2), x}}) {
		t.Fatal("2*_ should be linear")
	}
	if IsLinear(&Sum{Values: []Node{x, &Product{Values: []Node{x, x}}}}) {
		t.Fatal("_ + _*_ should not be linear")
	}
}

func TestInvertLinear(t *testing.T) {
	// f(_) = 2*_ + 3  =>  _ = (x - 3) / 2
	two := NewScalar(2)
	three := NewScalar(3)
	placeholder := &Identifier{Name: "_"}
	expr := &Sum{Values: []Node{&Product{Values: []Node{two, placeholder}}, three}}

	inverted := Invert(expr)
	s := NewSimplifier(nil)
	simplified := s.Simplify(inverted, false)

	x := &Identifier{Name: "x"}
	want := &Expression{Value: &Product{Values: []Node{
		&Scalar{Value: decimal.NewFromFloat(0.5)},
		&Sum{Values: []Node{NewScalar(-3), x}},
	}}}
	mustEqual(t, simplified, want)
}

func TestContainsVar(t *testing.T) {
	placeholder := &Identifier{Name: "_"}
	if !ContainsVar(&Product{Values: []Node{placeholder, NewScalar(2)}}) {
		t.Fatal("expected ContainsVar true")
	}
	if ContainsVar(&Product{Values: []Node{NewScalar(2), NewScalar(3)}}) {
		t.Fatal("expected ContainsVar false")
	}
}
