// Package unit implements the unit/dimension algebra: a normal-form
// representation of algebraic expressions over unit and dimension
// identifiers, with simplification, cancellation and symbolic inversion.
package unit

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/numerobis-lang/numerobis/internal/source"
)

// Node is any node in a unit/dimension expression tree.
type Node interface {
	isUnitNode()
	String() string
}

// One is the multiplicative identity. It is falsy in boolean context and is
// produced only by Cancel; after Simplify it appears either alone or not at
// all.
type One struct{}

func (One) isUnitNode()   {}
func (One) String() string { return "1" }

// Scalar is an exact decimal literal, optionally carrying a unit expression
// it was written with (e.g. "5 km") and a placeholder flag marking the
// distinguished "_" slot substituted during preprocessing.
type Scalar struct {
	Value       decimal.Decimal
	Unit        Node
	Placeholder bool
}

func (*Scalar) isUnitNode() {}
func (s *Scalar) String() string {
	if s.Placeholder {
		return "_"
	}
	if s.Unit != nil {
		return fmt.Sprintf("%s %s", s.Value.String(), s.Unit.String())
	}
	return s.Value.String()
}

// NewScalar builds a plain Scalar from an int64, the common case in tests
// and constant-folding code.
func NewScalar(v int64) *Scalar {
	return &Scalar{Value: decimal.NewFromInt(v)}
}

// Identifier references a unit or dimension name, or the placeholder "_".
type Identifier struct {
	Name string
	Span source.Span
}

func (*Identifier) isUnitNode()     {}
func (i *Identifier) String() string { return i.Name }

// Constant references a function parameter by name.
type Constant struct {
	Name string
}

func (*Constant) isUnitNode()      {}
func (c *Constant) String() string { return c.Name }

// Product is an n-ary multiplicative node.
type Product struct {
	Values []Node
}

func (*Product) isUnitNode() {}
func (p *Product) String() string {
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "*")
}

// Sum is an n-ary additive node.
type Sum struct {
	Values []Node
}

func (*Sum) isUnitNode() {}
func (s *Sum) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "+")
}

// Power is base^exponent.
type Power struct {
	Base     Node
	Exponent Node
}

func (*Power) isUnitNode() {}
func (p *Power) String() string {
	return fmt.Sprintf("%s^%s", p.Base.String(), p.Exponent.String())
}

// Neg is unary negation.
type Neg struct {
	Value Node
}

func (*Neg) isUnitNode()      {}
func (n *Neg) String() string { return "-" + n.Value.String() }

// CallArg is a (possibly named) argument to a Call.
type CallArg struct {
	Name  string // empty when positional
	Value Node
}

// Call is emitted by inversion to represent a logarithm: logn(base, target).
type Call struct {
	Callee Node
	Args   []CallArg
}

func (*Call) isUnitNode() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.Value.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(parts, ", "))
}

// Expression is the outer wrapper of a unit/dimension expression, carrying
// its source span for diagnostics.
type Expression struct {
	Value Node
	Span  source.Span
}

func (*Expression) isUnitNode()      {}
func (e *Expression) String() string { return e.Value.String() }

// Unwrap peels Expression wrappers, returning the innermost node.
func Unwrap(n Node) Node {
	for {
		e, ok := n.(*Expression)
		if !ok {
			return n
		}
		n = e.Value
	}
}
