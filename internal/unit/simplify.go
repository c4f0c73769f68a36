package unit

import (
	"github.com/shopspring/decimal"

	"github.com/numerobis-lang/numerobis/internal/source"
)

// ErrorSink reports a coded diagnostic at a span. Simplify calls it when a
// Sum mixes incompatible bases (code 543); Simplifier.Errors may be nil, in
// which case such mismatches are silently left unreduced (used by callers
// that only want a best-effort simplification, e.g. pretty-printing).
type ErrorSink interface {
	Throw(code int, span source.Span, args ...any)
}

// Simplifier reduces a UnitNode to algebraic normal form: flattened
// Product/Sum, constant-folded Scalars, merged equal bases with summed
// exponents or coefficients. Grounded on
// original_source/src/numerobis/analysis/simplifier.py.
type Simplifier struct {
	Errors ErrorSink
}

// NewSimplifier builds a Simplifier reporting mismatches to errs.
func NewSimplifier(errs ErrorSink) *Simplifier {
	return &Simplifier{Errors: errs}
}

// Simplify fully reduces node, optionally cancelling neutral elements
// (doCancel mirrors the Python original's identically-named parameter), and
// always returns an *Expression or *One.
func (s *Simplifier) Simplify(node Node, doCancel bool) Node {
	res := s.simplify(node)
	if doCancel {
		res = Cancel(res)
	}
	switch res.(type) {
	case *Expression, *One:
		return res
	default:
		return &Expression{Value: res}
	}
}

func (s *Simplifier) simplify(node Node) Node {
	switch n := node.(type) {
	case *Call:
		return s.call(n)
	case *Expression:
		return s.expression(n)
	case *Neg:
		return s.neg(n)
	case *Power:
		return s.power(n)
	case *Product:
		return s.product(n)
	case *Sum:
		return s.sum(n)
	default:
		return node
	}
}

func (s *Simplifier) call(n *Call) *Call {
	args := make([]CallArg, len(n.Args))
	for i, a := range n.Args {
		args[i] = CallArg{Name: a.Name, Value: s.simplify(a.Value)}
	}
	return &Call{Callee: n.Callee, Args: args}
}

func (s *Simplifier) expression(n *Expression) Node {
	return s.simplify(n.Value)
}

func (s *Simplifier) neg(n *Neg) Node {
	val := s.simplify(n.Value)
	switch v := val.(type) {
	case *One:
		return &Scalar{Value: decimal.NewFromInt(-1)}
	case *Scalar:
		return &Scalar{Value: v.Value.Neg()}
	}
	return &Neg{Value: val}
}

func (s *Simplifier) power(n *Power) Node {
	base := s.simplify(n.Base)
	exp := s.simplify(n.Exponent)

	if es, ok := exp.(*Scalar); ok {
		if es.Value.IsZero() {
			return &Scalar{Value: decimal.NewFromInt(1)}
		}
		if es.Value.Equal(decimal.NewFromInt(1)) {
			return base
		}
	}

	switch b := base.(type) {
	case *One:
		return &Scalar{Value: decimal.NewFromInt(1)}
	case *Scalar:
		if es, ok := exp.(*Scalar); ok {
			return &Scalar{Value: b.Value.Pow(es.Value)}
		}
	case *Power:
		// (x^a)^b -> x^(a*b)
		newExp := s.simplify(&Product{Values: []Node{b.Exponent, exp}})
		return &Power{Base: b.Base, Exponent: newExp}
	case *Product:
		// (a*b)^n -> a^n * b^n
		newVals := make([]Node, len(b.Values))
		for i, v := range b.Values {
			newVals[i] = &Power{Base: v, Exponent: exp}
		}
		return s.simplify(&Product{Values: newVals})
	}

	return &Power{Base: base, Exponent: exp}
}

// flatten simplifies each child and splices in children of the same
// operator kind (Product inside Product, Sum inside Sum), dropping *One.
func (s *Simplifier) flatten(values []Node, wantProduct bool) []Node {
	var flat []Node
	for _, v := range values {
		sv := s.simplify(v)
		if wantProduct {
			if p, ok := sv.(*Product); ok {
				flat = append(flat, p.Values...)
				continue
			}
		} else {
			if sum, ok := sv.(*Sum); ok {
				flat = append(flat, sum.Values...)
				continue
			}
		}
		if _, ok := sv.(*One); ok {
			continue
		}
		flat = append(flat, sv)
	}
	return flat
}

func finalizeProduct(values []Node, identity int64) Node {
	if len(values) == 0 {
		return &Scalar{Value: decimal.NewFromInt(identity)}
	}
	if len(values) == 1 {
		return values[0]
	}
	return &Product{Values: values}
}

func finalizeSum(values []Node, identity int64) Node {
	if len(values) == 0 {
		return &Scalar{Value: decimal.NewFromInt(identity)}
	}
	if len(values) == 1 {
		return values[0]
	}
	return &Sum{Values: values}
}

// decompose extracts the (coefficient, base) pair from a term, e.g.
// 2*x -> (2, x).
func decompose(node Node) (decimal.Decimal, Node) {
	if p, ok := node.(*Product); ok {
		var scalars []*Scalar
		var others []Node
		for _, v := range p.Values {
			if sc, ok := v.(*Scalar); ok {
				scalars = append(scalars, sc)
			} else {
				others = append(others, v)
			}
		}
		if len(scalars) > 0 {
			coeff := decimal.NewFromInt(1)
			for _, sc := range scalars {
				coeff = coeff.Mul(sc.Value)
			}
			if len(others) == 0 {
				return coeff, &One{}
			}
			if len(others) == 1 {
				return coeff, others[0]
			}
			return coeff, &Product{Values: others}
		}
	}
	return decimal.NewFromInt(1), node
}

func (s *Simplifier) product(n *Product) Node {
	terms := s.flatten(n.Values, true)

	scalarAcc := decimal.NewFromInt(1)
	groups := groupByBase(filterNonScalarAsPowerBase(terms), powerBaseKey)

	for _, term := range terms {
		if sc, ok := term.(*Scalar); ok {
			scalarAcc = scalarAcc.Mul(sc.Value)
		}
	}

	var newValues []Node
	if !scalarAcc.Equal(decimal.NewFromInt(1)) {
		newValues = append(newValues, &Scalar{Value: scalarAcc})
	}

	for _, g := range groups {
		var totalExp Node
		if len(g.members) > 1 {
			totalExp = s.sum(&Sum{Values: exponentsOf(g.members)})
		} else {
			totalExp = exponentsOf(g.members)[0]
		}

		if es, ok := totalExp.(*Scalar); ok {
			if es.Value.IsZero() {
				continue
			}
			if es.Value.Equal(decimal.NewFromInt(1)) {
				newValues = append(newValues, g.key)
				continue
			}
		}
		newValues = append(newValues, &Power{Base: g.key, Exponent: totalExp})
	}

	return finalizeProduct(newValues, 1)
}

// filterNonScalarAsPowerBase drops Scalars (accumulated separately) from
// the product's remaining terms, keeping them in original order for
// grouping.
func filterNonScalarAsPowerBase(terms []Node) []Node {
	var out []Node
	for _, t := range terms {
		if _, ok := t.(*Scalar); ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func powerBaseKey(n Node) Node {
	if p, ok := n.(*Power); ok {
		return p.Base
	}
	return n
}

func exponentsOf(members []Node) []Node {
	exps := make([]Node, len(members))
	for i, m := range members {
		if p, ok := m.(*Power); ok {
			exps[i] = p.Exponent
		} else {
			exps[i] = &Scalar{Value: decimal.NewFromInt(1)}
		}
	}
	return exps
}

func (s *Simplifier) sum(n *Sum) Node {
	terms := s.flatten(n.Values, false)

	scalarAcc := decimal.NewFromInt(0)
	var refBase Node

	type bucket struct {
		base  Node
		total decimal.Decimal
	}
	var buckets []bucket

	addTo := func(base Node, coeff decimal.Decimal) {
		for i := range buckets {
			if Equals(buckets[i].base, base) {
				buckets[i].total = buckets[i].total.Add(coeff)
				return
			}
		}
		buckets = append(buckets, bucket{base: base, total: coeff})
	}

	for _, term := range terms {
		if sc, ok := term.(*Scalar); ok && sc.Unit == nil {
			scalarAcc = scalarAcc.Add(sc.Value)
			continue
		}

		coeff, base := decompose(term)

		if _, ok := base.(*One); ok {
			scalarAcc = scalarAcc.Add(coeff)
			continue
		}

		if refBase == nil {
			refBase = base
		} else if !Equals(base, refBase) {
			if s.Errors != nil {
				s.Errors.Throw(543, spanOf(term))
			}
		}

		addTo(base, coeff)
	}

	var newValues []Node
	if !scalarAcc.IsZero() {
		newValues = append(newValues, &Scalar{Value: scalarAcc})
	}

	for _, b := range buckets {
		if b.total.IsZero() {
			continue
		}
		if b.total.Equal(decimal.NewFromInt(1)) {
			newValues = append(newValues, b.base)
			continue
		}
		if p, ok := b.base.(*Product); ok {
			newValues = append(newValues, &Product{Values: append([]Node{&Scalar{Value: b.total}}, p.Values...)})
		} else {
			newValues = append(newValues, &Product{Values: []Node{&Scalar{Value: b.total}, b.base}})
		}
	}

	return finalizeSum(newValues, 0)
}

// spanOf extracts a best-effort source span for diagnostics; most
// UnitNode variants do not carry one, so it returns the zero Span when
// unavailable.
func spanOf(n Node) source.Span {
	switch v := Unwrap(n).(type) {
	case *Identifier:
		return v.Span
	case *Expression:
		return v.Span
	default:
		return source.Span{}
	}
}
