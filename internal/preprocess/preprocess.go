// Package preprocess implements the Preprocessor (spec C5): it expands
// every unit declaration into a normal-form expression over the
// placeholder "_", records its inverse and base-unit conversion, and
// rewrites every numeric literal in the program to its value in that base.
// Grounded on original_source/src/numerobis/analysis/preprocessor.py.
package preprocess

import (
	"github.com/shopspring/decimal"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

var placeholder = &unit.Identifier{Name: "_"}

// Preprocessor resolves unit declarations and literal conversions against a
// shared Namespaces, grounded on preprocessor.py's Preprocessor class.
type Preprocessor struct {
	NS          *nsenv.Namespaces
	Errors      *errors.Reporter
	simplifier  *unit.Simplifier
	Units       map[string]unit.Node // name -> resolved Expression(_)
	Inverted    map[string]unit.Node // name -> inverse of Units[name]
	Bases       map[string]unit.Node // name -> conversion to the dimension's base unit
	Logarithmic map[string]bool
}

// New builds a Preprocessor over ns, reporting through errs.
func New(ns *nsenv.Namespaces, errs *errors.Reporter) *Preprocessor {
	return &Preprocessor{
		NS:          ns,
		Errors:      errs,
		simplifier:  unit.NewSimplifier(errs),
		Units:       map[string]unit.Node{},
		Inverted:    map[string]unit.Node{},
		Bases:       map[string]unit.Node{},
		Logarithmic: map[string]bool{},
	}
}

func (p *Preprocessor) simplify(n unit.Node, doCancel bool) unit.Node {
	return p.simplifier.Simplify(n, doCancel)
}

// Start expands every header unit declaration, then rewrites every linked
// numeric literal in the program's node table to its base-unit value.
func (p *Preprocessor) Start(header *ast.Header) {
	for _, u := range header.Units {
		p.unitDef(u)
	}
	for link, node := range p.NS.Nodes {
		p.process(node, link)
	}
}

func (p *Preprocessor) process(node ast.Node, link uint64) {
	if num, ok := node.(*ast.Number); ok {
		p.number(num, link)
	}
}

func (p *Preprocessor) number(node *ast.Number, link uint64) {
	if node.Unit == nil {
		return
	}
	lit, err := decimal.NewFromString(node.Value)
	if err != nil {
		return
	}
	res := p.resolve(&unit.Scalar{Value: lit, Unit: unit.Cancel(node.Unit.Value)}, nil)

	num := p.simplify(res, false)
	expr, ok := num.(*unit.Expression)
	if !ok {
		return
	}
	scalar, ok := expr.Value.(*unit.Scalar)
	if !ok {
		return
	}

	p.NS.Nodes[link] = &ast.Number{Kind: node.Kind, Value: scalar.Value.String(), Unit: node.Unit, Pos: node.Pos}
}

func (p *Preprocessor) unitDef(def *ast.UnitDefinition) {
	var expr unit.Node
	if def.Value == nil || isOne(def.Value) {
		expr = &unit.Expression{Value: placeholder}
	} else {
		resolved := p.resolve(def.Value, placeholder)
		if unit.IsLinearActive(resolved.Value) && !unit.ContainsSum(resolved.Value) {
			val := resolved.Value
			if prod, ok := val.(*unit.Product); ok {
				val = &unit.Product{Values: append([]unit.Node{placeholder}, prod.Values...)}
			} else {
				val = &unit.Product{Values: []unit.Node{placeholder, resolved}}
			}
			expr = &unit.Expression{Value: val}
		} else {
			expr = resolved
		}
	}

	expr = p.resolve(expr, nil)

	name := def.Name

	inverted := unit.Invert(p.simplify(expr, false))
	inverted = p.simplify(inverted, false)
	if _, ok := unit.Unwrap(inverted).(*unit.One); ok {
		inverted = &unit.Expression{Value: &unit.Identifier{Name: "x"}}
	}

	p.Units[name] = expr
	p.Inverted[name] = inverted
	p.NS.Units[name] = expr

	isSum := unit.ContainsSum(expr)

	var base unit.Node
	if isSum {
		base = &unit.One{}
	} else {
		base = unit.CancelOrNil(p.toBase(expr))
		if base == nil {
			base = &unit.One{}
		} else {
			base = p.simplify(base, true)
			base = unit.Invert(base)
		}
	}

	p.Bases[name] = &unit.Expression{Value: unit.ToX(base)}
	if !unit.IsLinear(expr) || isSum {
		p.Logarithmic[name] = true
	}
}

func isOne(n unit.Node) bool {
	_, ok := unit.Unwrap(n).(*unit.One)
	return ok
}

// resolve fully substitutes every unit identifier in node by its definition,
// wrapping the result as an Expression. n is substituted for the "_"
// placeholder (defaulting to the placeholder identifier itself, leaving it
// unresolved).
func (p *Preprocessor) resolve(node unit.Node, n unit.Node) *unit.Expression {
	if n == nil {
		n = placeholder
	}
	resolved := p.resolveNode(node, n)
	if expr, ok := resolved.(*unit.Expression); ok {
		return expr
	}
	return &unit.Expression{Value: resolved}
}

func (p *Preprocessor) resolveNode(node unit.Node, n unit.Node) unit.Node {
	switch v := node.(type) {
	case *unit.Neg:
		return &unit.Neg{Value: p.resolveNode(v.Value, n)}
	case *unit.Expression:
		return p.resolveNode(v.Value, n)
	case *unit.Product:
		return &unit.Product{Values: p.resolveAll(v.Values, n)}
	case *unit.Sum:
		return &unit.Sum{Values: p.resolveAll(v.Values, n)}
	case *unit.Power:
		return &unit.Power{Base: p.resolveNode(v.Base, n), Exponent: p.resolveNode(v.Exponent, n)}
	case *unit.Scalar:
		return p.resolveScalar(v, n)
	case *unit.Identifier:
		if v.Name == "_" {
			return n
		}
		val, ok := p.Units[v.Name]
		if !ok {
			return v
		}
		res := p.resolveNode(val, n)
		if expr, ok := res.(*unit.Expression); ok {
			return expr.Value
		}
		return res
	default:
		return node
	}
}

func (p *Preprocessor) resolveAll(values []unit.Node, n unit.Node) []unit.Node {
	out := make([]unit.Node, len(values))
	for i, v := range values {
		out[i] = p.resolveNode(v, n)
	}
	return out
}

func (p *Preprocessor) resolveScalar(node *unit.Scalar, n unit.Node) unit.Node {
	if node.Unit == nil {
		return node
	}
	var value unit.Node
	if node.Placeholder {
		value = n
	} else {
		value = &unit.Scalar{Value: node.Value}
	}

	base := unit.CancelOrNil(p.toBase(node.Unit))
	if base == nil {
		base = unit.NewScalar(1)
	}

	res := p.resolveNode(&unit.Product{Values: []unit.Node{node.Unit, &unit.Power{Base: base, Exponent: unit.NewScalar(-1)}}}, placeholder)

	isSum := unit.ContainsSum(res)
	if isSum {
		res = p.resolveNode(&unit.Product{Values: []unit.Node{node.Unit, unit.NewScalar(1)}}, placeholder)
	}

	res = p.simplify(res, false)

	if unit.IsLinear(res) && !isSum {
		res = &unit.Product{Values: []unit.Node{placeholder, res}}
	}

	return p.resolveNode(res, value)
}

// toBase strips every scalar coefficient out of node's unit references,
// leaving a pure conversion factor to the dimension's base unit.
func (p *Preprocessor) toBase(node unit.Node) unit.Node {
	switch v := node.(type) {
	case *unit.Expression:
		return &unit.Expression{Value: p.toBase(v.Value), Span: v.Span}
	case *unit.Neg:
		return &unit.Neg{Value: p.toBase(v.Value)}
	case *unit.Product:
		return &unit.Product{Values: p.toBaseAllNonScalar(v.Values)}
	case *unit.Sum:
		return &unit.Sum{Values: p.toBaseAllNonScalar(v.Values)}
	case *unit.Power:
		return &unit.Power{Base: p.toBase(v.Base), Exponent: p.toBase(v.Exponent)}
	case *unit.Identifier:
		value, ok := p.Units[v.Name]
		if !ok {
			return v
		}
		if expr, ok := value.(*unit.Expression); ok {
			if id, ok := expr.Value.(*unit.Identifier); ok && id.Name == "_" {
				if dim, ok := p.NS.Dimensionized[v.Name]; ok && dim != nil {
					return placeholder
				}
				return unit.NewScalar(1)
			}
		}
		return p.toBase(value)
	default:
		return node
	}
}

func (p *Preprocessor) toBaseAllNonScalar(values []unit.Node) []unit.Node {
	var out []unit.Node
	for _, v := range values {
		converted := p.toBase(v)
		if _, isScalar := converted.(*unit.Scalar); isScalar {
			continue
		}
		out = append(out, converted)
	}
	return out
}
