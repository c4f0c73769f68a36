// Package dimcheck implements the Dimchecker (spec C4): it resolves a
// module's `dimension`/`unit` header declarations into normal-form unit
// expressions in the shared Namespaces, and exposes Dimensionize, the
// recursive translation of a unit.Node written against dimension/unit names
// into one written against dimensions only — the same walk the typechecker
// (C6) calls when checking a `[Dim]` annotation on a value. Grounded on
// original_source/src/numerobis/analysis/dimchecker.py, translated from
// Python's camel2snake-dispatched methods to an explicit Go type switch.
package dimcheck

import (
	"strings"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/source"
	"github.com/numerobis-lang/numerobis/internal/types"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

// Mode selects which namespace an Identifier resolves against: a bare
// dimension name, or a previously dimensionized unit name.
type Mode int

const (
	ModeDimension Mode = iota
	ModeUnit
)

// Dimchecker resolves dimension/unit header declarations against a shared
// Namespaces, grounded on dimchecker.py's Dimchecker class.
type Dimchecker struct {
	NS         *nsenv.Namespaces
	Errors     *errors.Reporter
	simplifier *unit.Simplifier
}

// New builds a Dimchecker over ns, reporting through errs.
func New(ns *nsenv.Namespaces, errs *errors.Reporter) *Dimchecker {
	return &Dimchecker{NS: ns, Errors: errs, simplifier: unit.NewSimplifier(errs)}
}

func (d *Dimchecker) simplify(n unit.Node, doCancel bool) unit.Node {
	return d.simplifier.Simplify(n, doCancel)
}

// Start processes every dimension then every unit declaration in header, in
// that order (units may reference dimensions but not vice versa).
func (d *Dimchecker) Start(header *ast.Header) {
	for _, node := range header.Dimensions {
		d.processDimension(node)
	}
	for _, node := range header.Units {
		d.processUnit(node)
	}
}

func isReservedTypeName(name string) bool {
	for _, n := range types.ReservedTypeNames {
		if n == name {
			return true
		}
	}
	return false
}

func (d *Dimchecker) processDimension(node *ast.DimensionDefinition) {
	pos := node.Pos
	if _, taken := d.NS.Dimensionized[node.Name]; taken {
		d.Errors.Throw(603, source.Span{Start: pos, End: pos}, "name", node.Name)
	}
	if _, taken := d.NS.Dimensions[node.Name]; taken {
		d.Errors.Throw(603, source.Span{Start: pos, End: pos}, "name", node.Name)
	}

	var dimension unit.Node
	if node.Value != nil {
		dimension = d.Dimensionize(node.Value, ModeDimension)
	} else {
		dimension = &unit.Expression{Value: &unit.Identifier{Name: node.Name, Span: source.Span{Start: pos, End: pos}}}
	}

	d.NS.Dimensions[node.Name] = d.simplify(dimension, true)
}

func (d *Dimchecker) processUnit(node *ast.UnitDefinition) {
	pos := node.Pos
	if _, taken := d.NS.Dimensionized[node.Name]; taken {
		d.Errors.Throw(603, source.Span{Start: pos, End: pos}, "name", node.Name)
	}
	if _, taken := d.NS.Dimensions[node.Name]; taken {
		d.Errors.Throw(603, source.Span{Start: pos, End: pos}, "name", node.Name)
	}

	var dimension unit.Node
	if node.Dimension != nil {
		if node.Dimension.Name != "1" {
			found, ok := d.NS.Dimensions[node.Dimension.Name]
			if !ok {
				suggestion, hasSuggestion := d.NS.SuggestDimension(node.Dimension.Name)
				help := ""
				if hasSuggestion {
					help = "did you mean '" + suggestion + "'?"
				}
				d.Errors.Throw(602, node.Dimension.Span, "kind", "dimension", "name", node.Dimension.Name, "help", help)
			}
			dimension = found
		} else {
			dimension = &unit.One{}
		}
	}

	var value unit.Node
	if node.Value != nil {
		value = d.Dimensionize(node.Value, ModeUnit)
		value = d.simplify(value, true)

		if node.Dimension != nil && !unit.Equals(value, dimension) {
			d.Errors.Throw(704, source.Span{Start: pos, End: pos},
				"name", node.Name, "expected", dimensionString(dimension), "actual", dimensionString(value))
		} else if node.Dimension == nil {
			dimension = value
		}
	}

	if node.Dimension == nil && node.Value == nil {
		titled := strings.ToUpper(node.Name[:1]) + node.Name[1:]
		dimension = &unit.Expression{Value: &unit.Identifier{Name: titled, Span: source.Span{Start: pos, End: pos}}}

		if _, clash := d.NS.Dimensionized[titled]; clash || titled == node.Name || !isLetter(node.Name[0]) || isReservedTypeName(node.Name) {
			d.Errors.Throw(705, source.Span{Start: pos, End: pos}, "name", node.Name)
		}
		if _, exists := d.NS.Dimensions[titled]; !exists {
			d.NS.Dimensions[titled] = dimension
		}
	}

	d.NS.Dimensionized[node.Name] = dimension
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func dimensionString(n unit.Node) string {
	if n == nil {
		return "?"
	}
	return n.String()
}

// Dimensionize recursively rewrites node (written against dimension/unit
// identifiers) into a unit expression over dimensions only, resolving every
// Identifier through the namespace selected by mode.
func (d *Dimchecker) Dimensionize(node unit.Node, mode Mode) unit.Node {
	switch n := node.(type) {
	case *unit.Expression:
		return d.expression(n, mode)
	case *unit.Identifier:
		return d.identifier(n, mode)
	case *unit.Neg:
		return d.neg(n, mode)
	case *unit.Power:
		return d.power(n, mode)
	case *unit.Product:
		return d.product(n, mode)
	case *unit.Sum:
		return d.sum(n, mode)
	case *unit.Scalar:
		return d.scalar(n, mode)
	case *unit.One:
		return n
	case *unit.Constant:
		return n
	default:
		panic("dimcheck: unit node type not implemented")
	}
}

func (d *Dimchecker) expression(node *unit.Expression, mode Mode) *unit.Expression {
	if node.Value == nil {
		return node
	}
	if _, ok := node.Value.(*unit.One); ok {
		return node
	}
	return &unit.Expression{Value: d.Dimensionize(node.Value, mode), Span: node.Span}
}

func (d *Dimchecker) identifier(node *unit.Identifier, mode Mode) unit.Node {
	if isReservedTypeName(node.Name) {
		kind := "dimension"
		if mode == ModeUnit {
			kind = "unit"
		}
		d.Errors.Throw(503, node.Span, "node", node.Name, "actual", kind)
	}

	if node.Name == "_" {
		return &unit.One{}
	}

	var resolved unit.Node
	var ok bool
	kind := "dimension"
	if mode == ModeDimension {
		resolved, ok = d.NS.Dimensions[node.Name]
	} else {
		kind = "unit"
		resolved, ok = d.NS.Dimensionized[node.Name]
	}

	if !ok {
		var suggestion string
		var hasSuggestion bool
		if mode == ModeDimension {
			suggestion, hasSuggestion = d.NS.SuggestDimension(node.Name)
		} else {
			suggestion, hasSuggestion = d.NS.SuggestDimensionized(node.Name)
		}
		help := ""
		if hasSuggestion {
			help = "did you mean '" + suggestion + "'?"
		}
		d.Errors.Throw(602, node.Span, "kind", kind, "name", node.Name, "help", help)
		return &unit.One{}
	}

	if expr, ok := resolved.(*unit.Expression); ok {
		resolved = expr.Value
	}
	return withSpan(resolved, node.Span)
}

// withSpan mirrors the Python original's `dataclasses.replace(resolved,
// loc=node.loc)` for the one node kind that carries a Span: an Identifier
// is copied with its Span replaced, every other node is returned unchanged.
func withSpan(n unit.Node, span source.Span) unit.Node {
	switch v := n.(type) {
	case *unit.Identifier:
		return &unit.Identifier{Name: v.Name, Span: span}
	default:
		return n
	}
}

func (d *Dimchecker) neg(node *unit.Neg, mode Mode) unit.Node {
	value := d.Dimensionize(node.Value, mode)
	if s, ok := value.(*unit.Scalar); ok {
		return &unit.Scalar{Value: s.Value.Neg(), Unit: s.Unit, Placeholder: s.Placeholder}
	}
	return &unit.Neg{Value: value}
}

func (d *Dimchecker) power(node *unit.Power, mode Mode) unit.Node {
	base := d.Dimensionize(node.Base, mode)
	exponent := d.Dimensionize(node.Exponent, mode)
	exponent = d.simplify(exponent, false)

	if expr, ok := exponent.(*unit.Expression); ok {
		exponent = expr.Value
	}
	exponentScalar, ok := exponent.(*unit.Scalar)
	if !ok {
		d.Errors.Throw(101, source.Span{}, "value", dimensionString(exponent))
		return &unit.Power{Base: base, Exponent: exponent}
	}

	if baseScalar, ok := base.(*unit.Scalar); ok {
		return &unit.Scalar{Value: baseScalar.Value.Pow(exponentScalar.Value), Unit: baseScalar.Unit}
	}
	return &unit.Power{Base: base, Exponent: exponentScalar}
}

func (d *Dimchecker) product(node *unit.Product, mode Mode) *unit.Product {
	var values []unit.Node
	for _, factor := range node.Values {
		value := d.Dimensionize(factor, mode)
		if p, ok := value.(*unit.Product); ok {
			values = append(values, p.Values...)
		} else {
			values = append(values, value)
		}
	}
	return &unit.Product{Values: values}
}

func (d *Dimchecker) sum(node *unit.Sum, mode Mode) *unit.Sum {
	var values []unit.Node
	for _, addend := range node.Values {
		value := d.Dimensionize(addend, mode)
		if p, ok := value.(*unit.Product); ok {
			values = append(values, p.Values...)
		} else {
			values = append(values, value)
		}
	}
	return &unit.Sum{Values: values}
}

func (d *Dimchecker) scalar(node *unit.Scalar, mode Mode) unit.Node {
	if node.Unit == nil {
		return node
	}
	return d.Dimensionize(node.Unit, mode)
}
