package unit

import "github.com/shopspring/decimal"

// Invert solves f(_) = y for _, returning an Expression for _ = g(y) where
// y is the free identifier "x". Grounded on
// original_source/src/numerobis/analysis/invert.py.
func Invert(node Node) Node {
	node = Unwrap(node)
	return &Expression{Value: invert(node, &Identifier{Name: "x"})}
}

func invert(node Node, target Node) Node {
	switch n := node.(type) {
	case *Identifier:
		if n.Name == "_" {
			return target
		}
		return node

	case *Product:
		return invertAssoc(n.Values, target, true)
	case *Sum:
		return invertAssoc(n.Values, target, false)

	case *Power:
		if ContainsVar(n.Base) {
			newTarget := &Power{Base: target, Exponent: &Power{Base: n.Exponent, Exponent: &Scalar{Value: decimal.NewFromInt(-1)}}}
			return invert(n.Base, newTarget)
		}
		logCall := &Call{
			Callee: &Identifier{Name: "logn"},
			Args: []CallArg{
				{Value: n.Base},
				{Value: target},
			},
		}
		return invert(n.Exponent, logCall)

	case *Neg:
		return invert(n.Value, &Neg{Value: target})

	case *Expression:
		return invert(n.Value, target)

	case *Scalar:
		return node
	}

	return node
}

// invertAssoc handles the Product/Sum cases: find the single child that
// still references the placeholder, fold the remaining children into an
// "operand", and recurse with a new target expressing the inverse of that
// operation.
func invertAssoc(values []Node, target Node, isProduct bool) Node {
	varIdx := -1
	for i, v := range values {
		if ContainsVar(v) {
			varIdx = i
			break
		}
	}
	if varIdx == -1 {
		// No child references the placeholder; nothing to invert further.
		if isProduct {
			return &Product{Values: values}
		}
		return &Sum{Values: values}
	}

	varNode := values[varIdx]
	var others []Node
	for i, v := range values {
		if i != varIdx {
			others = append(others, v)
		}
	}

	var operand Node
	if len(others) == 1 {
		operand = others[0]
	} else if isProduct {
		operand = &Product{Values: others}
	} else {
		operand = &Sum{Values: others}
	}
	operand = toX(operand)

	var newTarget Node
	if isProduct {
		newTarget = &Product{Values: []Node{target, &Power{Base: operand, Exponent: &Scalar{Value: decimal.NewFromInt(-1)}}}}
	} else {
		newTarget = &Sum{Values: []Node{target, &Neg{Value: operand}}}
	}
	return invert(varNode, newTarget)
}
