package unit

// IsLinear reports whether node, viewed as a function of the placeholder
// "_", is linear: the placeholder may appear as a factor of a Product or a
// Power base, but never inside a Sum (at any depth) or a Power exponent. The
// number of occurrences is not counted, so _*_ passes. Grounded on
// original_source/src/numerobis/analysis/utils.py's is_linear.
func IsLinear(node Node) bool {
	return isLinear(node, false)
}

// IsLinearActive is IsLinear with the placeholder already considered "in an
// active position" — the Preprocessor's unit_def_ calls is_linear(expr,
// True). Every occurrence of the placeholder then fails the check, so it
// holds only when node does not contain the placeholder at all.
func IsLinearActive(node Node) bool {
	return isLinear(node, true)
}

func isLinear(node Node, active bool) bool {
	switch n := node.(type) {
	case *Expression:
		return isLinear(n.Value, active)
	case *Neg:
		return isLinear(n.Value, active)
	case *Sum:
		for _, v := range n.Values {
			if !isLinear(v, true) {
				return false
			}
		}
		return true
	case *Product:
		for _, v := range n.Values {
			childActive := active
			if _, ok := v.(*Sum); ok {
				childActive = true
			}
			if !isLinear(v, childActive) {
				return false
			}
		}
		return true
	case *Power:
		return isLinear(n.Base, active) && isLinear(n.Exponent, true)
	case *Identifier:
		if n.Name == "_" {
			return !active
		}
	case *Scalar:
		if n.Placeholder {
			return !active
		}
	}
	return true
}

// ContainsVar reports whether node references the placeholder identifier
// "_" anywhere in its tree.
func ContainsVar(node Node) bool {
	switch n := node.(type) {
	case *Identifier:
		return n.Name == "_"
	case *Product:
		return anyContainsVar(n.Values)
	case *Sum:
		return anyContainsVar(n.Values)
	case *Expression:
		return ContainsVar(n.Value)
	case *Neg:
		return ContainsVar(n.Value)
	case *Power:
		return ContainsVar(n.Base) || ContainsVar(n.Exponent)
	}
	return false
}

func anyContainsVar(values []Node) bool {
	for _, v := range values {
		if ContainsVar(v) {
			return true
		}
	}
	return false
}

// ContainsSum reports whether node contains a Sum anywhere in its tree
// (including itself).
func ContainsSum(node Node) bool {
	switch n := node.(type) {
	case *Sum:
		return true
	case *Product:
		return anyContainsSum(n.Values)
	case *Expression:
		return ContainsSum(n.Value)
	case *Neg:
		return ContainsSum(n.Value)
	case *Power:
		return ContainsSum(n.Base) || ContainsSum(n.Exponent)
	}
	return false
}

func anyContainsSum(values []Node) bool {
	for _, v := range values {
		if ContainsSum(v) {
			return true
		}
	}
	return false
}

// ToX renames every placeholder identifier "_" to "x", used by the
// Preprocessor to turn a unit's base expression into a named function of x.
func ToX(node Node) Node {
	return toX(node)
}

// toX renames every placeholder identifier "_" to "x", used by Invert to
// turn the remaining operand of a solved equation into a named expression.
func toX(node Node) Node {
	switch n := node.(type) {
	case *Identifier:
		if n.Name == "_" {
			return &Identifier{Name: "x", Span: n.Span}
		}
		return n
	case *Product:
		return &Product{Values: mapToX(n.Values)}
	case *Sum:
		return &Sum{Values: mapToX(n.Values)}
	case *Expression:
		return &Expression{Value: toX(n.Value), Span: n.Span}
	case *Neg:
		return &Neg{Value: toX(n.Value)}
	case *Power:
		return &Power{Base: toX(n.Base), Exponent: toX(n.Exponent)}
	default:
		return node
	}
}

func mapToX(values []Node) []Node {
	out := make([]Node, len(values))
	for i, v := range values {
		out[i] = toX(v)
	}
	return out
}
