package unit

// Cancel removes neutral/empty subnodes, returning One{} if the whole node
// vanishes. Every Scalar without a unit counts as neutral and is dropped, and
// a Scalar with a unit is replaced by that unit, so only the unit structure
// of node is kept (2*3 cancels to One{}, 2*m to m). Grounded on simplifier.py's module-level cancel/cancel_.
func Cancel(node Node) Node {
	if c := cancel(node); c != nil {
		return c
	}
	return &One{}
}

// CancelOrNil is Cancel without the One{} default: it returns nil when node
// vanishes entirely, mirroring simplifier.py's cancel_ (the underscore
// variant the Preprocessor uses to detect "nothing left").
func CancelOrNil(node Node) Node {
	return cancel(node)
}

// cancel recursively strips neutral elements, returning nil if node
// vanishes entirely.
func cancel(node Node) Node {
	switch n := node.(type) {
	case *Expression:
		v := cancel(n.Value)
		if v == nil {
			return nil
		}
		return &Expression{Value: v, Span: n.Span}
	case *Product:
		var values []Node
		for _, val := range n.Values {
			if v := cancel(val); v != nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil
		}
		if len(values) == 1 {
			return values[0]
		}
		return &Product{Values: values}
	case *Sum:
		var values []Node
		for _, val := range n.Values {
			if v := cancel(val); v != nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil
		}
		if len(values) == 1 {
			return values[0]
		}
		return &Sum{Values: values}
	case *Neg:
		v := cancel(n.Value)
		if v == nil {
			return nil
		}
		return &Neg{Value: v}
	case *Power:
		v := cancel(n.Base)
		if v == nil {
			return nil
		}
		return &Power{Base: v, Exponent: n.Exponent}
	case *Scalar:
		if n.Unit == nil {
			return nil
		}
		return cancel(n.Unit)
	case *One:
		return nil
	}
	return node
}
