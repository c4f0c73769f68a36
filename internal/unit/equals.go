package unit

// Equals reports whether a and b denote the same unit/dimension expression
// up to the algebraic normal form produced by Simplify: Product and Sum
// compare as multisets (order-independent), everything else structurally.
//
// Equals does not itself simplify its arguments; callers normally compare
// two already-simplified nodes.
func Equals(a, b Node) bool {
	a, b = Unwrap(a), Unwrap(b)

	switch x := a.(type) {
	case *One:
		_, ok := b.(*One)
		return ok
	case One:
		_, ok := b.(One)
		return ok
	case *Scalar:
		y, ok := b.(*Scalar)
		if !ok {
			return false
		}
		if !x.Value.Equal(y.Value) {
			return false
		}
		return nodeOrNilEquals(x.Unit, y.Unit)
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *Constant:
		y, ok := b.(*Constant)
		return ok && x.Name == y.Name
	case *Product:
		y, ok := b.(*Product)
		return ok && multisetEqual(x.Values, y.Values)
	case *Sum:
		y, ok := b.(*Sum)
		return ok && multisetEqual(x.Values, y.Values)
	case *Power:
		y, ok := b.(*Power)
		return ok && Equals(x.Base, y.Base) && Equals(x.Exponent, y.Exponent)
	case *Neg:
		y, ok := b.(*Neg)
		return ok && Equals(x.Value, y.Value)
	case *Call:
		y, ok := b.(*Call)
		if !ok || len(x.Args) != len(y.Args) || !Equals(x.Callee, y.Callee) {
			return false
		}
		for i := range x.Args {
			if x.Args[i].Name != y.Args[i].Name || !Equals(x.Args[i].Value, y.Args[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func nodeOrNilEquals(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equals(a, b)
}

// multisetEqual compares two node slices as multisets: every element of a
// must have a distinct, still-unmatched equal partner in b. Go structs
// containing slices are not comparable, so unlike the Python original's
// defaultdict-based grouping this is a linear scan rather than a hash-based
// count.
func multisetEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		matched := false
		for i, bv := range b {
			if used[i] {
				continue
			}
			if Equals(av, bv) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// groupByBase partitions values by Equals-equality of their "base" key (as
// computed by keyOf), returning groups in first-seen order. This replaces
// the Python original's defaultdict(Decimal)-keyed grouping in
// simplifier.py's product_/sum_, which relied on dataclass hash/eq; Go nodes
// with slice fields cannot be map keys, so this does the equivalent
// grouping via linear scan + Equals.
func groupByBase(values []Node, keyOf func(Node) Node) []group {
	var groups []group
	for _, v := range values {
		key := keyOf(v)
		found := false
		for i := range groups {
			if Equals(groups[i].key, key) {
				groups[i].members = append(groups[i].members, v)
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, group{key: key, members: []Node{v}})
		}
	}
	return groups
}

type group struct {
	key     Node
	members []Node
}
