package types

import "github.com/numerobis-lang/numerobis/internal/unit"

// VarEnv resolves generic VarType parameters within a single overload
// attempt. The Python original keeps this as a process-global `varenv`
// cleared inside FunctionType.check_args; SPEC_FULL.md §3 redesigns it as
// an explicit value threaded by the caller, per spec §9's own redesign
// note ("re-architect as an explicit parameter or per-check stack").
type VarEnv struct {
	Types map[string]Type
	Dims  map[string]Type
}

// NewVarEnv builds an empty VarEnv.
func NewVarEnv() *VarEnv {
	return &VarEnv{Types: map[string]Type{}, Dims: map[string]Type{}}
}

// Clear empties both maps, done before every overload attempt.
func (v *VarEnv) Clear() {
	for k := range v.Types {
		delete(v.Types, k)
	}
	for k := range v.Dims {
		delete(v.Dims, k)
	}
}

func (v *VarEnv) slot(kind string) map[string]Type {
	if kind == "dims" {
		return v.Dims
	}
	return v.Types
}

// Complete resolves anonymous/generic types against a concrete value,
// mirroring each UType's complete() override in the Python original:
// VarType binds (or checks against) its slot in env, ListType completes
// its content recursively, everything else is returned unchanged.
func Complete(t Type, env *VarEnv, value Type) Type {
	switch v := t.(type) {
	case VarType:
		slot := env.slot(v.Kind)
		if value == nil {
			if bound, ok := slot[v.Name]; ok {
				return bound
			}
			return v
		}
		if bound, ok := slot[v.Name]; !ok {
			slot[v.Name] = value
			return value
		} else if Unify(value, bound) == nil || !Dimcheck(value, bound) {
			return v
		}
		return value
	case ListType:
		var contentValue Type
		if lv, ok := value.(ListType); ok {
			contentValue = lv.Content
		}
		return ListType{Content: Complete(v.content(), env, contentValue)}
	default:
		return t
	}
}

// Unify structurally unifies a and b, returning the result type or nil on
// mismatch. Grounded on original_source/typechecker/types.py's unify():
// Never unifies with anything, Any with nothing, Number requires matching
// Typ (or either side marked dimension-only), List unifies on content,
// Function on arity/params/return; otherwise types must render identically.
func Unify(a, b Type) Type {
	if _, ok := a.(NeverType); ok {
		return b
	}
	if _, ok := b.(NeverType); ok {
		return a
	}
	if _, ok := a.(AnyType); ok {
		return nil
	}
	if _, ok := b.(AnyType); ok {
		return nil
	}

	an, aIsNum := a.(NumberType)
	bn, bIsNum := b.(NumberType)
	if aIsNum && bIsNum {
		if an.Typ == bn.Typ || an.DimensionOnly || bn.DimensionOnly {
			return a
		}
		return nil
	}

	al, aIsList := a.(ListType)
	bl, bIsList := b.(ListType)
	if aIsList && bIsList {
		content := Unify(al.content(), bl.content())
		if content == nil {
			return nil
		}
		return ListType{Content: content}
	}

	af, aIsFn := a.(FunctionType)
	bf, bIsFn := b.(FunctionType)
	if aIsFn && bIsFn {
		if af.Arity != bf.Arity || len(af.Params) != len(bf.Params) {
			return nil
		}
		for i := range af.Params {
			if Unify(af.Params[i], bf.Params[i]) == nil || !Dimcheck(af.Params[i], bf.Params[i]) {
				return nil
			}
		}
		aRet, bRet := af.ReturnType, bf.ReturnType
		if aRet == nil {
			aRet = AnyType{}
		}
		if bRet == nil {
			bRet = AnyType{}
		}
		if Unify(aRet, bRet) == nil || !Dimcheck(aRet, bRet) {
			return nil
		}
		return a
	}

	if a.Display() == b.Display() {
		return a
	}
	return nil
}

// Dimcheck reports whether a and b carry compatible dimensions: Never/Any
// on either side always passes, a nil dimension on either side always
// passes (unconstrained), otherwise the dimensions must be Equals.
func Dimcheck(a, b Type) bool {
	if Is(a, "Never", "Any") || Is(b, "Never", "Any") {
		return true
	}
	da, db := a.Dim(), b.Dim()
	if da == nil || db == nil {
		return true
	}
	return unit.Equals(da, db)
}

// NoMismatch is the conjunction spec §4.6 "Calls" names `nomismatch`: a
// and b must both type-unify and dimension-check.
func NoMismatch(a, b Type) bool {
	return Unify(a, b) != nil && Dimcheck(a, b)
}
