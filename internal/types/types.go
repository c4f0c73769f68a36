// Package types implements the Typechecker's type system (spec C6 data
// model): tagged Type variants with an optional dimension, structural
// unification, and dimension-compatibility checking. Grounded on
// original_source/typechecker/types.py, translated from Python's runtime
// dataclass dispatch to an explicit Go type switch, and from a
// process-global VarEnv to an *VarEnv threaded explicitly through
// CheckArgs/Complete — see SPEC_FULL.md §3 on the VarEnv redesign.
package types

import (
	"fmt"
	"strings"

	"github.com/numerobis-lang/numerobis/internal/unit"
)

// Type is any member of the type lattice.
type Type interface {
	// TypeName is the bare tag used for membership checks ("Int", "Float",
	// "List", …), mirroring the Python original's UType.name().
	TypeName() string
	// Display is the user-facing rendering, mirroring UType.type() —
	// NumberType includes a bracketed dimension, FunctionType its full
	// signature.
	Display() string
	// Dim is the type's dimension annotation, or nil if dimensionless/not
	// applicable.
	Dim() unit.Node
}

// Is reports whether t's TypeName is one of names, mirroring the Python
// original's overloaded UType.name(*names).
func Is(t Type, names ...string) bool {
	for _, n := range names {
		if t.TypeName() == n {
			return true
		}
	}
	return false
}

// NoneType is the absence of a value (an empty return, a bare statement).
type NoneType struct{}

func (NoneType) TypeName() string { return "None" }
func (NoneType) Display() string  { return "None" }
func (NoneType) Dim() unit.Node   { return nil }

// BoolType is the boolean type.
type BoolType struct{}

func (BoolType) TypeName() string { return "Bool" }
func (BoolType) Display() string  { return "Bool" }
func (BoolType) Dim() unit.Node   { return nil }

// StrType is the string type.
type StrType struct{}

func (StrType) TypeName() string { return "Str" }
func (StrType) Display() string  { return "Str" }
func (StrType) Dim() unit.Node   { return nil }

// NeverType is the bottom type: it unifies with, and equals, anything.
type NeverType struct{}

func (NeverType) TypeName() string { return "Never" }
func (NeverType) Display() string  { return "Never" }
func (NeverType) Dim() unit.Node   { return nil }

// UndefinedType marks a name that failed to resolve; used so the checker
// can keep walking a malformed program after reporting an error.
type UndefinedType struct{}

func (UndefinedType) TypeName() string { return "Undefined" }
func (UndefinedType) Display() string  { return "Undefined" }
func (UndefinedType) Dim() unit.Node   { return nil }

// SliceType is the type of a `start:stop:step` slice expression.
type SliceType struct{}

func (SliceType) TypeName() string { return "Slice" }
func (SliceType) Display() string  { return "Slice" }
func (SliceType) Dim() unit.Node   { return nil }

// NumberType is a scalar numeric type carrying its dimension and (when the
// checker has resolved a constant) its folded value.
type NumberType struct {
	Typ           string // "Int" or "Float"
	DimExpr       unit.Node
	Value         float64
	DimensionOnly bool // unify() treats this NumberType as matching any Typ — spec §4.6's "#dimension-only" meta
}

func (n NumberType) TypeName() string { return n.Typ }
func (n NumberType) Dim() unit.Node   { return n.DimExpr }
func (n NumberType) Display() string {
	d := ""
	if n.DimExpr != nil && !isOneNode(n.DimExpr) {
		d = fmt.Sprintf("[%s]", n.DimExpr.String())
	}
	return n.Typ + d
}

func isOneNode(n unit.Node) bool {
	_, ok := unit.Unwrap(n).(*unit.One)
	return ok
}

// IntType builds a dimensionless Int.
func IntType() NumberType { return NumberType{Typ: "Int"} }

// FloatType builds a dimensionless Float.
func FloatType() NumberType { return NumberType{Typ: "Float"} }

// ListType is a homogeneous list, parametrised by its element type. A nil
// Content is treated as NeverType{}, matching the Python original's
// ListType(content=NeverType()) default.
type ListType struct {
	Content Type
}

func (l ListType) TypeName() string { return "List" }
func (l ListType) Display() string {
	return fmt.Sprintf("List[%s]", l.content().Display())
}
func (l ListType) Dim() unit.Node { return l.content().Dim() }

func (l ListType) content() Type {
	if l.Content == nil {
		return NeverType{}
	}
	return l.Content
}

// RangeType is the type of a `start..end` range expression.
type RangeType struct {
	Value NumberType // element type: Int, or the step's numeric type when a step is given
}

func (r RangeType) TypeName() string { return "Range" }
func (r RangeType) Display() string  { return "Range" }
func (r RangeType) Dim() unit.Node   { return nil }

// DimensionType is a bare dimension expression used where a dimension
// annotation (not a numeric value) is expected, e.g. `dimension X = Y*Z`.
type DimensionType struct {
	DimExpr unit.Node
}

func (d DimensionType) TypeName() string { return "Dimension" }
func (d DimensionType) Display() string  { return d.DimExpr.String() }
func (d DimensionType) Dim() unit.Node   { return d.DimExpr }

// VarType is an unresolved generic parameter (`List[T]`'s `T`), resolved
// through an explicit *VarEnv rather than the Python original's global.
type VarType struct {
	Name string
	Kind string // "types" or "dims"
}

func (v VarType) TypeName() string { return "Var" }
func (v VarType) Display() string  { return "?" + v.Name }
func (v VarType) Dim() unit.Node   { return nil }

// AnyType is the permissive top type. Of is never set by this package:
// NewAnyOf returns the concrete type for a factory name ("int", "list", …)
// rather than an AnyType wrapping it.
type AnyType struct {
	Of Type // nil for the bare "any"
}

func (a AnyType) TypeName() string { return "Any" }
func (a AnyType) Display() string  { return "Any" }
func (a AnyType) Dim() unit.Node   { return nil }

// NewAnyOf resolves a factory type name to its concrete Type, mirroring the
// Python original's AnyType.__new__: despite the name, passing anything
// other than "any" does not wrap the result in AnyType, it returns the
// concrete type directly (AnyType("str") is StrType(), not Any-of-Str).
func NewAnyOf(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "any":
		return AnyType{}, nil
	case "none":
		return NoneType{}, nil
	case "number", "float":
		return FloatType(), nil
	case "int":
		return IntType(), nil
	case "bool":
		return BoolType{}, nil
	case "str":
		return StrType{}, nil
	case "list":
		return ListType{}, nil
	case "slice":
		return SliceType{}, nil
	case "range":
		return RangeType{Value: IntType()}, nil
	case "function":
		return FunctionType{}, nil
	default:
		return nil, fmt.Errorf("unknown type name: %q", name)
	}
}

// Unresolved distinguishes why a FunctionType's parameter types are not yet
// fully known.
type Unresolved int

const (
	Resolved Unresolved = iota
	UnresolvedRecursive
	UnresolvedParameters
)

// FunctionType is a function signature: parameter types/names, arity, and
// return type, with the re-check bookkeeping spec §4.6 "Calls"/"Functions"
// needs (Unresolved, Node link, and a closed-over name snapshot for
// currying/lexical scope per SPEC_FULL.md §3).
type FunctionType struct {
	Params      []Type
	ParamNames  []string
	ReturnType  Type
	Arity       [2]int // required, total
	Unresolved  Unresolved
	Node        uint64            // link target of the defining ast.Function, 0 if none
	Closure     map[string]string // snapshot of the defining Env's name->address map
	DisplayName string
}

func (f FunctionType) TypeName() string { return "Function" }
func (f FunctionType) Dim() unit.Node   { return nil }
func (f FunctionType) Display() string {
	parts := make([]string, 0, len(f.Params))
	for i, p := range f.Params {
		name := ""
		if i < len(f.ParamNames) {
			name = f.ParamNames[i]
		}
		if i == f.Arity[0] && f.Arity[0] != f.Arity[1] {
			parts = append(parts, "/")
		}
		if name != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", name, p.Display()))
		} else {
			parts = append(parts, p.Display())
		}
	}
	ret := "Any"
	if f.ReturnType != nil {
		ret = f.ReturnType.Display()
	}
	return fmt.Sprintf("![[%s], %s]", strings.Join(parts, ", "), ret)
}

// CheckArgs attempts to bind args against f's parameters, completing any
// VarType slots through env (cleared first, mirroring the Python
// original's check_args clearing the global varenv before every attempt).
// It returns the specialised FunctionType and true on success.
func (f FunctionType) CheckArgs(env *VarEnv, args []Type) (FunctionType, bool) {
	env.Clear()
	if len(args) != len(f.Params) {
		return FunctionType{}, false
	}
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		if _, isAny := p.(AnyType); isAny {
			params[i] = NeverType{}
			continue
		}
		params[i] = Complete(p, env, args[i])
	}
	for i := range params {
		if Unify(params[i], args[i]) == nil {
			return FunctionType{}, false
		}
	}
	ret := f.ReturnType
	if ret == nil {
		ret = AnyType{}
	}
	out := f
	out.ReturnType = Complete(ret, env, nil)
	return out, true
}

// Overload is an ordered set of candidate FunctionTypes, mirroring the
// Python original's Overload (flattening nested overloads at
// construction).
type Overload struct {
	Functions []FunctionType
}

// NewOverload flattens any nested Overloads in fns into a single list.
func NewOverload(fns ...interface{}) Overload {
	var out []FunctionType
	for _, fn := range fns {
		switch f := fn.(type) {
		case FunctionType:
			out = append(out, f)
		case Overload:
			out = append(out, f.Functions...)
		}
	}
	return Overload{Functions: out}
}

func (o Overload) TypeName() string { return "Overload" }
func (o Overload) Dim() unit.Node   { return nil }
func (o Overload) Display() string {
	parts := make([]string, len(o.Functions))
	for i, f := range o.Functions {
		parts[i] = f.Display()
	}
	return strings.Join(parts, " | ")
}

// CheckArgs returns the first candidate function whose parameters accept
// args, completing generics through env.
func (o Overload) CheckArgs(env *VarEnv, args []Type) (FunctionType, bool) {
	for _, fn := range o.Functions {
		if checked, ok := fn.CheckArgs(env, args); ok {
			return checked, true
		}
	}
	return FunctionType{}, false
}

// Struct is a structural method table: a named bag of fields, each either
// a concrete Type or an Overload, used for dispatching `__add__`,
// `__getitem__`, etc. (spec §4.6 "structural method dispatch").
type Struct struct {
	Fields map[string]Type
}

// Field looks up a named member, returning nil if absent.
func (s Struct) Field(name string) Type {
	return s.Fields[name]
}
