package types

// ReservedTypeNames lists the builtin type names: every name a Struct is
// registered under in NewMethodTable, plus "Any" and "Slice", which have no
// Struct of their own. The Dimchecker rejects a
// dimension or unit declared with one of these names (error 503): a name
// like "Int" would be ambiguous between the builtin type and a user
// dimension.
var ReservedTypeNames = []string{"Any", "None", "Bool", "Int", "Float", "Str", "List", "Range", "Slice", "Function"}

// MethodTable is a structural method registry: one Struct per type name
// ("Int", "Str", …), whose Fields map a method name ("__add__", …) to its
// FunctionType or Overload; Lookup takes the type name and the method name
// as two separate keys. It is the Go-idiom adaptation of the teacher's
// internal/types/dictionaries.go DictionaryRegistry (a string-keyed method
// registry, there used for type-class dictionaries); here it holds the structural dispatch
// tables built in original_source/typechecker/types.py's `types: dict[str,
// Struct]` and typechecker/operators.py's `typetable`, which the
// Typechecker's BinOp/Compare/Index handlers consult for `__add__`,
// `__getitem__`, and friends (spec §4.6).
type MethodTable struct {
	structs map[string]Struct
}

// NewMethodTable builds the registry with every built-in structural
// instance registered (Int, Float, Bool, Str, List, Range, Function, None).
func NewMethodTable() *MethodTable {
	t := &MethodTable{structs: map[string]Struct{}}
	t.registerBuiltins()
	return t
}

// Lookup returns the method or Overload bound to typeName.method, if any.
func (t *MethodTable) Lookup(typeName, method string) (Type, bool) {
	s, ok := t.structs[typeName]
	if !ok {
		return nil, false
	}
	v := s.Field(method)
	return v, v != nil
}

// Register installs or extends the struct for typeName with one field.
func (t *MethodTable) Register(typeName, method string, value Type) {
	s, ok := t.structs[typeName]
	if !ok {
		s = Struct{Fields: map[string]Type{}}
	}
	s.Fields[method] = value
	t.structs[typeName] = s
}

var numberOverload = NewOverload(
	FunctionType{Params: []Type{IntType(), IntType()}, ReturnType: IntType(), Arity: [2]int{2, 2}},
	FunctionType{Params: []Type{IntType(), FloatType()}, ReturnType: FloatType(), Arity: [2]int{2, 2}},
	FunctionType{Params: []Type{FloatType(), FloatType()}, ReturnType: FloatType(), Arity: [2]int{2, 2}},
	FunctionType{Params: []Type{FloatType(), IntType()}, ReturnType: FloatType(), Arity: [2]int{2, 2}},
)

var boolNumberOverload = NewOverload(
	FunctionType{Params: []Type{IntType(), IntType()}, ReturnType: BoolType{}, Arity: [2]int{2, 2}},
	FunctionType{Params: []Type{IntType(), FloatType()}, ReturnType: BoolType{}, Arity: [2]int{2, 2}},
	FunctionType{Params: []Type{FloatType(), FloatType()}, ReturnType: BoolType{}, Arity: [2]int{2, 2}},
	FunctionType{Params: []Type{FloatType(), IntType()}, ReturnType: BoolType{}, Arity: [2]int{2, 2}},
)

var arithOps = []string{"__add__", "__sub__", "__mul__", "__div__", "__mod__", "__pow__"}
var compareOps = []string{"__lt__", "__gt__", "__le__", "__ge__"}
var eqOps = []string{"__eq__", "__ne__"}

// conversions builds the `__<name>__` conversion method set for this's
// struct, each taking and returning the concrete type NewAnyOf resolves to —
// mirroring operators.py's _conv, where AnyType(name) for any concrete name
// is the concrete type itself, never an AnyType wrapper.
func conversions(this Type, names ...string) map[string]Type {
	out := map[string]Type{}
	for _, n := range names {
		target, err := NewAnyOf(n)
		if err != nil {
			continue
		}
		out["__"+lower(n)+"__"] = FunctionType{
			Params:     []Type{this},
			ReturnType: target,
			Arity:      [2]int{1, 1},
		}
	}
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func (t *MethodTable) registerBuiltins() {
	eq := func() map[string]Type {
		out := map[string]Type{}
		for _, op := range eqOps {
			out[op] = FunctionType{Params: []Type{AnyType{}, AnyType{}}, ReturnType: BoolType{}, Arity: [2]int{2, 2}}
		}
		return out
	}

	for name, conv := range map[string][]string{
		"Int":   {"Bool", "Str", "Float"},
		"Float": {"Bool", "Str", "Int"},
		"Bool":  {"Bool", "Str"},
		"Str":   {"Bool"},
		"List":  {"Bool", "Str"},
	} {
		var this Type
		switch name {
		case "Int":
			this = IntType()
		case "Float":
			this = FloatType()
		case "Bool":
			this = BoolType{}
		case "Str":
			this = StrType{}
		case "List":
			this = ListType{}
		}
		for method, fn := range conversions(this, conv...) {
			t.Register(name, method, fn)
		}
	}

	for _, op := range arithOps {
		t.Register("Int", op, numberOverload)
		t.Register("Float", op, numberOverload)
	}
	for _, op := range compareOps {
		t.Register("Int", op, boolNumberOverload)
		t.Register("Float", op, boolNumberOverload)
	}
	for name, fields := range map[string]map[string]Type{
		"Int":      eq(),
		"Float":    eq(),
		"Bool":     {},
		"Str":      eq(),
		"List":     eq(),
		"Range":    eq(),
		"Function": eq(),
		"None":     eq(),
	} {
		for method, fn := range fields {
			t.Register(name, method, fn)
		}
	}

	t.Register("Str", "__add__", FunctionType{Params: []Type{StrType{}, StrType{}}, ReturnType: StrType{}, Arity: [2]int{2, 2}})
	t.Register("Str", "__mul__", FunctionType{Params: []Type{StrType{}, IntType()}, ReturnType: StrType{}, Arity: [2]int{2, 2}})
	t.Register("Str", "__getitem__", NewOverload(
		FunctionType{Params: []Type{StrType{}, IntType()}, ReturnType: StrType{}, Arity: [2]int{2, 2}},
		FunctionType{Params: []Type{StrType{}, SliceType{}}, ReturnType: StrType{}, Arity: [2]int{2, 2}},
	))
	t.Register("Str", "__setitem__", FunctionType{Params: []Type{StrType{}, IntType(), StrType{}}, ReturnType: NoneType{}, Arity: [2]int{3, 3}})
	for _, op := range compareOps {
		t.Register("Str", op, FunctionType{Params: []Type{StrType{}, StrType{}}, ReturnType: BoolType{}, Arity: [2]int{2, 2}})
	}

	elemT := VarType{Name: "T"}
	t.Register("List", "__add__", FunctionType{
		Params:     []Type{ListType{Content: elemT}, ListType{Content: elemT}},
		ReturnType: ListType{Content: elemT},
		Arity:      [2]int{2, 2},
	})
	t.Register("List", "__mul__", FunctionType{Params: []Type{ListType{}, IntType()}, ReturnType: ListType{}, Arity: [2]int{2, 2}})
	t.Register("List", "__getitem__", NewOverload(
		FunctionType{Params: []Type{ListType{Content: elemT}, IntType()}, ReturnType: elemT, Arity: [2]int{2, 2}},
		FunctionType{Params: []Type{ListType{Content: elemT}, SliceType{}}, ReturnType: ListType{Content: elemT}, Arity: [2]int{2, 2}},
	))
	t.Register("List", "__setitem__", FunctionType{Params: []Type{ListType{Content: elemT}, IntType(), elemT}, ReturnType: NoneType{}, Arity: [2]int{3, 3}})
	for _, op := range compareOps {
		t.Register("List", op, FunctionType{Params: []Type{ListType{}, ListType{}}, ReturnType: BoolType{}, Arity: [2]int{2, 2}})
	}
}
