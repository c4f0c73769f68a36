// Package typecheck implements the Typechecker (spec C6): it walks a
// checked program's statement tree, resolving every expression to a
// types.Type and reporting dimension/type mismatches through the error
// catalogue. Grounded on original_source/typechecker/typechecker.py,
// translated from Python's camel2snake-dispatched methods and a single
// combined check()/unlink() indirection to an explicit Go type switch over
// this module's own (simpler, non-Link-wrapped) ast package.
package typecheck

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/dimcheck"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/source"
	"github.com/numerobis-lang/numerobis/internal/types"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

// Typechecker resolves every statement/expression of a program to a
// types.Type, grounded on typechecker.py's Typechecker class. Unlike the
// Python original it carries no module-wide node-link table: this AST's
// Function/If/Assign nodes already hold their children directly, so there
// is no separate "unlink" indirection to thread through every handler.
type Typechecker struct {
	NS      *nsenv.Namespaces
	Errors  *errors.Reporter
	Dim     *dimcheck.Dimchecker
	Methods *types.MethodTable

	simplifier *unit.Simplifier
}

// New builds a Typechecker over ns (already populated by a prior Dimchecker
// pass: spec's pipeline runs Dimchecker then Preprocessor then Typechecker
// in sequence over the same Namespaces), reporting through errs.
func New(ns *nsenv.Namespaces, errs *errors.Reporter) *Typechecker {
	return &Typechecker{
		NS:         ns,
		Errors:     errs,
		Dim:        dimcheck.New(ns, errs),
		Methods:    types.NewMethodTable(),
		simplifier: unit.NewSimplifier(errs),
	}
}

func (tc *Typechecker) simplify(n unit.Node) unit.Node {
	return tc.simplifier.Simplify(n, true)
}

// span builds a zero-width Span at pos: source.Pos has no Span() convenience
// method, so every error call site needs this instead.
func span(pos source.Pos) source.Span {
	return source.Span{Start: pos, End: pos}
}

// Start typechecks every top-level statement of prog against a fresh root
// environment. It assumes prog.Header has already been processed by a
// Dimchecker/Preprocessor pass.
func (tc *Typechecker) Start(prog *ast.Program) {
	env := nsenv.NewRoot(tc.NS)
	for _, stmt := range prog.Statements {
		tc.Check(stmt, env)
	}
}

// Check dispatches node to its handler, mirroring typechecker.py's check().
func (tc *Typechecker) Check(node ast.Node, env *nsenv.Env) types.Type {
	switch n := node.(type) {
	case *ast.Number:
		return tc.number(n)
	case *ast.String:
		return types.StrType{}
	case *ast.Boolean:
		return types.BoolType{}
	case *ast.Identifier:
		return tc.identifier(n.Name, n.Pos, env)
	case *ast.Variable:
		return tc.identifier(n.Name, n.Pos, env)
	case *ast.BinOp:
		return tc.binOp(n, env)
	case *ast.Compare:
		return tc.compare(n, env)
	case *ast.BoolOp:
		return tc.boolOp(n, env)
	case *ast.UnaryOp:
		return tc.unaryOp(n, env)
	case *ast.List:
		return tc.list(n, env)
	case *ast.Index:
		return tc.index(n, env)
	case *ast.Slice:
		return tc.slice(n, env)
	case *ast.Range:
		return tc.rangeExpr(n, env)
	case *ast.Call:
		return tc.call(n, env)
	case *ast.Conversion:
		return tc.conversion(n, env)
	case *ast.Function:
		return tc.function(n, env)
	case *ast.Block:
		return tc.block(n, env)
	case *ast.ExprStmt:
		return tc.Check(n.Value, env)
	case *ast.If:
		return tc.ifStmt(n, env)
	case *ast.ForLoop:
		return tc.forLoop(n, env)
	case *ast.WhileLoop:
		return tc.whileLoop(n, env)
	case *ast.Return:
		return tc.returnStmt(n, env)
	case *ast.Assign:
		return tc.assign(n, env)
	case *ast.VariableDecl:
		return tc.variableDecl(n, env)
	case *ast.ImportDecl, *ast.DimensionDefinition, *ast.UnitDefinition:
		return types.NoneType{}
	default:
		panic("typecheck: node type not implemented")
	}
}

// ---- literals ----

func (tc *Typechecker) number(node *ast.Number) types.Type {
	var u unit.Node = &unit.One{}
	if node.Unit != nil {
		u = node.Unit.Value
	}
	dim := tc.simplify(tc.Dim.Dimensionize(u, dimcheck.ModeUnit))

	typ := "Int"
	if node.Kind == ast.FloatLit {
		typ = "Float"
	}
	value, _ := strconv.ParseFloat(node.Value, 64)
	return types.NumberType{Typ: typ, DimExpr: dim, Value: value}
}

func (tc *Typechecker) identifier(name string, pos source.Pos, env *nsenv.Env) types.Type {
	item, ok := env.GetName(name)
	if !ok {
		tc.Errors.Throw(601, span(pos), "name", name, "help", suggestionHelp(tc.NS.SuggestName(name)))
		return types.UndefinedType{}
	}
	if _, undef := item.(types.UndefinedType); undef {
		tc.Errors.Throw(601, span(pos), "name", name, "help", suggestionHelp(tc.NS.SuggestName(name)))
	}
	return item
}

func suggestionHelp(suggestion string, ok bool) string {
	if !ok {
		return ""
	}
	return "did you mean '" + suggestion + "'?"
}

// ---- operators ----

// checkCandidate tries to bind args against method, which must be either a
// FunctionType or an Overload (any other value never matches, mirroring
// the Python original's ValueError-on-None handling).
func checkCandidate(env *types.VarEnv, method types.Type, args ...types.Type) (types.FunctionType, bool) {
	switch m := method.(type) {
	case types.FunctionType:
		return m.CheckArgs(env, args)
	case types.Overload:
		return m.CheckArgs(env, args)
	default:
		return types.FunctionType{}, false
	}
}

func isOneNode(n unit.Node) bool {
	if n == nil {
		return true
	}
	_, ok := unit.Unwrap(n).(*unit.One)
	return ok
}

func dimString(n unit.Node) string {
	if n == nil {
		return "1"
	}
	return n.String()
}

func (tc *Typechecker) binOp(node *ast.BinOp, env *nsenv.Env) types.Type {
	left := tc.Check(node.Left, env)
	right := tc.Check(node.Right, env)

	leftNumeric := types.Is(left, "Int", "Float", "Dimension")
	rightNumeric := types.Is(right, "Int", "Float", "Dimension")

	if !(leftNumeric && rightNumeric) {
		ve := types.NewVarEnv()
		methodNames := [3]string{"__" + node.Op.Name + "__", "__r" + node.Op.Name + "__", "__" + node.Op.Name + "__"}
		operands := [3]types.Type{left, right, right}
		argSets := [3][2]types.Type{{left, right}, {left, right}, {right, left}}

		for i := 0; i < 3; i++ {
			m, ok := tc.Methods.Lookup(operands[i].TypeName(), methodNames[i])
			if !ok {
				continue
			}
			if checked, ok := checkCandidate(ve, m, argSets[i][0], argSets[i][1]); ok {
				return checked.ReturnType
			}
		}
		tc.Errors.Throw(502, span(node.Pos), "operation", node.Op.Name, "left", left.Display(), "right", right.Display())
		return types.UndefinedType{}
	}

	returnTyp := "Int"
	if left.TypeName() == "Float" || right.TypeName() == "Float" {
		returnTyp = "Float"
	}

	switch node.Op.Name {
	case "add", "sub":
		if !types.Dimcheck(left, right) {
			tc.Errors.Throw(703, span(node.Pos), "operation", node.Op.Name, "left", dimString(left.Dim()), "right", dimString(right.Dim()))
		}
		return types.NumberType{Typ: returnTyp, DimExpr: left.Dim()}
	case "mul", "div":
		if right.Dim() == nil || isOneNode(right.Dim()) {
			return left
		}
		if left.Dim() == nil || isOneNode(left.Dim()) {
			return right
		}
		r := right.Dim()
		if node.Op.Name == "div" {
			r = &unit.Power{Base: right.Dim(), Exponent: unit.NewScalar(-1)}
		}
		dimension := tc.simplify(&unit.Product{Values: []unit.Node{left.Dim(), r}})
		return types.NumberType{Typ: returnTyp, DimExpr: dimension}
	case "pow":
		if right.Dim() != nil && !isOneNode(right.Dim()) {
			tc.Errors.Throw(101, span(node.Right.Position()), "value", dimString(right.Dim()))
		}
		if left.Dim() == nil || isOneNode(left.Dim()) {
			return types.NumberType{Typ: "Float", DimExpr: left.Dim()}
		}
		rightNum, _ := right.(types.NumberType)
		dimension := tc.simplify(&unit.Power{Base: left.Dim(), Exponent: &unit.Scalar{Value: decimal.NewFromFloat(rightNum.Value)}})
		return types.NumberType{Typ: "Float", DimExpr: dimension}
	case "mod":
		if !types.Dimcheck(left, right) {
			tc.Errors.Throw(703, span(node.Pos), "operation", node.Op.Name, "left", dimString(left.Dim()), "right", dimString(right.Dim()))
		}
		return left
	default:
		panic("typecheck: BinOp " + node.Op.Name + " not implemented")
	}
}

func compareSymbol(name string) string {
	switch name {
	case "eq":
		return "=="
	case "lt":
		return "<"
	case "gt":
		return ">"
	case "le":
		return "<="
	case "ge":
		return ">="
	case "ne":
		return "!="
	}
	return name
}

func (tc *Typechecker) compare(node *ast.Compare, env *nsenv.Env) types.Type {
	comparators := append([]ast.Expr{node.Left}, node.Rest...)
	ve := types.NewVarEnv()

	for i, op := range node.Ops {
		left := tc.Check(comparators[i], env)
		right := tc.Check(comparators[i+1], env)

		methodNames := [3]string{"__" + op.Name + "__", "__r" + op.Name + "__", "__" + op.Name + "__"}
		operands := [3]types.Type{left, right, right}
		argSets := [3][2]types.Type{{left, right}, {left, right}, {right, left}}

		matched := false
		for j := 0; j < 3; j++ {
			m, ok := tc.Methods.Lookup(operands[j].TypeName(), methodNames[j])
			if !ok {
				continue
			}
			if _, ok := checkCandidate(ve, m, argSets[j][0], argSets[j][1]); ok {
				matched = true
				break
			}
		}
		if !matched {
			tc.Errors.Throw(514, span(op.Pos), "operator", compareSymbol(op.Name), "left", left.Display(), "right", right.Display())
		}
	}
	return types.BoolType{}
}

func (tc *Typechecker) boolOp(node *ast.BoolOp, env *nsenv.Env) types.Type {
	checked := make([]types.Type, len(node.Values))
	for i, v := range node.Values {
		checked[i] = tc.Check(v, env)
	}
	for _, c := range checked {
		if _, ok := tc.Methods.Lookup(c.TypeName(), "__bool__"); !ok {
			left, right := checked[0], checked[0]
			if len(checked) > 1 {
				right = checked[1]
			}
			tc.Errors.Throw(502, span(node.Pos), "operation", node.Op.Name, "left", left.Display(), "right", right.Display())
			break
		}
	}
	return types.BoolType{}
}

func (tc *Typechecker) unaryOp(node *ast.UnaryOp, env *nsenv.Env) types.Type {
	operand := tc.Check(node.Value, env)
	switch node.Op.Name {
	case "sub":
		if _, ok := operand.(types.NumberType); !ok {
			tc.Errors.Throw(533, span(node.Pos), "type", operand.Display())
		}
		return operand
	case "not":
		if _, ok := tc.Methods.Lookup(operand.TypeName(), "__bool__"); !ok {
			tc.Errors.Throw(534, span(node.Pos), "type", operand.Display())
		}
		return operand
	default:
		panic("typecheck: UnaryOp not implemented: " + node.Op.Name)
	}
}

// ---- collections ----

func (tc *Typechecker) list(node *ast.List, env *nsenv.Env) types.Type {
	var content types.Type = types.NeverType{}
	for _, el := range node.Elements {
		elType := tc.Check(el, env)
		if elType.TypeName() == "Any" {
			tc.Errors.Throw(525, span(el.Position()))
		}
		if !types.NoMismatch(content, elType) {
			tc.Errors.Throw(524, span(el.Position()))
		}
		if u := types.Unify(content, elType); u != nil {
			content = u
		}
	}
	return types.ListType{Content: content}
}

func (tc *Typechecker) index(node *ast.Index, env *nsenv.Env) types.Type {
	value := tc.Check(node.Target, env)
	index := tc.Check(node.Index, env)

	if index.Dim() != nil && !isOneNode(index.Dim()) {
		tc.Errors.Throw(539, span(node.Pos), "dimension", dimString(index.Dim()))
	}

	method, ok := tc.Methods.Lookup(value.TypeName(), "__getitem__")
	if !ok {
		tc.Errors.Throw(522, span(node.Pos), "type", value.Display())
		return types.UndefinedType{}
	}
	checked, ok := checkCandidate(types.NewVarEnv(), method, value, index)
	if !ok {
		tc.Errors.Throw(523, span(node.Pos), "type", value.Display(), "index", index.Display())
		return types.UndefinedType{}
	}
	if lv, isList := value.(types.ListType); isList && lv.Content.TypeName() == "Never" {
		return types.AnyType{}
	}
	return checked.ReturnType
}

func (tc *Typechecker) slice(node *ast.Slice, env *nsenv.Env) types.Type {
	value := tc.Check(node.Target, env)

	for _, part := range []ast.Expr{node.Start, node.Stop, node.Step} {
		if part == nil {
			continue
		}
		checked := tc.Check(part, env)
		if checked.TypeName() != "Int" {
			tc.Errors.Throw(532, span(part.Position()), "type", checked.Display())
		} else if checked.Dim() != nil && !isOneNode(checked.Dim()) {
			tc.Errors.Throw(527, span(part.Position()), "type", checked.Display())
		}
	}

	method, ok := tc.Methods.Lookup(value.TypeName(), "__getitem__")
	if !ok {
		tc.Errors.Throw(526, span(node.Pos), "type", value.Display())
		return types.UndefinedType{}
	}
	checked, ok := checkCandidate(types.NewVarEnv(), method, value, types.SliceType{})
	if !ok {
		tc.Errors.Throw(523, span(node.Pos), "type", value.Display(), "index", "Slice")
		return types.UndefinedType{}
	}
	return checked.ReturnType
}

func (tc *Typechecker) rangeExpr(node *ast.Range, env *nsenv.Env) types.Type {
	value := types.IntType()

	for _, part := range []ast.Expr{node.Start, node.End} {
		checked := tc.Check(part, env)
		if checked.TypeName() != "Int" {
			tc.Errors.Throw(540, span(part.Position()), "type", checked.Display())
		} else if checked.Dim() != nil && !isOneNode(checked.Dim()) {
			tc.Errors.Throw(542, span(part.Position()))
		}
	}

	if node.Step != nil {
		checked := tc.Check(node.Step, env)
		if !types.Is(checked, "Int", "Float") {
			tc.Errors.Throw(528, span(node.Step.Position()), "type", checked.Display())
		} else if checked.Dim() != nil && !isOneNode(checked.Dim()) {
			tc.Errors.Throw(529, span(node.Step.Position()))
		} else if num, ok := checked.(types.NumberType); ok {
			value = num
		}
	}

	return types.RangeType{Value: types.NumberType{Typ: value.Typ}}
}

// ---- functions & calls ----

func paramNames(params []*ast.Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func (tc *Typechecker) resolveAnnotation(ann *ast.FunctionAnnotation, env *nsenv.Env) types.Type {
	if ann == nil {
		return types.AnyType{}
	}
	return tc.resolveType(ann.Type, env)
}

func (tc *Typechecker) function(node *ast.Function, env *nsenv.Env) types.Type {
	params := make([]types.Type, len(node.Params))
	for i, p := range node.Params {
		params[i] = tc.resolveAnnotation(p.Type, env)
	}

	for i, p := range node.Params {
		if p.Default == nil {
			continue
		}
		def := tc.Check(p.Default, env)

		if _, isAny := params[i].(types.AnyType); isAny {
			params[i] = def
			continue
		}
		if !types.NoMismatch(params[i], def) {
			tc.Errors.Throw(518, span(p.Pos), "param", p.Name, "expected", params[i].Display(), "actual", def.Display())
		}
	}

	returnType := types.Type(types.NeverType{})
	if node.ReturnType != nil {
		returnType = tc.resolveAnnotation(node.ReturnType, env)
	}

	required := 0
	for _, p := range node.Params {
		if p.Default == nil {
			required++
		}
	}

	paramAddrs := make([]string, len(node.Params))
	for i, p := range node.Params {
		paramAddrs[i] = p.Name + "-" + uuid.New().String()
	}

	unresolved := types.Resolved
	if node.ReturnType == nil {
		unresolved = types.UnresolvedRecursive
	}

	signature := types.FunctionType{
		Params:      params,
		ParamNames:  paramNames(node.Params),
		ReturnType:  returnType,
		Arity:       [2]int{required, len(node.Params)},
		Unresolved:  unresolved,
		DisplayName: node.Name,
	}

	if node.Name != "" {
		env.SetName(node.Name, signature, "")
	}

	newEnv := env.Copy()
	for i, p := range node.Params {
		newEnv.SetName(p.Name, params[i], paramAddrs[i])
	}
	newEnv.Meta["#function"] = signature

	if len(node.Body.Statements) == 0 {
		tc.Errors.Throw(505, span(node.Body.Pos))
	}
	reportedBefore := len(tc.Errors.Reported)
	body := tc.Check(node.Body, newEnv)

	if len(tc.Errors.Reported) == reportedBefore && !types.NoMismatch(body, returnType) {
		tc.Errors.Throw(515, span(node.Body.Pos), "left", body.Display(), "right", returnType.Display())
	}

	unified := types.Unify(returnType, body)
	if unified == nil {
		unified = body
	}
	signature.ReturnType = unified
	signature.Unresolved = types.Resolved

	if node.Name != "" {
		env.SetName(node.Name, signature, "")
	}
	return signature
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func (tc *Typechecker) call(node *ast.Call, env *nsenv.Env) types.Type {
	callee := tc.Check(node.Callee, env)
	fn, ok := callee.(types.FunctionType)
	if !ok {
		tc.Errors.Throw(506, span(node.Pos), "type", callee.Display())
		return types.UndefinedType{}
	}

	bound := map[string]types.Type{}
	positional := 0
	sawNamed := false

	for _, arg := range node.Args {
		var name string
		if arg.Name != "" {
			name = arg.Name
			if _, dup := bound[name]; dup {
				tc.Errors.Throw(511, span(arg.Pos), "name", fn.DisplayName, "arg", name)
			}
			if !containsName(fn.ParamNames, name) {
				tc.Errors.Throw(512, span(arg.Pos), "name", fn.DisplayName, "arg", name)
				continue
			}
			sawNamed = true
		} else {
			if sawNamed {
				tc.Errors.Throw(509, span(arg.Pos))
			}
			if positional >= len(fn.ParamNames) {
				tc.Errors.Throw(701, span(node.Pos), "callee", fn.DisplayName)
				tc.Check(arg.Value, env)
				continue
			}
			name = fn.ParamNames[positional]
			positional++
		}

		argType := tc.Check(arg.Value, env)
		idx := indexOfName(fn.ParamNames, name)
		var param types.Type = types.AnyType{}
		if idx >= 0 && idx < len(fn.Params) {
			param = fn.Params[idx]
		}
		if _, isAny := param.(types.AnyType); isAny {
			param = argType
		}
		if !types.NoMismatch(argType, param) {
			tc.Errors.Throw(513, span(arg.Pos), "name", name, "actual", argType.Display(), "expected", param.Display())
		}
		if u := types.Unify(param, argType); u != nil {
			bound[name] = u
		} else {
			bound[name] = argType
		}
	}

	if len(bound) < fn.Arity[0] {
		tc.Errors.Throw(701, span(node.Pos), "callee", fn.DisplayName)
	}

	if fn.ReturnType == nil {
		return types.AnyType{}
	}
	return fn.ReturnType
}

func (tc *Typechecker) conversion(node *ast.Conversion, env *nsenv.Env) types.Type {
	value := tc.Check(node.Value, env)
	target := tc.simplify(tc.Dim.Dimensionize(node.Target.Value, dimcheck.ModeUnit))

	if nt, ok := value.(types.NumberType); ok {
		if nt.DimExpr == nil || unit.Equals(nt.DimExpr, target) {
			nt.DimExpr = target
			return nt
		}
	} else if lv, ok := value.(types.ListType); ok {
		if nc, ok := lv.Content.(types.NumberType); ok && (nc.DimExpr == nil || unit.Equals(nc.DimExpr, target)) {
			nc.DimExpr = target
			return types.ListType{Content: nc}
		}
	}

	tc.Errors.Throw(538, span(node.Pos), "type", dimString(target))
	return types.UndefinedType{}
}

// ---- control flow ----

func (tc *Typechecker) block(node *ast.Block, env *nsenv.Env) types.Type {
	var returns types.Type
	for i, stmt := range node.Statements {
		checked := tc.Check(stmt, env)
		_, isReturn := stmt.(*ast.Return)

		if isReturn {
			if returns != nil && !types.NoMismatch(returns, checked) {
				tc.Errors.Throw(507, span(node.Pos), "type", checked.Display())
			}
			returns = checked
		} else if i == len(node.Statements)-1 {
			if returns != nil && !types.NoMismatch(returns, checked) {
				tc.Errors.Throw(507, span(node.Pos), "type", checked.Display())
			}
			returns = checked
		}
	}
	if returns == nil {
		returns = types.NoneType{}
	}
	return returns
}

func (tc *Typechecker) ifStmt(node *ast.If, env *nsenv.Env) types.Type {
	cond := tc.Check(node.Condition, env)
	if _, ok := tc.Methods.Lookup(cond.TypeName(), "__bool__"); !ok {
		tc.Errors.Throw(520, span(node.Condition.Position()), "type", cond.Display())
	}

	then := tc.Check(node.Then, env)
	if node.Else == nil {
		return then
	}
	els := tc.Check(node.Else, env)

	if !types.NoMismatch(then, els) {
		tc.Errors.Throw(521, span(node.Pos), "kind", "type", "then", then.Display(), "else_", els.Display())
	}
	if u := types.Unify(then, els); u != nil {
		return u
	}
	return types.UndefinedType{}
}

func (tc *Typechecker) forLoop(node *ast.ForLoop, env *nsenv.Env) types.Type {
	iterable := tc.Check(node.Iterable, env)
	if !types.Is(iterable, "List", "Range") {
		tc.Errors.Throw(516, span(node.Iterable.Position()), "type", iterable.Display())
		return types.NoneType{}
	}

	var value types.Type
	switch it := iterable.(type) {
	case types.ListType:
		if it.Content.TypeName() == "Never" {
			return types.NoneType{}
		}
		value = it.Content
	case types.RangeType:
		value = it.Value
	}

	if len(node.Names) > 1 {
		lv, ok := value.(types.ListType)
		if !ok {
			tc.Errors.Throw(517, span(node.Pos), "type", value.Display())
		} else {
			value = lv.Content
		}
	}

	newEnv := env.Copy()
	for _, name := range node.Names {
		newEnv.SetName(name, value, "")
	}
	tc.Check(node.Body, newEnv)
	return types.NoneType{}
}

func (tc *Typechecker) whileLoop(node *ast.WhileLoop, env *nsenv.Env) types.Type {
	cond := tc.Check(node.Condition, env.Copy())
	if _, ok := tc.Methods.Lookup(cond.TypeName(), "__bool__"); !ok {
		tc.Errors.Throw(520, span(node.Pos), "type", cond.Display())
	}
	tc.Check(node.Body, env)
	return types.NoneType{}
}

func (tc *Typechecker) returnStmt(node *ast.Return, env *nsenv.Env) types.Type {
	fnVal, inFunction := env.Meta["#function"]
	if !inFunction {
		tc.Errors.Throw(530, span(node.Pos))
		return types.NoneType{}
	}
	fn := fnVal.(types.FunctionType)

	value := types.Type(types.NoneType{})
	if node.Value != nil {
		value = tc.Check(node.Value, env)
	}

	if fn.ReturnType != nil && !types.NoMismatch(value, fn.ReturnType) {
		tc.Errors.Throw(515, span(node.Pos), "left", value.Display(), "right", fn.ReturnType.Display())
	}
	return value
}

// ---- bindings ----

func (tc *Typechecker) assign(node *ast.Assign, env *nsenv.Env) types.Type {
	value := tc.Check(node.Value, env)

	addr, already := env.AddressOfName(node.Name)
	if already {
		if node.Type != nil {
			tc.Errors.Throw(604, span(node.Pos), "name", node.Name)
		}
		if existing, ok := env.GetName(node.Name); ok && !types.NoMismatch(existing, value) {
			tc.Errors.Throw(535, span(node.Pos), "name", node.Name, "value", value.Display(), "declared", existing.Display())
		}
	}

	if node.Type != nil {
		annotation := tc.resolveAnnotation(node.Type, env)
		if lv, okList := annotation.(types.ListType); okList && lv.Content.TypeName() == "Any" {
			if vv, okVal := value.(types.ListType); okVal {
				annotation = types.ListType{Content: vv.Content}
			}
		}
		if !types.NoMismatch(annotation, value) {
			tc.Errors.Throw(536, span(node.Pos), "name", node.Name, "declared", annotation.Display(), "value", value.Display())
		}
		if u := types.Unify(annotation, value); u != nil {
			value = u
		}
	}

	env.SetName(node.Name, value, addr)
	return types.NoneType{}
}

func (tc *Typechecker) variableDecl(node *ast.VariableDecl, env *nsenv.Env) types.Type {
	if _, already := env.AddressOfName(node.Name); already {
		tc.Errors.Throw(604, span(node.Pos), "name", node.Name)
	}
	annotation := types.Type(types.UndefinedType{})
	if node.Type != nil {
		annotation = tc.resolveAnnotation(node.Type, env)
	}
	env.SetName(node.Name, annotation, "")
	return types.NoneType{}
}

// ---- type annotations ----

// resolveType resolves a parsed TypeAnnotation to a types.Type, mirroring
// typechecker.py's type_(). The Expression/One variants it also handles are
// dimension annotations (DimensionAnnotation here) rather than a shared AST
// node, since this ast package keeps type- and dimension-annotations
// syntactically distinct.
func (tc *Typechecker) resolveType(ann ast.TypeAnnotation, env *nsenv.Env) types.Type {
	switch n := ann.(type) {
	case *ast.SimpleType:
		switch n.Name {
		case "Float", "Int":
			var dim unit.Node
			if n.Dim != nil {
				dim = tc.resolveDimExpr(n.Dim)
			}
			return types.NumberType{Typ: n.Name, DimExpr: dim}
		case "List":
			return types.ListType{Content: types.NeverType{}}
		default:
			t, err := types.NewAnyOf(n.Name)
			if err == nil {
				return t
			}
			tc.Errors.Throw(504, span(n.Pos), "name", n.Name)
			return types.UndefinedType{}
		}
	case *ast.ListType:
		content := types.Type(types.NeverType{})
		if n.Content != nil {
			content = tc.resolveType(n.Content, env)
		}
		return types.ListType{Content: content}
	case *ast.DimensionAnnotation:
		return types.DimensionType{DimExpr: tc.resolveDimExpr(n.Expr)}
	default:
		return types.UndefinedType{}
	}
}

func (tc *Typechecker) resolveDimExpr(u *ast.Unit) unit.Node {
	return tc.simplify(tc.Dim.Dimensionize(u.Value, dimcheck.ModeDimension))
}
