package typecheck

import (
	"testing"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/types"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

func newChecker() (*Typechecker, *errors.Reporter) {
	ns := nsenv.New()
	r := errors.NewReporter("test.nb", "")
	return New(ns, r), r
}

func intLit(v string) *ast.Number {
	return &ast.Number{Kind: ast.IntLit, Value: v}
}

func TestBinOpDimensionMismatch(t *testing.T) {
	tc, errs := newChecker()
	tc.NS.Dimensions["Length"] = &unit.Identifier{Name: "Length"}
	tc.NS.Dimensions["Time"] = &unit.Identifier{Name: "Time"}
	tc.NS.Dimensionized["m"] = &unit.Identifier{Name: "Length"}
	tc.NS.Dimensionized["s"] = &unit.Identifier{Name: "Time"}

	env := nsenv.NewRoot(tc.NS)

	left := &ast.Number{Kind: ast.IntLit, Value: "1", Unit: &ast.Unit{Value: &unit.Identifier{Name: "m"}}}
	right := &ast.Number{Kind: ast.IntLit, Value: "2", Unit: &ast.Unit{Value: &unit.Identifier{Name: "s"}}}
	node := &ast.BinOp{Left: left, Op: &ast.Operator{Name: "add"}, Right: right}

	tc.Check(node, env)

	if len(errs.Reported) != 1 || errs.Reported[0].Code != 703 {
		t.Fatalf("expected a single code-703 dimension mismatch, got %v", errs.Reported)
	}
}

func TestBinOpSameDimensionOk(t *testing.T) {
	tc, errs := newChecker()
	tc.NS.Dimensions["Length"] = &unit.Identifier{Name: "Length"}
	tc.NS.Dimensionized["m"] = &unit.Identifier{Name: "Length"}

	env := nsenv.NewRoot(tc.NS)

	left := &ast.Number{Kind: ast.IntLit, Value: "1", Unit: &ast.Unit{Value: &unit.Identifier{Name: "m"}}}
	right := &ast.Number{Kind: ast.IntLit, Value: "2", Unit: &ast.Unit{Value: &unit.Identifier{Name: "m"}}}
	node := &ast.BinOp{Left: left, Op: &ast.Operator{Name: "add"}, Right: right}

	got := tc.Check(node, env)

	if len(errs.Reported) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Reported)
	}
	num, ok := got.(types.NumberType)
	if !ok || num.Typ != "Int" {
		t.Fatalf("expected an Int result, got %#v", got)
	}
}

func TestCallArgumentCountMismatch(t *testing.T) {
	tc, errs := newChecker()
	env := nsenv.NewRoot(tc.NS)

	fn := types.FunctionType{
		Params:      []types.Type{types.IntType()},
		ParamNames:  []string{"x"},
		ReturnType:  types.IntType(),
		Arity:       [2]int{1, 1},
		DisplayName: "f",
	}
	env.SetName("f", fn, "")

	call := &ast.Call{Callee: &ast.Variable{Name: "f"}}
	tc.Check(call, env)

	if len(errs.Reported) == 0 {
		t.Fatal("expected an argument-count-mismatch error")
	}
	found := false
	for _, r := range errs.Reported {
		if r.Code == 701 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected code 701 among %v", errs.Reported)
	}
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	tc, errs := newChecker()
	env := nsenv.NewRoot(tc.NS)

	fn := types.FunctionType{
		Params:      []types.Type{types.IntType()},
		ParamNames:  []string{"x"},
		ReturnType:  types.IntType(),
		Arity:       [2]int{1, 1},
		DisplayName: "f",
	}
	env.SetName("f", fn, "")

	call := &ast.Call{
		Callee: &ast.Variable{Name: "f"},
		Args:   []*ast.CallArg{{Value: &ast.String{Value: "oops"}}},
	}
	tc.Check(call, env)

	if len(errs.Reported) != 1 || errs.Reported[0].Code != 513 {
		t.Fatalf("expected a single code-513 argument type mismatch, got %v", errs.Reported)
	}
}

func TestFunctionReturnTypeMismatch(t *testing.T) {
	tc, errs := newChecker()
	env := nsenv.NewRoot(tc.NS)

	fn := &ast.Function{
		Name:       "f",
		ReturnType: &ast.FunctionAnnotation{Type: &ast.SimpleType{Name: "Int"}},
		Body: &ast.Block{
			Statements: []ast.Stmt{
				&ast.Return{Value: &ast.String{Value: "nope"}},
			},
		},
	}

	tc.Check(fn, env)

	if len(errs.Reported) != 1 || errs.Reported[0].Code != 515 {
		t.Fatalf("expected a single code-515 return type mismatch, got %v", errs.Reported)
	}
}

func TestIfBranchMismatch(t *testing.T) {
	tc, errs := newChecker()
	env := nsenv.NewRoot(tc.NS)

	node := &ast.If{
		Condition: &ast.Boolean{Value: true},
		Then: &ast.Block{Statements: []ast.Stmt{
			&ast.ExprStmt{Value: intLit("1")},
		}},
		Else: &ast.Block{Statements: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.String{Value: "x"}},
		}},
	}

	tc.Check(node, env)

	if len(errs.Reported) != 1 || errs.Reported[0].Code != 521 {
		t.Fatalf("expected a single code-521 branch mismatch, got %v", errs.Reported)
	}
}

func TestSmallProgramTypechecksCleanly(t *testing.T) {
	tc, errs := newChecker()
	tc.NS.Dimensions["Length"] = &unit.Identifier{Name: "Length"}
	tc.NS.Dimensionized["m"] = &unit.Identifier{Name: "Length"}

	prog := &ast.Program{
		Header: &ast.Header{},
		Statements: []ast.Stmt{
			&ast.Assign{
				Name:  "distance",
				Value: &ast.Number{Kind: ast.IntLit, Value: "5", Unit: &ast.Unit{Value: &unit.Identifier{Name: "m"}}},
			},
			&ast.Assign{
				Name:  "doubled",
				Value: &ast.BinOp{Left: &ast.Variable{Name: "distance"}, Op: &ast.Operator{Name: "add"}, Right: &ast.Variable{Name: "distance"}},
			},
			&ast.If{
				Condition: &ast.Compare{
					Left: &ast.Variable{Name: "doubled"},
					Ops:  []*ast.Operator{{Name: "gt"}},
					Rest: []ast.Expr{&ast.Variable{Name: "distance"}},
				},
				Then: &ast.Block{Statements: []ast.Stmt{
					&ast.ExprStmt{Value: &ast.Boolean{Value: true}},
				}},
			},
		},
	}

	tc.Start(prog)

	if len(errs.Reported) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Reported)
	}
}
