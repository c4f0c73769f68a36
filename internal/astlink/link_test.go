package astlink

import (
	"testing"

	"github.com/numerobis-lang/numerobis/internal/ast"
)

func TestLinkDedupesIdenticalSubtrees(t *testing.T) {
	l := New()

	a := &ast.Variable{Name: "x"}
	b := &ast.Variable{Name: "x"}

	la := l.Link(a)
	lb := l.Link(b)

	if la != lb {
		t.Fatalf("expected identical subtrees to share a link, got %v and %v", la, lb)
	}

	got, ok := l.Unlink(la)
	if !ok {
		t.Fatal("expected link to resolve")
	}
	if got.String() != "x" {
		t.Fatalf("unexpected node: %s", got.String())
	}
}

func TestLinkDistinguishesDifferentSubtrees(t *testing.T) {
	l := New()

	lx := l.Link(&ast.Variable{Name: "x"})
	ly := l.Link(&ast.Variable{Name: "y"})

	if lx == ly {
		t.Fatal("expected distinct variables to get distinct links")
	}
}

func TestLinkProgramReturnsOneRootPerStatement(t *testing.T) {
	l := New()
	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.Variable{Name: "x"}},
			&ast.Return{Value: &ast.Variable{Name: "y"}},
		},
	}
	roots := l.LinkProgram(prog)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
}
