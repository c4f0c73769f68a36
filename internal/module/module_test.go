package module

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/types"
)

// fakeParse is a stand-in for the real lexer+parser pipeline (not yet
// adapted to this language's grammar): it maps a file's base name to a
// canned Program rather than actually lexing src.
func fakeParse(programs map[string]*ast.Program) ParseFunc {
	return func(src, path string) (*ast.Program, []error) {
		base := filepath.Base(path)
		prog, ok := programs[base]
		if !ok {
			return nil, []error{os.ErrNotExist}
		}
		return prog, nil
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestResolverPrefersStdlibOverSearchPath(t *testing.T) {
	stdlib := t.TempDir()
	search := t.TempDir()
	writeFile(t, stdlib, "foo.und", "")
	writeFile(t, search, "foo.und", "")

	t.Setenv("NUMEROBIS_STDLIB", stdlib)
	r := NewResolver(search)

	got, err := r.Resolve("foo", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(stdlib, "foo.und"))
	if got != want {
		t.Fatalf("expected stdlib path %s, got %s", want, got)
	}
}

func TestResolverFallsBackToLocalDir(t *testing.T) {
	t.Setenv("NUMEROBIS_STDLIB", t.TempDir()) // empty, forces fallback
	dir := t.TempDir()
	writeFile(t, dir, "sibling.und", "")

	r := NewResolver()
	got, err := r.Resolve("sibling", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "sibling.und"))
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolverNotFound(t *testing.T) {
	t.Setenv("NUMEROBIS_STDLIB", t.TempDir())
	r := NewResolver()
	if _, err := r.Resolve("missing", t.TempDir()); err == nil {
		t.Fatal("expected an error for a module that exists nowhere")
	}
}

func TestLoaderSelectiveImportMergesName(t *testing.T) {
	t.Setenv("NUMEROBIS_STDLIB", t.TempDir())
	dir := t.TempDir()
	writeFile(t, dir, "a.und", "")
	bPath := writeFile(t, dir, "b.und", "")

	progA := &ast.Program{
		Header: &ast.Header{},
		Statements: []ast.Stmt{
			&ast.Assign{Name: "x", Value: &ast.Number{Kind: ast.IntLit, Value: "1"}},
		},
	}
	progB := &ast.Program{
		Header: &ast.Header{
			Imports: []*ast.ImportDecl{
				{Kind: ast.ImportFrom, Module: "a", Names: []string{"x"}},
			},
		},
		Statements: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.Variable{Name: "x"}},
		},
	}

	loader := NewLoader(fakeParse(map[string]*ast.Program{"a.und": progA, "b.und": progB}))
	loader.Builtins = false

	compiled, err := loader.Load(bPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := compiled.Namespaces.Names["x"]
	if !ok {
		t.Fatal("expected imported name 'x' to be merged into the importing module's namespace")
	}
	num, ok := got.(types.NumberType)
	if !ok || num.Typ != "Int" {
		t.Fatalf("expected an Int, got %#v", got)
	}
}

func TestLoaderCachesByResolvedPath(t *testing.T) {
	t.Setenv("NUMEROBIS_STDLIB", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, dir, "main.und", "")

	prog := &ast.Program{Header: &ast.Header{}}
	loader := NewLoader(fakeParse(map[string]*ast.Program{"main.und": prog}))
	loader.Builtins = false

	first, err := loader.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := loader.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected the second Load of the same path to return the cached CompiledModule")
	}
}

func TestLoaderReportsModuleNotFound(t *testing.T) {
	t.Setenv("NUMEROBIS_STDLIB", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, dir, "main.und", "")

	prog := &ast.Program{
		Header: &ast.Header{
			Imports: []*ast.ImportDecl{{Kind: ast.ImportModule, Module: "nosuch"}},
		},
	}
	loader := NewLoader(fakeParse(map[string]*ast.Program{"main.und": prog}))
	loader.Builtins = false

	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected an error for an unresolvable import")
	} else if !strings.Contains(err.Error(), "error(s) compiling") {
		t.Fatalf("expected a compile-error wrapping the reported diagnostics, got: %v", err)
	}
}
