// Package module implements module loading, import resolution, and the
// per-Loader compiled-module cache (spec C8 external boundaries).
// Grounded on original_source/module.py's Module/ModuleResolver and
// module_resolver.py, adapted from the teacher's internal/module
// loader.go/resolver.go (AILANG's .ail loader) to this language's .und
// source extension and namespace-merging import semantics.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/dimcheck"
	"github.com/numerobis-lang/numerobis/internal/errors"
	"github.com/numerobis-lang/numerobis/internal/nsenv"
	"github.com/numerobis-lang/numerobis/internal/preprocess"
	"github.com/numerobis-lang/numerobis/internal/source"
	"github.com/numerobis-lang/numerobis/internal/typecheck"
)

// span builds a zero-width Span at pos (source.Pos has no Span() method).
func span(pos source.Pos) source.Span {
	return source.Span{Start: pos, End: pos}
}

// sourceExt is the file extension for a source module, mirroring the
// original's ".und" suffix.
const sourceExt = ".und"

// builtinsModule is loaded into every module's namespace unless explicitly
// suppressed, mirroring Module(builtins=True)'s default in the original.
const builtinsModule = "stdlib/builtins" + sourceExt

// ParseFunc lexes and parses source text at path into a Program. It is
// supplied by the caller (internal/lexer + internal/parser) rather than
// imported directly here, keeping this package's dependency on the concrete
// lexer/parser implementation a single injected seam.
type ParseFunc func(source, path string) (*ast.Program, []error)

// CompiledModule is the result of loading one module: its processed
// Namespaces (after Dimchecker/Preprocessor/Typechecker have all run) along
// with its parsed Program, cached by path so re-imports are free. Mirrors
// the original's CompiledModule/MODULECACHE pairing.
type CompiledModule struct {
	Path       string
	Program    *ast.Program
	Namespaces *nsenv.Namespaces
}

// Loader loads modules by path, resolving imports against search paths and
// caching every compiled module in a cache owned by the Loader and shared
// with its builtins sub-loader (keyed by resolved absolute path, mirroring
// the original's MODULECACHE).
type Loader struct {
	Parse ParseFunc

	resolver *Resolver

	mu        sync.Mutex
	cache     map[string]*CompiledModule
	loadStack []string

	// Builtins enables loading builtinsModule into every module's
	// namespace (NewLoader sets it true); false suppresses it, as
	// loadBuiltins does for the builtins module itself, matching
	// Module(builtins=False) in the original.
	Builtins bool
}

// NewLoader builds a Loader resolving imports against the given search
// paths (in addition to the stdlib path resolver.Resolver already knows
// about) and parsing source with parse.
func NewLoader(parse ParseFunc, searchPaths ...string) *Loader {
	return &Loader{
		Parse:    parse,
		resolver: NewResolver(searchPaths...),
		cache:    map[string]*CompiledModule{},
		Builtins: true,
	}
}

// Load loads and fully processes the module at path: parse, resolve and
// load its imports, dimcheck, preprocess, and typecheck. Mirrors the
// original's Module.load().
func (l *Loader) Load(path string) (*CompiledModule, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("module: invalid path %q: %w", path, err)
	}

	l.mu.Lock()
	if cached, ok := l.cache[abs]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	for _, onStack := range l.loadStack {
		if onStack == abs {
			l.mu.Unlock()
			return nil, fmt.Errorf("module: circular import involving %s", abs)
		}
	}
	l.loadStack = append(l.loadStack, abs)
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.loadStack = l.loadStack[:len(l.loadStack)-1]
		l.mu.Unlock()
	}()

	compiled, err := l.load(abs)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[abs] = compiled
	l.mu.Unlock()

	return compiled, nil
}

func (l *Loader) load(abs string) (*CompiledModule, error) {
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("module: reading %s: %w", abs, err)
	}

	prog, parseErrs := l.Parse(string(src), abs)
	if len(parseErrs) > 0 {
		return nil, fmt.Errorf("module: %d parse error(s) in %s: %v", len(parseErrs), abs, parseErrs[0])
	}

	ns := nsenv.New()
	reporter := errors.NewReporter(abs, string(src))

	if l.Builtins && abs != mustStdlibAbs(l.resolver) {
		builtinsMod, err := l.loadBuiltins()
		if err != nil {
			return nil, err
		}
		ns.Update(builtinsMod.Namespaces)
	}

	if err := l.resolveImports(prog.Header, filepath.Dir(abs), ns, reporter); err != nil {
		return nil, err
	}

	dimcheck.New(ns, reporter).Start(prog.Header)
	preprocess.New(ns, reporter).Start(prog.Header)

	// Every imported or already-merged binding lives in ns.Names keyed by
	// its own name (the root Env convention: an address-less SetName at
	// Level 0 allocates address == name, see nsenv.address). Seed the root
	// Env's layer with that same identity mapping so an imported name
	// resolves through Env.GetName exactly like a locally declared one.
	tc := typecheck.New(ns, reporter)
	env := nsenv.NewRoot(ns)
	for name := range ns.Names {
		env.Names[name] = name
	}
	for name := range ns.Dimensions {
		env.Dimensions[name] = name
	}
	for name := range ns.Units {
		env.Units[name] = name
	}
	for _, stmt := range prog.Statements {
		tc.Check(stmt, env)
	}

	if len(reporter.Reported) > 0 {
		return nil, fmt.Errorf("module: %d error(s) compiling %s", len(reporter.Reported), abs)
	}

	return &CompiledModule{Path: abs, Program: prog, Namespaces: ns}, nil
}

// loadBuiltins loads the builtins module with import-merging suppressed,
// mirroring the original's nested Module("stdlib/builtins.und",
// builtins=False).
func (l *Loader) loadBuiltins() (*CompiledModule, error) {
	builtinsPath, err := l.resolver.ResolveStdlib(builtinsModule)
	if err != nil {
		return nil, fmt.Errorf("module: builtins unavailable: %w", err)
	}

	sub := &Loader{Parse: l.Parse, resolver: l.resolver, cache: l.cache, Builtins: false}
	return sub.Load(builtinsPath)
}

func mustStdlibAbs(r *Resolver) string {
	p, err := r.ResolveStdlib(builtinsModule)
	if err != nil {
		return ""
	}
	abs, _ := filepath.Abs(p)
	return abs
}

// resolveImports loads every import in header and merges the imported
// module's exported namespace into ns according to the import form,
// mirroring Module.resolve_imports. dir is the importing module's
// directory, used for relative-style local resolution.
func (l *Loader) resolveImports(header *ast.Header, dir string, ns *nsenv.Namespaces, reporter *errors.Reporter) error {
	for _, imp := range header.Imports {
		name := strings.TrimPrefix(imp.Module, "@")

		resolved, err := l.resolver.Resolve(name, dir)
		if err != nil {
			reporter.Throw(802, span(imp.Pos), "name", name)
			continue
		}

		sub, err := l.Load(resolved)
		if err != nil {
			return fmt.Errorf("module: loading import %q: %w", imp.Module, err)
		}

		switch imp.Kind {
		case ast.ImportModule:
			alias := imp.Alias
			if alias == "" {
				alias = imp.Module
			}
			ns.Imports[alias] = sub.Namespaces

		case ast.ImportFromAll:
			ns.Update(sub.Namespaces)
			ns.Imports[imp.Module] = sub.Namespaces

		case ast.ImportFrom:
			for i, n := range imp.Names {
				alias := n
				if i < len(imp.Aliases) && imp.Aliases[i] != "" {
					alias = imp.Aliases[i]
				}
				if err := importOne(ns, sub.Namespaces, n, alias); err != nil {
					if strings.HasPrefix(n, "@") {
						reporter.Throw(803, span(imp.Pos), "name", strings.TrimPrefix(n, "@"))
						continue
					}
					help := ""
					if _, isDim := sub.Namespaces.Dimensions[n]; isDim {
						help = " (it names a dimension, did you forget the '@' prefix?)"
					} else if _, isUnit := sub.Namespaces.Units[n]; isUnit {
						help = " (it names a unit, did you forget the '@' prefix?)"
					}
					reporter.Throw(804, span(imp.Pos), "name", n, "help", help)
					continue
				}
			}
			ns.Imports[imp.Module] = sub.Namespaces
		}
	}
	return nil
}

// importOne binds one selectively-imported name (or "@"-prefixed
// unit/dimension) from sub into ns under alias, mirroring the original's
// per-name import-kind dispatch.
func importOne(ns, sub *nsenv.Namespaces, name, alias string) error {
	if bare := strings.TrimPrefix(name, "@"); bare != name {
		if d, ok := sub.Dimensions[bare]; ok {
			ns.Dimensions[strings.TrimPrefix(alias, "@")] = d
			return nil
		}
		if u, ok := sub.Units[bare]; ok {
			ns.Units[strings.TrimPrefix(alias, "@")] = u
			return nil
		}
		return fmt.Errorf("%s is not an exported unit or dimension", bare)
	}

	v, ok := sub.Names[name]
	if !ok {
		return fmt.Errorf("%s is not an exported name", name)
	}
	ns.Names[alias] = v
	return nil
}
