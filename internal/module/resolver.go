package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns a dotted module name into a source file path, checking the
// standard library first and then the caller's search paths, mirroring
// original_source/module_resolver.py's ModuleResolver.resolve (the
// stdlib-first, then-search-paths order, and the "." -> "/" name mangling).
type Resolver struct {
	stdlibPath  string
	searchPaths []string
}

// NewResolver builds a Resolver. stdlibPath defaults to "stdlib" relative
// to the working directory unless NUMEROBIS_STDLIB is set; extraSearchPaths
// are tried, in order, after the stdlib.
func NewResolver(extraSearchPaths ...string) *Resolver {
	stdlib := os.Getenv("NUMEROBIS_STDLIB")
	if stdlib == "" {
		stdlib = "stdlib"
	}
	return &Resolver{
		stdlibPath:  stdlib,
		searchPaths: extraSearchPaths,
	}
}

// Resolve resolves a (possibly dotted) module name to an absolute file
// path, trying the stdlib, then dir (the importing module's own
// directory, supporting local sibling imports), then every configured
// search path.
func (r *Resolver) Resolve(name string, dir string) (string, error) {
	file := strings.ReplaceAll(name, ".", string(filepath.Separator)) + sourceExt

	if path := filepath.Join(r.stdlibPath, file); fileExists(path) {
		return filepath.Abs(path)
	}

	if dir != "" {
		if path := filepath.Join(dir, file); fileExists(path) {
			return filepath.Abs(path)
		}
	}

	for _, sp := range r.searchPaths {
		if path := filepath.Join(sp, file); fileExists(path) {
			return filepath.Abs(path)
		}
	}

	return "", fmt.Errorf("module %q not found", name)
}

// ResolveStdlib resolves a path already relative to the stdlib root (e.g.
// "stdlib/builtins.und") directly, without the dotted-name mangling Resolve
// applies — used for the fixed builtins path.
func (r *Resolver) ResolveStdlib(relPath string) (string, error) {
	trimmed := strings.TrimPrefix(relPath, "stdlib"+string(filepath.Separator))
	trimmed = strings.TrimPrefix(trimmed, "stdlib/")
	path := filepath.Join(r.stdlibPath, trimmed)
	if !fileExists(path) {
		return "", fmt.Errorf("stdlib module %q not found at %s", relPath, path)
	}
	return filepath.Abs(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
