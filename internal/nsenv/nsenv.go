// Package nsenv implements the Environment & Namespaces component (spec
// C3): a single globally-shared Namespaces record of maps, and a lexical
// Env layer of short-name -> address maps supporting shadowing. Grounded on
// original_source/environment.py, with the address-shadowing scheme
// translated from Python's uuid.uuid4() suffix to google/uuid and fuzzy
// suggestion translated from difflib.get_close_matches to
// xrash/smetrics Jaro-Winkler distance.
package nsenv

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xrash/smetrics"

	"github.com/numerobis-lang/numerobis/internal/ast"
	"github.com/numerobis-lang/numerobis/internal/types"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

// suggestCutoff mirrors the Python original's difflib cutoff of 0.6; a
// candidate below this Jaro-Winkler score is not offered as a suggestion.
const suggestCutoff = 0.6

// Namespaces is the single global record of maps shared by every Env layer
// of a module (and, via Imports, by every module that imports it).
type Namespaces struct {
	Names         map[string]types.Type
	Dimensions    map[string]unit.Node
	Units         map[string]unit.Node
	Dimensionized map[string]unit.Node
	Imports       map[string]*Namespaces
	Nodes         map[uint64]ast.Node
	Typed         map[uint64]string
}

// New builds an empty Namespaces.
func New() *Namespaces {
	return &Namespaces{
		Names:         map[string]types.Type{},
		Dimensions:    map[string]unit.Node{},
		Units:         map[string]unit.Node{},
		Dimensionized: map[string]unit.Node{},
		Imports:       map[string]*Namespaces{},
		Nodes:         map[uint64]ast.Node{},
		Typed:         map[uint64]string{},
	}
}

// Copy returns a shallow clone: every map is duplicated one level deep, so
// inserting into the copy never mutates ns.
func (ns *Namespaces) Copy() *Namespaces {
	out := New()
	for k, v := range ns.Names {
		out.Names[k] = v
	}
	for k, v := range ns.Dimensions {
		out.Dimensions[k] = v
	}
	for k, v := range ns.Units {
		out.Units[k] = v
	}
	for k, v := range ns.Dimensionized {
		out.Dimensionized[k] = v
	}
	for k, v := range ns.Imports {
		out.Imports[k] = v
	}
	for k, v := range ns.Nodes {
		out.Nodes[k] = v
	}
	for k, v := range ns.Typed {
		out.Typed[k] = v
	}
	return out
}

// Update merges other's entries into ns, other taking precedence on
// conflicting keys (used when a module merges an imported module's
// exported namespace into its own).
func (ns *Namespaces) Update(other *Namespaces) {
	for k, v := range other.Names {
		ns.Names[k] = v
	}
	for k, v := range other.Dimensions {
		ns.Dimensions[k] = v
	}
	for k, v := range other.Units {
		ns.Units[k] = v
	}
	for k, v := range other.Dimensionized {
		ns.Dimensionized[k] = v
	}
	for k, v := range other.Imports {
		ns.Imports[k] = v
	}
}

// SuggestName returns the closest known name to a misspelled reference, for
// use in "unknown name" diagnostics.
func (ns *Namespaces) SuggestName(name string) (string, bool) {
	return suggest(name, keysOfType(ns.Names))
}

// SuggestDimension is SuggestName over the dimensions namespace.
func (ns *Namespaces) SuggestDimension(name string) (string, bool) {
	return suggest(name, keysOfUnit(ns.Dimensions))
}

// SuggestUnit is SuggestName over the units namespace.
func (ns *Namespaces) SuggestUnit(name string) (string, bool) {
	return suggest(name, keysOfUnit(ns.Units))
}

// SuggestDimensionized is SuggestName over the dimensionized (per-unit
// resolved dimension) namespace, used by the Dimchecker when resolving a
// reference in unit mode.
func (ns *Namespaces) SuggestDimensionized(name string) (string, bool) {
	return suggest(name, keysOfUnit(ns.Dimensionized))
}

func keysOfType(m map[string]types.Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func keysOfUnit(m map[string]unit.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func suggest(name string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := smetrics.JaroWinkler(name, c, 0.7, 4)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < suggestCutoff {
		return "", false
	}
	return best, true
}

// Env is an immutable-per-layer lexical scope referencing a shared global
// Namespaces. Each layer maps short names to addresses (the key under
// which the value actually lives in Namespaces); Level increases by one
// per Copy, and any Set at Level > 0 allocates a fresh address so the
// binding shadows an outer one instead of overwriting it.
type Env struct {
	Glob       *Namespaces
	Names      map[string]string
	Dimensions map[string]string
	Units      map[string]string
	Meta       map[string]any
	Level      int
}

// NewRoot builds the level-0 Env over glob.
func NewRoot(glob *Namespaces) *Env {
	return &Env{
		Glob:       glob,
		Names:      map[string]string{},
		Dimensions: map[string]string{},
		Units:      map[string]string{},
		Meta:       map[string]any{},
		Level:      0,
	}
}

// Copy returns a child layer at Level+1, sharing Glob but with its own
// short-name maps (cloned from e, so new bindings in the child don't leak
// to the parent).
func (e *Env) Copy() *Env {
	child := &Env{
		Glob:       e.Glob,
		Names:      cloneMap(e.Names),
		Dimensions: cloneMap(e.Dimensions),
		Units:      cloneMap(e.Units),
		Meta:       map[string]any{},
		Level:      e.Level + 1,
	}
	return child
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func address(level int, layer map[string]string, name, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if addr, ok := layer[name]; ok && level == 0 {
		return addr
	}
	if level > 0 {
		return fmt.Sprintf("%s-%s", name, uuid.New().String())
	}
	return name
}

// SetName binds name to value, allocating a fresh address if this layer is
// shadowing (Level > 0) and no explicit address is given; it returns the
// address used.
func (e *Env) SetName(name string, value types.Type, explicitAddress string) string {
	addr := address(e.Level, e.Names, name, explicitAddress)
	e.Glob.Names[addr] = value
	e.Names[name] = addr
	return addr
}

// GetName resolves name through this layer to the global Names map.
func (e *Env) GetName(name string) (types.Type, bool) {
	addr, ok := e.Names[name]
	if !ok {
		return nil, false
	}
	v, ok := e.Glob.Names[addr]
	return v, ok
}

// AddressOfName returns the address name is currently bound to in this
// layer, if any.
func (e *Env) AddressOfName(name string) (string, bool) {
	addr, ok := e.Names[name]
	return addr, ok
}

// SetDimension mirrors SetName over the dimensions namespace.
func (e *Env) SetDimension(name string, value unit.Node, explicitAddress string) string {
	addr := address(e.Level, e.Dimensions, name, explicitAddress)
	e.Glob.Dimensions[addr] = value
	e.Dimensions[name] = addr
	return addr
}

// GetDimension mirrors GetName over the dimensions namespace.
func (e *Env) GetDimension(name string) (unit.Node, bool) {
	addr, ok := e.Dimensions[name]
	if !ok {
		return nil, false
	}
	v, ok := e.Glob.Dimensions[addr]
	return v, ok
}

// SetUnit mirrors SetName over the units namespace.
func (e *Env) SetUnit(name string, value unit.Node, explicitAddress string) string {
	addr := address(e.Level, e.Units, name, explicitAddress)
	e.Glob.Units[addr] = value
	e.Units[name] = addr
	return addr
}

// GetUnit mirrors GetName over the units namespace.
func (e *Env) GetUnit(name string) (unit.Node, bool) {
	addr, ok := e.Units[name]
	if !ok {
		return nil, false
	}
	v, ok := e.Glob.Units[addr]
	return v, ok
}

// ExportNames returns a name -> Type snapshot of every binding visible in
// this layer, resolved through to the global table (used to build a
// module's exported namespace for importers).
func (e *Env) ExportNames() map[string]types.Type {
	out := make(map[string]types.Type, len(e.Names))
	for name, addr := range e.Names {
		out[name] = e.Glob.Names[addr]
	}
	return out
}
