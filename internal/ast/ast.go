// Package ast defines Numerobis's program AST: the node set the AST Linker
// (internal/astlink), Dimchecker (internal/dimcheck) and Typechecker
// (internal/typecheck) operate on. Node shapes and the String()/Position()
// idiom are grounded on the teacher's internal/ast package; the node set
// itself is Numerobis's own (functions, control flow, unit literals)
// rather than the teacher's lambda-calculus surface.
package ast

import (
	"fmt"
	"strings"

	"github.com/numerobis-lang/numerobis/internal/source"
	"github.com/numerobis-lang/numerobis/internal/unit"
)

// Node is the base interface for every AST node.
type Node interface {
	String() string
	Position() source.Pos
}

// Expr is any node that denotes a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that appears directly inside a Block.
type Stmt interface {
	Node
	stmtNode()
}

// TypeAnnotation is a parsed type expression (`Float[m/s]`, `List[Int]`, …)
// as written in source, before the Typechecker resolves it to a types.Type.
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

// Identifier, Operator, Unit and CallArg are opaque leaves: the AST Linker
// never recurses into them (spec's C2 contract lists them by name).

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Pos  source.Pos
}

func (i *Identifier) String() string        { return i.Name }
func (i *Identifier) Position() source.Pos  { return i.Pos }
func (i *Identifier) exprNode()             {}

// Operator names a binary/unary/comparison operator token.
type Operator struct {
	Name string // add, sub, mul, div, mod, pow, lt, gt, le, ge, eq, ne, and, or, not
	Pos  source.Pos
}

func (o *Operator) String() string       { return o.Name }
func (o *Operator) Position() source.Pos { return o.Pos }

// Unit wraps a unit/dimension expression (from the unit package) attached
// to a literal or a type annotation, e.g. the `km` in `5 km` or the
// `m/s` in `Float[m/s]`.
type Unit struct {
	Value unit.Node
	Pos   source.Pos
}

func (u *Unit) String() string       { return u.Value.String() }
func (u *Unit) Position() source.Pos { return u.Pos }

// CallArg is a (possibly named) call argument.
type CallArg struct {
	Name  string // empty when positional
	Value Expr
	Pos   source.Pos
}

func (c *CallArg) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%s=%s", c.Name, c.Value)
	}
	return c.Value.String()
}
func (c *CallArg) Position() source.Pos { return c.Pos }

// FunctionAnnotation is the return/parameter type annotation attached to a
// function declaration (a TypeAnnotation wrapper with its own span, kept
// distinct per the linker's opaque-leaf list).
type FunctionAnnotation struct {
	Type TypeAnnotation
	Pos  source.Pos
}

func (f *FunctionAnnotation) String() string       { return f.Type.String() }
func (f *FunctionAnnotation) Position() source.Pos { return f.Pos }

// ---- Literals ----

// LiteralKind distinguishes the four primitive literal forms.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
)

// Number is an Int/Float literal, optionally carrying a unit expression
// (`5 km`) that the Preprocessor rewrites into base-unit form.
type Number struct {
	Kind  LiteralKind // IntLit or FloatLit
	Value string      // decimal text, as written; rewritten in place by the Preprocessor
	Unit  *Unit        // nil when dimensionless
	Pos   source.Pos
}

func (n *Number) String() string {
	if n.Unit != nil {
		return fmt.Sprintf("%s %s", n.Value, n.Unit)
	}
	return n.Value
}
func (n *Number) Position() source.Pos { return n.Pos }
func (n *Number) exprNode()            {}

// String is a string literal.
type String struct {
	Value string
	Pos   source.Pos
}

func (s *String) String() string       { return fmt.Sprintf("%q", s.Value) }
func (s *String) Position() source.Pos { return s.Pos }
func (s *String) exprNode()            {}

// Boolean is a true/false literal.
type Boolean struct {
	Value bool
	Pos   source.Pos
}

func (b *Boolean) String() string       { return fmt.Sprintf("%v", b.Value) }
func (b *Boolean) Position() source.Pos { return b.Pos }
func (b *Boolean) exprNode()            {}

// ---- Expressions ----

// BinOp is a binary arithmetic/bitwise operation (add, sub, mul, div, mod, pow).
type BinOp struct {
	Left  Expr
	Op    *Operator
	Right Expr
	Pos   source.Pos
}

func (b *BinOp) String() string        { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op.Name, b.Right) }
func (b *BinOp) Position() source.Pos  { return b.Pos }
func (b *BinOp) exprNode()             {}

// Compare is a chained comparison `a < b < c`.
type Compare struct {
	Left  Expr
	Ops   []*Operator
	Rest  []Expr
	Pos   source.Pos
}

func (c *Compare) String() string {
	parts := []string{c.Left.String()}
	for i, op := range c.Ops {
		parts = append(parts, op.Name, c.Rest[i].String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}
func (c *Compare) Position() source.Pos { return c.Pos }
func (c *Compare) exprNode()            {}

// BoolOp is a short-circuiting and/or/not.
type BoolOp struct {
	Op     *Operator
	Values []Expr
	Pos    source.Pos
}

func (b *BoolOp) String() string {
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " "+b.Op.Name+" ") + ")"
}
func (b *BoolOp) Position() source.Pos { return b.Pos }
func (b *BoolOp) exprNode()            {}

// UnaryOp is unary negation or boolean not.
type UnaryOp struct {
	Op    *Operator
	Value Expr
	Pos   source.Pos
}

func (u *UnaryOp) String() string       { return fmt.Sprintf("(%s %s)", u.Op.Name, u.Value) }
func (u *UnaryOp) Position() source.Pos { return u.Pos }
func (u *UnaryOp) exprNode()            {}

// Variable is a name reference used as an expression (a read).
type Variable struct {
	Name string
	Pos  source.Pos
}

func (v *Variable) String() string       { return v.Name }
func (v *Variable) Position() source.Pos { return v.Pos }
func (v *Variable) exprNode()            {}

// List is a list literal.
type List struct {
	Elements []Expr
	Pos      source.Pos
}

func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Position() source.Pos { return l.Pos }
func (l *List) exprNode()            {}

// Index is a single-element subscript `xs[i]`.
type Index struct {
	Target Expr
	Index  Expr
	Pos    source.Pos
}

func (i *Index) String() string       { return fmt.Sprintf("%s[%s]", i.Target, i.Index) }
func (i *Index) Position() source.Pos { return i.Pos }
func (i *Index) exprNode()            {}

// Slice is a `xs[start:stop:step]` subscript; any of the three may be nil.
type Slice struct {
	Target Expr
	Start  Expr
	Stop   Expr
	Step   Expr
	Pos    source.Pos
}

func (s *Slice) String() string {
	fmtOrBlank := func(e Expr) string {
		if e == nil {
			return ""
		}
		return e.String()
	}
	return fmt.Sprintf("%s[%s:%s:%s]", s.Target, fmtOrBlank(s.Start), fmtOrBlank(s.Stop), fmtOrBlank(s.Step))
}
func (s *Slice) Position() source.Pos { return s.Pos }
func (s *Slice) exprNode()            {}

// Range is a `start..end[..step]` range expression.
type Range struct {
	Start Expr
	End   Expr
	Step  Expr
	Pos   source.Pos
}

func (r *Range) String() string {
	if r.Step != nil {
		return fmt.Sprintf("%s..%s..%s", r.Start, r.End, r.Step)
	}
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
func (r *Range) Position() source.Pos { return r.Pos }
func (r *Range) exprNode()            {}

// Call is a function application `f(a, b=c)`.
type Call struct {
	Callee Expr
	Args   []*CallArg
	Pos    source.Pos
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}
func (c *Call) Position() source.Pos { return c.Pos }
func (c *Call) exprNode()            {}

// Conversion is `value -> Unit` (semantic) or `value (-> Unit)` (display-only).
type Conversion struct {
	Value      Expr
	Target     *Unit
	DisplayOnly bool
	Pos        source.Pos
}

func (c *Conversion) String() string {
	if c.DisplayOnly {
		return fmt.Sprintf("%s (-> %s)", c.Value, c.Target)
	}
	return fmt.Sprintf("%s -> %s", c.Value, c.Target)
}
func (c *Conversion) Position() source.Pos { return c.Pos }
func (c *Conversion) exprNode()            {}

// Function is a function literal `name!(params) [: T] = body` (Name empty
// for anonymous `!(params) = body`).
type Function struct {
	Name       string
	Params     []*Param
	ReturnType *FunctionAnnotation // nil when unannotated
	Body       *Block
	Pos        source.Pos
}

// Param is a single function parameter with optional type annotation and
// default value.
type Param struct {
	Name    string
	Type    *FunctionAnnotation // nil when unannotated
	Default Expr                // nil when required
	Pos     source.Pos
}

func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name
	}
	name := f.Name
	if name == "" {
		name = "<anon>"
	}
	return fmt.Sprintf("%s!(%s)", name, strings.Join(params, ", "))
}
func (f *Function) Position() source.Pos { return f.Pos }
func (f *Function) exprNode()            {}
func (f *Function) stmtNode()            {}

// ---- Statements ----

// Block is a sequence of statements; the last, if an expression statement,
// is the block's value.
type Block struct {
	Statements []Stmt
	Pos        source.Pos
}

func (b *Block) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
func (b *Block) Position() source.Pos { return b.Pos }
func (b *Block) stmtNode()            {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Value Expr
	Pos   source.Pos
}

func (e *ExprStmt) String() string       { return e.Value.String() }
func (e *ExprStmt) Position() source.Pos { return e.Pos }
func (e *ExprStmt) stmtNode()            {}

// VariableDecl declares a name with only a type annotation, no value
// (`x: Float[m]`); reserves the name without binding it.
type VariableDecl struct {
	Name string
	Type *FunctionAnnotation
	Pos  source.Pos
}

func (v *VariableDecl) String() string       { return fmt.Sprintf("%s: %s", v.Name, v.Type) }
func (v *VariableDecl) Position() source.Pos { return v.Pos }
func (v *VariableDecl) stmtNode()            {}

// Assign binds or rebinds a name (`x = expr` or `x: T = expr`).
type Assign struct {
	Name  string
	Type  *FunctionAnnotation // nil when inferred
	Value Expr
	Pos   source.Pos
}

func (a *Assign) String() string       { return fmt.Sprintf("%s = %s", a.Name, a.Value) }
func (a *Assign) Position() source.Pos { return a.Pos }
func (a *Assign) stmtNode()            {}

// If is a conditional statement `if cond then … [else …]`.
type If struct {
	Condition Expr
	Then      *Block
	Else      *Block // nil when no else clause
	Pos       source.Pos
}

func (i *If) String() string {
	if i.Else != nil {
		return fmt.Sprintf("if %s then %s else %s", i.Condition, i.Then, i.Else)
	}
	return fmt.Sprintf("if %s then %s", i.Condition, i.Then)
}
func (i *If) Position() source.Pos { return i.Pos }
func (i *If) stmtNode()            {}
func (i *If) exprNode()            {}

// ForLoop is `for x[, y, …] in xs do …`.
type ForLoop struct {
	Names    []string
	Iterable Expr
	Body     *Block
	Pos      source.Pos
}

func (f *ForLoop) String() string {
	return fmt.Sprintf("for %s in %s do %s", strings.Join(f.Names, ", "), f.Iterable, f.Body)
}
func (f *ForLoop) Position() source.Pos { return f.Pos }
func (f *ForLoop) stmtNode()            {}

// WhileLoop is `while cond do …`.
type WhileLoop struct {
	Condition Expr
	Body      *Block
	Pos       source.Pos
}

func (w *WhileLoop) String() string       { return fmt.Sprintf("while %s do %s", w.Condition, w.Body) }
func (w *WhileLoop) Position() source.Pos { return w.Pos }
func (w *WhileLoop) stmtNode()            {}

// Return is `return expr?`.
type Return struct {
	Value Expr // nil for a bare `return`
	Pos   source.Pos
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}
func (r *Return) Position() source.Pos { return r.Pos }
func (r *Return) stmtNode()            {}

// ---- Type annotations ----

// SimpleType is a bare type name, optionally with a dimension subscript
// (`Float[m/s]`, `Int`, `Any`).
type SimpleType struct {
	Name string
	Dim  *Unit // nil when undimensioned
	Pos  source.Pos
}

func (s *SimpleType) String() string {
	if s.Dim != nil {
		return fmt.Sprintf("%s[%s]", s.Name, s.Dim)
	}
	return s.Name
}
func (s *SimpleType) Position() source.Pos { return s.Pos }
func (s *SimpleType) typeAnnotationNode()  {}

// ListType is `List[T]`.
type ListType struct {
	Content TypeAnnotation
	Pos     source.Pos
}

func (l *ListType) String() string       { return fmt.Sprintf("List[%s]", l.Content) }
func (l *ListType) Position() source.Pos { return l.Pos }
func (l *ListType) typeAnnotationNode()  {}

// DimensionAnnotation is a bare dimension expression used as a type
// annotation position for dimension definitions' own bodies.
type DimensionAnnotation struct {
	Expr *Unit
	Pos  source.Pos
}

func (d *DimensionAnnotation) String() string       { return d.Expr.String() }
func (d *DimensionAnnotation) Position() source.Pos { return d.Pos }
func (d *DimensionAnnotation) typeAnnotationNode()  {}

// ---- Header: imports, units, dimensions ----

// ImportKind distinguishes the import forms.
type ImportKind int

const (
	ImportModule  ImportKind = iota // import M [as N]
	ImportFrom                      // from M import a, b [as c]
	ImportFromAll                   // from M import *
)

// ImportDecl is one import statement.
type ImportDecl struct {
	Kind    ImportKind
	Module  string
	Alias   string   // for ImportModule "as N"; empty otherwise
	Names   []string // for ImportFrom; may carry "@"-prefixed unit/dim names
	Aliases []string // parallel to Names, empty entries when no "as"
	Pos     source.Pos
}

func (i *ImportDecl) String() string {
	switch i.Kind {
	case ImportModule:
		if i.Alias != "" {
			return fmt.Sprintf("import %s as %s", i.Module, i.Alias)
		}
		return "import " + i.Module
	case ImportFromAll:
		return fmt.Sprintf("from %s import *", i.Module)
	default:
		return fmt.Sprintf("from %s import %s", i.Module, strings.Join(i.Names, ", "))
	}
}
func (i *ImportDecl) Position() source.Pos { return i.Pos }
func (i *ImportDecl) stmtNode()            {}

// DimensionDefinition is `dimension X [= expr]`.
type DimensionDefinition struct {
	Name  string
	Value unit.Node // nil for a primitive dimension
	Pos   source.Pos
}

func (d *DimensionDefinition) String() string {
	if d.Value != nil {
		return fmt.Sprintf("dimension %s = %s", d.Name, d.Value)
	}
	return "dimension " + d.Name
}
func (d *DimensionDefinition) Position() source.Pos { return d.Pos }
func (d *DimensionDefinition) stmtNode()            {}

// UnitParam is one `p: U = v` default parameter in a unit declaration's
// parametrisation list.
type UnitParam struct {
	Name    string
	Type    string
	Default unit.Node
}

// UnitDefinition is `unit u [: D] [[params]] [= expr]`.
type UnitDefinition struct {
	Name      string
	Dimension *unit.Identifier // nil when not explicitly declared
	Params    []*UnitParam
	Value     unit.Node // nil when the unit is primitive
	Pos       source.Pos
}

func (u *UnitDefinition) String() string {
	s := "unit " + u.Name
	if u.Dimension != nil {
		s += ": " + u.Dimension.Name
	}
	if u.Value != nil {
		s += " = " + u.Value.String()
	}
	return s
}
func (u *UnitDefinition) Position() source.Pos { return u.Pos }
func (u *UnitDefinition) stmtNode()            {}

// Header collects a module's import/unit/dimension declarations, parsed
// before any other statement (spec §6: imports must precede all other
// statements except unit/dimension declarations).
type Header struct {
	Imports    []*ImportDecl
	Dimensions []*DimensionDefinition
	Units      []*UnitDefinition
}

// Program is a whole parsed module: its Header plus top-level statements.
type Program struct {
	Header     *Header
	Statements []Stmt
	Path       string
}

func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}
func (p *Program) Position() source.Pos { return source.Pos{File: p.Path} }
