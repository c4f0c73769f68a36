// Package astlink implements the AST Linker (spec C2): content-addressed
// deduplication of AST subtrees into a flat, integer-keyed table so later
// passes (Dimchecker, Typechecker) can attach annotations by handle instead
// of by pointer identity. Grounded on
// original_source/typechecker/linking.py, with the teacher's
// internal/sid package as the idiomatic-Go hashing analogue (content hash
// ignoring position/metadata) and internal/link/linker.go for the
// Linker/table shape.
package astlink

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/numerobis-lang/numerobis/internal/ast"
)

// Link is an opaque handle into a Linker's table, standing in for every
// AST-node-typed field once a tree has been linked.
type Link struct {
	Target uint64
}

func (l Link) String() string { return fmt.Sprintf("Link(%d)", l.Target) }

// Opaque leaf types (ast.Identifier, ast.Operator, ast.Unit, ast.CallArg,
// ast.FunctionAnnotation) are never recursively linked — spec §4.2 item 1.

// Linker interns AST nodes by content hash. The zero value is not usable;
// construct with New.
type Linker struct {
	table map[uint64]ast.Node
}

// New builds an empty Linker.
func New() *Linker {
	return &Linker{table: make(map[uint64]ast.Node)}
}

// Table exposes the interned node table (int -> node), read-only by
// convention: callers mutate annotations in a separate side-table
// (internal/nsenv.Namespaces.Typed) keyed by the same Link.Target.
func (l *Linker) Table() map[uint64]ast.Node {
	return l.table
}

// LinkProgram links every top-level statement of prog, returning one Link
// per root.
func (l *Linker) LinkProgram(prog *ast.Program) []Link {
	roots := make([]Link, len(prog.Statements))
	for i, s := range prog.Statements {
		roots[i] = l.Link(s)
	}
	return roots
}

// Link computes a content hash over node's shape (its descriptor writes
// every AST-node-typed child inline, skipping the opaque leaf types),
// interns node under that hash, and returns the Link. Only node itself
// enters the table: its children are not linked or interned separately.
//
// Unlike the Python original, the table stores the node itself rather than
// a "cropped" copy with children replaced by links: Go AST nodes are
// already fully-formed pointers, so there is nothing to patch back on
// Unlink — the content hash still gives two structurally-identical
// subtrees the same Link, which is the property passes rely on.
func (l *Linker) Link(node ast.Node) Link {
	h := l.hash(node)
	if _, ok := l.table[h]; !ok {
		l.table[h] = node
	}
	return Link{Target: h}
}

// Unlink dereferences a Link back to its node.
func (l *Linker) Unlink(link Link) (ast.Node, bool) {
	n, ok := l.table[link.Target]
	return n, ok
}

// hash computes a stable-within-this-run digest of node's shape and field
// values, descending into child nodes (whose descriptors are written
// inline) but never into position/metadata.
func (l *Linker) hash(node ast.Node) uint64 {
	var b strings.Builder
	l.writeDescriptor(&b, node)
	sum := sha256.Sum256([]byte(b.String()))
	return binary.BigEndian.Uint64(sum[:8])
}

func (l *Linker) writeDescriptor(b *strings.Builder, node ast.Node) {
	if node == nil {
		b.WriteString("nil")
		return
	}

	switch n := node.(type) {
	case *ast.Identifier:
		fmt.Fprintf(b, "Identifier{%s}", n.Name)
	case *ast.Operator:
		fmt.Fprintf(b, "Operator{%s}", n.Name)
	case *ast.Unit:
		fmt.Fprintf(b, "Unit{%s}", n.Value.String())
	case *ast.CallArg:
		fmt.Fprintf(b, "CallArg{%s:", n.Name)
		l.writeDescriptor(b, n.Value)
		b.WriteString("}")
	case *ast.FunctionAnnotation:
		fmt.Fprintf(b, "FunctionAnnotation{%s}", n.Type.String())

	case *ast.Number:
		fmt.Fprintf(b, "Number{%d,%s,", n.Kind, n.Value)
		if n.Unit != nil {
			b.WriteString(n.Unit.Value.String())
		}
		b.WriteString("}")
	case *ast.String:
		fmt.Fprintf(b, "String{%q}", n.Value)
	case *ast.Boolean:
		fmt.Fprintf(b, "Boolean{%v}", n.Value)
	case *ast.Variable:
		fmt.Fprintf(b, "Variable{%s}", n.Name)

	case *ast.BinOp:
		b.WriteString("BinOp{")
		l.writeDescriptor(b, n.Left)
		fmt.Fprintf(b, ",%s,", n.Op.Name)
		l.writeDescriptor(b, n.Right)
		b.WriteString("}")
	case *ast.Compare:
		b.WriteString("Compare{")
		l.writeDescriptor(b, n.Left)
		for i, op := range n.Ops {
			fmt.Fprintf(b, ",%s,", op.Name)
			l.writeDescriptor(b, n.Rest[i])
		}
		b.WriteString("}")
	case *ast.BoolOp:
		fmt.Fprintf(b, "BoolOp{%s:", n.Op.Name)
		for _, v := range n.Values {
			l.writeDescriptor(b, v)
			b.WriteString(",")
		}
		b.WriteString("}")
	case *ast.UnaryOp:
		fmt.Fprintf(b, "UnaryOp{%s:", n.Op.Name)
		l.writeDescriptor(b, n.Value)
		b.WriteString("}")

	case *ast.List:
		b.WriteString("List{")
		for _, e := range n.Elements {
			l.writeDescriptor(b, e)
			b.WriteString(",")
		}
		b.WriteString("}")
	case *ast.Index:
		b.WriteString("Index{")
		l.writeDescriptor(b, n.Target)
		b.WriteString(",")
		l.writeDescriptor(b, n.Index)
		b.WriteString("}")
	case *ast.Slice:
		b.WriteString("Slice{")
		l.writeDescriptor(b, n.Target)
		b.WriteString(",")
		l.writeDescriptor(b, n.Start)
		b.WriteString(",")
		l.writeDescriptor(b, n.Stop)
		b.WriteString(",")
		l.writeDescriptor(b, n.Step)
		b.WriteString("}")
	case *ast.Range:
		b.WriteString("Range{")
		l.writeDescriptor(b, n.Start)
		b.WriteString(",")
		l.writeDescriptor(b, n.End)
		b.WriteString(",")
		l.writeDescriptor(b, n.Step)
		b.WriteString("}")
	case *ast.Call:
		b.WriteString("Call{")
		l.writeDescriptor(b, n.Callee)
		for _, a := range n.Args {
			fmt.Fprintf(b, ",%s:", a.Name)
			l.writeDescriptor(b, a.Value)
		}
		b.WriteString("}")
	case *ast.Conversion:
		fmt.Fprintf(b, "Conversion{%v,%s:", n.DisplayOnly, n.Target.Value.String())
		l.writeDescriptor(b, n.Value)
		b.WriteString("}")

	case *ast.Function:
		fmt.Fprintf(b, "Function{%s", n.Name)
		for _, p := range n.Params {
			fmt.Fprintf(b, ",%s", p.Name)
			if p.Type != nil {
				fmt.Fprintf(b, ":%s", p.Type.Type.String())
			}
			if p.Default != nil {
				b.WriteString("=")
				l.writeDescriptor(b, p.Default)
			}
		}
		if n.ReturnType != nil {
			fmt.Fprintf(b, "->%s", n.ReturnType.Type.String())
		}
		b.WriteString(":")
		l.writeDescriptor(b, n.Body)
		b.WriteString("}")

	case *ast.Block:
		b.WriteString("Block{")
		for _, s := range n.Statements {
			l.writeDescriptor(b, s)
			b.WriteString(";")
		}
		b.WriteString("}")
	case *ast.ExprStmt:
		b.WriteString("ExprStmt{")
		l.writeDescriptor(b, n.Value)
		b.WriteString("}")
	case *ast.VariableDecl:
		fmt.Fprintf(b, "VariableDecl{%s:%s}", n.Name, n.Type.Type.String())
	case *ast.Assign:
		fmt.Fprintf(b, "Assign{%s,", n.Name)
		if n.Type != nil {
			fmt.Fprintf(b, "%s,", n.Type.Type.String())
		}
		l.writeDescriptor(b, n.Value)
		b.WriteString("}")
	case *ast.If:
		b.WriteString("If{")
		l.writeDescriptor(b, n.Condition)
		b.WriteString(",")
		l.writeDescriptor(b, n.Then)
		b.WriteString(",")
		l.writeDescriptor(b, n.Else)
		b.WriteString("}")
	case *ast.ForLoop:
		fmt.Fprintf(b, "ForLoop{%s:", strings.Join(n.Names, ","))
		l.writeDescriptor(b, n.Iterable)
		b.WriteString(",")
		l.writeDescriptor(b, n.Body)
		b.WriteString("}")
	case *ast.WhileLoop:
		b.WriteString("WhileLoop{")
		l.writeDescriptor(b, n.Condition)
		b.WriteString(",")
		l.writeDescriptor(b, n.Body)
		b.WriteString("}")
	case *ast.Return:
		b.WriteString("Return{")
		l.writeDescriptor(b, n.Value)
		b.WriteString("}")

	case *ast.ImportDecl:
		fmt.Fprintf(b, "ImportDecl{%d,%s,%s,%s}", n.Kind, n.Module, n.Alias, strings.Join(n.Names, ","))
	case *ast.DimensionDefinition:
		fmt.Fprintf(b, "DimensionDefinition{%s", n.Name)
		if n.Value != nil {
			fmt.Fprintf(b, "=%s", n.Value.String())
		}
		b.WriteString("}")
	case *ast.UnitDefinition:
		fmt.Fprintf(b, "UnitDefinition{%s", n.Name)
		if n.Dimension != nil {
			fmt.Fprintf(b, ":%s", n.Dimension.Name)
		}
		if n.Value != nil {
			fmt.Fprintf(b, "=%s", n.Value.String())
		}
		b.WriteString("}")

	default:
		fmt.Fprintf(b, "%T{%s}", node, node.String())
	}
}
