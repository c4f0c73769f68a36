package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node, used
// for golden snapshot testing. It omits positions so output is stable
// across re-formatting of the same source.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// PrintProgram produces a deterministic JSON representation of a Program.
func PrintProgram(prog *Program) string {
	if prog == nil {
		return "null"
	}
	m := map[string]any{"type": "Program", "path": "test://unit"}
	stmts := make([]any, len(prog.Statements))
	for i, s := range prog.Statements {
		stmts[i] = simplify(s)
	}
	m["statements"] = stmts
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node Node) any {
	if node == nil {
		return nil
	}
	m := map[string]any{"type": fmt.Sprintf("%T", node), "src": node.String()}
	return m
}
