// Package rewrite implements the AST-rewrite pre-pass between semantic
// checking and IR construction: shadow renaming, implicit-return
// insertion, and built-in stripping, run in that order. A stateful
// transformer is walked once per function; both rewrites are idempotent.
package rewrite

import (
	"fmt"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

// Transformer carries the state shared by a single rewrite run over a
// whole program: the global counter behind every `_rN` name, so names
// stay unique across every function rather than just within one.
type Transformer struct {
	nextRename int
}

// New creates a Transformer with its rename counter at zero.
func New() *Transformer {
	return &Transformer{}
}

// Run applies the full rewrite pipeline to prog in place, using table to
// resolve shadowing, and returns the rewritten program (the same *Program,
// mutated). Table rows are rewritten in lockstep with the AST so later
// passes keep seeing consistent names.
func Run(prog *ast.Program, table *symtab.Table) *ast.Program {
	t := New()
	for _, fn := range prog.Functions {
		t.renameShadowsInFunction(fn, table)
	}
	for _, fn := range prog.Functions {
		insertImplicitReturn(fn)
	}
	prog.Functions = stripBuiltins(prog.Functions)
	return prog
}

// renameShadowsInFunction drives the shadow-rename walk for one function,
// using a symtab.Resolver so "is this declaration shadowed" matches the
// exact visibility rule pkg/check already validated against.
func (t *Transformer) renameShadowsInFunction(fn *ast.FunctionDef, table *symtab.Table) {
	res := symtab.NewResolver(table)
	res.EnterFunction(fn, table)
	defer res.ExitFunction()
	t.renameShadowsInCompound(fn.Body, res, table)
}

// renameShadowsInCompound walks c's statements in textual order, keeping
// the resolver's declaration visibility in lockstep, so a nested compound
// sees exactly the declarations textually before it. Each declaration that
// shadows an enclosing one is renamed to a fresh `_rN`, with its symbol
// table row and every later use in this same compound renamed to follow.
func (t *Transformer) renameShadowsInCompound(c *ast.Compound, res *symtab.Resolver, table *symtab.Table) {
	res.EnterCompound(c, table)
	defer res.ExitCompound()

	for _, stmt := range c.Stmts {
		var name *string
		switch s := stmt.(type) {
		case *ast.VarDecl:
			name = &s.Name
		case *ast.ArrayDecl:
			name = &s.Name
		default:
			t.renameShadowsInNested(stmt, res, table)
			continue
		}
		row := res.Declaring()
		if res.ShadowsOuter(*name) {
			fresh := fmt.Sprintf("_r%d", t.nextRename)
			t.nextRename++
			old := *name
			*name = fresh
			if row != nil {
				row.Name = fresh
			}
			renameUsesInRest(c.Stmts, stmt, old, fresh)
		}
		res.Declare()
	}
}

// renameShadowsInNested recurses into the bodies of control-flow
// statements nested in this compound, never crossing a function
// boundary.
func (t *Transformer) renameShadowsInNested(stmt ast.Stmt, res *symtab.Resolver, table *symtab.Table) {
	switch s := stmt.(type) {
	case *ast.Compound:
		t.renameShadowsInCompound(s, res, table)
	case *ast.If:
		t.renameShadowsInNested(s.Then, res, table)
		if s.Else != nil {
			t.renameShadowsInNested(s.Else, res, table)
		}
	case *ast.While:
		t.renameShadowsInNested(s.Body, res, table)
	}
}

// renameUsesInRest renames every reference to oldName as newName in the
// statements of stmts that textually follow declStmt, without descending
// into a nested compound that itself re-declares oldName (that inner
// declaration shadows this one and is renamed independently).
func renameUsesInRest(stmts []ast.Stmt, declStmt ast.Stmt, oldName, newName string) {
	found := false
	for _, s := range stmts {
		if !found {
			if s == declStmt {
				found = true
			}
			continue
		}
		renameUsesInStmt(s, oldName, newName)
	}
}

func renameUsesInStmt(stmt ast.Stmt, oldName, newName string) {
	switch s := stmt.(type) {
	case *ast.Compound:
		if redeclares(s, oldName) {
			return
		}
		for _, sub := range s.Stmts {
			renameUsesInStmt(sub, oldName, newName)
		}
	case *ast.VarDecl:
	case *ast.ArrayDecl:
	case *ast.Assign:
		if s.Name == oldName {
			s.Name = newName
		}
		renameUsesInExpr(s.Index, oldName, newName)
		renameUsesInExpr(s.RHS, oldName, newName)
	case *ast.If:
		renameUsesInExpr(s.Cond, oldName, newName)
		renameUsesInStmt(s.Then, oldName, newName)
		if s.Else != nil {
			renameUsesInStmt(s.Else, oldName, newName)
		}
	case *ast.While:
		renameUsesInExpr(s.Cond, oldName, newName)
		renameUsesInStmt(s.Body, oldName, newName)
	case *ast.ExprStmt:
		renameUsesInExpr(s.Expr, oldName, newName)
	case *ast.Return:
		renameUsesInExpr(s.Expr, oldName, newName)
	}
}

// redeclares reports whether c directly re-declares name, which would
// shadow the outer renaming and stop it from applying inside c.
func redeclares(c *ast.Compound, name string) bool {
	for _, s := range c.Stmts {
		switch d := s.(type) {
		case *ast.VarDecl:
			if d.Name == name {
				return true
			}
		case *ast.ArrayDecl:
			if d.Name == name {
				return true
			}
		}
	}
	return false
}

func renameUsesInExpr(e ast.Expr, oldName, newName string) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Variable:
		if n.Name == oldName {
			n.Name = newName
		}
	case *ast.ArrayElem:
		if n.Name == oldName {
			n.Name = newName
		}
		renameUsesInExpr(n.Index, oldName, newName)
	case *ast.Binary:
		renameUsesInExpr(n.Left, oldName, newName)
		renameUsesInExpr(n.Right, oldName, newName)
	case *ast.Unary:
		renameUsesInExpr(n.Child, oldName, newName)
	case *ast.Paren:
		renameUsesInExpr(n.Expr, oldName, newName)
	case *ast.Call:
		for _, a := range n.Args {
			renameUsesInExpr(a, oldName, newName)
		}
	}
}

// insertImplicitReturn appends a synthesized `return;` to fn's body if its
// last statement is not already a return. Idempotent: a body already
// ending in a return (implicit or explicit) is left alone.
func insertImplicitReturn(fn *ast.FunctionDef) {
	body := fn.Body
	if len(body.Stmts) > 0 {
		if _, isReturn := body.Stmts[len(body.Stmts)-1].(*ast.Return); isReturn {
			return
		}
	}
	body.Stmts = append(body.Stmts, &ast.Return{Implicit: true, Pos: body.Pos})
}

// stripBuiltins removes predeclared built-in definitions from the
// function list before IR generation. Defensive: pkg/check already
// rejects a user definition that reuses a built-in's name, but the
// pipeline keeps this filter as an explicit guard rather than relying on
// that.
func stripBuiltins(fns []*ast.FunctionDef) []*ast.FunctionDef {
	out := fns[:0]
	for _, fn := range fns {
		if symtab.IsBuiltin(fn.Name) || fn.Builtin {
			continue
		}
		out = append(out, fn)
	}
	return out
}
