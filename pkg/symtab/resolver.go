package symtab

import "github.com/OliverRoss/mcc/pkg/ast"

// frame tracks, for one open scope, how many of its rows have become
// visible so far — declarations earlier in program order are visible,
// later ones are not, so a lookup always lands on the textually nearest
// enclosing declaration.
type frame struct {
	scope   *Scope
	visible int
}

// Resolver answers "find declaration upwards" queries while a caller walks
// the AST in lockstep with a Table, tracking exactly which declarations are
// in scope at the current program point. Shared by pkg/check (semantic
// validation) and pkg/rewrite (shadow-rename detection) so both passes
// agree on what "shadowed" means.
type Resolver struct {
	frames []*frame
}

// NewResolver creates a Resolver with the table's global scope (functions
// and built-ins) fully visible from the start.
func NewResolver(table *Table) *Resolver {
	return &Resolver{frames: []*frame{{scope: table.Global, visible: len(table.Global.Rows)}}}
}

// EnterFunction pushes a function's parameter scope, fully visible (every
// parameter is in scope for the whole body).
func (r *Resolver) EnterFunction(fn *ast.FunctionDef, table *Table) {
	scope := table.FuncScope[fn]
	r.frames = append(r.frames, &frame{scope: scope, visible: len(scope.Rows)})
}

// ExitFunction pops the function's parameter scope.
func (r *Resolver) ExitFunction() {
	r.frames = r.frames[:len(r.frames)-1]
}

// EnterCompound pushes a fresh, initially-empty scope for a compound
// statement's declarations.
func (r *Resolver) EnterCompound(c *ast.Compound, table *Table) {
	scope := table.ScopeOf[c]
	r.frames = append(r.frames, &frame{scope: scope, visible: 0})
}

// ExitCompound pops the compound's scope.
func (r *Resolver) ExitCompound() {
	r.frames = r.frames[:len(r.frames)-1]
}

// Declare marks the next not-yet-visible row of the current top scope as
// visible; called exactly when the walker passes a declaration statement.
func (r *Resolver) Declare() {
	top := r.frames[len(r.frames)-1]
	top.visible++
}

// Declaring returns the row the next Declare call will make visible — the
// symbol table entry of the declaration statement the walker is currently
// standing on. Nil if the top scope has no rows left to declare.
func (r *Resolver) Declaring() *Row {
	top := r.frames[len(r.frames)-1]
	if top.visible >= len(top.scope.Rows) {
		return nil
	}
	return top.scope.Rows[top.visible]
}

// Lookup implements "find declaration upwards": nearest scope first,
// restricted to rows visible at the current point, then outward.
func (r *Resolver) Lookup(name string) *Row {
	for i := len(r.frames) - 1; i >= 0; i-- {
		f := r.frames[i]
		for j := 0; j < f.visible && j < len(f.scope.Rows); j++ {
			if f.scope.Rows[j].Name == name {
				return f.scope.Rows[j]
			}
		}
		if f.scope.IsGlobal {
			break
		}
	}
	return nil
}

// ShadowsOuter reports whether name already resolves to a declaration in an
// enclosing (non-top) frame within the current function — i.e. a fresh
// declaration of name at the current point would shadow an outer one.
// Function names in the global scope do not count as shadowed.
func (r *Resolver) ShadowsOuter(name string) bool {
	for i := len(r.frames) - 2; i >= 0; i-- {
		f := r.frames[i]
		if f.scope.IsGlobal {
			break
		}
		for j := 0; j < f.visible && j < len(f.scope.Rows); j++ {
			if f.scope.Rows[j].Name == name {
				return true
			}
		}
	}
	return false
}

// Walk drives stmt (and, recursively, every statement it contains) through
// visit, maintaining scope push/pop and declaration visibility exactly as
// Build constructed them.
func Walk(stmt ast.Stmt, res *Resolver, table *Table, visit func(ast.Stmt, *Resolver) bool) bool {
	if !visit(stmt, res) {
		return false
	}
	switch s := stmt.(type) {
	case *ast.Compound:
		res.EnterCompound(s, table)
		defer res.ExitCompound()
		for _, sub := range s.Stmts {
			if !Walk(sub, res, table, visit) {
				return false
			}
		}
	case *ast.VarDecl:
		res.Declare()
	case *ast.ArrayDecl:
		res.Declare()
	case *ast.If:
		if !Walk(s.Then, res, table, visit) {
			return false
		}
		if s.Else != nil {
			if !Walk(s.Else, res, table, visit) {
				return false
			}
		}
	case *ast.While:
		if !Walk(s.Body, res, table, visit) {
			return false
		}
	}
	return true
}

// WalkProgram runs Walk over every function definition's body in order.
func WalkProgram(prog *ast.Program, table *Table, visit func(ast.Stmt, *Resolver) bool) {
	for _, fn := range prog.Functions {
		res := NewResolver(table)
		res.EnterFunction(fn, table)
		Walk(fn.Body, res, table, visit)
		res.ExitFunction()
	}
}
