// Package symtab builds and queries the compiler's nested-scope symbol
// table: an ordered list of rows per scope, linked to a parent scope.
// Upward lookup stops
// at function boundaries for variables but not for function names, which
// always resolve in the global scope.
package symtab

import (
	"github.com/samber/lo"

	"github.com/OliverRoss/mcc/pkg/ast"
)

// Kind distinguishes what a Row denotes.
type Kind int

const (
	KindVariable Kind = iota
	KindArray
	KindFunction
)

// Row is one symbol table entry.
type Row struct {
	Name      string // may be rewritten in place by pkg/rewrite's shadow pass
	Kind      Kind
	Type      ast.Type
	ArraySize int64 // -1 for scalars and functions
	Params    []ast.Type
	Node      ast.Node // back-link to the defining AST node
}

// Scope is an ordered list of rows with a link to its parent scope.
// ParentRow has room for the row that owns a nested scope's declaration
// context, but Build always leaves it nil; lookups follow Parent.
type Scope struct {
	Rows      []*Row
	Parent    *Scope
	ParentRow *Row // always nil as built by Build
	IsGlobal  bool
}

// NewScope creates a child scope of parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent}
}

// Insert appends a row to the scope in declaration order.
func (s *Scope) Insert(row *Row) {
	s.Rows = append(s.Rows, row)
}

// FindLocal returns the row with the given name declared directly in this
// scope (used for function-name lookups in the global scope), or nil.
func (s *Scope) FindLocal(name string) *Row {
	row, ok := lo.Find(s.Rows, func(r *Row) bool { return r.Name == name })
	if !ok {
		return nil
	}
	return row
}

// FindDeclarationUpwards walks the rows of the current scope, then the
// enclosing scope(s), without crossing a function boundary.
func (s *Scope) FindDeclarationUpwards(name string) *Row {
	for scope := s; scope != nil; scope = scope.Parent {
		if row := scope.FindLocal(name); row != nil {
			return row
		}
		if scope.IsGlobal {
			break
		}
	}
	return nil
}

// FindFunction walks directly to the global scope and looks up a function
// name there — function names resolve globally regardless of nesting depth.
func (s *Scope) FindFunction(name string) *Row {
	scope := s
	for scope.Parent != nil {
		scope = scope.Parent
	}
	return scope.FindLocal(name)
}

// Table is the symbol table for an entire program: a global scope, plus
// back-links from every compound statement and function body to the scope
// it introduces, so a later pass (pkg/check's position-aware lookups) can
// walk the AST and the table in lockstep.
type Table struct {
	Global    *Scope
	ScopeOf   map[*ast.Compound]*Scope
	FuncScope map[*ast.FunctionDef]*Scope
}

// Build constructs the symbol table by a pre-order/post-order walk of the
// program: each function definition opens a scope under Global, parameters
// are inserted in declaration order, and each compound statement opens a
// nested scope under its enclosing one, whether or not it declares locals.
func Build(prog *ast.Program) *Table {
	global := &Scope{IsGlobal: true}
	t := &Table{Global: global, ScopeOf: make(map[*ast.Compound]*Scope), FuncScope: make(map[*ast.FunctionDef]*Scope)}

	for _, builtin := range BuiltinSignatures() {
		global.Insert(builtin)
	}

	for _, fn := range prog.Functions {
		global.Insert(&Row{Name: fn.Name, Kind: KindFunction, Type: fn.ReturnType, ArraySize: -1, Params: paramTypes(fn), Node: fn})
	}

	for _, fn := range prog.Functions {
		buildFunction(fn, global, t)
	}
	return t
}

func paramTypes(fn *ast.FunctionDef) []ast.Type {
	return lo.Map(fn.Params, func(p *ast.Param, _ int) ast.Type { return p.Type })
}

func buildFunction(fn *ast.FunctionDef, global *Scope, t *Table) {
	fnScope := NewScope(global)
	for _, p := range fn.Params {
		fnScope.Insert(&Row{Name: p.Name, Kind: KindVariable, Type: p.Type, ArraySize: -1, Node: p})
	}
	t.FuncScope[fn] = fnScope
	buildCompound(fn.Body, fnScope, nil, t)
}

// buildCompound opens a nested scope for c (parented at 'scope', with
// ParentRow set to parentRow, which every caller passes as nil) and inserts a
// row for every declaration it directly contains, recursing into nested
// statements with the new scope.
func buildCompound(c *ast.Compound, scope *Scope, parentRow *Row, t *Table) *Scope {
	inner := NewScope(scope)
	inner.ParentRow = parentRow
	t.ScopeOf[c] = inner
	for _, stmt := range c.Stmts {
		buildStatement(stmt, inner, t)
	}
	return inner
}

func buildStatement(stmt ast.Stmt, scope *Scope, t *Table) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		scope.Insert(&Row{Name: s.Name, Kind: KindVariable, Type: s.Type, ArraySize: -1, Node: s})
	case *ast.ArrayDecl:
		scope.Insert(&Row{Name: s.Name, Kind: KindArray, Type: s.Elem, ArraySize: s.Size, Node: s})
	case *ast.Compound:
		buildCompound(s, scope, nil, t)
	case *ast.If:
		buildStatement(s.Then, scope, t)
		if s.Else != nil {
			buildStatement(s.Else, scope, t)
		}
	case *ast.While:
		buildStatement(s.Body, scope, t)
	}
}

// BuiltinSignatures returns the predeclared runtime function rows seeded
// into the global scope before any semantic check runs: the six I/O
// functions, plus `modulo`, which the language exposes as a function
// because the grammar has no remainder operator.
func BuiltinSignatures() []*Row {
	return []*Row{
		{Name: "print", Kind: KindFunction, Type: ast.TVoid, ArraySize: -1, Params: []ast.Type{ast.TString}},
		{Name: "print_nl", Kind: KindFunction, Type: ast.TVoid, ArraySize: -1, Params: nil},
		{Name: "print_int", Kind: KindFunction, Type: ast.TVoid, ArraySize: -1, Params: []ast.Type{ast.TInt}},
		{Name: "print_float", Kind: KindFunction, Type: ast.TVoid, ArraySize: -1, Params: []ast.Type{ast.TFloat}},
		{Name: "read_int", Kind: KindFunction, Type: ast.TInt, ArraySize: -1, Params: nil},
		{Name: "read_float", Kind: KindFunction, Type: ast.TFloat, ArraySize: -1, Params: nil},
		{Name: "modulo", Kind: KindFunction, Type: ast.TInt, ArraySize: -1, Params: []ast.Type{ast.TInt, ast.TInt}},
	}
}

// IsBuiltin reports whether name is one of the predeclared runtime functions.
func IsBuiltin(name string) bool {
	return lo.ContainsBy(BuiltinSignatures(), func(r *Row) bool { return r.Name == name })
}
