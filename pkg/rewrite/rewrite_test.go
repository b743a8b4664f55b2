package rewrite

import (
	"testing"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

func compoundOf(stmts ...ast.Stmt) *ast.Compound {
	return &ast.Compound{Stmts: stmts}
}

func fn(name string, ret ast.Type, params []*ast.Param, body *ast.Compound) *ast.FunctionDef {
	return &ast.FunctionDef{Name: name, ReturnType: ret, Params: params, Body: body}
}

func program(fns ...*ast.FunctionDef) *ast.Program {
	return &ast.Program{Functions: fns}
}

func TestRenameShadowsOuterVariable(t *testing.T) {
	// int main() { int x; { int x; x = 1; } return 0; }
	inner := compoundOf(
		&ast.VarDecl{Name: "x", Type: ast.TInt},
		&ast.Assign{Name: "x", RHS: &ast.IntLit{Value: 1}},
	)
	body := compoundOf(
		&ast.VarDecl{Name: "x", Type: ast.TInt},
		inner,
		&ast.Return{Expr: &ast.IntLit{Value: 0}},
	)
	main := fn("main", ast.TInt, nil, body)
	prog := program(main)
	table := symtab.Build(prog)

	Run(prog, table)

	outerName := body.Stmts[0].(*ast.VarDecl).Name
	innerName := inner.Stmts[0].(*ast.VarDecl).Name
	if outerName != "x" {
		t.Errorf("outer declaration should keep its name, got %q", outerName)
	}
	if innerName == "x" {
		t.Errorf("inner shadowing declaration should be renamed, still %q", innerName)
	}
	assign := inner.Stmts[1].(*ast.Assign)
	if assign.Name != innerName {
		t.Errorf("assignment target should follow the rename: got %q, want %q", assign.Name, innerName)
	}
}

func TestRenameDoesNotTouchNonShadowingDeclaration(t *testing.T) {
	// int main() { int x; int y; return 0; }
	body := compoundOf(
		&ast.VarDecl{Name: "x", Type: ast.TInt},
		&ast.VarDecl{Name: "y", Type: ast.TInt},
		&ast.Return{Expr: &ast.IntLit{Value: 0}},
	)
	main := fn("main", ast.TInt, nil, body)
	prog := program(main)
	table := symtab.Build(prog)

	Run(prog, table)

	if body.Stmts[0].(*ast.VarDecl).Name != "x" || body.Stmts[1].(*ast.VarDecl).Name != "y" {
		t.Errorf("non-shadowing declarations must not be renamed")
	}
}

func TestRenameIsIdempotent(t *testing.T) {
	inner := compoundOf(
		&ast.VarDecl{Name: "x", Type: ast.TInt},
		&ast.Assign{Name: "x", RHS: &ast.IntLit{Value: 1}},
	)
	body := compoundOf(
		&ast.VarDecl{Name: "x", Type: ast.TInt},
		inner,
		&ast.Return{Expr: &ast.IntLit{Value: 0}},
	)
	main := fn("main", ast.TInt, nil, body)
	prog := program(main)
	table := symtab.Build(prog)

	Run(prog, table)
	firstPass := inner.Stmts[0].(*ast.VarDecl).Name

	table2 := symtab.Build(prog)
	Run(prog, table2)
	secondPass := inner.Stmts[0].(*ast.VarDecl).Name

	if firstPass != secondPass {
		t.Errorf("rename pass is not idempotent: first %q, second %q", firstPass, secondPass)
	}
}

func TestInsertImplicitReturnAppendsWhenMissing(t *testing.T) {
	body := compoundOf(&ast.ExprStmt{Expr: &ast.Call{Name: "print_nl"}})
	f := fn("helper", ast.TVoid, nil, body)
	prog := program(f)
	table := symtab.Build(prog)

	Run(prog, table)

	last := f.Body.Stmts[len(f.Body.Stmts)-1]
	ret, ok := last.(*ast.Return)
	if !ok || !ret.Implicit {
		t.Fatalf("expected a synthesized implicit return, got %#v", last)
	}
}

func TestInsertImplicitReturnSkipsWhenAlreadyPresent(t *testing.T) {
	body := compoundOf(&ast.Return{Expr: &ast.IntLit{Value: 0}})
	f := fn("main", ast.TInt, nil, body)
	prog := program(f)
	table := symtab.Build(prog)

	Run(prog, table)

	if len(f.Body.Stmts) != 1 {
		t.Fatalf("expected no statement to be appended, got %d statements", len(f.Body.Stmts))
	}
}

func TestStripBuiltinsRemovesFlaggedDefinitions(t *testing.T) {
	real := fn("main", ast.TInt, nil, compoundOf(&ast.Return{Expr: &ast.IntLit{Value: 0}}))
	bogus := fn("print_nl", ast.TVoid, nil, compoundOf())
	bogus.Builtin = true
	prog := program(real, bogus)
	table := symtab.Build(prog)

	out := Run(prog, table)

	if len(out.Functions) != 1 || out.Functions[0].Name != "main" {
		t.Fatalf("expected only 'main' to survive stripping, got %d functions", len(out.Functions))
	}
}
