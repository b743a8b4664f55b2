package stacking

import (
	"testing"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/ir"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

func TestAnnotateConservesFrameSize(t *testing.T) {
	// int main() { int x; x = 1; x = 2; return x; }
	body := &ast.Compound{Stmts: []ast.Stmt{
		&ast.VarDecl{Name: "x", Type: ast.TInt},
		&ast.Assign{Name: "x", RHS: &ast.IntLit{Value: 1}},
		&ast.Assign{Name: "x", RHS: &ast.IntLit{Value: 2}},
		&ast.Return{Expr: &ast.Variable{Name: "x"}},
	}}
	fn := &ast.FunctionDef{Name: "main", ReturnType: ast.TInt, Body: body}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fn}}
	table := symtab.Build(prog)
	list := ir.Build(prog)

	Annotate(list, table)

	funcLabel := list.Rows[0]
	var sum int
	for _, row := range list.Rows[1:] {
		sum += row.StackSize
	}
	if funcLabel.StackSize != sum {
		t.Errorf("frame size %d does not equal sum of interior row sizes %d", funcLabel.StackSize, sum)
	}

	if funcLabel.StackSize != 4 {
		t.Errorf("expected a single 4-byte slot for 'x' (second assign reuses the slot), got %d", funcLabel.StackSize)
	}

	for _, row := range list.Rows {
		if row.StackPosition > 0 || row.StackPosition < -funcLabel.StackSize {
			t.Errorf("row %d stack_position %d out of range [-%d, 0)", row.Index, row.StackPosition, funcLabel.StackSize)
		}
	}
}

func TestAnnotateGivesEachFunctionItsOwnFrame(t *testing.T) {
	fnA := &ast.FunctionDef{Name: "a", ReturnType: ast.TVoid, Body: &ast.Compound{Stmts: []ast.Stmt{
		&ast.VarDecl{Name: "y", Type: ast.TInt},
		&ast.Assign{Name: "y", RHS: &ast.IntLit{Value: 1}},
	}}}
	fnB := &ast.FunctionDef{Name: "main", ReturnType: ast.TInt, Body: &ast.Compound{Stmts: []ast.Stmt{
		&ast.Return{Expr: &ast.IntLit{Value: 0}},
	}}}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fnA, fnB}}
	table := symtab.Build(prog)
	list := ir.Build(prog)

	Annotate(list, table)

	var labels []*ir.Row
	for _, row := range list.Rows {
		if row.Tag == ir.FuncLabel {
			labels = append(labels, row)
		}
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 FUNC_LABEL rows, got %d", len(labels))
	}
	if labels[0].StackSize != 4 {
		t.Errorf("function 'a' should reserve 4 bytes for 'y', got %d", labels[0].StackSize)
	}
	if labels[1].StackSize != 0 {
		t.Errorf("function 'main' has no locals, expected 0 bytes, got %d", labels[1].StackSize)
	}
}

func TestAnnotateSizesFloatParameterFromSignature(t *testing.T) {
	// float id(float x) { return x; }
	fnID := &ast.FunctionDef{
		Name:       "id",
		ReturnType: ast.TFloat,
		Params:     []*ast.Param{{Name: "x", Type: ast.TFloat}},
		Body: &ast.Compound{Stmts: []ast.Stmt{
			&ast.Return{Expr: &ast.Variable{Name: "x"}},
		}},
	}
	fnMain := &ast.FunctionDef{Name: "main", ReturnType: ast.TInt, Body: &ast.Compound{Stmts: []ast.Stmt{
		&ast.Return{Expr: &ast.IntLit{Value: 0}},
	}}}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fnID, fnMain}}
	table := symtab.Build(prog)
	list := ir.Build(prog)

	Annotate(list, table)

	// id's frame holds exactly the 8-byte slot binding its parameter.
	if got := list.Rows[0].StackSize; got != 8 {
		t.Errorf("expected an 8-byte frame for the float parameter bind, got %d", got)
	}
}

func TestAnnotateGivesCallResultASlot(t *testing.T) {
	// int f() { return 1; }  int main() { return f(); }
	fnF := &ast.FunctionDef{Name: "f", ReturnType: ast.TInt, Body: &ast.Compound{Stmts: []ast.Stmt{
		&ast.Return{Expr: &ast.IntLit{Value: 1}},
	}}}
	fnMain := &ast.FunctionDef{Name: "main", ReturnType: ast.TInt, Body: &ast.Compound{Stmts: []ast.Stmt{
		&ast.Return{Expr: &ast.Call{Name: "f"}},
	}}}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fnF, fnMain}}
	table := symtab.Build(prog)
	list := ir.Build(prog)

	Annotate(list, table)

	var mainLabel *ir.Row
	for _, row := range list.Rows {
		if row.Tag == ir.FuncLabel && row.Arg1.FuncName == "main" {
			mainLabel = row
		}
	}
	if mainLabel == nil {
		t.Fatal("no FUNC_LABEL for main")
	}
	if mainLabel.StackSize != 4 {
		t.Errorf("main's frame should hold exactly the call-result slot, got %d bytes", mainLabel.StackSize)
	}
}
