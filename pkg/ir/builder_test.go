package ir

import (
	"testing"

	"github.com/OliverRoss/mcc/pkg/ast"
)

func TestBuildSimpleReturn(t *testing.T) {
	// int main() { return 0; }
	fn := &ast.FunctionDef{
		Name:       "main",
		ReturnType: ast.TInt,
		Body:       &ast.Compound{Stmts: []ast.Stmt{&ast.Return{Expr: &ast.IntLit{Value: 0}}}},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fn}}

	list := Build(prog)

	if len(list.Rows) != 2 {
		t.Fatalf("expected FUNC_LABEL + RETURN, got %d rows", len(list.Rows))
	}
	if list.Rows[0].Tag != FuncLabel || list.Rows[0].Arg1.FuncName != "main" {
		t.Errorf("row 0 should be FUNC_LABEL(main), got %+v", list.Rows[0])
	}
	if list.Rows[1].Tag != Return {
		t.Errorf("row 1 should be RETURN, got %s", list.Rows[1].Tag)
	}
}

func TestBuildWhileLoopLabelsAreUniqueAndWellFormed(t *testing.T) {
	// int f(){ int i; i=0; while(i<10){ i=i+1; } return i; }
	body := &ast.Compound{Stmts: []ast.Stmt{
		&ast.VarDecl{Name: "i", Type: ast.TInt},
		&ast.Assign{Name: "i", RHS: &ast.IntLit{Value: 0}},
		&ast.While{
			Cond: &ast.Binary{Op: ast.OpLt, Left: &ast.Variable{Name: "i"}, Right: &ast.IntLit{Value: 10}},
			Body: &ast.Compound{Stmts: []ast.Stmt{
				&ast.Assign{Name: "i", RHS: &ast.Binary{Op: ast.OpAdd, Left: &ast.Variable{Name: "i"}, Right: &ast.IntLit{Value: 1}}},
			}},
		},
		&ast.Return{Expr: &ast.Variable{Name: "i"}},
	}}
	fn := &ast.FunctionDef{Name: "f", ReturnType: ast.TInt, Body: body}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fn}}

	list := Build(prog)

	labelDefs := map[int]int{}
	for _, row := range list.Rows {
		if row.Tag == Label {
			labelDefs[row.Arg1.Label]++
		}
	}
	for l, count := range labelDefs {
		if count != 1 {
			t.Errorf("label L%d defined %d times, want exactly 1", l, count)
		}
	}

	var sawJump, sawJumpFalse bool
	for _, row := range list.Rows {
		if row.Tag == Jump {
			sawJump = true
		}
		if row.Tag == JumpFalse {
			sawJumpFalse = true
		}
	}
	if !sawJump || !sawJumpFalse {
		t.Errorf("expected both JUMP and JUMPFALSE in a while loop's IR")
	}
}

func TestBuildCallPushesArgsInReverseOrder(t *testing.T) {
	// int main() { return add(1, 2); }  with add(int, int) assumed declared elsewhere
	body := &ast.Compound{Stmts: []ast.Stmt{
		&ast.Return{Expr: &ast.Call{Name: "add", Args: []ast.Expr{&ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}}}},
	}}
	fn := &ast.FunctionDef{Name: "main", ReturnType: ast.TInt, Body: body}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fn}}

	list := Build(prog)

	var sawPush, sawCall bool
	var pushed []int64
	for _, row := range list.Rows {
		if row.Tag == Push {
			sawPush = true
			pushed = append(pushed, row.Arg1.IntVal)
		}
		if row.Tag == Call {
			sawCall = true
			if sawPush == false {
				t.Errorf("CALL must be preceded by a PUSH")
			}
		}
	}
	if !sawPush || !sawCall {
		t.Errorf("expected a PUSH followed by a CALL, got %s", Print(list))
	}
	if len(pushed) != 2 || pushed[0] != 2 || pushed[1] != 1 {
		t.Errorf("expected arguments pushed last to first (2 then 1), got %v", pushed)
	}
}

func TestRowNumberingSkipsNonValueRows(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:       "main",
		ReturnType: ast.TInt,
		Body: &ast.Compound{Stmts: []ast.Stmt{
			&ast.Return{Expr: &ast.Binary{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}},
		}},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDef{fn}}

	list := Build(prog)

	for _, row := range list.Rows {
		if row.Tag == FuncLabel || row.Tag == Return {
			if row.Number != 0 {
				t.Errorf("row %s should not receive a temporary number, got %d", row.Tag, row.Number)
			}
		}
		if row.Tag == Add && row.Number == 0 {
			t.Errorf("ADD row should receive a temporary number")
		}
	}
}
