package check

import (
	"testing"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/lexer"
	"github.com/OliverRoss/mcc/pkg/parser"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

func runCheck(t *testing.T, src string) Result {
	t.Helper()
	p := parser.New(lexer.New(src), "test.mc")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	table := symtab.Build(prog)
	return Run(prog, table)
}

func TestRunAcceptsAValidProgram(t *testing.T) {
	res := runCheck(t, `int main() { int x; x = 1; return x; }`)
	if res.Status != OK {
		t.Fatalf("expected OK, got %+v", res)
	}
}

func TestRunRejectsMissingMain(t *testing.T) {
	res := runCheck(t, `int helper() { return 1; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure for a program with no main")
	}
}

func TestRunRejectsWrongMainSignature(t *testing.T) {
	res := runCheck(t, `int main(int x) { return x; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure for main() taking arguments")
	}
}

func TestRunRejectsDuplicateFunctionNames(t *testing.T) {
	res := runCheck(t, `
		int helper() { return 1; }
		int helper() { return 2; }
		int main() { return helper(); }
	`)
	if res.Status != Fail {
		t.Fatal("expected a failure for two functions named 'helper'")
	}
}

func TestRunRejectsDuplicateVariableInSameScope(t *testing.T) {
	res := runCheck(t, `int main() { int x; int x; return 0; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure for a duplicate declaration in one scope")
	}
}

func TestRunAllowsShadowingInNestedScope(t *testing.T) {
	res := runCheck(t, `
		int main() {
			int x;
			x = 1;
			{
				int x;
				x = 2;
			}
			return x;
		}
	`)
	if res.Status != OK {
		t.Fatalf("expected shadowing in a nested compound to be allowed, got %+v", res)
	}
}

func TestRunRejectsUnknownFunctionCall(t *testing.T) {
	res := runCheck(t, `int main() { return nosuch(); }`)
	if res.Status != Fail {
		t.Fatal("expected a failure calling an undeclared function")
	}
}

func TestRunRejectsUndeclaredVariable(t *testing.T) {
	res := runCheck(t, `int main() { return y; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure referencing an undeclared variable")
	}
}

func TestRunRejectsMissingReturnOnSomePath(t *testing.T) {
	res := runCheck(t, `
		int main() {
			int x;
			x = 1;
			if (x == 1) {
				return 1;
			}
		}
	`)
	if res.Status != Fail {
		t.Fatal("expected a failure for a non-void function without a guaranteed return")
	}
}

func TestRunAcceptsReturnCoveredByBothBranches(t *testing.T) {
	res := runCheck(t, `
		int main() {
			int x;
			x = 1;
			if (x == 1) {
				return 1;
			} else {
				return 0;
			}
		}
	`)
	if res.Status != OK {
		t.Fatalf("expected OK when both branches return, got %+v", res)
	}
}

func TestRunRejectsTypeMismatchInAssignment(t *testing.T) {
	res := runCheck(t, `int main() { int x; x = true; return 0; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure assigning a bool to an int variable")
	}
}

func TestRunRejectsNonBoolCondition(t *testing.T) {
	res := runCheck(t, `int main() { if (1) { return 1; } return 0; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure for a non-bool if condition")
	}
}

func TestRunRejectsWrongArgumentCount(t *testing.T) {
	res := runCheck(t, `
		int add(int a, int b) { return a + b; }
		int main() { return add(1); }
	`)
	if res.Status != Fail {
		t.Fatal("expected a failure calling add with too few arguments")
	}
}

func TestRunRejectsMismatchedArithmeticOperands(t *testing.T) {
	res := runCheck(t, `int main() { return 1 + true; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure adding an int and a bool")
	}
}

func TestRunRejectsUnindexedArrayUse(t *testing.T) {
	res := runCheck(t, `int main() { int a[3]; return a; }`)
	if res.Status != Fail {
		t.Fatal("expected a failure using an array identifier without an index")
	}
}

func TestRunRejectsVoidOperandInArithmetic(t *testing.T) {
	res := runCheck(t, `
		void noop() { return; }
		int main() { return noop() + noop(); }
	`)
	if res.Status != Fail {
		t.Fatal("expected a failure adding two void call results")
	}
}

func TestTypeOfResolvesWellTypedArithmetic(t *testing.T) {
	e := &ast.Binary{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}
	table := symtab.Build(&ast.Program{})
	res := symtab.NewResolver(table)
	typ, result := typeOf(e, res)
	if result.Status != OK || typ != ast.TInt {
		t.Fatalf("expected int/OK for 1 + 2, got %s/%+v", typ, result)
	}
}
