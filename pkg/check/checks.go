package check

import (
	"github.com/samber/lo"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

// checkMainFunction requires exactly one function named main, with the
// signature `int main()`.
func checkMainFunction(prog *ast.Program, table *symtab.Table) Result {
	mains := lo.Filter(prog.Functions, func(fn *ast.FunctionDef, _ int) bool { return fn.Name == "main" })
	switch {
	case len(mains) == 0:
		return failMsg("No main function defined")
	case len(mains) > 1:
		return failMsg("Too many main functions defined")
	}
	main := mains[0]
	if main.ReturnType != ast.TInt || len(main.Params) != 0 {
		return failMsg("Main has wrong signature. Must be `int main()`")
	}
	return ok()
}

// checkMultipleFunctionDefinitions rejects two function definitions that
// share a name, and a definition that reuses a built-in's name.
func checkMultipleFunctionDefinitions(prog *ast.Program, table *symtab.Table) Result {
	seen := make(map[string]bool)
	for _, fn := range prog.Functions {
		if seen[fn.Name] || symtab.IsBuiltin(fn.Name) {
			return fail(fn.Pos, "function '%s' is already defined", fn.Name)
		}
		seen[fn.Name] = true
	}
	return ok()
}

// checkMultipleVariableDeclarations rejects two declarations sharing a name
// within a single scope. Shadowing across nested scopes is allowed here —
// it is resolved later by pkg/rewrite's shadow-renaming pass.
func checkMultipleVariableDeclarations(prog *ast.Program, table *symtab.Table) Result {
	for _, fn := range prog.Functions {
		if res := checkScopeDuplicates(table.FuncScope[fn]); res.Status == Fail {
			return res
		}
		if res := checkCompoundDuplicates(fn.Body, table); res.Status == Fail {
			return res
		}
	}
	return ok()
}

func checkCompoundDuplicates(c *ast.Compound, table *symtab.Table) Result {
	if res := checkScopeDuplicates(table.ScopeOf[c]); res.Status == Fail {
		return res
	}
	for _, s := range c.Stmts {
		if res := checkStmtDuplicates(s, table); res.Status == Fail {
			return res
		}
	}
	return ok()
}

func checkStmtDuplicates(s ast.Stmt, table *symtab.Table) Result {
	switch n := s.(type) {
	case *ast.Compound:
		return checkCompoundDuplicates(n, table)
	case *ast.If:
		if res := checkStmtDuplicates(n.Then, table); res.Status == Fail {
			return res
		}
		if n.Else != nil {
			return checkStmtDuplicates(n.Else, table)
		}
	case *ast.While:
		return checkStmtDuplicates(n.Body, table)
	}
	return ok()
}

func checkScopeDuplicates(scope *symtab.Scope) Result {
	if scope == nil {
		return ok()
	}
	seen := make(map[string]bool)
	for _, row := range scope.Rows {
		if seen[row.Name] {
			return fail(positionOf(row), "variable '%s' is already declared in this scope", row.Name)
		}
		seen[row.Name] = true
	}
	return ok()
}

func positionOf(row *symtab.Row) ast.Pos {
	if row.Node != nil {
		return row.Node.Position()
	}
	return ast.Pos{}
}

// checkUnknownFunctionCalls rejects a call to a name absent from the global
// scope and absent from the built-in set.
func checkUnknownFunctionCalls(prog *ast.Program, table *symtab.Table) Result {
	var result Result = ok()
	for _, fn := range prog.Functions {
		walkExprs(fn.Body, func(e ast.Expr) {
			if result.Status == Fail {
				return
			}
			if call, isCall := e.(*ast.Call); isCall {
				if table.Global.FindLocal(call.Name) == nil {
					result = fail(call.Pos, "unknown function '%s'", call.Name)
				}
			}
		})
		if result.Status == Fail {
			return result
		}
	}
	return result
}

// walkExprs visits every expression reachable from stmt, regardless of scope.
func walkExprs(stmt ast.Stmt, visit func(ast.Expr)) {
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		visit(e)
		switch n := e.(type) {
		case *ast.Binary:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.Unary:
			walkExpr(n.Child)
		case *ast.Paren:
			walkExpr(n.Expr)
		case *ast.ArrayElem:
			walkExpr(n.Index)
		case *ast.Call:
			for _, a := range n.Args {
				walkExpr(a)
			}
		}
	}
	switch s := stmt.(type) {
	case *ast.Compound:
		for _, sub := range s.Stmts {
			walkExprs(sub, visit)
		}
	case *ast.Assign:
		walkExpr(s.Index)
		walkExpr(s.RHS)
	case *ast.If:
		walkExpr(s.Cond)
		walkExprs(s.Then, visit)
		if s.Else != nil {
			walkExprs(s.Else, visit)
		}
	case *ast.While:
		walkExpr(s.Cond)
		walkExprs(s.Body, visit)
	case *ast.ExprStmt:
		walkExpr(s.Expr)
	case *ast.Return:
		walkExpr(s.Expr)
	}
}

// checkUndeclaredVariables rejects any identifier reference (variable,
// array element, or assignment target) that does not resolve via the
// upward-lookup rule.
func checkUndeclaredVariables(prog *ast.Program, table *symtab.Table) Result {
	return walkProgram(prog, table, func(stmt ast.Stmt, res *symtab.Resolver) Result {
		var result Result = ok()
		checkVar := func(e ast.Expr) {
			if result.Status == Fail {
				return
			}
			switch n := e.(type) {
			case *ast.Variable:
				if res.Lookup(n.Name) == nil {
					result = fail(n.Pos, "use of undeclared variable '%s'", n.Name)
				}
			case *ast.ArrayElem:
				if res.Lookup(n.Name) == nil {
					result = fail(n.Pos, "use of undeclared variable '%s'", n.Name)
				}
			}
		}
		switch s := stmt.(type) {
		case *ast.Assign:
			if res.Lookup(s.Name) == nil {
				return fail(s.Pos, "use of undeclared variable '%s'", s.Name)
			}
			walkExprOnly(s.Index, checkVar)
			walkExprOnly(s.RHS, checkVar)
		case *ast.If:
			walkExprOnly(s.Cond, checkVar)
		case *ast.While:
			walkExprOnly(s.Cond, checkVar)
		case *ast.ExprStmt:
			walkExprOnly(s.Expr, checkVar)
		case *ast.Return:
			walkExprOnly(s.Expr, checkVar)
		}
		return result
	})
}

// walkExprOnly recurses e without needing a containing statement (used by
// checks that already track scope state for the enclosing statement).
func walkExprOnly(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *ast.Binary:
		walkExprOnly(n.Left, visit)
		walkExprOnly(n.Right, visit)
	case *ast.Unary:
		walkExprOnly(n.Child, visit)
	case *ast.Paren:
		walkExprOnly(n.Expr, visit)
	case *ast.ArrayElem:
		walkExprOnly(n.Index, visit)
	case *ast.Call:
		for _, a := range n.Args {
			walkExprOnly(a, visit)
		}
	}
}

// checkReturnCoverage requires every execution path through a non-void
// function to reach a return. Conservative: a while loop never covers
// the path past it, even when its body always returns.
func checkReturnCoverage(prog *ast.Program, table *symtab.Table) Result {
	for _, fn := range prog.Functions {
		if fn.ReturnType == ast.TVoid {
			continue
		}
		if !stmtReturns(fn.Body) {
			return fail(fn.Pos, "function '%s' does not return a value on all execution paths", fn.Name)
		}
	}
	return ok()
}

// stmtReturns reports whether s unconditionally reaches a return.
func stmtReturns(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Return:
		return true
	case *ast.Compound:
		return lo.SomeBy(n.Stmts, stmtReturns)
	case *ast.If:
		if n.Else == nil {
			return false
		}
		return stmtReturns(n.Then) && stmtReturns(n.Else)
	case *ast.While:
		return false
	default:
		return false
	}
}
