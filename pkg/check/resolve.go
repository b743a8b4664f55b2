package check

import (
	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

// walkProgram adapts symtab.WalkProgram's bool-returning visitor to check's
// Result-returning one, short-circuiting the walk on the first failure.
func walkProgram(prog *ast.Program, table *symtab.Table, visit func(ast.Stmt, *symtab.Resolver) Result) Result {
	var failure Result = ok()
	for _, fn := range prog.Functions {
		res := symtab.NewResolver(table)
		res.EnterFunction(fn, table)
		symtab.Walk(fn.Body, res, table, func(stmt ast.Stmt, r *symtab.Resolver) bool {
			if result := visit(stmt, r); result.Status == Fail {
				failure = result
				return false
			}
			return true
		})
		res.ExitFunction()
		if failure.Status == Fail {
			return failure
		}
	}
	return ok()
}
