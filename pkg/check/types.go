package check

import (
	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

// checkTypes computes a type for every expression bottom-up and validates
// operator/assignment compatibility. Runs last in the fixed check order,
// so every identifier it encounters is already known to resolve.
func checkTypes(prog *ast.Program, table *symtab.Table) Result {
	return walkProgram(prog, table, func(stmt ast.Stmt, res *symtab.Resolver) Result {
		switch s := stmt.(type) {
		case *ast.Assign:
			return checkAssignTypes(s, res)
		case *ast.If:
			if _, result := typeOf(s.Cond, res); result.Status == Fail {
				return result
			}
			return checkCondIsBool(s.Cond, res)
		case *ast.While:
			return checkCondIsBool(s.Cond, res)
		case *ast.ExprStmt:
			_, result := typeOf(s.Expr, res)
			return result
		case *ast.Return:
			return checkReturnType(s, res)
		}
		return ok()
	})
}

func checkCondIsBool(cond ast.Expr, res *symtab.Resolver) Result {
	t, result := typeOf(cond, res)
	if result.Status == Fail {
		return result
	}
	if t != ast.TBool {
		return fail(cond.Position(), "condition must have type bool, got %s", t)
	}
	return ok()
}

func checkAssignTypes(a *ast.Assign, res *symtab.Resolver) Result {
	row := res.Lookup(a.Name)
	if row.Kind == symtab.KindFunction {
		return fail(a.Pos, "cannot assign to function '%s'", a.Name)
	}
	if a.Index != nil {
		idxType, result := typeOf(a.Index, res)
		if result.Status == Fail {
			return result
		}
		if idxType != ast.TInt {
			return fail(a.Index.Position(), "array index must have type int, got %s", idxType)
		}
		if row.Kind != symtab.KindArray {
			return fail(a.Pos, "'%s' is not an array", a.Name)
		}
	} else if row.Kind == symtab.KindArray {
		return fail(a.Pos, "cannot assign to unindexed array '%s'", a.Name)
	}

	rhsType, result := typeOf(a.RHS, res)
	if result.Status == Fail {
		return result
	}
	if rhsType != row.Type {
		return fail(a.Pos, "cannot assign %s to '%s' of type %s", rhsType, a.Name, row.Type)
	}
	return ok()
}

func checkReturnType(s *ast.Return, res *symtab.Resolver) Result {
	if s.Expr == nil {
		return ok()
	}
	_, result := typeOf(s.Expr, res)
	return result
}

// typeOf computes e's type bottom-up, returning a Fail Result on the first
// operator/operand mismatch.
func typeOf(e ast.Expr, res *symtab.Resolver) (ast.Type, Result) {
	switch n := e.(type) {
	case *ast.IntLit:
		return ast.TInt, ok()
	case *ast.FloatLit:
		return ast.TFloat, ok()
	case *ast.BoolLit:
		return ast.TBool, ok()
	case *ast.StringLit:
		return ast.TString, ok()
	case *ast.Paren:
		return typeOf(n.Expr, res)
	case *ast.Variable:
		row := res.Lookup(n.Name)
		if row.Kind == symtab.KindArray {
			return ast.TVoid, fail(n.Pos, "array '%s' cannot be used without an index", n.Name)
		}
		if row.Kind == symtab.KindFunction {
			return ast.TVoid, fail(n.Pos, "'%s' is a function, not a variable", n.Name)
		}
		return row.Type, ok()
	case *ast.ArrayElem:
		row := res.Lookup(n.Name)
		idxType, result := typeOf(n.Index, res)
		if result.Status == Fail {
			return ast.TVoid, result
		}
		if idxType != ast.TInt {
			return ast.TVoid, fail(n.Index.Position(), "array index must have type int, got %s", idxType)
		}
		if row == nil || row.Kind != symtab.KindArray {
			return ast.TVoid, fail(n.Pos, "'%s' is not an array", n.Name)
		}
		return row.Type, ok()
	case *ast.Unary:
		childType, result := typeOf(n.Child, res)
		if result.Status == Fail {
			return ast.TVoid, result
		}
		switch n.Op {
		case ast.OpNeg:
			if childType == ast.TBool || childType == ast.TString {
				return ast.TVoid, fail(n.Pos, "unary '-' cannot be applied to %s", childType)
			}
			return childType, ok()
		case ast.OpNot:
			if childType != ast.TBool {
				return ast.TVoid, fail(n.Pos, "unary '!' requires bool, got %s", childType)
			}
			return ast.TBool, ok()
		}
		return ast.TVoid, fail(n.Pos, "unknown unary operator")
	case *ast.Binary:
		return typeOfBinary(n, res)
	case *ast.Call:
		return typeOfCall(n, res)
	default:
		return ast.TVoid, ok()
	}
}

func typeOfBinary(n *ast.Binary, res *symtab.Resolver) (ast.Type, Result) {
	lt, result := typeOf(n.Left, res)
	if result.Status == Fail {
		return ast.TVoid, result
	}
	rt, result := typeOf(n.Right, res)
	if result.Status == Fail {
		return ast.TVoid, result
	}

	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if lt != rt || lt == ast.TBool || lt == ast.TString || lt == ast.TVoid {
			return ast.TVoid, fail(n.Pos, "arithmetic operator '%s' requires matching non-bool, non-string operands, got %s and %s", n.Op, lt, rt)
		}
		return lt, ok()
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if lt != rt || lt == ast.TBool || lt == ast.TString || lt == ast.TVoid {
			return ast.TVoid, fail(n.Pos, "comparison operator '%s' requires matching non-bool, non-string operands, got %s and %s", n.Op, lt, rt)
		}
		return ast.TBool, ok()
	case ast.OpEq, ast.OpNe:
		if lt != rt || lt == ast.TVoid {
			return ast.TVoid, fail(n.Pos, "equality operator '%s' requires matching operand types, got %s and %s", n.Op, lt, rt)
		}
		return ast.TBool, ok()
	case ast.OpAnd, ast.OpOr:
		if lt != ast.TBool || rt != ast.TBool {
			return ast.TVoid, fail(n.Pos, "logical operator '%s' requires bool operands, got %s and %s", n.Op, lt, rt)
		}
		return ast.TBool, ok()
	}
	return ast.TVoid, fail(n.Pos, "unknown binary operator")
}

func typeOfCall(n *ast.Call, res *symtab.Resolver) (ast.Type, Result) {
	row := res.Lookup(n.Name)
	if row == nil {
		return ast.TVoid, fail(n.Pos, "unknown function '%s'", n.Name)
	}
	if len(n.Args) != len(row.Params) {
		return ast.TVoid, fail(n.Pos, "function '%s' expects %d argument(s), got %d", n.Name, len(row.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		argType, result := typeOf(arg, res)
		if result.Status == Fail {
			return ast.TVoid, result
		}
		if argType != row.Params[i] {
			return ast.TVoid, fail(arg.Position(), "argument %d to '%s' must have type %s, got %s", i+1, n.Name, row.Params[i], argType)
		}
	}
	return row.Type, ok()
}
