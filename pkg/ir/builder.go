package ir

import "github.com/OliverRoss/mcc/pkg/ast"

// Builder lowers a rewritten AST into a List, threading the label
// counter and emission context as an explicit object rather than
// process globals.
type Builder struct {
	list      *List
	nextLabel int
	failed    bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{list: &List{}}
}

// Build lowers every function definition in prog, in order, and returns
// the resulting List. Built-in definitions must already have been
// stripped by pkg/rewrite — Build assumes every *ast.FunctionDef it
// sees is a real, user-defined function.
func Build(prog *ast.Program) *List {
	b := NewBuilder()
	for _, fn := range prog.Functions {
		b.buildFunction(fn)
	}
	if b.failed {
		return nil
	}
	Number(b.list)
	return b.list
}

func (b *Builder) freshLabel() int {
	n := b.nextLabel
	b.nextLabel++
	return n
}

// buildFunction emits FUNC_LABEL(name), then a POP/ASSIGN pair per
// parameter in declaration order, then the function body.
func (b *Builder) buildFunction(fn *ast.FunctionDef) {
	b.list.Append(FuncLabel, FuncLabelRef(fn.Name))
	for _, p := range fn.Params {
		pop := b.list.Append(Pop)
		b.list.Append(Assign, Ident(p.Name), RowRef(pop.Index))
	}
	b.buildStmt(fn.Body)
}

func (b *Builder) buildStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Compound:
		for _, sub := range s.Stmts {
			b.buildStmt(sub)
		}
	case *ast.VarDecl:
		// no row
	case *ast.ArrayDecl:
		b.list.Append(arrayTag(s.Elem), Ident(s.Name), IntLit(s.Size))
	case *ast.Assign:
		rhs := b.buildExpr(s.RHS)
		if s.Index != nil {
			idx := b.buildExpr(s.Index)
			b.list.Append(Assign, ArrayElem(s.Name, idx), rhs)
		} else {
			b.list.Append(Assign, Ident(s.Name), rhs)
		}
	case *ast.If:
		b.buildIf(s)
	case *ast.While:
		b.buildWhile(s)
	case *ast.ExprStmt:
		b.buildExpr(s.Expr)
	case *ast.Return:
		if s.Expr == nil {
			b.list.Append(Return)
			return
		}
		val := b.buildExpr(s.Expr)
		b.list.Append(Return, val)
	}
}

func (b *Builder) buildIf(s *ast.If) {
	cond := b.buildExpr(s.Cond)
	if s.Else == nil {
		lend := b.freshLabel()
		b.list.Append(JumpFalse, cond, LabelRef(lend))
		b.buildStmt(s.Then)
		b.list.Append(Label, LabelRef(lend))
		return
	}
	lelse := b.freshLabel()
	lend := b.freshLabel()
	b.list.Append(JumpFalse, cond, LabelRef(lelse))
	b.buildStmt(s.Then)
	b.list.Append(Jump, LabelRef(lend))
	b.list.Append(Label, LabelRef(lelse))
	b.buildStmt(s.Else)
	b.list.Append(Label, LabelRef(lend))
}

func (b *Builder) buildWhile(s *ast.While) {
	lstart := b.freshLabel()
	lend := b.freshLabel()
	b.list.Append(Label, LabelRef(lstart))
	cond := b.buildExpr(s.Cond)
	b.list.Append(JumpFalse, cond, LabelRef(lend))
	b.buildStmt(s.Body)
	b.list.Append(Jump, LabelRef(lstart))
	b.list.Append(Label, LabelRef(lend))
}

// buildExpr lowers e bottom-up and returns the argument identifying
// where its value lives: an immediate for literals, an identifier for
// variables, a row reference for anything that emitted a row.
func (b *Builder) buildExpr(e ast.Expr) Arg {
	switch n := e.(type) {
	case *ast.IntLit:
		return IntLit(n.Value)
	case *ast.FloatLit:
		return FloatLit(n.Value)
	case *ast.BoolLit:
		return BoolLit(n.Value)
	case *ast.StringLit:
		return StringLit(n.Value)
	case *ast.Variable:
		return Ident(n.Name)
	case *ast.Paren:
		return b.buildExpr(n.Expr)
	case *ast.ArrayElem:
		idx := b.buildExpr(n.Index)
		return ArrayElem(n.Name, idx)
	case *ast.Unary:
		child := b.buildExpr(n.Child)
		row := b.list.Append(unaryTag(n.Op), child)
		return RowRef(row.Index)
	case *ast.Binary:
		left := b.buildExpr(n.Left)
		right := b.buildExpr(n.Right)
		row := b.list.Append(binaryTag(n.Op), left, right)
		return RowRef(row.Index)
	case *ast.Call:
		for i := len(n.Args) - 1; i >= 0; i-- {
			arg := b.buildExpr(n.Args[i])
			b.list.Append(Push, arg)
		}
		row := b.list.Append(Call, FuncLabelRef(n.Name))
		return RowRef(row.Index)
	}
	b.failed = true
	return Arg{}
}

func arrayTag(elem ast.Type) Tag {
	switch elem {
	case ast.TFloat:
		return ArrayFloat
	case ast.TBool:
		return ArrayBool
	case ast.TString:
		return ArrayString
	default:
		return ArrayInt
	}
}

func binaryTag(op ast.BinaryOp) Tag {
	switch op {
	case ast.OpAdd:
		return Add
	case ast.OpSub:
		return Sub
	case ast.OpMul:
		return Mul
	case ast.OpDiv:
		return Div
	case ast.OpLt:
		return Lt
	case ast.OpGt:
		return Gt
	case ast.OpLe:
		return Le
	case ast.OpGe:
		return Ge
	case ast.OpEq:
		return Eq
	case ast.OpNe:
		return Ne
	case ast.OpAnd:
		return And
	case ast.OpOr:
		return Or
	default:
		return Unknown
	}
}

func unaryTag(op ast.UnaryOp) Tag {
	if op == ast.OpNot {
		return Not
	}
	return Neg
}

// Number runs the row-numbering pass: every row whose tag produces a
// temporary value gets a monotonically increasing number; all others
// get 0. Mutates list in place; the list is read-only afterwards.
func Number(list *List) {
	next := 1
	for _, row := range list.Rows {
		if row.Tag.ProducesValue() {
			row.Number = next
			next++
		}
	}
}
