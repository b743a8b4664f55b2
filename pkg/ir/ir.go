// Package ir defines the compiler's three-address intermediate
// representation: a linear sequence of rows, each a single operation
// with at most two operands. Rows live in a central arena and reference
// each other by index rather than by pointer, which keeps the
// prev/next traversal free of cyclic ownership.
package ir

import "github.com/OliverRoss/mcc/pkg/ast"

// Tag identifies a row's operation.
type Tag int

const (
	FuncLabel Tag = iota
	Label
	Jump
	JumpFalse
	Assign
	Push
	Pop
	Call
	Return
	ArrayInt
	ArrayFloat
	ArrayBool
	ArrayString
	Add
	Sub
	Mul
	Div
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	And
	Or
	Neg
	Not
	Unknown
)

func (t Tag) String() string {
	names := [...]string{
		"FUNC_LABEL", "LABEL", "JUMP", "JUMPFALSE", "ASSIGN", "PUSH", "POP", "CALL", "RETURN",
		"ARRAY_INT", "ARRAY_FLOAT", "ARRAY_BOOL", "ARRAY_STRING",
		"ADD", "SUB", "MUL", "DIV", "LT", "GT", "LE", "GE", "EQ", "NE", "AND", "OR", "NEG", "NOT",
		"UNKNOWN",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "?"
}

// ProducesValue reports whether a row with this tag receives a temporary
// number during the row-numbering pass.
func (t Tag) ProducesValue() bool {
	switch t {
	case Add, Sub, Mul, Div, Lt, Gt, Le, Ge, Eq, Ne, And, Or, Neg, Not, Call, Pop:
		return true
	default:
		return false
	}
}

// ArgKind tags an Arg's variant.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgIntLit
	ArgFloatLit
	ArgBoolLit
	ArgStringLit
	ArgIdent
	ArgArrayElem
	ArgLabelRef
	ArgFuncLabelRef
	ArgRowRef
)

// Arg is a row operand: a tagged union of every argument shape an IR row
// can carry (literal, identifier, array element, label, function label,
// row reference).
type Arg struct {
	Kind ArgKind

	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string

	Ident string // ArgIdent, ArgArrayElem
	Index *Arg   // ArgArrayElem's index expression

	Label int // ArgLabelRef

	FuncName string // ArgFuncLabelRef

	Row int // ArgRowRef: index into the owning List
}

func IntLit(v int64) Arg        { return Arg{Kind: ArgIntLit, IntVal: v} }
func FloatLit(v float64) Arg    { return Arg{Kind: ArgFloatLit, FloatVal: v} }
func BoolLit(v bool) Arg        { return Arg{Kind: ArgBoolLit, BoolVal: v} }
func StringLit(v string) Arg    { return Arg{Kind: ArgStringLit, StringVal: v} }
func Ident(name string) Arg     { return Arg{Kind: ArgIdent, Ident: name} }
func LabelRef(n int) Arg        { return Arg{Kind: ArgLabelRef, Label: n} }
func FuncLabelRef(n string) Arg { return Arg{Kind: ArgFuncLabelRef, FuncName: n} }
func RowRef(idx int) Arg        { return Arg{Kind: ArgRowRef, Row: idx} }

func ArrayElem(name string, index Arg) Arg {
	return Arg{Kind: ArgArrayElem, Ident: name, Index: &index}
}

// Row is one IR instruction.
type Row struct {
	Index         int
	Tag           Tag
	Arg1, Arg2    Arg
	Number        int // temporary name tK; 0 if this tag never produces a value
	StackSize     int // bytes this row reserves on the frame (pkg/stacking)
	StackPosition int // frame-pointer-relative offset (pkg/stacking)
}

// HasArg1 / HasArg2 report whether the corresponding operand was set.
func (r *Row) HasArg1() bool { return r.Arg1.Kind != ArgNone }
func (r *Row) HasArg2() bool { return r.Arg2.Kind != ArgNone }

// List is the arena owning every row of a compiled program, in emission
// order. A row's position in Rows doubles as its index, so an ArgRowRef
// is simply that index.
type List struct {
	Rows []*Row
}

// Append adds a row with the given tag and operands to the end of the
// list and returns it, with its Index already set.
func (l *List) Append(tag Tag, args ...Arg) *Row {
	row := &Row{Index: len(l.Rows), Tag: tag}
	if len(args) > 0 {
		row.Arg1 = args[0]
	}
	if len(args) > 1 {
		row.Arg2 = args[1]
	}
	l.Rows = append(l.Rows, row)
	return row
}

// TypeSize returns the on-stack size in bytes for a scalar type on the
// 32-bit target: bool/string/int = 4, float = 8.
func TypeSize(t ast.Type) int {
	if t == ast.TFloat {
		return 8
	}
	return 4
}
