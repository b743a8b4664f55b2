// Package stacking computes per-row stack sizes and frame-relative
// offsets over the IR: every assigned identifier and every
// value-producing row other than a parameter POP or a void CALL gets a
// frame slot, repeat assignments reuse the first slot, and each
// FUNC_LABEL row is annotated with its function's total frame size.
package stacking

import (
	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/ir"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

const (
	sizeInt    = 4
	sizeBool   = 4
	sizeString = 4
	sizeFloat  = 8
)

// Annotate computes StackSize for every row in list and the total frame
// size for every FUNC_LABEL row, mutating list's rows in place. The
// symbol table supplies the sizes the IR alone cannot recover: parameter
// types behind POP rows and return types behind CALL rows.
func Annotate(list *ir.List, table *symtab.Table) {
	for _, r := range functionRanges(list) {
		s := newSizer(list, table, r.start, r.end)
		firstAssign := make(map[string]bool)
		for i := r.start; i < r.end; i++ {
			list.Rows[i].StackSize = s.rowStackSize(i, firstAssign)
		}
		frameSize := 0
		for i := r.start + 1; i < r.end; i++ {
			frameSize += list.Rows[i].StackSize
		}
		list.Rows[r.start].StackSize = frameSize

		offset := 0
		for i := r.start + 1; i < r.end; i++ {
			row := list.Rows[i]
			offset -= row.StackSize
			if row.StackSize > 0 {
				row.StackPosition = offset
			}
		}
	}
}

type funcRange struct{ start, end int }

// functionRanges yields [start, end) index pairs, one per function in
// program order, each starting at a FUNC_LABEL row and ending just
// before the next one (or at the list's end).
func functionRanges(list *ir.List) []funcRange {
	var starts []int
	for i, row := range list.Rows {
		if row.Tag == ir.FuncLabel {
			starts = append(starts, i)
		}
	}
	ranges := make([]funcRange, len(starts))
	for i, s := range starts {
		end := len(list.Rows)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		ranges[i] = funcRange{start: s, end: end}
	}
	return ranges
}

// sizer resolves value sizes within one function's row range.
type sizer struct {
	list       *ir.List
	table      *symtab.Table
	start, end int
	popType    map[int]ast.Type // POP row index → bound parameter type
}

func newSizer(list *ir.List, table *symtab.Table, start, end int) *sizer {
	s := &sizer{list: list, table: table, start: start, end: end, popType: make(map[int]ast.Type)}
	params := s.paramsOf(list.Rows[start].Arg1.FuncName)
	j := 0
	for i := start + 1; i < end && j < len(params); i++ {
		if list.Rows[i].Tag == ir.Pop {
			s.popType[i] = params[j]
			j++
		}
	}
	return s
}

func (s *sizer) paramsOf(fn string) []ast.Type {
	if s.table == nil {
		return nil
	}
	if row := s.table.Global.FindLocal(fn); row != nil {
		return row.Params
	}
	return nil
}

func (s *sizer) returnTypeOf(fn string) ast.Type {
	if s.table != nil {
		if row := s.table.Global.FindLocal(fn); row != nil {
			return row.Type
		}
	}
	return ast.TInt
}

// rowStackSize computes one row's size, tracking which identifiers have
// already been assigned within the current function so repeat assignments
// reuse their first slot.
func (s *sizer) rowStackSize(idx int, firstAssign map[string]bool) int {
	row := s.list.Rows[idx]
	switch row.Tag {
	case ir.FuncLabel, ir.Label, ir.Jump, ir.JumpFalse, ir.Return, ir.Push, ir.Pop, ir.Unknown:
		return 0
	case ir.Assign:
		if row.Arg1.Kind == ir.ArgArrayElem {
			return 0
		}
		name := row.Arg1.Ident
		if firstAssign[name] {
			return 0
		}
		firstAssign[name] = true
		return s.argSize(row.Arg2)
	case ir.ArrayInt:
		return sizeInt * int(row.Arg2.IntVal)
	case ir.ArrayFloat:
		return sizeFloat * int(row.Arg2.IntVal)
	case ir.ArrayBool:
		return sizeBool * int(row.Arg2.IntVal)
	case ir.ArrayString:
		return sizeString
	case ir.Lt, ir.Gt, ir.Le, ir.Ge, ir.Eq, ir.Ne, ir.And, ir.Or, ir.Not:
		return sizeBool
	case ir.Neg:
		return s.argSize(row.Arg1)
	case ir.Add, ir.Sub, ir.Mul, ir.Div:
		return s.argSize(row.Arg1)
	case ir.Call:
		// The call result lives in a slot of its own, so an expression
		// can combine two call results without the second call
		// clobbering the first. A void callee produces no value and gets
		// no slot.
		rt := s.returnTypeOf(row.Arg1.FuncName)
		if rt == ast.TVoid {
			return 0
		}
		return ir.TypeSize(rt)
	default:
		return 0
	}
}

// argSize resolves the byte size of whatever value arg refers to: the
// first-assigning row of a named identifier, the referenced row for a
// row-reference, the element type for an array access, or the literal
// kind's own size.
func (s *sizer) argSize(arg ir.Arg) int {
	switch arg.Kind {
	case ir.ArgIntLit:
		return sizeInt
	case ir.ArgFloatLit:
		return sizeFloat
	case ir.ArgBoolLit:
		return sizeBool
	case ir.ArgStringLit:
		return sizeString
	case ir.ArgIdent:
		if row := s.firstDefiningRow(arg.Ident); row != nil {
			return s.argSizeFromRow(row)
		}
		return sizeInt
	case ir.ArgArrayElem:
		if row := s.arrayDeclRow(arg.Ident); row != nil && row.Tag == ir.ArrayFloat {
			return sizeFloat
		}
		return sizeInt
	case ir.ArgRowRef:
		return s.argSizeFromRow(s.list.Rows[arg.Row])
	default:
		return 0
	}
}

// argSizeFromRow resolves the value size a row produces, recursing
// through ASSIGN into its RHS.
func (s *sizer) argSizeFromRow(row *ir.Row) int {
	switch row.Tag {
	case ir.Assign:
		return s.argSize(row.Arg2)
	case ir.Lt, ir.Gt, ir.Le, ir.Ge, ir.Eq, ir.Ne, ir.And, ir.Or, ir.Not:
		return sizeBool
	case ir.Neg, ir.Add, ir.Sub, ir.Mul, ir.Div:
		return s.argSize(row.Arg1)
	case ir.Pop:
		if t, bound := s.popType[row.Index]; bound {
			return ir.TypeSize(t)
		}
		return sizeInt
	case ir.Call:
		return ir.TypeSize(s.returnTypeOf(row.Arg1.FuncName))
	default:
		return sizeInt
	}
}

// firstDefiningRow finds the first ASSIGN row within this function that
// targets name. The scan is range-local: the same identifier may appear
// in several functions with different types.
func (s *sizer) firstDefiningRow(name string) *ir.Row {
	for i := s.start; i < s.end; i++ {
		row := s.list.Rows[i]
		if row.Tag == ir.Assign && row.Arg1.Kind == ir.ArgIdent && row.Arg1.Ident == name {
			return row
		}
	}
	return nil
}

// arrayDeclRow finds the ARRAY_τ declaration row for name within this
// function, or nil.
func (s *sizer) arrayDeclRow(name string) *ir.Row {
	for i := s.start; i < s.end; i++ {
		row := s.list.Rows[i]
		switch row.Tag {
		case ir.ArrayInt, ir.ArrayFloat, ir.ArrayBool, ir.ArrayString:
			if row.Arg1.Ident == name {
				return row
			}
		}
	}
	return nil
}

// FunctionRanges exposes functionRanges' [start, end) pairs as plain
// ints, for callers (pkg/asmgen) that need to walk the IR one function
// at a time after Annotate has already run.
func FunctionRanges(list *ir.List) [][2]int {
	var out [][2]int
	for _, r := range functionRanges(list) {
		out = append(out, [2]int{r.start, r.end})
	}
	return out
}

// SlotOf returns the frame-relative offset where name's value lives
// within the function occupying [start, end), i.e. its first-assigning
// row's StackPosition. ok is false if name is never assigned in range.
func SlotOf(list *ir.List, start, end int, name string) (offset int, ok bool) {
	for i := start; i < end; i++ {
		row := list.Rows[i]
		if row.Tag == ir.Assign && row.Arg1.Kind == ir.ArgIdent && row.Arg1.Ident == name {
			return row.StackPosition, true
		}
	}
	return 0, false
}

// ArraySlotOf returns the frame-relative offset of name's array storage
// within [start, end): the offset of its ARRAY_τ declaration row.
func ArraySlotOf(list *ir.List, start, end int, name string) (offset int, ok bool) {
	for i := start; i < end; i++ {
		row := list.Rows[i]
		switch row.Tag {
		case ir.ArrayInt, ir.ArrayFloat, ir.ArrayBool, ir.ArrayString:
			if row.Arg1.Ident == name {
				return row.StackPosition, true
			}
		}
	}
	return 0, false
}
