// Package asmgen transforms the annotated IR into x86-32 assembly: one
// genContext per function, one translateRow dispatch per instruction
// tag. Every IR row that produces a value already has a stack slot from
// pkg/stacking, so codegen needs no register allocator of its own.
//
// Calling convention: the IR's PUSH/POP rows render as cdecl — the
// caller pushes arguments right to left and cleans them up after the
// call, the callee reads each parameter at a positive offset from %ebp
// (a literal pop would hit the return address and saved frame pointer).
// Integer and bool results return in %eax, floats in %xmm0.
package asmgen

import (
	"fmt"

	"github.com/OliverRoss/mcc/pkg/asm"
	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/ir"
	"github.com/OliverRoss/mcc/pkg/stacking"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

// runtimeNames maps the builtin I/O functions to the external runtime
// symbols they're linked against; everything else (user functions,
// modulo) keeps its own name.
var runtimeNames = map[string]string{
	"print":       "mcc_print",
	"print_nl":    "mcc_print_nl",
	"print_int":   "mcc_print_int",
	"print_float": "mcc_print_float",
	"read_int":    "mcc_read_int",
	"read_float":  "mcc_read_float",
}

func runtimeSymbol(name string) string {
	if sym, ok := runtimeNames[name]; ok {
		return sym
	}
	return name
}

// TransformProgram lowers an annotated ir.List (pkg/stacking.Annotate
// must already have run) into a full assembly Program. The symbol table
// supplies parameter and return types for call sites and parameter
// binds.
func TransformProgram(list *ir.List, table *symtab.Table) *asm.Program {
	gen := &generator{prog: &asm.Program{}, table: table}
	for _, rng := range stacking.FunctionRanges(list) {
		ctx := newGenContext(gen, list, rng[0], rng[1])
		gen.prog.Functions = append(gen.prog.Functions, ctx.transformFunction())
	}
	return gen.prog
}

// generator holds program-level codegen state: the output program and
// the counters behind .rodata constant labels, which must be unique
// across the whole compilation, not per function.
type generator struct {
	prog      *asm.Program
	table     *symtab.Table
	floatSeq  int
	stringSeq int
}

func (g *generator) floatConst(v float64) string {
	name := fmt.Sprintf(".LF%d", g.floatSeq)
	g.floatSeq++
	g.prog.Globals = append(g.prog.Globals, asm.GlobalData{Name: name, Float: v, IsFloat: true})
	return name
}

func (g *generator) stringConst(s string) string {
	name := fmt.Sprintf(".LS%d", g.stringSeq)
	g.stringSeq++
	g.prog.Globals = append(g.prog.Globals, asm.GlobalData{Name: name, Ascii: s})
	return name
}

func (g *generator) signatureOf(fn string) *symtab.Row {
	if g.table == nil {
		return nil
	}
	return g.table.Global.FindLocal(fn)
}

func (g *generator) returnTypeOf(fn string) ast.Type {
	if row := g.signatureOf(fn); row != nil {
		return row.Type
	}
	return ast.TInt
}

func (g *generator) argBytesOf(fn string) int {
	total := 0
	if row := g.signatureOf(fn); row != nil {
		for _, t := range row.Params {
			total += ir.TypeSize(t)
		}
	}
	return total
}

// genContext holds per-function codegen state: the slice of the IR this
// function owns and the ordinal of each POP row, which identifies the
// parameter it binds.
type genContext struct {
	gen        *generator
	list       *ir.List
	start, end int
	params     []ast.Type
	popOrdinal map[int]int
}

func newGenContext(gen *generator, list *ir.List, start, end int) *genContext {
	c := &genContext{gen: gen, list: list, start: start, end: end, popOrdinal: make(map[int]int)}
	if row := gen.signatureOf(list.Rows[start].Arg1.FuncName); row != nil {
		c.params = row.Params
	}
	ord := 0
	for i := start + 1; i < end; i++ {
		if list.Rows[i].Tag == ir.Pop {
			c.popOrdinal[i] = ord
			ord++
		}
	}
	return c
}

func (c *genContext) transformFunction() asm.Function {
	entry := c.list.Rows[c.start]
	fn := asm.Function{Name: entry.Arg1.FuncName}
	fn.Code = append(fn.Code, c.prologue(entry.StackSize)...)

	for i := c.start + 1; i < c.end; i++ {
		fn.Code = append(fn.Code, c.translateRow(i)...)
	}
	return fn
}

// prologue saves the caller's frame pointer and reserves frameSize bytes
// for locals and temporaries.
func (c *genContext) prologue(frameSize int) []asm.Instruction {
	insts := []asm.Instruction{
		asm.Push{Src: asm.RegOp{Reg: asm.EBP}},
		asm.Mov{Src: asm.RegOp{Reg: asm.ESP}, Dst: asm.RegOp{Reg: asm.EBP}},
	}
	if frameSize > 0 {
		insts = append(insts, asm.Sub{Src: asm.ImmOp{Value: int64(frameSize)}, Dst: asm.RegOp{Reg: asm.ESP}})
	}
	return insts
}

// epilogue restores the caller's frame and returns; arguments are the
// caller's to clean up.
func (c *genContext) epilogue() []asm.Instruction {
	return []asm.Instruction{
		asm.Mov{Src: asm.RegOp{Reg: asm.EBP}, Dst: asm.RegOp{Reg: asm.ESP}},
		asm.Pop{Dst: asm.RegOp{Reg: asm.EBP}},
		asm.Ret{},
	}
}

func (c *genContext) translateRow(idx int) []asm.Instruction {
	row := c.list.Rows[idx]
	switch row.Tag {
	case ir.Label:
		return []asm.Instruction{asm.Label{Name: labelName(row.Arg1.Label)}}
	case ir.Jump:
		return []asm.Instruction{asm.Jmp{Target: labelName(row.Arg1.Label)}}
	case ir.JumpFalse:
		var insts []asm.Instruction
		insts = append(insts, c.loadInt(row.Arg1)...)
		insts = append(insts,
			asm.Cmp{Src: asm.ImmOp{Value: 0}, Dst: asm.RegOp{Reg: asm.EAX}},
			asm.Jcc{Cond: asm.CondE, Target: labelName(row.Arg2.Label)},
		)
		return insts
	case ir.Assign:
		return c.translateAssign(row)
	case ir.Push:
		return c.translatePush(row)
	case ir.Pop:
		return c.translatePop(idx)
	case ir.Call:
		return c.translateCall(idx, row)
	case ir.Return:
		var insts []asm.Instruction
		if row.HasArg1() {
			if c.isFloat(row.Arg1) {
				insts = append(insts, c.loadFloat(row.Arg1, asm.XMM0)...)
			} else {
				insts = append(insts, c.loadInt(row.Arg1)...)
			}
		}
		insts = append(insts, c.epilogue()...)
		return insts
	case ir.ArrayInt, ir.ArrayFloat, ir.ArrayBool, ir.ArrayString:
		return nil // storage is implicit in the frame slot; no code needed
	case ir.Add, ir.Sub, ir.Mul, ir.Div:
		return c.translateArith(idx, row)
	case ir.Lt, ir.Gt, ir.Le, ir.Ge, ir.Eq, ir.Ne:
		return c.translateCompare(idx, row)
	case ir.And, ir.Or:
		return c.translateLogical(idx, row)
	case ir.Neg:
		return c.translateNeg(idx, row)
	case ir.Not:
		insts := c.loadInt(row.Arg1)
		insts = append(insts, asm.Xor{Src: asm.ImmOp{Value: 1}, Dst: asm.RegOp{Reg: asm.EAX}})
		return append(insts, c.store(idx)...)
	default:
		return nil
	}
}

func labelName(n int) string {
	return fmt.Sprintf(".L%d", n)
}

// paramOffset returns the %ebp-relative offset of the ord-th parameter:
// 8 bytes past the saved frame pointer and return address, plus the
// sizes of the parameters pushed before it.
func (c *genContext) paramOffset(ord int) int {
	off := 8
	for i := 0; i < ord && i < len(c.params); i++ {
		off += ir.TypeSize(c.params[i])
	}
	return off
}

// translatePop loads the bound parameter into the accumulator for the
// ASSIGN row that immediately follows (the IR emits POP/ASSIGN pairs
// back to back, so the value is still live when the ASSIGN stores it).
func (c *genContext) translatePop(idx int) []asm.Instruction {
	ord := c.popOrdinal[idx]
	off := c.paramOffset(ord)
	if ord < len(c.params) && c.params[ord] == ast.TFloat {
		return []asm.Instruction{asm.Movsd{Src: asm.MemOp{Offset: off, Base: asm.EBP}, Dst: asm.RegOp{Reg: asm.XMM0}}}
	}
	return []asm.Instruction{asm.Mov{Src: asm.MemOp{Offset: off, Base: asm.EBP}, Dst: asm.RegOp{Reg: asm.EAX}}}
}

func (c *genContext) translatePush(row *ir.Row) []asm.Instruction {
	if c.isFloat(row.Arg1) {
		insts := c.loadFloat(row.Arg1, asm.XMM0)
		return append(insts,
			asm.Sub{Src: asm.ImmOp{Value: 8}, Dst: asm.RegOp{Reg: asm.ESP}},
			asm.Movsd{Src: asm.RegOp{Reg: asm.XMM0}, Dst: asm.MemOp{Offset: 0, Base: asm.ESP}},
		)
	}
	return append(c.loadInt(row.Arg1), asm.Push{Src: asm.RegOp{Reg: asm.EAX}})
}

func (c *genContext) translateCall(idx int, row *ir.Row) []asm.Instruction {
	callee := row.Arg1.FuncName
	insts := []asm.Instruction{asm.Call{Target: runtimeSymbol(callee)}}
	if argBytes := c.gen.argBytesOf(callee); argBytes > 0 {
		insts = append(insts, asm.Add{Src: asm.ImmOp{Value: int64(argBytes)}, Dst: asm.RegOp{Reg: asm.ESP}})
	}
	if c.list.Rows[idx].StackSize == 0 {
		return insts // void result, nothing to spill
	}
	if c.gen.returnTypeOf(callee) == ast.TFloat {
		return append(insts, c.storeFloat(idx)...)
	}
	return append(insts, c.store(idx)...)
}

func (c *genContext) translateAssign(row *ir.Row) []asm.Instruction {
	if c.isFloat(row.Arg2) || (row.Arg1.Kind == ir.ArgArrayElem && c.elemSize(row.Arg1.Ident) == 8) {
		return c.translateFloatAssign(row)
	}
	insts := c.loadInt(row.Arg2)
	switch row.Arg1.Kind {
	case ir.ArgIdent:
		if off, ok := stacking.SlotOf(c.list, c.start, c.end, row.Arg1.Ident); ok {
			insts = append(insts, asm.Mov{Src: asm.RegOp{Reg: asm.EAX}, Dst: asm.MemOp{Offset: off, Base: asm.EBP}})
		}
	case ir.ArgArrayElem:
		insts = append(insts, asm.Mov{Src: asm.RegOp{Reg: asm.EAX}, Dst: asm.RegOp{Reg: asm.EBX}})
		addr, ok := c.arrayElemAddr(row.Arg1)
		if !ok {
			return insts
		}
		insts = append(insts, addr...)
		insts = append(insts, asm.Mov{Src: asm.RegOp{Reg: asm.EBX}, Dst: asm.MemOp{Offset: 0, Base: asm.EBP, Index: asm.EAX}})
	}
	return insts
}

func (c *genContext) translateFloatAssign(row *ir.Row) []asm.Instruction {
	insts := c.loadFloat(row.Arg2, asm.XMM0)
	switch row.Arg1.Kind {
	case ir.ArgIdent:
		if off, ok := stacking.SlotOf(c.list, c.start, c.end, row.Arg1.Ident); ok {
			insts = append(insts, asm.Movsd{Src: asm.RegOp{Reg: asm.XMM0}, Dst: asm.MemOp{Offset: off, Base: asm.EBP}})
		}
	case ir.ArgArrayElem:
		addr, ok := c.arrayElemAddr(row.Arg1)
		if !ok {
			return insts
		}
		insts = append(insts, addr...)
		insts = append(insts, asm.Movsd{Src: asm.RegOp{Reg: asm.XMM0}, Dst: asm.MemOp{Offset: 0, Base: asm.EBP, Index: asm.EAX}})
	}
	return insts
}

// arrayElemAddr computes %eax = element_offset + array_base_offset, so
// the element is addressable as 0(%ebp,%eax). Clobbers %eax only.
func (c *genContext) arrayElemAddr(arg ir.Arg) ([]asm.Instruction, bool) {
	base, ok := stacking.ArraySlotOf(c.list, c.start, c.end, arg.Ident)
	if !ok {
		return nil, false
	}
	insts := c.loadInt(*arg.Index)
	insts = append(insts,
		asm.IMul{Src: asm.ImmOp{Value: int64(c.elemSize(arg.Ident))}, Dst: asm.RegOp{Reg: asm.EAX}},
		asm.Add{Src: asm.ImmOp{Value: int64(base)}, Dst: asm.RegOp{Reg: asm.EAX}},
	)
	return insts, true
}

func (c *genContext) elemSize(name string) int {
	for i := c.start; i < c.end; i++ {
		row := c.list.Rows[i]
		if row.Tag == ir.ArrayFloat && row.Arg1.Ident == name {
			return 8
		}
	}
	return 4
}

// translateArith evaluates both operands and combines them, storing the
// result into this row's own slot. Integer operands travel through
// %eax/%ecx with a push around the right-hand evaluation; floats load
// straight from their slots into %xmm0/%xmm1.
func (c *genContext) translateArith(idx int, row *ir.Row) []asm.Instruction {
	if c.isFloat(row.Arg1) {
		insts := c.loadFloat(row.Arg1, asm.XMM0)
		insts = append(insts, c.loadFloat(row.Arg2, asm.XMM1)...)
		switch row.Tag {
		case ir.Add:
			insts = append(insts, asm.Addsd{Src: asm.RegOp{Reg: asm.XMM1}, Dst: asm.RegOp{Reg: asm.XMM0}})
		case ir.Sub:
			insts = append(insts, asm.Subsd{Src: asm.RegOp{Reg: asm.XMM1}, Dst: asm.RegOp{Reg: asm.XMM0}})
		case ir.Mul:
			insts = append(insts, asm.Mulsd{Src: asm.RegOp{Reg: asm.XMM1}, Dst: asm.RegOp{Reg: asm.XMM0}})
		case ir.Div:
			insts = append(insts, asm.Divsd{Src: asm.RegOp{Reg: asm.XMM1}, Dst: asm.RegOp{Reg: asm.XMM0}})
		}
		return append(insts, c.storeFloat(idx)...)
	}

	insts := c.loadInt(row.Arg1)
	insts = append(insts, asm.Push{Src: asm.RegOp{Reg: asm.EAX}})
	insts = append(insts, c.loadInt(row.Arg2)...)
	insts = append(insts, asm.Mov{Src: asm.RegOp{Reg: asm.EAX}, Dst: asm.RegOp{Reg: asm.ECX}})
	insts = append(insts, asm.Pop{Dst: asm.RegOp{Reg: asm.EAX}})
	switch row.Tag {
	case ir.Add:
		insts = append(insts, asm.Add{Src: asm.RegOp{Reg: asm.ECX}, Dst: asm.RegOp{Reg: asm.EAX}})
	case ir.Sub:
		insts = append(insts, asm.Sub{Src: asm.RegOp{Reg: asm.ECX}, Dst: asm.RegOp{Reg: asm.EAX}})
	case ir.Mul:
		insts = append(insts, asm.IMul{Src: asm.RegOp{Reg: asm.ECX}})
	case ir.Div:
		insts = append(insts, asm.Cdq{}, asm.IDiv{Src: asm.RegOp{Reg: asm.ECX}})
	}
	return append(insts, c.store(idx)...)
}

func (c *genContext) translateCompare(idx int, row *ir.Row) []asm.Instruction {
	if c.isFloat(row.Arg1) {
		insts := c.loadFloat(row.Arg1, asm.XMM0)
		insts = append(insts, c.loadFloat(row.Arg2, asm.XMM1)...)
		insts = append(insts,
			asm.Ucomisd{Src: asm.RegOp{Reg: asm.XMM1}, Dst: asm.RegOp{Reg: asm.XMM0}},
			asm.SetCC{Cond: floatCondFor(row.Tag), Dst: asm.RegOp{Reg: asm.AL}},
			asm.Movzbl{Src: asm.RegOp{Reg: asm.AL}, Dst: asm.RegOp{Reg: asm.EAX}},
		)
		return append(insts, c.store(idx)...)
	}

	insts := c.loadInt(row.Arg1)
	insts = append(insts, asm.Push{Src: asm.RegOp{Reg: asm.EAX}})
	insts = append(insts, c.loadInt(row.Arg2)...)
	insts = append(insts, asm.Mov{Src: asm.RegOp{Reg: asm.EAX}, Dst: asm.RegOp{Reg: asm.ECX}})
	insts = append(insts, asm.Pop{Dst: asm.RegOp{Reg: asm.EAX}})
	insts = append(insts,
		asm.Cmp{Src: asm.RegOp{Reg: asm.ECX}, Dst: asm.RegOp{Reg: asm.EAX}},
		asm.SetCC{Cond: condFor(row.Tag), Dst: asm.RegOp{Reg: asm.AL}},
		asm.Movzbl{Src: asm.RegOp{Reg: asm.AL}, Dst: asm.RegOp{Reg: asm.EAX}},
	)
	return append(insts, c.store(idx)...)
}

func condFor(tag ir.Tag) asm.Cond {
	switch tag {
	case ir.Lt:
		return asm.CondL
	case ir.Gt:
		return asm.CondG
	case ir.Le:
		return asm.CondLE
	case ir.Ge:
		return asm.CondGE
	case ir.Eq:
		return asm.CondE
	default:
		return asm.CondNE
	}
}

// floatCondFor picks the unsigned condition codes, since UCOMISD sets
// the carry and zero flags rather than sign/overflow.
func floatCondFor(tag ir.Tag) asm.Cond {
	switch tag {
	case ir.Lt:
		return asm.CondB
	case ir.Gt:
		return asm.CondA
	case ir.Le:
		return asm.CondBE
	case ir.Ge:
		return asm.CondAE
	case ir.Eq:
		return asm.CondE
	default:
		return asm.CondNE
	}
}

// translateLogical implements && and || without short-circuiting: both
// operands are always evaluated, then combined bitwise.
func (c *genContext) translateLogical(idx int, row *ir.Row) []asm.Instruction {
	insts := c.loadInt(row.Arg1)
	insts = append(insts, asm.Push{Src: asm.RegOp{Reg: asm.EAX}})
	insts = append(insts, c.loadInt(row.Arg2)...)
	insts = append(insts, asm.Mov{Src: asm.RegOp{Reg: asm.EAX}, Dst: asm.RegOp{Reg: asm.ECX}})
	insts = append(insts, asm.Pop{Dst: asm.RegOp{Reg: asm.EAX}})
	if row.Tag == ir.And {
		insts = append(insts, asm.And{Src: asm.RegOp{Reg: asm.ECX}, Dst: asm.RegOp{Reg: asm.EAX}})
	} else {
		insts = append(insts, asm.Or{Src: asm.RegOp{Reg: asm.ECX}, Dst: asm.RegOp{Reg: asm.EAX}})
	}
	return append(insts, c.store(idx)...)
}

func (c *genContext) translateNeg(idx int, row *ir.Row) []asm.Instruction {
	if c.isFloat(row.Arg1) {
		insts := c.loadFloat(row.Arg1, asm.XMM1)
		insts = append(insts,
			asm.Movsd{Src: asm.SymOp{Name: c.gen.floatConst(0)}, Dst: asm.RegOp{Reg: asm.XMM0}},
			asm.Subsd{Src: asm.RegOp{Reg: asm.XMM1}, Dst: asm.RegOp{Reg: asm.XMM0}},
		)
		return append(insts, c.storeFloat(idx)...)
	}
	insts := c.loadInt(row.Arg1)
	insts = append(insts, asm.Neg{Dst: asm.RegOp{Reg: asm.EAX}})
	return append(insts, c.store(idx)...)
}

// isFloat reports whether arg's value is an 8-byte double, resolved the
// same way pkg/stacking sized it.
func (c *genContext) isFloat(arg ir.Arg) bool {
	switch arg.Kind {
	case ir.ArgFloatLit:
		return true
	case ir.ArgIdent:
		for i := c.start; i < c.end; i++ {
			row := c.list.Rows[i]
			if row.Tag == ir.Assign && row.Arg1.Kind == ir.ArgIdent && row.Arg1.Ident == arg.Ident {
				return row.StackSize == 8
			}
		}
		return false
	case ir.ArgArrayElem:
		return c.elemSize(arg.Ident) == 8
	case ir.ArgRowRef:
		row := c.list.Rows[arg.Row]
		switch row.Tag {
		case ir.Pop:
			ord := c.popOrdinal[arg.Row]
			return ord < len(c.params) && c.params[ord] == ast.TFloat
		case ir.Call:
			return c.gen.returnTypeOf(row.Arg1.FuncName) == ast.TFloat
		default:
			return row.StackSize == 8
		}
	default:
		return false
	}
}

// loadInt loads arg's value into %eax.
func (c *genContext) loadInt(arg ir.Arg) []asm.Instruction {
	switch arg.Kind {
	case ir.ArgIntLit:
		return []asm.Instruction{asm.Mov{Src: asm.ImmOp{Value: arg.IntVal}, Dst: asm.RegOp{Reg: asm.EAX}}}
	case ir.ArgBoolLit:
		v := int64(0)
		if arg.BoolVal {
			v = 1
		}
		return []asm.Instruction{asm.Mov{Src: asm.ImmOp{Value: v}, Dst: asm.RegOp{Reg: asm.EAX}}}
	case ir.ArgStringLit:
		name := c.gen.stringConst(arg.StringVal)
		return []asm.Instruction{asm.Lea{Src: asm.SymOp{Name: name}, Dst: asm.RegOp{Reg: asm.EAX}}}
	case ir.ArgIdent:
		if off, ok := stacking.SlotOf(c.list, c.start, c.end, arg.Ident); ok {
			return []asm.Instruction{asm.Mov{Src: asm.MemOp{Offset: off, Base: asm.EBP}, Dst: asm.RegOp{Reg: asm.EAX}}}
		}
		return nil
	case ir.ArgArrayElem:
		addr, ok := c.arrayElemAddr(arg)
		if !ok {
			return nil
		}
		return append(addr, asm.Mov{Src: asm.MemOp{Offset: 0, Base: asm.EBP, Index: asm.EAX}, Dst: asm.RegOp{Reg: asm.EAX}})
	case ir.ArgRowRef:
		if off, ok := rowSlot(c.list, arg.Row); ok {
			return []asm.Instruction{asm.Mov{Src: asm.MemOp{Offset: off, Base: asm.EBP}, Dst: asm.RegOp{Reg: asm.EAX}}}
		}
		// A slotless row (a POP bind) left its value in %eax already.
		return nil
	default:
		return nil
	}
}

// loadFloat loads arg's double into the given SSE register.
func (c *genContext) loadFloat(arg ir.Arg, dst asm.Reg) []asm.Instruction {
	switch arg.Kind {
	case ir.ArgFloatLit:
		name := c.gen.floatConst(arg.FloatVal)
		return []asm.Instruction{asm.Movsd{Src: asm.SymOp{Name: name}, Dst: asm.RegOp{Reg: dst}}}
	case ir.ArgIdent:
		if off, ok := stacking.SlotOf(c.list, c.start, c.end, arg.Ident); ok {
			return []asm.Instruction{asm.Movsd{Src: asm.MemOp{Offset: off, Base: asm.EBP}, Dst: asm.RegOp{Reg: dst}}}
		}
		return nil
	case ir.ArgArrayElem:
		addr, ok := c.arrayElemAddr(arg)
		if !ok {
			return nil
		}
		return append(addr, asm.Movsd{Src: asm.MemOp{Offset: 0, Base: asm.EBP, Index: asm.EAX}, Dst: asm.RegOp{Reg: dst}})
	case ir.ArgRowRef:
		if off, ok := rowSlot(c.list, arg.Row); ok {
			return []asm.Instruction{asm.Movsd{Src: asm.MemOp{Offset: off, Base: asm.EBP}, Dst: asm.RegOp{Reg: dst}}}
		}
		// A slotless row (a POP bind) left its value in %xmm0 already.
		if dst == asm.XMM0 {
			return nil
		}
		return []asm.Instruction{asm.Movsd{Src: asm.RegOp{Reg: asm.XMM0}, Dst: asm.RegOp{Reg: dst}}}
	default:
		return nil
	}
}

// store spills %eax into the frame slot this row reserved, if any —
// rows whose StackSize is 0 (e.g. a void CALL) have no slot and get no
// store.
func (c *genContext) store(idx int) []asm.Instruction {
	row := c.list.Rows[idx]
	if row.StackSize == 0 {
		return nil
	}
	return []asm.Instruction{asm.Mov{Src: asm.RegOp{Reg: asm.EAX}, Dst: asm.MemOp{Offset: row.StackPosition, Base: asm.EBP}}}
}

// storeFloat spills %xmm0 into the row's slot.
func (c *genContext) storeFloat(idx int) []asm.Instruction {
	row := c.list.Rows[idx]
	if row.StackSize == 0 {
		return nil
	}
	return []asm.Instruction{asm.Movsd{Src: asm.RegOp{Reg: asm.XMM0}, Dst: asm.MemOp{Offset: row.StackPosition, Base: asm.EBP}}}
}

func rowSlot(list *ir.List, idx int) (int, bool) {
	row := list.Rows[idx]
	if row.StackSize == 0 {
		return 0, false
	}
	return row.StackPosition, true
}
