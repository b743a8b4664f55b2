package asm

import (
	"fmt"
	"io"
	"strconv"
)

// Printer outputs x86-32 assembly in GNU AT&T syntax, suitable for an
// external assembler; no binary object emission.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new assembly printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram outputs an entire program: a .rodata section for string
// and float constants, then a .text section with one label per function.
func (p *Printer) PrintProgram(prog *Program) {
	if len(prog.Globals) > 0 {
		fmt.Fprintf(p.w, "\t.section .rodata\n")
		for _, g := range prog.Globals {
			p.printGlobal(g)
		}
		fmt.Fprintf(p.w, "\n")
	}

	fmt.Fprintf(p.w, "\t.text\n")
	for _, fn := range prog.Functions {
		p.printFunction(fn)
	}
}

func (p *Printer) printGlobal(g GlobalData) {
	fmt.Fprintf(p.w, "%s:\n", g.Name)
	if g.IsFloat {
		fmt.Fprintf(p.w, "\t.double %s\n", strconv.FormatFloat(g.Float, 'g', -1, 64))
		return
	}
	fmt.Fprintf(p.w, "\t.asciz %q\n", g.Ascii)
}

func (p *Printer) printFunction(fn Function) {
	fmt.Fprintf(p.w, "\t.globl %s\n", fn.Name)
	fmt.Fprintf(p.w, "%s:\n", fn.Name)
	for _, inst := range fn.Code {
		p.printInstruction(inst)
	}
}

func (p *Printer) printInstruction(inst Instruction) {
	switch i := inst.(type) {
	case Label:
		fmt.Fprintf(p.w, "%s:\n", i.Name)
	case Directive:
		fmt.Fprintf(p.w, "\t%s\n", i.Text)
	case Mov:
		p.two("movl", i.Src, i.Dst)
	case Movsd:
		p.two("movsd", i.Src, i.Dst)
	case Lea:
		p.two("leal", i.Src, i.Dst)
	case Add:
		p.two("addl", i.Src, i.Dst)
	case Addsd:
		p.two("addsd", i.Src, i.Dst)
	case Sub:
		p.two("subl", i.Src, i.Dst)
	case Subsd:
		p.two("subsd", i.Src, i.Dst)
	case IMul:
		if i.Dst != nil {
			p.two("imull", i.Src, i.Dst)
		} else {
			p.one("imull", i.Src)
		}
	case Mulsd:
		p.two("mulsd", i.Src, i.Dst)
	case Cdq:
		fmt.Fprintf(p.w, "\tcltd\n")
	case IDiv:
		p.one("idivl", i.Src)
	case Divsd:
		p.two("divsd", i.Src, i.Dst)
	case Neg:
		p.one("negl", i.Dst)
	case Xor:
		p.two("xorl", i.Src, i.Dst)
	case And:
		p.two("andl", i.Src, i.Dst)
	case Or:
		p.two("orl", i.Src, i.Dst)
	case Cmp:
		p.two("cmpl", i.Src, i.Dst)
	case Ucomisd:
		p.two("ucomisd", i.Src, i.Dst)
	case SetCC:
		p.one("set"+i.Cond.Suffix(), i.Dst)
	case Movzbl:
		p.two("movzbl", i.Src, i.Dst)
	case Jmp:
		fmt.Fprintf(p.w, "\tjmp %s\n", i.Target)
	case Jcc:
		fmt.Fprintf(p.w, "\tj%s %s\n", i.Cond.Suffix(), i.Target)
	case Call:
		fmt.Fprintf(p.w, "\tcall %s\n", i.Target)
	case Push:
		p.one("pushl", i.Src)
	case Pop:
		p.one("popl", i.Dst)
	case Ret:
		fmt.Fprintf(p.w, "\tret\n")
	}
}

func (p *Printer) one(mnemonic string, op Operand) {
	fmt.Fprintf(p.w, "\t%s %s\n", mnemonic, formatOperand(op))
}

func (p *Printer) two(mnemonic string, src, dst Operand) {
	fmt.Fprintf(p.w, "\t%s %s, %s\n", mnemonic, formatOperand(src), formatOperand(dst))
}

func formatOperand(op Operand) string {
	switch o := op.(type) {
	case RegOp:
		return string(o.Reg)
	case ImmOp:
		return fmt.Sprintf("$%d", o.Value)
	case MemOp:
		if o.Index != "" {
			return fmt.Sprintf("%d(%s,%s)", o.Offset, o.Base, o.Index)
		}
		return fmt.Sprintf("%d(%s)", o.Offset, o.Base)
	case SymOp:
		return o.Name
	default:
		return "?"
	}
}
