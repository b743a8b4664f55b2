package symtab

import (
	"fmt"
	"io"

	"github.com/OliverRoss/mcc/pkg/ast"
)

// Printer dumps a Table's scope tree for the --dsymtab entry point.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintTable prints the global scope, then walks the program alongside the
// table (via Table.FuncScope/Table.ScopeOf) so each nested compound's scope
// is printed under its enclosing one, indented by nesting depth.
func (p *Printer) PrintTable(t *Table, prog *ast.Program) {
	p.printScope(t.Global, 0)
	for _, fn := range prog.Functions {
		fmt.Fprintf(p.w, "function %s:\n", fn.Name)
		p.printScope(t.FuncScope[fn], 1)
		p.printCompound(fn.Body, t, 1)
	}
}

func (p *Printer) printCompound(c *ast.Compound, t *Table, depth int) {
	if scope, ok := t.ScopeOf[c]; ok && len(scope.Rows) > 0 {
		p.printScope(scope, depth)
	}
	for _, stmt := range c.Stmts {
		p.walkStmt(stmt, t, depth)
	}
}

func (p *Printer) walkStmt(stmt ast.Stmt, t *Table, depth int) {
	switch s := stmt.(type) {
	case *ast.Compound:
		p.printCompound(s, t, depth+1)
	case *ast.If:
		p.walkStmt(s.Then, t, depth)
		if s.Else != nil {
			p.walkStmt(s.Else, t, depth)
		}
	case *ast.While:
		p.walkStmt(s.Body, t, depth)
	}
}

func (p *Printer) printScope(s *Scope, depth int) {
	if s == nil {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, row := range s.Rows {
		switch row.Kind {
		case KindFunction:
			fmt.Fprintf(p.w, "%sfunc %s -> %s\n", indent, row.Name, row.Type)
		case KindArray:
			fmt.Fprintf(p.w, "%sarray %s %s[%d]\n", indent, row.Type, row.Name, row.ArraySize)
		default:
			fmt.Fprintf(p.w, "%svar %s %s\n", indent, row.Type, row.Name)
		}
	}
}
