package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders list in the IR-dump format: one row per line, columns
// `row_no | instr | arg1 | arg2`. Temporaries render as tK, labels as
// LK, function labels as the function's name.
func Print(list *List) string {
	var b strings.Builder
	for _, row := range list.Rows {
		fmt.Fprintf(&b, "%d | %s | %s | %s\n", row.Index, row.Tag, formatArg(list, row.Arg1), formatArg(list, row.Arg2))
	}
	return b.String()
}

func formatArg(list *List, a Arg) string {
	switch a.Kind {
	case ArgNone:
		return ""
	case ArgIntLit:
		return strconv.FormatInt(a.IntVal, 10)
	case ArgFloatLit:
		return strconv.FormatFloat(a.FloatVal, 'g', -1, 64)
	case ArgBoolLit:
		return strconv.FormatBool(a.BoolVal)
	case ArgStringLit:
		return strconv.Quote(a.StringVal)
	case ArgIdent:
		return a.Ident
	case ArgArrayElem:
		return fmt.Sprintf("%s[%s]", a.Ident, formatArg(list, *a.Index))
	case ArgLabelRef:
		return fmt.Sprintf("L%d", a.Label)
	case ArgFuncLabelRef:
		return a.FuncName
	case ArgRowRef:
		return fmt.Sprintf("t%d", list.Rows[a.Row].Number)
	default:
		return "?"
	}
}
