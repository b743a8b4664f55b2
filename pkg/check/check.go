// Package check runs the semantic validation suite: a fixed-order list
// of independent checks sharing a single status/error record, each a
// no-op once an earlier check has failed, so the first diagnostic is the
// one reported.
package check

import (
	"fmt"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

// Status is the outcome of a check.
type Status int

const (
	OK Status = iota
	Fail
)

// Result is the check orchestrator's status/error record. Once Status is
// Fail, Err holds the first diagnostic message and later checks are no-ops.
type Result struct {
	Status Status
	Err    string
}

func ok() Result { return Result{Status: OK} }

func fail(pos ast.Pos, format string, args ...interface{}) Result {
	msg := fmt.Sprintf(format, args...)
	if pos.File != "" {
		msg = fmt.Sprintf("%s:%d:%d:%s", pos.File, pos.Line, pos.Column, msg)
	}
	return Result{Status: Fail, Err: msg}
}

// failMsg builds a Result from a message that is already fully formatted
// (no source position available), for structural checks that report on
// the whole program rather than one node (e.g. "No main function
// defined").
func failMsg(msg string) Result {
	return Result{Status: Fail, Err: msg}
}

type checkFunc func(prog *ast.Program, table *symtab.Table) Result

// orderedChecks is the fixed order the checks run in.
var orderedChecks = []checkFunc{
	checkMainFunction,
	checkMultipleFunctionDefinitions,
	checkMultipleVariableDeclarations,
	checkUnknownFunctionCalls,
	checkUndeclaredVariables,
	checkReturnCoverage,
	checkTypes,
}

// Run executes every check in order, stopping at the first failure so later
// checks never overwrite the first error message.
func Run(prog *ast.Program, table *symtab.Table) Result {
	for _, c := range orderedChecks {
		if res := c(prog, table); res.Status == Fail {
			return res
		}
	}
	return ok()
}
