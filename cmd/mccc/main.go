// Command mccc compiles a single source file (or stdin) through the full
// pipeline: lexer/parser, symbol table, semantic checks, AST rewrite,
// three-address IR, CFG, stack annotation, and finally x86-32 assembly
// text. The cobra command tree carries one boolean debug flag per
// pipeline stage and is built by newRootCmd(out, errOut io.Writer) so
// tests can capture output without touching os.Stdout/os.Stderr; run()
// wraps os.Exit so deferred cleanup actually runs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OliverRoss/mcc/pkg/asm"
	"github.com/OliverRoss/mcc/pkg/asmgen"
	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/cfg"
	"github.com/OliverRoss/mcc/pkg/check"
	"github.com/OliverRoss/mcc/pkg/ir"
	"github.com/OliverRoss/mcc/pkg/lexer"
	"github.com/OliverRoss/mcc/pkg/parser"
	"github.com/OliverRoss/mcc/pkg/rewrite"
	"github.com/OliverRoss/mcc/pkg/stacking"
	"github.com/OliverRoss/mcc/pkg/symtab"
)

const version = "0.1.0"

var (
	dastFlag    bool
	dsymtabFlag bool
	dcheckFlag  bool
	dirFlag     bool
	dcfgFlag    bool
	dasmFlag    bool
	outputFlag  string
	quietFlag   bool
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// newRootCmd builds the command tree, writing all output to out and all
// diagnostics to errOut rather than the process's real stdout/stderr,
// so callers (including tests) can redirect both independently.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mccc [file]",
		Short:   "mccc compiles the mcc source language to x86-32 assembly",
		Long: "mccc lowers a single mcc source file through AST, symbol table,\n" +
			"semantic checks, three-address IR, and CFG construction, emitting\n" +
			"x86-32 assembly text by default. With no file argument, it reads\n" +
			"from stdin.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, filename, err := readSource(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				fmt.Fprintln(errOut, err)
				return err
			}

			w, closeW, err := openOutput(cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintln(errOut, err)
				return err
			}
			defer closeW()

			if err := compile(src, filename, w, errOut); err != nil {
				fmt.Fprintln(errOut, err)
				return err
			}
			return nil
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dastFlag, "dast", false, "emit the pretty-printed AST instead of assembly")
	rootCmd.Flags().BoolVar(&dsymtabFlag, "dsymtab", false, "emit the annotated symbol table instead of assembly")
	rootCmd.Flags().BoolVar(&dcheckFlag, "dcheck", false, "run semantic checks only; on success prints ok to stderr unless -q")
	rootCmd.Flags().BoolVar(&dirFlag, "dir", false, "emit the three-address IR listing instead of assembly")
	rootCmd.Flags().BoolVar(&dcfgFlag, "dcfg", false, "emit the control-flow graph in Graphviz dot format")
	rootCmd.Flags().BoolVar(&dasmFlag, "dasm", false, "emit x86-32 assembly text (default behavior)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write output to path instead of stdout")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-error diagnostics")

	return rootCmd
}

// readSource returns the program text and a display filename, reading the
// named positional argument if present or stdin otherwise. The context
// bounds the stdin read; os.ReadFile itself is not cancelable.
func readSource(ctx context.Context, stdin io.Reader, args []string) (src []byte, filename string, err error) {
	if len(args) == 0 {
		data, err := readAllContext(ctx, stdin)
		return data, "<stdin>", err
	}
	filename = args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, filename, fmt.Errorf("reading %s: %w", filename, err)
	}
	return data, filename, nil
}

func readAllContext(ctx context.Context, r io.Reader) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(r)
		done <- result{data, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

// openOutput returns the writer to emit compiled artifacts to: the file
// named by -o, or the command's stdout if unset. The returned close func
// is always safe to defer.
func openOutput(def io.Writer) (io.Writer, func() error, error) {
	if outputFlag == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(outputFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", outputFlag, err)
	}
	return f, f.Close, nil
}

// compile runs the pipeline over src and writes whichever artifact the
// debug flags select to w. Flags are checked in pipeline order so each
// entry point only runs the prefix of the pipeline it needs.
func compile(src []byte, filename string, w io.Writer, errOut io.Writer) error {
	l := lexer.New(string(src))
	p := parser.New(l, filename)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(errOut, e)
		}
		return fmt.Errorf("%d syntax error(s) in %s", len(errs), filename)
	}

	if dastFlag {
		ast.NewPrinter(w).PrintProgram(prog)
		return nil
	}

	table := symtab.Build(prog)

	if dsymtabFlag {
		symtab.NewPrinter(w).PrintTable(table, prog)
		return nil
	}

	res := check.Run(prog, table)
	if res.Status == check.Fail {
		return fmt.Errorf("%s", res.Err)
	}
	if dcheckFlag {
		if !quietFlag {
			fmt.Fprintln(errOut, "ok")
		}
		return nil
	}

	prog = rewrite.Run(prog, table)
	list := ir.Build(prog)
	if list == nil {
		return fmt.Errorf("internal error: IR lowering failed for %s", filename)
	}

	if dirFlag {
		fmt.Fprint(w, ir.Print(list))
		return nil
	}

	if dcfgFlag {
		g := cfg.Build(list)
		cfg.PrintDot(w, g)
		return nil
	}

	stacking.Annotate(list, table)
	asmProg := asmgen.TransformProgram(list, table)
	asm.NewPrinter(w).PrintProgram(asmProg)
	return nil
}

