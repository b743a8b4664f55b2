package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionIsSet(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestDebugFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	for _, name := range []string{"dast", "dsymtab", "dcheck", "dir", "dcfg", "dasm", "output", "quiet"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag --%s to exist", name)
		}
	}
}

const trivialMain = "int main() { return 0; }"

func TestDastPrintsSourceLikeText(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(trivialMain))
	cmd.SetArgs([]string{"--dast"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "main") {
		t.Errorf("expected AST dump to mention 'main', got:\n%s", out.String())
	}
}

func TestDcheckSucceedsOnValidProgram(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(trivialMain))
	cmd.SetArgs([]string{"--dcheck", "-q"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
}

func TestDcheckFailsWithoutMain(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader("int helper() { return 1; }"))
	cmd.SetArgs([]string{"--dcheck"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a program with no main function")
	}
}

func TestDirEmitsThreeAddressRows(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(trivialMain))
	cmd.SetArgs([]string{"--dir"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "RETURN") {
		t.Errorf("expected IR dump to contain a RETURN row, got:\n%s", out.String())
	}
}

func TestDcfgEmitsDotGraph(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(trivialMain))
	cmd.SetArgs([]string{"--dcfg"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.HasPrefix(out.String(), "digraph cfg {") {
		t.Errorf("expected a Graphviz digraph, got:\n%s", out.String())
	}
}

func TestDefaultEntryPointEmitsAssembly(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(trivialMain))
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "main:") {
		t.Errorf("expected assembly output to define 'main:', got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "ret") {
		t.Errorf("expected assembly output to contain a ret instruction, got:\n%s", out.String())
	}
}

func TestSyntaxErrorReportsAndFails(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader("int main( { return 0; }"))
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected a syntax error")
	}
	if errOut.String() == "" {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestMissingFileReportsError(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"does-not-exist.mc"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
