package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/msto63/microscheme/internal/ast"
	"github.com/msto63/microscheme/internal/ir"
	"github.com/msto63/microscheme/pkg/core/config"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	mslog "github.com/msto63/microscheme/pkg/core/log"
)

var plain = ReportOptions{ShowTree: true, ShowIR: true}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantOK     bool
		wantTree   bool
		wantIR     string
		wantErrors int
	}{
		{"atom", "42", true, true, "[ldc 42, stop]", 0},
		{"list", "(a 1)", true, true, "[ldg a, ldc 1, stop]", 0},
		{"quote", "'(a b)", true, true, "[ldc (a b), stop]", 0},
		{"recovered error keeps tree", "(1 $ 2)", false, true, "[ldc 1, ldc 2, stop]", 1},
		{"empty input", "", false, false, "", 1},
		{"only junk", "$$", false, false, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compile(tt.source)
			if res.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v (errors %v)", res.OK(), tt.wantOK, res.Errors)
			}
			if (res.Tree != nil) != tt.wantTree {
				t.Errorf("Tree = %v, want present=%v", res.Tree, tt.wantTree)
			}
			if tt.wantTree {
				if got := ir.Format(res.Program); got != tt.wantIR {
					t.Errorf("Program = %s, want %s", got, tt.wantIR)
				}
			} else if res.Program != nil {
				t.Errorf("Program = %s, want nil", ir.Format(res.Program))
			}
			if len(res.Errors) != tt.wantErrors {
				t.Errorf("len(Errors) = %d, want %d", len(res.Errors), tt.wantErrors)
			}
		})
	}
}

func TestCompileProgram(t *testing.T) {
	res := CompileProgram("(define x 1)\n'y\nz")

	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	if len(res.Forms) != 3 {
		t.Fatalf("len(Forms) = %d, want 3", len(res.Forms))
	}
	want := "[ldg define, ldg x, ldc 1, ldc y, ldg z, stop]"
	if got := ir.Format(res.Program); got != want {
		t.Errorf("Program = %s, want %s", got, want)
	}

	empty := CompileProgram("   ")
	if !empty.OK() || len(empty.Forms) != 0 || empty.Program != nil {
		t.Errorf("blank program: forms=%d program=%v errors=%v", len(empty.Forms), empty.Program, empty.Errors)
	}
}

func TestCompiler_MaxSourceBytes(t *testing.T) {
	c := New(Options{Logger: mslog.Discard(), MaxSourceBytes: 4})
	res := c.Compile("(a b c)")
	if res.OK() || res.Tree != nil {
		t.Fatalf("oversized source should fail without a tree, got %v", res.Tree)
	}
	if !strings.Contains(res.Errors[0].Message(), "exceeds 4 bytes") {
		t.Errorf("message = %q", res.Errors[0].Message())
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(&buf, "repl", Compile("(a 42)"), plain); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	want := "Compiled -> List([Atom(Symbol(\"a\")), Atom(Integer(42))])\n" +
		"IR       -> [ldg a, ldc 42, stop]\n"
	if buf.String() != want {
		t.Errorf("Report() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestReport_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    ReportOptions
		want    []string
		notWant []string
	}{
		{"tree only", ReportOptions{ShowTree: true}, []string{"Compiled ->"}, []string{"IR"}},
		{"ir only", ReportOptions{ShowIR: true}, []string{"IR       ->"}, []string{"Compiled"}},
		{"nothing", ReportOptions{}, nil, []string{"Compiled", "IR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Report(&buf, "repl", Compile("(x)"), tt.opts); err != nil {
				t.Fatalf("Report() error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("missing %q in %q", s, buf.String())
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(buf.String(), s) {
					t.Errorf("unexpected %q in %q", s, buf.String())
				}
			}
		})
	}
}

func TestReport_Listing(t *testing.T) {
	var buf bytes.Buffer
	opts := ReportOptions{ShowIR: true, Listing: true}
	if err := Report(&buf, "repl", Compile("(a 42)"), opts); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	want := "IR       -> [ldg a, ldc 42, stop]\n" +
		"0  ldg a\n" +
		"1  ldc 42\n" +
		"2  stop\n"
	if buf.String() != want {
		t.Errorf("Report() =\n%q\nwant\n%q", buf.String(), want)
	}

	buf.Reset()
	if err := Report(&buf, "repl", Compile(")"), opts); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if strings.Contains(buf.String(), "0  ") {
		t.Errorf("listing printed without a program:\n%s", buf.String())
	}
}

func TestReport_WithErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(&buf, "repl", Compile("(1 ))"), plain); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Compiled -> List([Atom(Integer(1))])", "error: Unexpected token )", "--> repl:1:5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "IR") > strings.Index(out, "error:") {
		t.Errorf("IR should be printed before diagnostics:\n%s", out)
	}
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, "a.scm", "(a)\n(b)", true, plain); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if strings.Count(buf.String(), "Compiled ->") != 2 {
		t.Errorf("want one dump per form:\n%s", buf.String())
	}

	buf.Reset()
	err := Run(&buf, "a.scm", "(a\n $)", true, plain)
	if err == nil {
		t.Fatal("Run() error = nil, want syntax error")
	}
	if !mserror.HasCode(err, mserror.CodeSyntax) {
		t.Errorf("error code = %v, want SYNTAX", mserror.GetCode(err))
	}
	if !strings.HasPrefix(err.Error(), "a.scm:2:2: Unexpected token $") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestReportOptionsFromConfig(t *testing.T) {
	off := false
	opts := ReportOptionsFromConfig(config.OutputConfig{Color: &off})
	if opts.Color || !opts.ShowTree || !opts.ShowIR {
		t.Errorf("ReportOptionsFromConfig() = %+v", opts)
	}
}

func TestResult_Trees(t *testing.T) {
	single := &Result{Tree: ast.NewSymbol("a")}
	if len(single.Trees()) != 1 {
		t.Errorf("single Trees() = %v", single.Trees())
	}
	if (&Result{}).Trees() != nil {
		t.Error("empty result should have no trees")
	}
}
