// File: compiler.go
// Title: Compile Pipeline
// Description: Parses source, lowers the tree to IR and reports the result
//              the way the REPL and file runner print it.
// Created: 2026-10-17

package compiler

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/microscheme/internal/ast"
	"github.com/msto63/microscheme/internal/diag"
	"github.com/msto63/microscheme/internal/ir"
	"github.com/msto63/microscheme/internal/parser"
	"github.com/msto63/microscheme/pkg/core/config"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	mslog "github.com/msto63/microscheme/pkg/core/log"
)

var (
	treeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	irStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// Result is the outcome of one compilation
type Result struct {
	Source string

	// Tree is set by Compile, Forms by CompileProgram
	Tree  ast.Expr
	Forms []ast.Expr

	// Program is nil when nothing parsed
	Program []ir.Instruction
	Errors  []*parser.SyntaxError

	Duration time.Duration
}

// OK reports whether the source compiled without syntax errors
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Trees returns the parsed forms regardless of mode
func (r *Result) Trees() []ast.Expr {
	if r.Forms != nil {
		return r.Forms
	}
	if r.Tree != nil {
		return []ast.Expr{r.Tree}
	}
	return nil
}

// Options configures a Compiler
type Options struct {
	Logger *mslog.Logger

	// MaxSourceBytes is handed to the parser; 0 keeps its default
	MaxSourceBytes int
}

// Compiler couples a parser with IR lowering. It is safe for concurrent use.
type Compiler struct {
	parser *parser.Parser
	logger *mslog.Logger
}

// New creates a compiler
func New(opts Options) *Compiler {
	return &Compiler{
		parser: parser.New(parser.Options{Logger: opts.Logger, MaxInputLength: opts.MaxSourceBytes}),
		logger: opts.Logger,
	}
}

var defaultCompiler = New(Options{})

// Compile compiles the first form of source with the default compiler
func Compile(source string) *Result { return defaultCompiler.Compile(source) }

// CompileProgram compiles every form of source with the default compiler
func CompileProgram(source string) *Result { return defaultCompiler.CompileProgram(source) }

// Compile parses a single form and lowers it when a tree was produced
func (c *Compiler) Compile(source string) *Result {
	timer := c.log().StartTimer("compile").WithField("bytes", len(source))

	res := &Result{Source: source}
	res.Tree, res.Errors = c.parser.Parse(source)
	if res.Tree != nil {
		res.Program = ir.Lower(res.Tree)
	}

	res.Duration = timer.WithField("errors", len(res.Errors)).Stop()
	return res
}

// CompileProgram parses every top-level form and lowers them in order
func (c *Compiler) CompileProgram(source string) *Result {
	timer := c.log().StartTimer("compile program").WithField("bytes", len(source))

	res := &Result{Source: source}
	res.Forms, res.Errors = c.parser.ParseAll(source)
	if res.Forms == nil {
		res.Forms = []ast.Expr{}
	}
	if len(res.Forms) > 0 {
		res.Program = ir.LowerProgram(res.Forms)
	}

	res.Duration = timer.
		WithField("forms", len(res.Forms)).
		WithField("errors", len(res.Errors)).
		Stop()
	return res
}

func (c *Compiler) log() *mslog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return mslog.GetDefault()
}

// ReportOptions selects what Report prints
type ReportOptions struct {
	ShowTree bool
	ShowIR   bool
	Color    bool

	// Listing adds one numbered line per instruction after the IR line
	Listing bool
}

// DefaultReportOptions prints everything in colour
func DefaultReportOptions() ReportOptions {
	return ReportOptions{ShowTree: true, ShowIR: true, Color: true}
}

// ReportOptionsFromConfig reads the [output] section
func ReportOptionsFromConfig(cfg config.OutputConfig) ReportOptions {
	opts := DefaultReportOptions()
	if cfg.ShowTree != nil {
		opts.ShowTree = *cfg.ShowTree
	}
	if cfg.ShowIR != nil {
		opts.ShowIR = *cfg.ShowIR
	}
	if cfg.Color != nil {
		opts.Color = *cfg.Color
	}
	return opts
}

// Report prints the tree dump and the IR of res, then every diagnostic.
// name labels source locations, e.g. "repl" or a file path.
func Report(w io.Writer, name string, res *Result, opts ReportOptions) error {
	var b strings.Builder
	paint := func(s lipgloss.Style, text string) string {
		if opts.Color {
			return s.Render(text)
		}
		return text
	}

	if opts.ShowTree {
		for _, tree := range res.Trees() {
			fmt.Fprintln(&b, paint(treeStyle, "Compiled -> "+ast.Dump(tree)))
		}
	}
	if opts.ShowIR && res.Program != nil {
		fmt.Fprintln(&b, paint(irStyle, "IR       -> "+ir.Format(res.Program)))
	}
	if opts.Listing && res.Program != nil {
		listing := strings.TrimSuffix(ir.Listing(res.Program), "\n")
		for _, line := range strings.Split(listing, "\n") {
			fmt.Fprintln(&b, paint(irStyle, line))
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	return diag.Renderer{Color: opts.Color}.RenderAll(w, name, res.Source, res.Errors)
}

// Run compiles source, reports to w and returns a SYNTAX coded error when
// the source had syntax errors. With program set every form is compiled.
func Run(w io.Writer, name, source string, program bool, opts ReportOptions) error {
	var res *Result
	if program {
		res = CompileProgram(source)
	} else {
		res = Compile(source)
	}
	if err := Report(w, name, res, opts); err != nil {
		return mserror.Wrap(err, "cannot write report").
			WithCode(mserror.CodeInternal).
			WithOperation("compiler.Run")
	}
	return SyntaxError(name, res)
}

// SyntaxError summarises the errors of res as a coded error, or returns nil
func SyntaxError(name string, res *Result) error {
	if res.OK() {
		return nil
	}
	first := res.Errors[0]
	pos := diag.LineCol(res.Source, first.Span.Start)
	return mserror.Newf("%s:%s: %s", name, pos, first.Message()).
		WithCode(mserror.CodeSyntax).
		WithOperation("compiler.Run").
		WithDetail("errors", len(res.Errors))
}
