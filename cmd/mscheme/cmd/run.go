package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/microscheme/internal/compiler"
	"github.com/msto63/microscheme/internal/watch"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	mslog "github.com/msto63/microscheme/pkg/core/log"
	"github.com/msto63/microscheme/pkg/core/logging"
)

var (
	runFile    string
	runWatch   bool
	runSingle  bool
	runListing bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile a source file",
	Long: `Compiles every top-level form of a file and prints the syntax trees,
the instruction stream and any diagnostics.

Examples:
  mscheme run --file prog.scm
  mscheme run prog.scm --watch      # recompile on every save
  mscheme run prog.scm --single     # first form only, trailing input is an error
  mscheme run prog.scm --listing    # numbered instruction listing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "source file")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "recompile whenever the file changes")
	runCmd.Flags().BoolVar(&runSingle, "single", false, "compile a single form instead of a program")
	runCmd.Flags().BoolVar(&runListing, "listing", false, "print a numbered instruction listing")
}

func runRun(cmd *cobra.Command, args []string) error {
	path, err := sourcePath(runFile, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := reportOptions(out)
	opts.Listing = runListing

	err = compileFile(out, path, !runSingle, opts)
	if !runWatch {
		return err
	}
	// keep watching; the file may appear or be fixed later
	reportWatchError(cmd.ErrOrStderr(), err)

	ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(path, watch.Options{
		Debounce: appConfig.Watch.Debounce.Duration,
		Logger:   logging.Wrap(logger, "watch"),
	})
	return w.Run(ctx, func() {
		fmt.Fprintf(out, "\n--- %s changed ---\n", path)
		reportWatchError(cmd.ErrOrStderr(), compileFile(out, path, !runSingle, opts))
	})
}

// reportWatchError prints err unless it is nil or a syntax error, which the
// report has already rendered
func reportWatchError(w io.Writer, err error) {
	if err != nil && !mserror.HasCode(err, mserror.CodeSyntax) {
		printError(w, err)
	}
}

// sourcePath picks the file from --file or the single positional argument
func sourcePath(flag string, args []string) (string, error) {
	switch {
	case flag != "" && len(args) > 0 && args[0] != flag:
		return "", mserror.New("give the source file either as argument or with --file").
			WithCode(mserror.CodeInvalidInput)
	case flag != "":
		return flag, nil
	case len(args) > 0:
		return args[0], nil
	}
	return "", mserror.New("no source file given").WithCode(mserror.CodeInvalidInput)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", mserror.Wrap(err, "cannot read source file").
			WithCode(mserror.CodeFileRead).
			WithOperation("cmd.readSource").
			WithDetail("path", path)
	}
	return string(data), nil
}

func compileFile(w io.Writer, path string, program bool, opts compiler.ReportOptions) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}
	timer := logger.StartTimer("compile file").WithField("path", path)
	defer timer.Stop()

	logger.Debug("compiling", mslog.Fields{"path": path, "bytes": len(source), "program": program})
	return compiler.Run(w, path, source, program, opts)
}

// background is the context for commands run outside cobra's ExecuteContext
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
