package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/msto63/microscheme/internal/compiler"
	"github.com/msto63/microscheme/internal/history"
	"github.com/msto63/microscheme/internal/tui/repl"
	"github.com/msto63/microscheme/pkg/core/logging"
)

var replPlain bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive loop",
	Long: `Reads one expression per line, prints its syntax tree and instruction
stream, and renders diagnostics for malformed input.

Keys:
  Up/Down   history
  Ctrl-C    quit (CTRL-C)
  Ctrl-D    quit (CTRL-D)

Type the exit command (default "exit") to leave with "Bye!".`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replPlain, "plain", false, "line mode without the terminal UI")
}

func runREPL(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()

	store, err := history.Open(history.Config{
		Path:  appConfig.REPL.HistoryPath,
		Limit: appConfig.REPL.HistoryLimit,
	})
	if err != nil {
		logger.WarnWithErr("history unavailable, using memory", err)
		store = history.NewMemoryStore(appConfig.REPL.HistoryLimit, "")
	}

	session := repl.NewSession(repl.Config{
		Prompt:       appConfig.REPL.Prompt,
		ExitCommand:  appConfig.REPL.ExitCommand,
		Report:       reportOptions(out),
		Store:        store,
		HistoryLimit: appConfig.REPL.HistoryLimit,
		Compiler:     compiler.New(compiler.Options{Logger: logger}),
		Logger:       logging.Wrap(logger, "repl"),
	})
	defer func() {
		if err := session.Close(); err != nil {
			logger.WarnWithErr("closing history failed", err)
		}
	}()

	if replPlain || appConfig.REPL.Plain || !isTerminal(in, out) {
		return repl.RunPlain(ctx, session, in, out)
	}
	return repl.Run(ctx, session, in, out)
}

// reportOptions applies the output section, dropping colour when w is not
// a terminal
func reportOptions(w io.Writer) compiler.ReportOptions {
	opts := compiler.ReportOptionsFromConfig(appConfig.Output)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		opts.Color = false
	}
	return opts
}
