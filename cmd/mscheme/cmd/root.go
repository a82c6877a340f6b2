package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/msto63/microscheme/pkg/core/config"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	mslog "github.com/msto63/microscheme/pkg/core/log"
	"github.com/msto63/microscheme/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	logger    *mslog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mscheme",
	Short: "microscheme - S-expression parser and IR compiler",
	Long: `microscheme parses S-expressions with error recovery and lowers them
to a flat stack-machine instruction stream.

Commands:
  repl     - interactive read-compile-print loop (default)
  run      - compile a source file, optionally on every change
  serve    - gRPC compile service with HTTP/WebSocket gateway
  compile  - compile a file on a running service`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runREPL,
}

func Execute() error {
	err := rootCmd.Execute()
	// syntax errors have already been rendered as diagnostics
	if err != nil && !mserror.HasCode(err, mserror.CodeSyntax) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $MSCHEME_CONFIG or ./configs/mscheme.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&replPlain, "plain", false, "line mode without the terminal UI")
}

// setup loads the configuration and installs the default logger
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.NewLogger(logging.LoggerConfig{
		Name:   "mscheme",
		Level:  level,
		Format: cfg.General.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	mslog.SetDefault(logger)

	logger.Debug("configuration ready", mslog.Fields{"path": cfg.Path()})
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// isTerminal reports whether r and w are both attached to a terminal
func isTerminal(r io.Reader, w io.Writer) bool {
	in, ok := r.(*os.File)
	if !ok {
		return false
	}
	out, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd())
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
