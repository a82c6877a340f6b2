package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/microscheme/internal/server"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	grpcx "github.com/msto63/microscheme/pkg/core/grpc"
	"github.com/msto63/microscheme/pkg/core/logging"
)

var (
	compileRemote  string
	compileFileArg string
	compileSingle  bool
	compileTimeout time.Duration
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a file on a running compile service",
	Long: `Sends a source file to a running "mscheme serve" over gRPC and prints
the returned tree, instructions and diagnostics.

Examples:
  mscheme compile --file prog.scm
  mscheme compile --remote 10.0.0.5:9300 prog.scm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&compileRemote, "remote", "", "service address host:port (default from config)")
	compileCmd.Flags().StringVarP(&compileFileArg, "file", "f", "", "source file")
	compileCmd.Flags().BoolVar(&compileSingle, "single", false, "compile a single form instead of a program")
	compileCmd.Flags().DurationVar(&compileTimeout, "timeout", 10*time.Second, "request timeout")
}

func runCompile(cmd *cobra.Command, args []string) error {
	path, err := sourcePath(compileFileArg, args)
	if err != nil {
		return err
	}
	source, err := readSource(path)
	if err != nil {
		return err
	}

	target := compileRemote
	if target == "" {
		target = appConfig.GRPCAddress()
	}

	clientCfg := grpcx.DefaultClientConfig(target)
	clientCfg.Logger = logging.Wrap(logger, "grpc-client")
	conn, err := grpcx.Dial(clientCfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(background(cmd), compileTimeout)
	defer cancel()

	resp, err := server.NewCompilerClient(conn).Compile(ctx, &server.CompileRequest{
		Source:  source,
		Name:    path,
		Program: !compileSingle,
	})
	if err != nil {
		return server.FromStatus(err, target)
	}
	return printRemote(cmd.OutOrStdout(), path, resp)
}

// printRemote writes a service response in the report layout and turns
// diagnostics into a SYNTAX error
func printRemote(w io.Writer, name string, resp *server.CompileResponse) error {
	if resp.TreeDump != "" {
		for _, dump := range strings.Split(resp.TreeDump, "\n") {
			fmt.Fprintf(w, "Compiled -> %s\n", dump)
		}
		fmt.Fprintf(w, "IR       -> %s\n", resp.Program())
	}
	for _, d := range resp.Diagnostics {
		fmt.Fprintf(w, "error: %s\n  --> %s:%d:%d\n", d.Message, name, d.Line, d.Column)
	}
	if resp.OK {
		return nil
	}
	first := resp.Diagnostics[0]
	return mserror.Newf("%s:%d:%d: %s", name, first.Line, first.Column, first.Message).
		WithCode(mserror.CodeSyntax).
		WithOperation("cmd.compile").
		WithDetail("errors", len(resp.Diagnostics))
}
