package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/microscheme/internal/server"
	"github.com/msto63/microscheme/pkg/core/logging"
)

var (
	serveHost       string
	serveGRPCPort   int
	serveHTTPPort   int
	serveReflection bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compile service",
	Long: `Starts the compile service.

Endpoints:
  gRPC  microscheme.v1.Compiler/Compile (JSON codec) and grpc.health.v1
  HTTP  POST /api/v1/compile, GET /api/v1/version, GET /api/v1/stats, GET /health
  WS    GET /ws  ({"type":"compile","payload":{...}} and ping)

Examples:
  mscheme serve
  mscheme serve --grpc-port 9301 --http-port 9381 --reflection`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port (default from config)")
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", 0, "HTTP port (default from config)")
	serveCmd.Flags().BoolVar(&serveReflection, "reflection", false, "enable gRPC reflection")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig.Server
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if serveGRPCPort != 0 {
		cfg.GRPCPort = serveGRPCPort
	}
	if serveHTTPPort != 0 {
		cfg.HTTPPort = serveHTTPPort
	}
	if serveReflection {
		cfg.EnableReflection = true
	}

	fmt.Fprintf(cmd.OutOrStdout(), "mscheme compile service: gRPC %s:%d, HTTP %s:%d\n",
		cfg.Host, cfg.GRPCPort, cfg.Host, cfg.HTTPPort)

	return server.New(cfg, logging.Wrap(logger, "server")).Run(ctx)
}
