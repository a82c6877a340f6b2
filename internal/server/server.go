// File: server.go
// Title: Compile Server
// Description: Runs the gRPC service and the HTTP gateway side by side and
//              shuts both down when the context ends.
// Created: 2026-10-17

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/msto63/microscheme/pkg/core/cache"
	"github.com/msto63/microscheme/pkg/core/config"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	grpcx "github.com/msto63/microscheme/pkg/core/grpc"
	"github.com/msto63/microscheme/pkg/core/health"
	"github.com/msto63/microscheme/pkg/core/logging"
	"github.com/msto63/microscheme/pkg/core/version"
)

// shutdownTimeout bounds graceful shutdown of both listeners
const shutdownTimeout = 5 * time.Second

// Server is the compile server
type Server struct {
	grpc    *grpcx.Server
	http    *http.Server
	service *Service
	health  *health.Registry
	logger  *logging.Logger
	config  config.ServerConfig
}

// New creates a server from the [server] configuration section
func New(cfg config.ServerConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New("server")
	}

	service := NewService(cfg.MaxSourceBytes, logger)
	if cfg.CacheSize > 0 {
		service.EnableCache(cache.Config{MaxItems: cfg.CacheSize, TTL: cfg.CacheTTL.Duration})
	}

	grpcCfg := grpcx.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.GRPCPort
	grpcCfg.EnableReflection = cfg.EnableReflection
	grpcCfg.Logger = logging.Wrap(logger.Logger, "grpc")
	if cfg.MaxSourceBytes > 0 && cfg.MaxSourceBytes*2 > grpcCfg.MaxRecvMsgSize {
		grpcCfg.MaxRecvMsgSize = cfg.MaxSourceBytes * 2
	}
	grpcServer := grpcx.NewServer(grpcCfg)
	RegisterCompilerServer(grpcServer.GRPCServer(), grpcService{svc: service})

	registry := health.NewRegistry(version.ServiceName, version.Version)
	registry.RegisterFunc("compiler", func(ctx context.Context) health.CheckResult {
		resp, err := service.Compile(ctx, &CompileRequest{Source: "(ping)", Name: "health"})
		if err != nil || !resp.OK {
			return health.CheckResult{Name: "compiler", Status: health.StatusUnhealthy, Message: "self-test compile failed"}
		}
		return health.CheckResult{Name: "compiler", Status: health.StatusHealthy}
	})

	handler := NewHandler(service, registry, logging.Wrap(logger.Logger, "http"))

	s := &Server{
		grpc:    grpcServer,
		service: service,
		health:  registry,
		logger:  logger,
		config:  cfg,
		http: &http.Server{
			Handler:      handler.Routes(),
			ReadTimeout:  cfg.ReadTimeout.Duration,
			WriteTimeout: cfg.WriteTimeout.Duration,
		},
	}
	return s
}

// Service returns the transport independent compile service
func (s *Server) Service() *Service { return s.service }

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry { return s.health }

// Run listens on both ports and serves until ctx is done or a listener
// fails
func (s *Server) Run(ctx context.Context) error {
	httpListener, err := listen(s.config.Host, s.config.HTTPPort)
	if err != nil {
		return err
	}
	grpcListener, err := listen(s.config.Host, s.config.GRPCPort)
	if err != nil {
		httpListener.Close()
		return err
	}
	return s.Serve(ctx, httpListener, grpcListener)
}

func listen(host string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, mserror.Wrap(err, "failed to listen").
			WithCode(mserror.CodeServiceUnavailable).
			WithOperation("server.Run").
			WithDetail("address", addr)
	}
	return l, nil
}

// Serve serves on existing listeners until ctx is done or one of them fails
func (s *Server) Serve(ctx context.Context, httpListener, grpcListener net.Listener) error {
	errCh := make(chan error, 2)

	s.health.Register(health.TCPCheck("grpc", grpcListener.Addr().String(), time.Second))
	s.grpc.SetServingStatus(version.GRPCService, true)

	go func() {
		errCh <- s.grpc.Serve(grpcListener)
	}()
	go func() {
		s.logger.Info("HTTP gateway listening", "address", httpListener.Addr().String())
		if err := s.http.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info("compile server started", "version", version.Version)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.logger.Info("shutting down compile server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.grpc.StopWithTimeout(shutdownCtx)
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP shutdown error", "error", err)
	}

	if runErr != nil {
		return mserror.Wrap(runErr, "compile server failed").
			WithCode(mserror.CodeServiceUnavailable).
			WithOperation("server.Serve")
	}
	return nil
}
