// File: service.go
// Title: Compile Service
// Description: Transport independent compile operation shared by the gRPC
//              service, the HTTP gateway and the WebSocket handler.
// Created: 2026-10-17

package server

import (
	"context"
	"strconv"
	"strings"

	"github.com/msto63/microscheme/internal/ast"
	"github.com/msto63/microscheme/internal/compiler"
	"github.com/msto63/microscheme/internal/diag"
	"github.com/msto63/microscheme/pkg/core/cache"
	mserror "github.com/msto63/microscheme/pkg/core/error"
	"github.com/msto63/microscheme/pkg/core/logging"
)

// CompileRequest is the body of a compile call
type CompileRequest struct {
	Source string `json:"source"`

	// Name labels diagnostics; defaults to "input"
	Name string `json:"name,omitempty"`

	// Program compiles every top-level form instead of the first one
	Program bool `json:"program,omitempty"`
}

// Diagnostic is one syntax error with its resolved position
type Diagnostic struct {
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
}

// CompileResponse is the result of a compile call
type CompileResponse struct {
	Name         string       `json:"name"`
	Tree         *ast.Node    `json:"tree,omitempty"`
	Forms        []*ast.Node  `json:"forms,omitempty"`
	TreeDump     string       `json:"tree_dump,omitempty"`
	Instructions []string     `json:"instructions"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
	OK           bool         `json:"ok"`
}

// Service compiles requests. It is safe for concurrent use.
type Service struct {
	compiler       *compiler.Compiler
	maxSourceBytes int
	logger         *logging.Logger

	// responses by name, mode and source; nil disables caching
	cache *cache.Cache[*CompileResponse]
}

// NewService creates a service rejecting sources above maxSourceBytes
// (0 disables the check)
func NewService(maxSourceBytes int, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.New("compile-service")
	}
	return &Service{
		compiler:       compiler.New(compiler.Options{Logger: logger.Logger, MaxSourceBytes: -1}),
		maxSourceBytes: maxSourceBytes,
		logger:         logger,
	}
}

// Compile runs the compiler on req. Oversized sources fail with an
// INVALID_INPUT error; syntax errors are part of a successful response.
func (s *Service) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, mserror.Wrap(err, "request cancelled").
			WithCode(mserror.CodeServiceUnavailable).
			WithOperation("server.Compile")
	}
	if s.maxSourceBytes > 0 && len(req.Source) > s.maxSourceBytes {
		return nil, mserror.Newf("source exceeds %d bytes", s.maxSourceBytes).
			WithCode(mserror.CodeInvalidInput).
			WithOperation("server.Compile").
			WithDetail("size", len(req.Source))
	}

	name := req.Name
	if name == "" {
		name = "input"
	}

	if s.cache == nil {
		return s.compile(name, req), nil
	}
	key := cache.Key(name, strconv.FormatBool(req.Program), req.Source)
	if resp, ok := s.cache.Get(key); ok {
		s.logger.Debug("cache hit", "name", name, "bytes", len(req.Source))
		return resp, nil
	}
	resp := s.compile(name, req)
	s.cache.Set(key, resp)
	return resp, nil
}

// EnableCache keeps responses in a cache sized by cfg. Cached responses
// are shared between callers and must not be modified.
func (s *Service) EnableCache(cfg cache.Config) {
	s.cache = cache.New[*CompileResponse](cfg)
}

// CacheStats returns the response cache metrics; ok is false without a cache
func (s *Service) CacheStats() (stats cache.Stats, ok bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats(), true
}

func (s *Service) compile(name string, req *CompileRequest) *CompileResponse {
	var res *compiler.Result
	if req.Program {
		res = s.compiler.CompileProgram(req.Source)
	} else {
		res = s.compiler.Compile(req.Source)
	}

	resp := &CompileResponse{
		Name:         name,
		Instructions: []string{},
		Diagnostics:  make([]Diagnostic, 0, len(res.Errors)),
		OK:           res.OK(),
	}

	dumps := make([]string, 0, len(res.Trees()))
	for _, tree := range res.Trees() {
		dumps = append(dumps, ast.Dump(tree))
	}
	resp.TreeDump = strings.Join(dumps, "\n")
	if req.Program {
		resp.Forms = make([]*ast.Node, 0, len(res.Forms))
		for _, form := range res.Forms {
			resp.Forms = append(resp.Forms, ast.Encode(form))
		}
	} else if res.Tree != nil {
		resp.Tree = ast.Encode(res.Tree)
	}

	for _, in := range res.Program {
		resp.Instructions = append(resp.Instructions, in.String())
	}

	for _, e := range res.Errors {
		pos := diag.LineCol(res.Source, e.Span.Start)
		resp.Diagnostics = append(resp.Diagnostics, Diagnostic{
			Start:    e.Span.Start,
			End:      e.Span.End,
			Line:     pos.Line,
			Column:   pos.Column,
			Message:  e.Message(),
			Expected: e.Expected,
		})
	}

	s.logger.Debug("compiled",
		"name", name,
		"bytes", len(req.Source),
		"instructions", len(resp.Instructions),
		"errors", len(resp.Diagnostics),
	)
	return resp
}

// Program renders Instructions the way the compiler report prints IR
func (r *CompileResponse) Program() string {
	return "[" + strings.Join(r.Instructions, ", ") + "]"
}
