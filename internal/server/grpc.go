// File: grpc.go
// Title: gRPC Binding
// Description: Hand-written service descriptor for microscheme.v1.Compiler.
//              Messages are plain structs carried by the JSON codec.
// Created: 2026-10-17

package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	mserror "github.com/msto63/microscheme/pkg/core/error"
	grpcx "github.com/msto63/microscheme/pkg/core/grpc"
	"github.com/msto63/microscheme/pkg/core/version"
)

// CompileMethod is the full method name of the compile call
const CompileMethod = "/" + version.GRPCService + "/Compile"

// CompilerServer is the server API of the compile service
type CompilerServer interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

// RegisterCompilerServer registers srv on s
func RegisterCompilerServer(s *grpc.Server, srv CompilerServer) {
	s.RegisterService(&compilerServiceDesc, srv)
}

var compilerServiceDesc = grpc.ServiceDesc{
	ServiceName: version.GRPCService,
	HandlerType: (*CompilerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compile", Handler: compileHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "microscheme/v1/compiler",
}

func compileHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CompileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompilerServer).Compile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CompileMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CompilerServer).Compile(ctx, req.(*CompileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// grpcService adapts Service errors to gRPC status codes
type grpcService struct {
	svc *Service
}

func (g grpcService) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	resp, err := g.svc.Compile(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func toStatus(err error) error {
	var code codes.Code
	switch mserror.GetCode(err) {
	case mserror.CodeInvalidInput:
		code = codes.InvalidArgument
	case mserror.CodeServiceUnavailable:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

// CompilerClient calls a remote compile service
type CompilerClient struct {
	conn *grpc.ClientConn
}

// NewCompilerClient wraps an existing connection
func NewCompilerClient(conn *grpc.ClientConn) *CompilerClient {
	return &CompilerClient{conn: conn}
}

// Compile invokes the remote compile method
func (c *CompilerClient) Compile(ctx context.Context, req *CompileRequest, opts ...grpc.CallOption) (*CompileResponse, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(grpcx.CodecName)}, opts...)
	out := new(CompileResponse)
	if err := c.conn.Invoke(ctx, CompileMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FromStatus converts a gRPC error from the client into a coded error
func FromStatus(err error, target string) error {
	st, _ := status.FromError(err)
	code := mserror.CodeNetworkError
	switch st.Code() {
	case codes.InvalidArgument:
		code = mserror.CodeInvalidInput
	case codes.Internal:
		code = mserror.CodeInternal
	}
	return mserror.New(st.Message()).
		WithCode(code).
		WithOperation("server.CompilerClient.Compile").
		WithDetail("target", target).
		WithDetail("status", st.Code().String())
}
