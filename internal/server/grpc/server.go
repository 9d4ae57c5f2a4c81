// Package grpc exposes AuthService over gRPC. Messages are plain Go structs
// carried by a JSON codec registered under the "json" content-subtype.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the part of services.AuthService the handlers call.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*services.Result, error)
	Login(ctx context.Context, email, password string) (*services.Result, error)
	Renew(ctx context.Context, sessionToken string) (*services.Renewed, error)
	Logout(ctx context.Context, sessionToken string) error
	Me(ctx context.Context, accountID string) (*services.AccountView, error)
}

// TokenVerifier checks an authorization value and returns the account id.
type TokenVerifier interface {
	Verify(authorizationHeader string) (string, error)
}

type GRPCServer struct {
	address  string
	auth     AuthService
	verifier TokenVerifier
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, svc AuthService, v TokenVerifier) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		auth:     svc,
		verifier: v,
	}
}

// NewServer returns a *grpc.Server with the access-credential interceptor
// installed and the service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	RegisterAuthServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
