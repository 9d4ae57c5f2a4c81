package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	res, err := s.auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "Register", err)
	}
	s.logger.Info(ctx, "Registered", "account_id", res.Account.ID)
	return authResponse(res), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "Login", err)
	}
	return authResponse(res), nil
}

func (s *GRPCServer) Renew(ctx context.Context, req *RenewRequest) (*RenewResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}
	res, err := s.auth.Renew(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "Renew", err)
	}
	return &RenewResponse{AccessToken: res.AccessToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *LogoutRequest) (*LogoutResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}
	if err := s.auth.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, "Logout", err)
	}
	return &LogoutResponse{}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *MeRequest) (*MeResponse, error) {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return nil, toStatus(common.NewAuthError(common.AuthMissingCredential))
	}
	acc, err := s.auth.Me(ctx, accountID)
	if err != nil {
		return nil, s.fail(ctx, "Me", err)
	}
	return &MeResponse{User: *acc}, nil
}

func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	}
	return st
}

func authResponse(res *services.Result) *AuthResponse {
	return &AuthResponse{User: res.Account, AccessToken: res.AccessToken, RefreshToken: res.SessionToken}
}

// toStatus maps domain errors to gRPC status errors without leaking detail.
func toStatus(err error) error {
	var (
		ve  *common.ValidationError
		ce  *common.ConflictError
		ae  *common.AuthError
		ne  *common.NotFoundError
		aze *common.AuthorizationError
	)

	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.As(err, &ce):
		return status.Error(codes.AlreadyExists, ce.Error())
	case errors.As(err, &ae):
		if ae.Kind == common.AuthInternal {
			return status.Error(codes.Internal, ae.Error())
		}
		return status.Error(codes.Unauthenticated, ae.Error())
	case errors.As(err, &ne):
		return status.Error(codes.NotFound, ne.Error())
	case errors.As(err, &aze):
		return status.Error(codes.PermissionDenied, aze.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
