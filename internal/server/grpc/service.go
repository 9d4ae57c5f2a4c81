package grpc

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"google.golang.org/grpc"
)

const serviceName = "taskkeeper.auth.AuthService"

// Full method names.
const (
	MethodRegister = "/" + serviceName + "/Register"
	MethodLogin    = "/" + serviceName + "/Login"
	MethodRenew    = "/" + serviceName + "/Renew"
	MethodLogout   = "/" + serviceName + "/Logout"
	MethodMe       = "/" + serviceName + "/Me"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         services.AccountView `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

type RenewRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RenewResponse struct {
	AccessToken string `json:"accessToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutResponse struct{}

type MeRequest struct{}

type MeResponse struct {
	User services.AccountView `json:"user"`
}

// AuthServiceServer is implemented by GRPCServer.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Renew(context.Context, *RenewRequest) (*RenewResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&authServiceDesc, srv)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, AuthServiceServer.Login)},
		{MethodName: "Renew", Handler: unaryHandler(MethodRenew, AuthServiceServer.Renew)},
		{MethodName: "Logout", Handler: unaryHandler(MethodLogout, AuthServiceServer.Logout)},
		{MethodName: "Me", Handler: unaryHandler(MethodMe, AuthServiceServer.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskkeeper/auth",
}

// unaryHandler adapts a typed method to grpc's untyped handler signature,
// running it through the server's interceptor chain.
func unaryHandler[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceClient calls AuthService over the JSON codec.
type AuthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) *AuthServiceClient {
	return &AuthServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *AuthServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *AuthServiceClient) Renew(ctx context.Context, in *RenewRequest, opts ...grpc.CallOption) (*RenewResponse, error) {
	return invoke[RenewResponse](ctx, c.cc, MethodRenew, in, opts)
}

func (c *AuthServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *AuthServiceClient) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeResponse](ctx, c.cc, MethodMe, in, opts)
}
