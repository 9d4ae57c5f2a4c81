// Package cli implements an interactive command-line client for the
// taskkeeper auth server over gRPC.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// AuthClient is the subset of gs.AuthServiceClient the CLI calls.
type AuthClient interface {
	Register(ctx context.Context, in *gs.RegisterRequest, opts ...grpc.CallOption) (*gs.AuthResponse, error)
	Login(ctx context.Context, in *gs.LoginRequest, opts ...grpc.CallOption) (*gs.AuthResponse, error)
	Renew(ctx context.Context, in *gs.RenewRequest, opts ...grpc.CallOption) (*gs.RenewResponse, error)
	Logout(ctx context.Context, in *gs.LogoutRequest, opts ...grpc.CallOption) (*gs.LogoutResponse, error)
	Me(ctx context.Context, in *gs.MeRequest, opts ...grpc.CallOption) (*gs.MeResponse, error)
}

type App struct {
	config *config.Config
	client AuthClient
	conn   io.Closer
	reader *bufio.Reader
	out    io.Writer

	accessToken  string
	refreshToken string
	email        string
}

func NewApp(c *config.Config) (*App, error) {
	conn, err := grpc.NewClient(c.ServerEndpointAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("error connecting to server: %w", err)
	}

	return &App{
		config: c,
		client: gs.NewAuthServiceClient(conn),
		conn:   conn,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.conn != nil {
			_ = a.conn.Close()
		}
	}()
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.refreshToken != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.email
	}
	return "not logged in"
}

func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
