package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "-Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()

	res, err := a.client.Register(cctx, &gs.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return a.report("Registration unsuccessful", err)
	}
	a.remember(res)
	fmt.Fprintf(a.out, "Registered as %s\n", res.User.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()

	res, err := a.client.Login(cctx, &gs.LoginRequest{Email: email, Password: password})
	if err != nil {
		return a.report("Login unsuccessful", err)
	}
	a.remember(res)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Me shows the current account. An expired access credential is renewed
// once from the session credential.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("Me", errNotLoggedIn)
	}

	res, err := a.me(ctx)
	if status.Code(err) == codes.Unauthenticated {
		if renewErr := a.Renew(ctx); renewErr != nil {
			return renewErr
		}
		res, err = a.me(ctx)
	}
	if err != nil {
		return a.report("Me", err)
	}

	fmt.Fprintf(a.out, "id: %s\nname: %s\nemail: %s\n", res.User.ID, res.User.Name, res.User.Email)
	return nil
}

func (a *App) me(ctx context.Context) (*gs.MeResponse, error) {
	cctx, cancel := a.callCtx(ctx)
	defer cancel()
	cctx = metadata.AppendToOutgoingContext(cctx, common.AuthorizationHeaderName, common.BearerPrefix+a.accessToken)
	return a.client.Me(cctx, &gs.MeRequest{})
}

func (a *App) Renew(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("Renew", errNotLoggedIn)
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()

	res, err := a.client.Renew(cctx, &gs.RenewRequest{RefreshToken: a.refreshToken})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			a.forget()
		}
		return a.report("Renew unsuccessful", err)
	}
	a.accessToken = res.AccessToken
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return nil
	}

	cctx, cancel := a.callCtx(ctx)
	defer cancel()

	_, err := a.client.Logout(cctx, &gs.LogoutRequest{RefreshToken: a.refreshToken})
	a.forget()
	if err != nil {
		return a.report("Logout", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) remember(res *gs.AuthResponse) {
	a.accessToken = res.AccessToken
	a.refreshToken = res.RefreshToken
	a.email = res.User.Email
}

func (a *App) forget() {
	a.accessToken, a.refreshToken, a.email = "", "", ""
}

func (a *App) report(what string, err error) error {
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	fmt.Fprintf(a.out, "%s: %s\n", what, msg)
	return err
}
