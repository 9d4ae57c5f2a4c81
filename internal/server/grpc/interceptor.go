package grpc

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const accountIDKey ctxKey = "accountID"

// protected lists the methods that require an access credential.
var protected = map[string]bool{
	MethodMe: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protected[info.FullMethod] {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	accountID, err := s.verifier.Verify(header)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(context.WithValue(ctx, accountIDKey, accountID), req)
}

func accountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}
