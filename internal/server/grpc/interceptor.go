package grpc

import (
	"context"
	"errors"
	"path"

	"github.com/dmitrijs2005/lockwise/internal/common"
	pb "github.com/dmitrijs2005/lockwise/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// protectedMethods need an access token in the request metadata.
var protectedMethods = map[string]bool{
	pb.MethodEnroll:         true,
	pb.MethodResetFace:      true,
	pb.MethodListPasswords:  true,
	pb.MethodCreatePassword: true,
	pb.MethodUpdatePassword: true,
	pb.MethodDeletePassword: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if protectedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := s.users.UserIDFromAccessToken(accessToken)
		if err != nil {
			// the client refreshes its tokens on this exact message
			if errors.Is(err, common.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		ctx = context.WithValue(ctx, userIDKey, userID)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	s.metrics.Request("grpc", path.Base(info.FullMethod), status.Code(err).String())
	return resp, err
}

// callerID returns the user the access token belongs to.
func callerID(ctx context.Context) (string, error) {
	caller, ok := ctx.Value(userIDKey).(string)
	if !ok || caller == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return caller, nil
}

// authorizeUser checks that the authenticated caller acts on its own
// account.
func authorizeUser(ctx context.Context, userID string) error {
	caller, err := callerID(ctx)
	if err != nil {
		return err
	}
	if caller != userID {
		return status.Error(codes.PermissionDenied, "token does not belong to user")
	}
	return nil
}
