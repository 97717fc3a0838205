package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/lockwise/internal/common"
	pb "github.com/dmitrijs2005/lockwise/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStatus maps service errors to gRPC codes by their stable kind.
func toStatus(err error) error {
	switch common.Kind(err) {
	case common.KindInvalidRequest, common.KindDimensionMismatch:
		return status.Error(codes.InvalidArgument, err.Error())
	case common.KindUserNotFound, common.KindNoTemplate, common.KindEntryNotFound:
		return status.Error(codes.NotFound, err.Error())
	case common.KindStorageFailure:
		return status.Error(codes.Unavailable, common.ErrStorageFailure.Error())
	case common.KindAlreadyExists:
		return status.Error(codes.AlreadyExists, err.Error())
	case common.KindUnauthorized:
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
		}
		return status.Error(codes.Unauthenticated, "unauthorized")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	if common.Kind(err) == common.KindInternal || common.Kind(err) == common.KindStorageFailure {
		s.logger.Error(ctx, "request failed", "method", method, "error", err.Error())
	} else {
		s.logger.Debug(ctx, "request rejected", "method", method, "error", err.Error())
	}
	return toStatus(err)
}

func response(fields map[string]any) (*structpb.Struct, error) {
	out, err := pb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return response(map[string]any{pb.FieldStatus: "OK"})
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	email := pb.String(req, pb.FieldEmail)
	s.logger.Info(ctx, "Registration request", "email", email)

	user, err := s.users.Register(ctx, email, pb.String(req, pb.FieldPassword))
	if err != nil {
		return nil, s.fail(ctx, "Register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return response(map[string]any{pb.FieldUserID: user.ID})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	tokens, err := s.users.Login(ctx, pb.String(req, pb.FieldEmail), pb.String(req, pb.FieldPassword))
	if err != nil {
		return nil, s.fail(ctx, "Login", err)
	}

	return response(map[string]any{
		pb.FieldUserID:       tokens.UserID,
		pb.FieldAccessToken:  tokens.AccessToken,
		pb.FieldRefreshToken: tokens.RefreshToken,
	})
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	tokens, err := s.users.RefreshToken(ctx, pb.String(req, pb.FieldRefreshToken))
	if err != nil {
		return nil, s.fail(ctx, "RefreshToken", err)
	}

	return response(map[string]any{
		pb.FieldUserID:       tokens.UserID,
		pb.FieldAccessToken:  tokens.AccessToken,
		pb.FieldRefreshToken: tokens.RefreshToken,
	})
}

func (s *GRPCServer) Enroll(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID := pb.String(req, pb.FieldUserID)
	if err := authorizeUser(ctx, userID); err != nil {
		return nil, err
	}

	descriptor, err := pb.Descriptor(req, pb.FieldDescriptor)
	if err != nil {
		return nil, s.fail(ctx, "Enroll", err)
	}

	t, err := s.enrollment.Enroll(ctx, userID, descriptor)
	if err != nil {
		return nil, s.fail(ctx, "Enroll", err)
	}

	return response(map[string]any{pb.FieldOK: true, pb.FieldVersion: float64(t.Version)})
}

func (s *GRPCServer) Verify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	descriptor, err := pb.Descriptor(req, pb.FieldDescriptor)
	if err != nil {
		return nil, s.fail(ctx, "Verify", err)
	}

	res, err := s.verifier.Verify(ctx, pb.String(req, pb.FieldUserID), descriptor)
	if err != nil {
		return nil, s.fail(ctx, "Verify", err)
	}

	return response(map[string]any{
		pb.FieldMatched:  res.Matched,
		pb.FieldDistance: res.Distance,
		pb.FieldUpdated:  res.Updated,
	})
}

func (s *GRPCServer) HasEnrolled(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	enrolled, err := s.enrollment.HasEnrolled(ctx, pb.String(req, pb.FieldUserID))
	if err != nil {
		return nil, s.fail(ctx, "HasEnrolled", err)
	}

	return response(map[string]any{pb.FieldEnrolled: enrolled})
}

func (s *GRPCServer) ResetFace(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID := pb.String(req, pb.FieldUserID)
	if err := authorizeUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.enrollment.Reset(ctx, userID); err != nil {
		return nil, s.fail(ctx, "ResetFace", err)
	}

	return response(map[string]any{pb.FieldOK: true})
}
