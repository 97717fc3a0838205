package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	pb "github.com/dmitrijs2005/lockwise/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.LockWiseServiceClient

	mu           sync.Mutex
	userID       string
	accessToken  string
	refreshToken string
	onTokens     func(userID, refreshToken string)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	// refreshing itself must not recurse
	if method == pb.MethodRefreshToken {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	if err := s.refresh(ctx, refresh); err != nil {
		return err
	}

	access, _ = s.tokens()
	ctx = withAccessToken(ctx, access)
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewLockWiseClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewLockWiseServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(userID, access, refresh string) {
	s.mu.Lock()
	s.userID, s.accessToken, s.refreshToken = userID, access, refresh
	cb := s.onTokens
	s.mu.Unlock()

	if cb != nil {
		cb(userID, refresh)
	}
}

func (s *GRPCClient) OnTokens(fn func(userID, refreshToken string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokens = fn
}

func (s *GRPCClient) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Logout forgets the tokens locally.
func (s *GRPCClient) Logout() {
	s.mu.Lock()
	s.userID, s.accessToken, s.refreshToken = "", "", ""
	s.mu.Unlock()
}

func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) error {
	req, err := pb.NewStruct(map[string]any{pb.FieldRefreshToken: refreshToken})
	if err != nil {
		return err
	}
	resp, err := s.client.RefreshToken(ctx, req)
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(pb.String(resp, pb.FieldUserID), pb.String(resp, pb.FieldAccessToken), pb.String(resp, pb.FieldRefreshToken))
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err)
	}

	if pb.String(resp, pb.FieldStatus) != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email string, password []byte) (string, error) {

	req, err := pb.NewStruct(map[string]any{pb.FieldEmail: email, pb.FieldPassword: string(password)})
	if err != nil {
		return "", err
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	return pb.String(resp, pb.FieldUserID), nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) error {

	req, err := pb.NewStruct(map[string]any{pb.FieldEmail: email, pb.FieldPassword: string(password)})
	if err != nil {
		return err
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(pb.String(resp, pb.FieldUserID), pb.String(resp, pb.FieldAccessToken), pb.String(resp, pb.FieldRefreshToken))
	return nil
}

// Resume restores a session from a stored refresh token.
func (s *GRPCClient) Resume(ctx context.Context, refreshToken string) error {
	return s.refresh(ctx, refreshToken)
}

func (s *GRPCClient) requireUser() (string, error) {
	id := s.UserID()
	if id == "" {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

func descriptorRequest(userID string, d biometrics.Descriptor) (*structpb.Struct, error) {
	return pb.NewStruct(map[string]any{
		pb.FieldUserID:     userID,
		pb.FieldDescriptor: pb.DescriptorValue(d),
	})
}

func (s *GRPCClient) Enroll(ctx context.Context, d biometrics.Descriptor) (int64, error) {
	userID, err := s.requireUser()
	if err != nil {
		return 0, err
	}

	req, err := descriptorRequest(userID, d)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Enroll(ctx, req)
	if err != nil {
		return 0, s.mapError(err)
	}

	return int64(pb.Number(resp, pb.FieldVersion)), nil
}

func (s *GRPCClient) Verify(ctx context.Context, d biometrics.Descriptor) (*VerifyResult, error) {
	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	req, err := descriptorRequest(userID, d)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Verify(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &VerifyResult{
		Matched:  pb.Bool(resp, pb.FieldMatched),
		Distance: pb.Number(resp, pb.FieldDistance),
		Updated:  pb.Bool(resp, pb.FieldUpdated),
	}, nil
}

func (s *GRPCClient) HasEnrolled(ctx context.Context) (bool, error) {
	userID, err := s.requireUser()
	if err != nil {
		return false, err
	}

	req, err := pb.NewStruct(map[string]any{pb.FieldUserID: userID})
	if err != nil {
		return false, err
	}

	resp, err := s.client.HasEnrolled(ctx, req)
	if err != nil {
		return false, s.mapError(err)
	}

	return pb.Bool(resp, pb.FieldEnrolled), nil
}

func (s *GRPCClient) Reset(ctx context.Context) error {
	userID, err := s.requireUser()
	if err != nil {
		return err
	}

	req, err := pb.NewStruct(map[string]any{pb.FieldUserID: userID})
	if err != nil {
		return err
	}

	if _, err := s.client.ResetFace(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalid, st.Message())
	case codes.AlreadyExists:
		return ErrAlreadyExists
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
