// Package proto defines the lockwise.v1.LockWiseService gRPC contract.
//
// Every method takes and returns a google.protobuf.Struct, so the service
// needs no generated message code; the field names each method uses are
// listed next to its constant below.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "lockwise.v1.LockWiseService"

const (
	// {} -> {status}
	MethodPing = "/" + ServiceName + "/Ping"
	// {email, password} -> {user_id}
	MethodRegister = "/" + ServiceName + "/Register"
	// {email, password} -> {user_id, access_token, refresh_token}
	MethodLogin = "/" + ServiceName + "/Login"
	// {refresh_token} -> {user_id, access_token, refresh_token}
	MethodRefreshToken = "/" + ServiceName + "/RefreshToken"
	// {user_id, descriptor} -> {ok, version}; needs access_token metadata
	MethodEnroll = "/" + ServiceName + "/Enroll"
	// {user_id, descriptor} -> {matched, distance, updated}
	MethodVerify = "/" + ServiceName + "/Verify"
	// {user_id} -> {enrolled}
	MethodHasEnrolled = "/" + ServiceName + "/HasEnrolled"
	// {user_id} -> {ok}; needs access_token metadata
	MethodResetFace = "/" + ServiceName + "/ResetFace"

	// Password vault methods act on the caller's own entries and all need
	// access_token metadata. An entry is {id, site, email, password, url,
	// category}.

	// {} -> {entries}
	MethodListPasswords = "/" + ServiceName + "/ListPasswords"
	// {site, email, password, url, category} -> {entry}
	MethodCreatePassword = "/" + ServiceName + "/CreatePassword"
	// {id, site, email, password, url, category} -> {entry}; absent fields
	// are left alone
	MethodUpdatePassword = "/" + ServiceName + "/UpdatePassword"
	// {id} -> {ok, id}
	MethodDeletePassword = "/" + ServiceName + "/DeletePassword"
)

type LockWiseServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Enroll(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Verify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HasEnrolled(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetFace(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPasswords(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeletePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedLockWiseServiceServer answers Unimplemented for every method.
// Embed it to stay compatible when methods are added.
type UnimplementedLockWiseServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedLockWiseServiceServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedLockWiseServiceServer) Register(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedLockWiseServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedLockWiseServiceServer) RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedLockWiseServiceServer) Enroll(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Enroll")
}
func (UnimplementedLockWiseServiceServer) Verify(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Verify")
}
func (UnimplementedLockWiseServiceServer) HasEnrolled(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("HasEnrolled")
}
func (UnimplementedLockWiseServiceServer) ResetFace(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ResetFace")
}
func (UnimplementedLockWiseServiceServer) ListPasswords(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListPasswords")
}
func (UnimplementedLockWiseServiceServer) CreatePassword(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CreatePassword")
}
func (UnimplementedLockWiseServiceServer) UpdatePassword(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("UpdatePassword")
}
func (UnimplementedLockWiseServiceServer) DeletePassword(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("DeletePassword")
}

type unaryCall func(LockWiseServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LockWiseServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LockWiseServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var LockWiseService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LockWiseServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, LockWiseServiceServer.Ping)},
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, LockWiseServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, LockWiseServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(MethodRefreshToken, LockWiseServiceServer.RefreshToken)},
		{MethodName: "Enroll", Handler: unaryHandler(MethodEnroll, LockWiseServiceServer.Enroll)},
		{MethodName: "Verify", Handler: unaryHandler(MethodVerify, LockWiseServiceServer.Verify)},
		{MethodName: "HasEnrolled", Handler: unaryHandler(MethodHasEnrolled, LockWiseServiceServer.HasEnrolled)},
		{MethodName: "ResetFace", Handler: unaryHandler(MethodResetFace, LockWiseServiceServer.ResetFace)},
		{MethodName: "ListPasswords", Handler: unaryHandler(MethodListPasswords, LockWiseServiceServer.ListPasswords)},
		{MethodName: "CreatePassword", Handler: unaryHandler(MethodCreatePassword, LockWiseServiceServer.CreatePassword)},
		{MethodName: "UpdatePassword", Handler: unaryHandler(MethodUpdatePassword, LockWiseServiceServer.UpdatePassword)},
		{MethodName: "DeletePassword", Handler: unaryHandler(MethodDeletePassword, LockWiseServiceServer.DeletePassword)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lockwise/v1/lockwise.proto",
}

func RegisterLockWiseServiceServer(s grpc.ServiceRegistrar, srv LockWiseServiceServer) {
	s.RegisterService(&LockWiseService_ServiceDesc, srv)
}

type LockWiseServiceClient interface {
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Enroll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Verify(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	HasEnrolled(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetFace(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListPasswords(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreatePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdatePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeletePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type lockWiseServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLockWiseServiceClient(cc grpc.ClientConnInterface) LockWiseServiceClient {
	return &lockWiseServiceClient{cc: cc}
}

func (c *lockWiseServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lockWiseServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPing, in, opts)
}
func (c *lockWiseServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRegister, in, opts)
}
func (c *lockWiseServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLogin, in, opts)
}
func (c *lockWiseServiceClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRefreshToken, in, opts)
}
func (c *lockWiseServiceClient) Enroll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodEnroll, in, opts)
}
func (c *lockWiseServiceClient) Verify(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodVerify, in, opts)
}
func (c *lockWiseServiceClient) HasEnrolled(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodHasEnrolled, in, opts)
}
func (c *lockWiseServiceClient) ResetFace(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodResetFace, in, opts)
}
func (c *lockWiseServiceClient) ListPasswords(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListPasswords, in, opts)
}
func (c *lockWiseServiceClient) CreatePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCreatePassword, in, opts)
}
func (c *lockWiseServiceClient) UpdatePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodUpdatePassword, in, opts)
}
func (c *lockWiseServiceClient) DeletePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDeletePassword, in, opts)
}
