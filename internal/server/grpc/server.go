// Package grpc exposes the vault services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/logging"
	pb "github.com/dmitrijs2005/lockwise/internal/proto"
	"github.com/dmitrijs2005/lockwise/internal/server/metrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromAccessToken(token string) (string, error)
}

type enrollmentSvc interface {
	Enroll(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error)
	HasEnrolled(ctx context.Context, userID string) (bool, error)
	Reset(ctx context.Context, userID string) error
}

type verificationSvc interface {
	Verify(ctx context.Context, userID string, sample biometrics.Descriptor) (*services.VerificationResult, error)
}

type passwordSvc interface {
	Create(ctx context.Context, userID string, c models.Credential) (*models.Credential, error)
	List(ctx context.Context, userID string) ([]models.Credential, error)
	Update(ctx context.Context, userID, id string, patch services.CredentialPatch) (*models.Credential, error)
	Delete(ctx context.Context, userID, id string) error
}

type GRPCServer struct {
	pb.UnimplementedLockWiseServiceServer
	address    string
	users      userSvc
	enrollment enrollmentSvc
	verifier   verificationSvc
	passwords  passwordSvc
	logger     logging.Logger
	metrics    *metrics.Recorder
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, es enrollmentSvc, vs verificationSvc, ps passwordSvc, m *metrics.Recorder) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		users:      us,
		enrollment: es,
		verifier:   vs,
		passwords:  ps,
		metrics:    m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	pb.RegisterLockWiseServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
