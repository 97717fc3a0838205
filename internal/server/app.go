// Package server wires configuration, storage, services and transports
// into the LockWise vault server and runs it until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/logging"
	"github.com/dmitrijs2005/lockwise/internal/server/config"
	"github.com/dmitrijs2005/lockwise/internal/server/metrics"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/templates"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
	"github.com/dmitrijs2005/lockwise/internal/server/web"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/lockwise/internal/server/grpc"
)

const dbPingTimeout = 5 * time.Second

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	metrics      *metrics.Recorder
	userService  *services.UserService
	enrollment   *services.EnrollmentService
	verification *services.VerificationEngine
	passwords    *services.PasswordService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	store, err := newTemplateStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("template store init error: %w", err)
	}

	var opts []repomanager.Option
	if store != nil {
		opts = append(opts, repomanager.WithTemplateStore(store))
	}
	rm := repomanager.NewPostgresRepositoryManager(opts...)

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.NewRecorder()
	us := services.NewUserService(db, rm, c, logger)
	es := services.NewEnrollmentService(us, rm.Templates(db), c.DescriptorDimension, logger, m)
	ve := services.NewVerificationEngine(rm.Templates(db), c.Policy(), logger, m)
	ps, err := services.NewPasswordService(db, rm, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info(ctx, "App initialized", "template_backend", c.TemplateBackend)

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		metrics:      m,
		userService:  us,
		enrollment:   es,
		verification: ve,
		passwords:    ps,
	}, nil
}

// newTemplateStore builds the non-default template backends. It returns nil
// for postgres, which the repository manager provides itself.
func newTemplateStore(ctx context.Context, c *config.Config) (templates.Repository, error) {
	switch c.TemplateBackend {
	case config.BackendPostgres:
		return nil, nil
	case config.BackendMemory:
		return templates.NewMemoryRepository(), nil
	case config.BackendS3:
		client, err := templates.NewS3Client(ctx, templates.S3Options{
			Region:    c.S3Region,
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
			Endpoint:  c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return templates.NewS3Repository(client, c.S3Bucket), nil
	default:
		return nil, fmt.Errorf("unknown template backend %q", c.TemplateBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.enrollment, app.verification, app.passwords, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := web.NewServer(app.config.EndpointAddrHTTP, app.config.RequestTimeout, app.config.AccessTokenValidityDuration, web.Services{
		Users:      app.userService,
		Enrollment: app.enrollment,
		Verifier:   app.verification,
		Passwords:  app.passwords,
	}, app.logger, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run starts the enabled transports and blocks until a signal arrives, ctx
// is cancelled or a transport fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
