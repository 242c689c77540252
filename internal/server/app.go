// Package server initializes and runs the hub: it opens the database,
// applies migrations, wires services to the REST transport and handles
// graceful shutdown.
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

	"github.com/dmitrijs2005/bvchub/internal/logging"
	"github.com/dmitrijs2005/bvchub/internal/mailer"
	"github.com/dmitrijs2005/bvchub/internal/server/config"
	"github.com/dmitrijs2005/bvchub/internal/server/ratelimit"
	"github.com/dmitrijs2005/bvchub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bvchub/internal/server/rest"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
	"github.com/dmitrijs2005/bvchub/internal/server/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	redis    *redis.Client
	services rest.Services
}

// seams for tests
var (
	openDB      = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }
	newS3Store  = func(ctx context.Context, c *config.Config) (storage.MediaStore, error) { return storage.NewS3Store(ctx, c) }
	pingTimeout = 5 * time.Second
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend)
	if err != nil {
		return nil, err
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newS3Store(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var attempts *ratelimit.AttemptLimiter
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		attempts = ratelimit.NewAttemptLimiter(app.redis, "bvchub:verify", c.VerifyAttempts, c.VerifyWindow)
	}

	ml := newMailer(c, logger)

	app.services = rest.Services{
		Auth:     services.NewAuthService(db, rm, c, ml, attempts, logger, nil),
		Profiles: services.NewProfileService(db, rm, store),
		Projects: services.NewProjectService(db, rm, store),
		Info:     services.NewInfoService(db, rm, ml, logger),
		Admin:    services.NewAdminService(db, rm, store, ml, logger, c.BcryptCost),
	}

	return app, nil
}

// newMailer sends over SMTP when a host is configured and logs otherwise.
func newMailer(c *config.Config, logger logging.Logger) mailer.Mailer {
	if c.SMTPHost == "" {
		logger.Warn(context.Background(), "SMTP not configured, mail will be logged only")
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPass, c.SMTPFrom)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.HTTPAddr, app.logger, app.services, rest.Options{
		AllowedOrigins:    app.config.CORSAllowedOrigins,
		RequestsPerMinute: app.config.RateLimitRPM,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
