package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mehmetcc/financeu/internal/auth"
	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/database"
	"github.com/mehmetcc/financeu/internal/feedback"
	"github.com/mehmetcc/financeu/internal/lesson"
	"github.com/mehmetcc/financeu/internal/password"
	"github.com/mehmetcc/financeu/internal/person"
	"github.com/mehmetcc/financeu/internal/server"
	"github.com/mehmetcc/financeu/internal/session"
	"github.com/mehmetcc/financeu/internal/token"
	"github.com/mehmetcc/financeu/internal/users"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	// init logger
	logger, err := newLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	// load config
	cfg, err := config.LoadConfig(logger, ".env", "../.env")
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			logger.Fatal("invalid configuration", zap.String("key", cfgErr.Key), zap.Error(cfgErr.Err))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.IsDev() {
		if dev, err := newLogger(cfg.AppConfig.Env); err == nil {
			_ = logger.Sync()
			logger = dev
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load database
	db, err := database.Init(ctx, cfg.DbConfig)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// run migrations
	version, err := database.Migrate(ctx, db, logger)
	if err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database schema ready", zap.Int64("version", version))

	// no signing secret, no traffic
	tokens, err := token.NewTokenService(logger, cfg.JWTConfig)
	if err != nil {
		logger.Fatal("failed to initialize token service", zap.Error(err))
	}

	hasher := password.NewHasher(cfg.BcryptCost)
	personRepo := person.NewPersonRepo(db, logger)
	progressRepo := lesson.NewProgressRepo(db, logger)
	feedbackRepo := feedback.NewFeedbackRepo(db, logger)

	issuer := session.NewIssuer(personRepo, hasher, tokens, cfg.CookieConfig, logger)
	authenticator := auth.NewAuthenticator(tokens, cfg.CookieConfig.Name, logger)
	authService := auth.NewAuthenticationService(personRepo, hasher, logger)

	router := server.NewRouter(server.Deps{
		Logger:        logger,
		DB:            db,
		CORS:          cfg.CORSConfig,
		Authenticator: authenticator,
		Auth:          auth.NewAuthenticationHandler(authService, issuer, personRepo, authenticator, cfg.RateLimitConfig, logger),
		Users:         users.NewUserHandler(personRepo, progressRepo, issuer, authenticator, logger),
		Lessons:       lesson.NewLessonHandler(progressRepo, authenticator, logger),
		Feedback:      feedback.NewFeedbackHandler(feedbackRepo, logger),
	})

	logger.Info("application started", zap.String("env", cfg.AppConfig.Env), zap.String("port", cfg.AppConfig.Port))
	runErr := server.New(cfg.AppConfig, router, logger).Run(ctx)
	stop()

	os.Exit(shutdown(logger, runErr, db.Close()))
}

// shutdown reports how the process ended and flushes the logger. It returns the
// exit code.
func shutdown(logger *zap.Logger, errs ...error) int {
	code := 0
	if err := multierr.Combine(errs...); err != nil {
		logger.Error("shutdown finished with errors", zap.Error(err))
		code = 1
	} else {
		logger.Info("application stopped")
	}
	_ = logger.Sync()
	return code
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
