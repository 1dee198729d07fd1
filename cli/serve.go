package cli

import (
	"context"
	"edunova/api"
	"edunova/db"
	"edunova/fixtures"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title           edunova API
// @version         1.0.0
// @description     Backend for the edunova learning platform: accounts, documents, videos, settings and progress.
// @license.name    MIT
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST backend",
		Long: `Run the REST backend over a JSON database file.

On first start the database is seeded from the fixtures (embedded, or
--fixture-dir). Passwords are stored as bcrypt hashes. When --redis-addr
is set, login and registration are rate limited per client IP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger := a.cfg, a.logger
	defer func() { _ = logger.Sync() }()

	secretSource, err := cfg.ResolveJwtSecret(logger)
	if err != nil {
		return err
	}
	cfg.Log(logger, secretSource)

	// --- Database ---
	var seed fs.FS = fixtures.FS
	if cfg.FixtureDir != "" {
		seed = os.DirFS(cfg.FixtureDir)
	}
	database, err := db.NewDatabase(cfg, seed, logger.Named("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	// --- Rate limiting ---
	var limiter *api.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, auth rate limiting disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			limiter = api.NewRateLimiter(rdb, logger.Named("ratelimit"))
		}
	}

	// --- Router ---
	if logger.Core().Enabled(zap.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(database, cfg, logger, limiter)

	listenAddr := fmt.Sprintf("%s:%s", cfg.ListenAddress, cfg.ListenPort)
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", listenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
