package cli

import (
	"context"
	"edunova/common"
	"edunova/config"
	"edunova/content"
	"edunova/progress"
	"edunova/session"
	"edunova/settings"
	"edunova/source"
	"edunova/store"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the client stack shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	kv       store.Store
	src      source.Source
	client   *source.Client // nil unless --source=remote
	session  *session.Manager
	catalog  *content.Catalog
	settings settings.Service
	progress progress.Service
}

// clientRunE opens the client stack, restores the persisted session and runs fn.
// The store is closed when fn returns.
func (a *app) clientRunE(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.open(ctx); err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, cmd, args)
	}
}

func (a *app) open(ctx context.Context) error {
	kv, err := openStore(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.kv = kv

	switch a.cfg.Source {
	case "remote":
		a.client = source.NewClient(a.cfg.APIURL, a.cfg.HTTPTimeout, nil, a.logger.Named("client"))
		a.src = a.client
	default:
		var fsys fs.FS
		if a.cfg.FixtureDir != "" {
			fsys = os.DirFS(a.cfg.FixtureDir)
		}
		opts := []source.FixtureOption{source.WithLogger(a.logger.Named("fixture"))}
		if a.cfg.DurableRegistration {
			opts = append(opts, source.WithDurableRegistration())
		}
		a.src = source.NewFixture(fsys, opts...)
	}

	a.session = session.NewManager(a.src, a.kv, a.logger.Named("session"))
	if err := a.session.Restore(ctx); err != nil {
		return err
	}
	a.catalog = content.NewCatalog(a.src, a.logger.Named("catalog"))

	if a.client != nil {
		a.client.SetTokenSource(a.session.Token)
		a.settings = a.client.Settings()
		a.progress = a.client.Progress()
	} else {
		a.settings = settings.NewLocalService(a.kv, a.logger.Named("settings"))
		a.progress = progress.NewLocalTracker(a.kv, nil, a.logger.Named("progress"))
	}
	return nil
}

func (a *app) close() error {
	var err error
	if a.kv != nil {
		err = a.kv.Close()
		a.kv = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// requireSession fails when nobody is logged in.
func (a *app) requireSession() error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("%w: no active session, run 'edunova login' first", common.ErrNotFound)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(cfg.StorePath)
	case "sqlite":
		return store.NewSQLite(ctx, cfg.StorePath)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: redis at %s: %v", common.ErrDataSourceUnavailable, cfg.RedisAddr, err)
		}
		return store.NewRedis(client), nil
	default:
		return nil, fmt.Errorf("unknown store '%s'", cfg.Store)
	}
}

// describe turns the shared sentinels into messages for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Email ou mot de passe incorrect"
	case errors.Is(err, common.ErrDuplicateEmail):
		return "Un compte avec cet email existe déjà"
	case errors.Is(err, common.ErrPasswordMismatch):
		return "Les mots de passe ne correspondent pas"
	case errors.Is(err, common.ErrDataSourceUnavailable):
		return "Impossible de charger les données, réessayez plus tard (" + err.Error() + ")"
	default:
		return err.Error()
	}
}
