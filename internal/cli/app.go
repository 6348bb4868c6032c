package cli

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/config"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/inference"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/localstore"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/oauth"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/repository/postgres"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/service"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/session"
	storage "github.com/franknunes1612/saralucasacademy-sub002/internal/storage/minio"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/token"
)

// App holds the dependencies of one CLI invocation. Remote resources are opened lazily
// so local-only commands work offline.
type App struct {
	cfg    *config.Config
	logger *logger.Logger
	build  BuildInfo

	local    *localstore.Store
	tokens   model.TokenManager
	sessions *session.Resolver

	dbOnce sync.Once
	db     *postgres.Connection

	recorderOnce sync.Once
	recorder     *service.AuthDebugLogger
}

func newApp(ctx context.Context, cfg *config.Config, logger *logger.Logger, build BuildInfo) (*App, error) {
	path := cfg.LocalStore.Path
	if path == "" {
		p, err := localstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	local, err := localstore.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	tokens := token.NewJWT(cfg.JWT.Secret)

	return &App{
		cfg:      cfg,
		logger:   logger,
		build:    build,
		local:    local,
		tokens:   tokens,
		sessions: session.NewResolver(local, tokens),
	}, nil
}

// database returns nil when the remote tables cannot be reached.
func (a *App) database(ctx context.Context) *postgres.Connection {
	a.dbOnce.Do(func() {
		db, err := postgres.NewConnection(ctx, a.cfg.Database.DSN, a.cfg.Database.AutoMigrate)
		if err != nil {
			a.logger.Warn("CLI: remote database unavailable", "error", err.Error())
			return
		}
		a.db = db
	})
	return a.db
}

func (a *App) leadStore(ctx context.Context) model.LeadStore {
	db := a.database(ctx)
	if db == nil {
		return nil
	}
	return postgres.NewLeadRepository(db)
}

func (a *App) authRecorder(ctx context.Context) *service.AuthDebugLogger {
	a.recorderOnce.Do(func() {
		var store model.AuthEventStore
		if db := a.database(ctx); db != nil {
			store = postgres.NewAuthEventRepository(db)
		}
		a.recorder = service.NewAuthDebugLogger(store, a.sessions, a.userAgent(), a.logger)
	})
	return a.recorder
}

func (a *App) goal() *service.CalorieGoal {
	return service.NewCalorieGoal(a.local, a.logger)
}

func (a *App) leadCapture(ctx context.Context, source string) *service.LeadCapture {
	if source == "" {
		source = a.cfg.LeadSource
	}
	return service.NewLeadCapture(ctx, a.leadStore(ctx), a.local, source, a.logger)
}

func (a *App) identifier(ctx context.Context, archive bool) (*service.CarIdentifier, error) {
	client := &inference.Client{
		BaseURL: a.cfg.Backend.FunctionsURL,
		AnonKey: a.cfg.Backend.AnonKey,
		Tokens:  a.sessions,
	}

	var store model.Storage
	if archive || a.cfg.Storage.Enabled {
		s, err := a.scanArchive(ctx)
		if err != nil {
			return nil, err
		}
		store = s
	}

	return service.NewCarIdentifier(client, store, a.logger), nil
}

func (a *App) scanArchive(ctx context.Context) (*storage.Client, error) {
	mc, err := minio.New(a.cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(a.cfg.Storage.AccessKey, a.cfg.Storage.SecretKey, ""),
		Secure: a.cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	client, err := storage.NewClient(ctx, mc, a.cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scan archive: %w", err)
	}
	return client, nil
}

func (a *App) oauthBuilder() *oauth.Builder {
	return oauth.NewBuilder(a.cfg.OAuth.BrokerURL, a.cfg.ProjectID)
}

func (a *App) userAgent() string {
	return fmt.Sprintf("caloriespot-cli/%s (%s/%s)", a.build.Version, runtime.GOOS, runtime.GOARCH)
}

// Close flushes pending auth events and releases every opened resource.
func (a *App) Close(ctx context.Context) {
	if a.recorder != nil {
		if err := a.recorder.Close(ctx); err != nil {
			a.logger.Debug("CLI: auth events not flushed", "error", err.Error())
		}
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.local != nil {
		if err := a.local.Close(); err != nil {
			a.logger.Warn("CLI: failed to close local store", "error", err.Error())
		}
	}
}
