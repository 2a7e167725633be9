package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/db"
	"github.com/yungbote/promptdesk-backend/internal/data/seed"
	httpserver "github.com/yungbote/promptdesk-backend/internal/http"
	"github.com/yungbote/promptdesk-backend/internal/observability"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/envutil"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
	"github.com/yungbote/promptdesk-backend/internal/platform/openai"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Server   *httpserver.Server

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	if err := envutil.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := pg.DB()

	var ai openai.Client
	if client, err := openai.NewClient(log, cfg.OpenAI); err != nil {
		log.Warn("OpenAI client unavailable, conversions disabled", "error", err)
	} else {
		ai = client
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, ai)

	a := &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Server:       wireServer(log, cfg, serviceset, pg.Ping),
		pg:           pg,
		otelShutdown: otelShutdown,
	}
	if err := a.seed(context.Background()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// seed applies SEED_FILE for SEED_USER_EMAIL. Both must be set; a missing
// user is logged and skipped since accounts are created through /api/register.
func (a *App) seed(ctx context.Context) error {
	if a.Cfg.SeedFile == "" {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(a.Cfg.SeedUserEmail))
	if email == "" {
		a.Log.Warn("SEED_FILE set without SEED_USER_EMAIL, skipping seed")
		return nil
	}
	users, err := a.Repos.User.GetByEmails(dbctx.From(ctx), []string{email})
	if err != nil {
		return fmt.Errorf("seed: lookup user: %w", err)
	}
	if len(users) == 0 {
		a.Log.Warn("Seed user not registered, skipping seed", "email", email)
		return nil
	}
	f, err := seed.Load(a.Cfg.SeedFile)
	if err != nil {
		return err
	}
	seeder := seed.NewSeeder(a.Log, a.Services.Client, a.Services.Prompt, a.Services.Template)
	if _, err := seeder.Apply(ctx, users[0].ID, f); err != nil {
		return err
	}
	return nil
}

// Run serves HTTP until SIGINT/SIGTERM or ctx cancellation, alongside the
// expired-token sweeper.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	addr := ":" + a.Cfg.Port
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", addr)
		return a.Server.Run(gctx, addr, a.Cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		return a.sweepTokens(gctx)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.Log.Info("Shutdown complete")
	return err
}

func (a *App) sweepTokens(ctx context.Context) error {
	if a.Cfg.TokenSweep <= 0 {
		return nil
	}
	ticker := time.NewTicker(a.Cfg.TokenSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := a.Repos.UserToken.FullDeleteExpired(dbctx.From(ctx), now)
			if err != nil {
				a.Log.Warn("Expired token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				a.Log.Debug("Expired tokens swept", "count", n)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
