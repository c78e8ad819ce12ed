package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/auth"
	"github.com/ortam/docbuilder/internal/config"
	"github.com/ortam/docbuilder/internal/hints"
	"github.com/ortam/docbuilder/internal/logging"
	"github.com/ortam/docbuilder/internal/server"
	"github.com/ortam/docbuilder/internal/store"
)

// runServe starts the HTTP API and blocks until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	applyServeFlags(flags, cfg)
	if err := applyRenderFlags(&flags.render, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("%w: %w%s", ErrDatabase, err, hints.ForDatabase(cfg.Database.Driver))
	}
	defer func() { _ = db.Close() }()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
		logger.Warn("No JWT secret configured; using a random one, tokens will not survive a restart")
	}
	tokens := auth.NewJWTManager(secret, cfg.Auth.TokenTTL.Std())

	seeder := auth.NewSeeder(db, cfg.Seed, logger)
	if _, err := seeder.Seed(ctx); err != nil {
		logger.Warn("Admin seeding at startup failed", logging.Err(err))
	}

	loader, err := newAssetLoader(cfg)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg, loader)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg, loader)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		CORSOrigins:     cfg.Server.CORSOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
	}, server.Deps{
		Store:     db,
		Auth:      auth.NewService(db, tokens, seeder),
		Generator: gen,
		Renderer:  renderer,
		Logger:    logger,
	})

	logger.Info("Server starting",
		logging.String("addr", cfg.Server.Addr),
		logging.String("db_driver", cfg.Database.Driver),
		logging.Int("render_workers", docbuilder.ResolvePoolSize(cfg.Render.Workers)),
	)
	return srv.Run(ctx, cfg.Server.Addr)
}

// applyServeFlags overlays --addr and --db onto cfg. A postgres URL
// switches the driver.
func applyServeFlags(f *serveFlags, cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.dbDSN != "" {
		cfg.Database.DSN = f.dbDSN
		if strings.HasPrefix(f.dbDSN, "postgres://") || strings.HasPrefix(f.dbDSN, "postgresql://") {
			cfg.Database.Driver = config.DriverPostgres
		}
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
