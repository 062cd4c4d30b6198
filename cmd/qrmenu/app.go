package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/Aidin1998/qrmenu/api"
	"github.com/Aidin1998/qrmenu/internal/branches"
	"github.com/Aidin1998/qrmenu/internal/bulk"
	"github.com/Aidin1998/qrmenu/internal/categories"
	"github.com/Aidin1998/qrmenu/internal/config"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/internal/identities"
	"github.com/Aidin1998/qrmenu/internal/media"
	"github.com/Aidin1998/qrmenu/internal/products"
	"github.com/Aidin1998/qrmenu/internal/settings"
	"github.com/Aidin1998/qrmenu/pkg/logger"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired dependencies shared by all commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	redis    *redis.Client
	services api.Services
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: zapLogger, db: db}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	validate := validation.NewValidator()

	secret := a.cfg.JWT.Secret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		a.logger.Warn("jwt.secret is not set, using a random secret; tokens will not survive a restart")
	}

	opts := identities.Options{Secret: secret, Expiration: a.cfg.JWTExpiration()}
	if a.cfg.Redis.Address != "" {
		client, err := database.NewRedisClient(ctx, a.cfg.Redis)
		if err != nil {
			return err
		}
		a.redis = client
		opts.Revocations = identities.NewRedisRevocations(client)
		a.logger.Info("token revocations stored in redis", zap.String("address", a.cfg.Redis.Address))
	}

	ids, err := identities.NewService(a.logger, a.db, validate, opts)
	if err != nil {
		return fmt.Errorf("failed to create identities service: %w", err)
	}
	cats, err := categories.NewService(a.logger, a.db, validate)
	if err != nil {
		return fmt.Errorf("failed to create categories service: %w", err)
	}
	prods, err := products.NewService(a.logger, a.db, validate)
	if err != nil {
		return fmt.Errorf("failed to create products service: %w", err)
	}
	brs, err := branches.NewService(a.logger, a.db, validate)
	if err != nil {
		return fmt.Errorf("failed to create branches service: %w", err)
	}
	sets, err := settings.NewService(a.logger, a.db)
	if err != nil {
		return fmt.Errorf("failed to create settings service: %w", err)
	}

	if err := os.MkdirAll(a.cfg.Uploads.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads dir: %w", err)
	}
	store := media.NewStore(a.logger, osfs.New(a.cfg.Uploads.Dir, osfs.WithBoundOS()), a.cfg.Uploads.MaxBytes,
		media.WithReferences(database.NewImageReferences(a.db)))

	a.services = api.Services{
		Identities: ids,
		Categories: cats,
		Products:   prods,
		Branches:   brs,
		Settings:   sets,
		Media:      store,
		Importer:   bulk.NewImporter(a.logger, cats, prods, brs),
		Exporter:   bulk.NewExporter(cats, prods, brs),
	}
	return nil
}

// migrate creates the schema and seeds the global settings.
func (a *app) migrate(ctx context.Context) error {
	if err := database.Migrate(a.db.WithContext(ctx)); err != nil {
		return err
	}
	seeded, err := a.services.Settings.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	a.logger.Info("database migrated", zap.Int("settings_seeded", seeded))
	return nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
