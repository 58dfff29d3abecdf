package cmd

import (
	"fmt"

	"inventory-tracker/core/config"
	"inventory-tracker/core/database"
	"inventory-tracker/core/docstore"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/notify"
	"inventory-tracker/feature/inventory"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment is the part of the application every command needs: the
// document store and the inventory service built on top of it.
type environment struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     *docstore.Store
	notifier  notify.Notifier
	inventory *inventory.Service
}

func setup() (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := docstore.New(db, logg)
	if err := store.Migrate(); err != nil {
		return nil, err
	}

	notifier, err := notify.New(cfg.Notify, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	svc, err := inventory.NewService(store, notifier, cfg.Inventory, logg)
	if err != nil {
		_ = notifier.Close()
		return nil, err
	}

	return &environment{
		cfg:       cfg,
		logger:    logg,
		db:        db,
		store:     store,
		notifier:  notifier,
		inventory: svc,
	}, nil
}

// Close releases subscriptions, the notifier and the database.
func (e *environment) Close() {
	e.inventory.Close()
	e.store.Flush()
	if err := e.notifier.Close(); err != nil {
		e.logger.Warn("Failed to close notifier", zap.Error(err))
	}
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.logger.Sync()
}
