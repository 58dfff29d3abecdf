package integrity

import (
	"context"
	"fmt"

	"inventory-tracker/core/storage"
	"inventory-tracker/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Report combines all integrity checks. A failed check carries its error
// instead of a result.
type Report struct {
	Healthy      bool                  `json:"healthy"`
	Schema       *checks.SchemaReport  `json:"schema,omitempty"`
	SchemaError  string                `json:"schema_error,omitempty"`
	Storage      *checks.StorageReport `json:"storage,omitempty"`
	StorageError string                `json:"storage_error,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	cfg    storage.Config
	logger *zap.Logger
}

// NewService creates a new integrity service. Either db or client may be nil,
// in which case the related check reports an error.
func NewService(db *gorm.DB, client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// CheckSchema compares the products table with the document model.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckStorage inspects the export bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage client is not configured")
	}
	return checks.CheckStorage(ctx, s.client, s.cfg.Bucket, s.cfg.ExportPrefix)
}

// FixStorage creates whatever report found missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	if s.client == nil {
		return fmt.Errorf("storage client is not configured")
	}
	return checks.FixStorage(ctx, s.client, report, s.cfg.Region, s.logger)
}

// Run executes every check concurrently.
func (s *Service) Run(ctx context.Context) Report {
	var (
		report     Report
		schemaErr  error
		storageErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Schema, schemaErr = s.CheckSchema()
		return nil
	})
	g.Go(func() error {
		report.Storage, storageErr = s.CheckStorage(gctx)
		return nil
	})
	_ = g.Wait()

	report.Healthy = true
	if schemaErr != nil {
		report.SchemaError = schemaErr.Error()
		report.Healthy = false
	} else if !report.Schema.Matched {
		report.Healthy = false
	}
	if storageErr != nil {
		report.StorageError = storageErr.Error()
		report.Healthy = false
	} else if !report.Storage.OK() {
		report.Healthy = false
	}

	return report
}
