package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-tracker/core/reconcile"

	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned by providers missing credentials.
	ErrNotConfigured = errors.New("insight provider is not configured")
	// ErrProvider wraps failures reported by the insight provider.
	ErrProvider = errors.New("insight provider failed")
)

// Generator produces a markdown insight document for a non-empty inventory.
type Generator interface {
	Generate(ctx context.Context, products []reconcile.Product, today time.Time) (string, error)
}

// NewGenerator builds the generator selected by cfg.
func NewGenerator(cfg Config, logger *zap.Logger) (Generator, error) {
	switch cfg.Provider {
	case ProviderLocal, "":
		return NewLocalGenerator(), nil
	case ProviderGemini:
		return NewGeminiGenerator(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported insights provider: %s", cfg.Provider)
	}
}
