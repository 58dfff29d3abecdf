package insights

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"inventory-tracker/core/logger"
	"inventory-tracker/core/reconcile"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// generateTimeout bounds a shared generation once it no longer follows the
// context of the request that started it.
const generateTimeout = 2 * time.Minute

// Source supplies the current products of an owner.
type Source interface {
	Snapshot(ctx context.Context, owner string) ([]reconcile.Product, error)
	Location() *time.Location
}

// Report is a generated insight document and its parsed sections.
type Report struct {
	Markdown string    `json:"markdown"`
	Sections []Insight `json:"sections"`
	Cached   bool      `json:"cached"`
}

// Service generates insight reports for owners' inventories.
type Service struct {
	source    Source
	generator Generator
	cache     Cache
	logger    *zap.Logger
	now       func() time.Time
	sf        singleflight.Group
}

// NewService creates an insights service. A nil cache disables caching.
func NewService(source Source, generator Generator, cache Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache(0)
	}
	return &Service{
		source:    source,
		generator: generator,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate returns the insight report for owner. Reports are cached per owner
// and inventory content; concurrent requests for the same key share one call.
func (s *Service) Generate(ctx context.Context, owner string) (Report, error) {
	if owner == "" {
		return Report{}, reconcile.ErrMissingOwner
	}

	products, err := s.source.Snapshot(ctx, owner)
	if err != nil {
		return Report{}, err
	}
	if len(products) == 0 {
		return newReport(NoProductsDocument, false), nil
	}

	today := s.now().In(s.source.Location())
	key, err := Fingerprint(owner, products, today)
	if err != nil {
		return Report{}, err
	}
	log := logger.WithOwner(s.logger, owner)

	if doc, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("Insight cache read failed", zap.Error(err))
	} else if ok {
		return newReport(doc, true), nil
	}

	// The shared call outlives any single caller; each caller only stops waiting.
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generateTimeout)
		defer cancel()

		start := time.Now()
		doc, err := s.generator.Generate(gctx, products, today)
		if err != nil {
			return "", err
		}
		log.Debug("Insights generated",
			zap.Int("products", len(products)),
			zap.Duration("duration", time.Since(start)))

		if err := s.cache.Set(gctx, key, doc); err != nil {
			log.Warn("Insight cache write failed", zap.Error(err))
		}
		return doc, nil
	})

	var result singleflight.Result
	select {
	case result = <-ch:
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
	if result.Err != nil {
		log.Error("Insight generation failed", zap.Error(result.Err))
		return Report{}, result.Err
	}

	return newReport(result.Val.(string), false), nil
}

func newReport(doc string, cached bool) Report {
	return Report{Markdown: doc, Sections: ParseInsights(doc), Cached: cached}
}

// Fingerprint identifies an inventory state for caching. The date is part of
// the key because the document depends on days left.
func Fingerprint(owner string, products []reconcile.Product, today time.Time) (string, error) {
	data, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("failed to encode products: %w", err)
	}

	h := xxhash.New()
	_, _ = h.WriteString(owner)
	_, _ = h.WriteString(today.Format("2006-01-02"))
	_, _ = h.Write(data)
	return owner + ":" + strconv.FormatUint(h.Sum64(), 16), nil
}
