package scan

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new scan feature.
func NewFeature(decoder *Decoder, merger Merger, logger *zap.Logger) *Feature {
	svc := NewService(decoder, merger, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "scan"
}

// IsEnabled reports whether a decoder and an inventory are wired.
func (f *Feature) IsEnabled() bool {
	return f.service.decoder != nil && f.service.merger != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
