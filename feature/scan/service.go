package scan

import (
	"context"
	"io"
	"sync"

	"inventory-tracker/core/reconcile"

	"go.uber.org/zap"
)

// Merger applies a decoded scan to an owner's inventory.
type Merger interface {
	Scan(ctx context.Context, owner, payload string, quantity int) (reconcile.Decision, error)
}

// Service decodes QR images and hands payloads to the inventory.
type Service struct {
	decoder *Decoder
	merger  Merger
	logger  *zap.Logger

	// sessions holds only owners with a decode in flight.
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a new scan service.
func NewService(decoder *Decoder, merger Merger, logger *zap.Logger) *Service {
	return &Service{
		decoder:  decoder,
		merger:   merger,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// acquire claims the owner's session, or reports ErrBusy while another decode
// for the owner is running. release must follow a successful acquire.
func (s *Service) acquire(owner string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[owner]; ok {
		return nil, ErrBusy
	}
	sess := NewSession(s.decoder)
	s.sessions[owner] = sess
	return sess, nil
}

func (s *Service) release(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, owner)
}

// DecodeFrame decodes a raw frame for owner. Each owner has one decode in flight at most.
func (s *Service) DecodeFrame(ctx context.Context, owner string, frame Frame) (string, error) {
	text, err := s.decodeFrame(ctx, owner, frame)
	if err != nil {
		s.logger.Debug("QR decode failed", zap.String("user_id", owner), zap.Int("width", frame.Width), zap.Int("height", frame.Height), zap.Error(err))
		return "", err
	}
	return text, nil
}

func (s *Service) decodeFrame(ctx context.Context, owner string, frame Frame) (string, error) {
	sess, err := s.acquire(owner)
	if err != nil {
		return "", err
	}
	defer s.release(owner)

	return sess.Decode(ctx, frame)
}

// inFlight returns the number of owners with a decode running.
func (s *Service) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// DecodeUpload decodes an uploaded image for owner.
func (s *Service) DecodeUpload(ctx context.Context, owner string, r io.Reader) (string, error) {
	frame, err := ReadFrame(r, s.decoder.cfg.PixelLimit())
	if err != nil {
		return "", err
	}
	return s.DecodeFrame(ctx, owner, frame)
}

// Merge applies a payload that was decoded elsewhere, e.g. by a client-side camera.
func (s *Service) Merge(ctx context.Context, owner, payload string, quantity int) (reconcile.Decision, error) {
	return s.merger.Scan(ctx, owner, payload, quantity)
}

// ScanUpload decodes an uploaded image and merges its payload.
func (s *Service) ScanUpload(ctx context.Context, owner string, r io.Reader, quantity int) (string, reconcile.Decision, error) {
	text, err := s.DecodeUpload(ctx, owner, r)
	if err != nil {
		return "", reconcile.Decision{}, err
	}
	d, err := s.merger.Scan(ctx, owner, text, quantity)
	return text, d, err
}
