package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a frame contains no readable QR code.
	ErrNotFound = errors.New("no QR code found")
	// ErrBusy is returned when a decode is already in flight or the pool is saturated.
	ErrBusy = errors.New("decoder is busy")
)

// Result is the outcome of one decode.
type Result struct {
	Text string
	Err  error
}

// Decoder runs QR decodes on a bounded worker pool.
type Decoder struct {
	pool   *ants.Pool
	cfg    Config
	logger *zap.Logger
}

// NewDecoder creates a decoder with cfg.Workers workers. Submissions beyond
// that are rejected with ErrBusy instead of queueing.
func NewDecoder(cfg Config, logger *zap.Logger) (*Decoder, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create decode pool: %w", err)
	}
	return &Decoder{pool: pool, cfg: cfg, logger: logger}, nil
}

// Submit schedules a decode; the result arrives on the returned channel.
func (d *Decoder) Submit(frame Frame) (<-chan Result, error) {
	img, err := frame.Image()
	if err != nil {
		return nil, err
	}

	out := make(chan Result, 1)
	err = d.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("QR decode panicked", zap.Any("panic", r))
				out <- Result{Err: ErrNotFound}
			}
		}()
		text, err := decodeQR(img)
		out <- Result{Text: text, Err: err}
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("failed to submit decode: %w", err)
	}
	return out, nil
}

// Decode submits frame and waits for the result, the configured timeout or ctx.
func (d *Decoder) Decode(ctx context.Context, frame Frame) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout())
	defer cancel()

	results, err := d.Submit(frame)
	if err != nil {
		return "", err
	}

	select {
	case r := <-results:
		return r.Text, r.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Running returns the number of decodes in progress.
func (d *Decoder) Running() int {
	return d.pool.Running()
}

// Close releases the pool.
func (d *Decoder) Close() {
	d.pool.Release()
}

// decodeQR tries the image as is, then inverted.
func decodeQR(img *image.RGBA) (string, error) {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	for _, candidate := range []*image.RGBA{img, invert(img)} {
		bmp, err := gozxing.NewBinaryBitmapFromImage(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to binarize frame: %w", err)
		}
		result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
		if err == nil {
			return result.GetText(), nil
		}
	}
	return "", ErrNotFound
}

// Session lets one decode be in flight at a time; concurrent calls get ErrBusy.
type Session struct {
	decoder *Decoder
	busy    atomic.Bool
}

// NewSession creates a session on decoder.
func NewSession(decoder *Decoder) *Session {
	return &Session{decoder: decoder}
}

// Decode runs a single decode for this session.
func (s *Session) Decode(ctx context.Context, frame Frame) (string, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.busy.Store(false)

	return s.decoder.Decode(ctx, frame)
}
