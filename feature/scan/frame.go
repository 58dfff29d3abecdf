package scan

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	// Registered image formats accepted for uploads
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	// ErrInvalidFrame is returned when pixel data does not match its dimensions.
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrFrameTooLarge is returned for images above the configured pixel limit.
	ErrFrameTooLarge = errors.New("frame too large")
)

// Frame is a raw RGBA camera frame.
type Frame struct {
	Width  int
	Height int
	// Pixels holds 4 bytes per pixel, row major.
	Pixels []byte
}

// Image wraps the frame as an *image.RGBA without copying.
func (f Frame) Image() (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if len(f.Pixels) != f.Width*f.Height*4 {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidFrame, f.Width*f.Height*4, len(f.Pixels))
	}
	return &image.RGBA{
		Pix:    f.Pixels,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}, nil
}

// FrameFromImage converts any image to an RGBA frame.
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return Frame{Width: b.Dx(), Height: b.Dy(), Pixels: rgba.Pix}
}

// ReadFrame decodes a PNG, JPEG or GIF stream into a frame. The header is
// checked against maxPixels before any pixel buffer is allocated.
func ReadFrame(r io.Reader, maxPixels int) (Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Frame{}, fmt.Errorf("%w: %dx%d", ErrInvalidFrame, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return Frame{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrFrameTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return FrameFromImage(img), nil
}

// invert returns a copy with RGB channels inverted, for light-on-dark codes.
func invert(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]byte, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	for i := 0; i+3 < len(src.Pix); i += 4 {
		dst.Pix[i] = 255 - src.Pix[i]
		dst.Pix[i+1] = 255 - src.Pix[i+1]
		dst.Pix[i+2] = 255 - src.Pix[i+2]
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}
