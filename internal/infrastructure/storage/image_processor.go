package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrNotAnImage    = errors.New("not a jpeg or png image")
	ErrImageTooLarge = errors.New("image exceeds the upload limit")
)

type ImageProcessor struct {
	MaxBytes  int64
	MaxPixels int // longest side after resize
}

func NewImageProcessor(maxBytes int64, maxPixels int) *ImageProcessor {
	return &ImageProcessor{MaxBytes: maxBytes, MaxPixels: maxPixels}
}

// ValidateImage accepts JPEG or PNG within MaxBytes
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxBytes {
		return fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if format != "jpeg" && format != "png" {
		return fmt.Errorf("%w: %s", ErrNotAnImage, format)
	}
	return nil
}

// Prepare validates, fits the image into MaxPixels and re-encodes it as JPEG
func (p *ImageProcessor) Prepare(data []byte) ([]byte, error) {
	if err := p.ValidateImage(data); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	b := img.Bounds()
	if b.Dx() > p.MaxPixels || b.Dy() > p.MaxPixels {
		img = imaging.Fit(img, p.MaxPixels, p.MaxPixels, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("cannot encode photo: %w", err)
	}
	return out.Bytes(), nil
}
