package services

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Upload and output constraints of the media library.
const (
	MaxUploadBytes    = 2 * 1024 * 1024
	MaxImageWidth     = 1920
	OutputQuality     = 85
	OutputExtension   = ".jpg"
	OutputContentType = "image/jpeg"

	// maxDecodedPixels caps the decoded size of a small but highly compressed upload.
	maxDecodedPixels = 60_000_000
)

// ProcessedImage is a normalized, encoded image ready for storage.
type ProcessedImage struct {
	Data   []byte
	Width  int
	Height int
}

// ImageProcessor validates and normalizes uploaded images.
type ImageProcessor struct {
	maxWidth int
	quality  int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		maxWidth: MaxImageWidth,
		quality:  OutputQuality,
	}
}

// Normalize checks the size ceiling, decodes, drops any alpha channel, caps the
// width and re-encodes as JPEG. It touches no storage.
func (p *ImageProcessor) Normalize(raw []byte) (*ProcessedImage, error) {
	// Size check before any decoding work
	if len(raw) > MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxDecodedPixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	out := flattenOpaque(img)

	if w := out.Bounds().Dx(); w > p.maxWidth {
		h := int(math.Round(float64(out.Bounds().Dy()) * float64(p.maxWidth) / float64(w)))
		if h < 1 {
			h = 1
		}
		out = imaging.Resize(out, p.maxWidth, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return &ProcessedImage{
		Data:   buf.Bytes(),
		Width:  out.Bounds().Dx(),
		Height: out.Bounds().Dy(),
	}, nil
}

// flattenOpaque converts any colour model (paletted, gray, RGBA, ...) to
// opaque NRGBA. Alpha is discarded, not composited: a transparent pixel keeps
// its stored colour. This is lossy on purpose since JPEG has no alpha.
// image/gif decodes the transparent palette index as zero RGBA, so those
// pixels come out black.
func flattenOpaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
