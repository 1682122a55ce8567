// Package imaging decodes uploaded images, bounds their size and re-encodes
// them to WebP, the single delivery format of the site.
//
// Quality is expressed on a 0–100 scale everywhere in the application.
// Callers converting from a 0–1 scale must multiply at their boundary.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	dimaging "github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
)

const (
	// Ext is the extension of every encoded file.
	Ext = ".webp"

	DefaultQuality = 80

	// MaxPixels bounds the decoded size of an input image.
	MaxPixels = 80_000_000
)

// Mode selects how an image is brought within its box.
type Mode int

const (
	// Fit scales down to fit inside the box, keeping the aspect ratio.
	// Smaller images are never enlarged.
	Fit Mode = iota
	// Fill scales and center-crops to exactly the box.
	Fill
)

// Label names the kind of output a mode produces, for logs and metrics.
func (m Mode) Label() string {
	if m == Fill {
		return "thumbnail"
	}
	return "image"
}

// Options controls a single encode.
type Options struct {
	// Quality is 1–100; zero selects DefaultQuality.
	Quality   int
	MaxWidth  int
	MaxHeight int
	Mode      Mode
}

// Job is a unit of encode work.
type Job struct {
	Data    []byte
	Options Options
}

// Result is an encoded image.
type Result struct {
	Data   []byte
	Width  int
	Height int
	Ext    string
}

var (
	ErrEmptyInput = errors.New("imaging: empty input")
	ErrInvalidBox = errors.New("imaging: fill requires a positive width and height")
	ErrTooLarge   = errors.New("imaging: image dimensions too large")
)

// Presets used by the services.
var (
	ProjectImage = Options{Quality: 80, MaxWidth: 1920, MaxHeight: 1920, Mode: Fit}
	Logo         = Options{Quality: 90, MaxWidth: 600, MaxHeight: 600, Mode: Fit}
	Thumbnail    = Options{Quality: 75, MaxWidth: 480, MaxHeight: 360, Mode: Fill}
)

// WithQuality returns o with its quality replaced when q is set.
func (o Options) WithQuality(q int) Options {
	if q > 0 {
		o.Quality = q
	}
	return o
}

// ClampQuality maps q onto the encoder's accepted range.
func ClampQuality(q int) int {
	switch {
	case q <= 0:
		return DefaultQuality
	case q > 100:
		return 100
	default:
		return q
	}
}

// Dimensions reads the intrinsic size and format of data without decoding
// the pixels.
func Dimensions(data []byte) (width, height int, format string, err error) {
	if len(data) == 0 {
		return 0, 0, "", ErrEmptyInput
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("imaging: read dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

// FitSize computes the size of a w×h image scaled down to fit inside
// maxW×maxH. A non-positive bound leaves that axis unconstrained.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if maxW <= 0 {
		maxW = w
	}
	if maxH <= 0 {
		maxH = h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * ratio))
	nh := int(math.Round(float64(h) * ratio))
	return clampDim(nw, maxW), clampDim(nh, maxH)
}

func clampDim(v, limit int) int {
	if v < 1 {
		return 1
	}
	if v > limit {
		return limit
	}
	return v
}

// Process decodes job.Data, applies the resize mode and encodes to WebP.
func Process(job Job) (*Result, error) {
	if len(job.Data) == 0 {
		return nil, ErrEmptyInput
	}
	opts := job.Options

	w, h, _, err := Dimensions(job.Data)
	if err != nil {
		return nil, err
	}
	if int64(w)*int64(h) > MaxPixels {
		return nil, ErrTooLarge
	}

	img, err := dimaging.Decode(bytes.NewReader(job.Data), dimaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	switch opts.Mode {
	case Fill:
		if opts.MaxWidth <= 0 || opts.MaxHeight <= 0 {
			return nil, ErrInvalidBox
		}
		img = dimaging.Fill(img, opts.MaxWidth, opts.MaxHeight, dimaging.Center, dimaging.Lanczos)
	default:
		b := img.Bounds()
		w, h := FitSize(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)
		if w != b.Dx() || h != b.Dy() {
			img = dimaging.Resize(img, w, h, dimaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: ClampQuality(opts.Quality)}); err != nil {
		return nil, fmt.Errorf("imaging: encode webp: %w", err)
	}

	b := img.Bounds()
	return &Result{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy(), Ext: Ext}, nil
}
