package ports

import (
	"context"

	"github.com/atelierbois/portfolio/internal/imaging"
)

// ImageEncoder runs decode/resize/encode work, possibly off the request goroutine.
type ImageEncoder interface {
	Encode(ctx context.Context, job imaging.Job) (*imaging.Result, error)
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// MediaService turns uploads into stored, web-addressable assets.
type MediaService interface {
	// Normalize encodes data with opts and stores it at destWithoutExt plus
	// the target extension. It returns the stored web path.
	Normalize(ctx context.Context, data []byte, destWithoutExt string, opts imaging.Options) (string, error)
	// Store is Normalize with the original-bytes fallback applied when
	// encoding fails.
	Store(ctx context.Context, up Upload, destWithoutExt string, opts imaging.Options) (string, error)
	// Thumbnail stores a crop-to-fill rendition and returns its web path.
	Thumbnail(ctx context.Context, data []byte, destWithoutExt string, opts imaging.Options) (string, error)
	// Discard removes a stored asset, logging instead of failing.
	Discard(ctx context.Context, webPath string)
	// DiscardDir removes a stored folder, reporting whether it succeeded.
	DiscardDir(ctx context.Context, webDir string) bool
}
