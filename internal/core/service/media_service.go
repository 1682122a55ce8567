package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/api/metrics"
	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
	"github.com/atelierbois/portfolio/internal/imaging"
)

// fallbackExts are the original formats stored verbatim when encoding
// fails. Anything else is rejected rather than published as-is.
var fallbackExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".avif": {}, ".heic": {}, ".heif": {}, ".tif": {}, ".tiff": {}, ".bmp": {},
}

// MediaService normalizes uploads and writes them to the asset store.
type MediaService struct {
	encoder ports.ImageEncoder
	store   ports.AssetStore
	quality int
	log     zerolog.Logger
}

// NewMediaService creates a MediaService. quality overrides the preset
// quality of every job when positive.
func NewMediaService(encoder ports.ImageEncoder, store ports.AssetStore, quality int, log zerolog.Logger) *MediaService {
	return &MediaService{encoder: encoder, store: store, quality: quality, log: log}
}

func (s *MediaService) Normalize(ctx context.Context, data []byte, destWithoutExt string, opts imaging.Options) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("file", "empty upload")
	}
	res, err := s.encode(ctx, data, opts)
	if err != nil {
		return "", err
	}

	webPath := destWithoutExt + res.Ext
	if err := s.store.Put(ctx, webPath, res.Data); err != nil {
		return "", fmt.Errorf("store %s: %w", webPath, err)
	}
	metrics.ImagesProcessedTotal.WithLabelValues(opts.Mode.Label(), "encoded").Inc()
	return webPath, nil
}

// Store stores up normalized, or its original bytes under the original
// extension when encoding fails. Storage failures are never masked.
func (s *MediaService) Store(ctx context.Context, up ports.Upload, destWithoutExt string, opts imaging.Options) (string, error) {
	if len(up.Data) == 0 {
		return "", domain.NewValidationError("file", "empty upload")
	}

	res, encErr := s.encode(ctx, up.Data, opts)
	if encErr == nil {
		webPath := destWithoutExt + res.Ext
		if err := s.store.Put(ctx, webPath, res.Data); err != nil {
			return "", fmt.Errorf("store %s: %w", webPath, err)
		}
		metrics.ImagesProcessedTotal.WithLabelValues(opts.Mode.Label(), "encoded").Inc()
		return webPath, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	ext := strings.ToLower(path.Ext(up.Filename))
	if _, ok := fallbackExts[ext]; !ok {
		metrics.ImagesProcessedTotal.WithLabelValues(opts.Mode.Label(), "failed").Inc()
		return "", domain.NewValidationError("file", "unsupported image format")
	}

	s.log.Warn().Err(encErr).Str("file", up.Filename).Msg("image encoding failed, storing original")
	webPath := destWithoutExt + ext
	if err := s.store.Put(ctx, webPath, up.Data); err != nil {
		return "", fmt.Errorf("store %s: %w", webPath, err)
	}
	metrics.ImagesProcessedTotal.WithLabelValues(opts.Mode.Label(), "fallback").Inc()
	return webPath, nil
}

func (s *MediaService) Thumbnail(ctx context.Context, data []byte, destWithoutExt string, opts imaging.Options) (string, error) {
	opts.Mode = imaging.Fill
	return s.Normalize(ctx, data, destWithoutExt, opts)
}

// Discard is best-effort: a failure is logged and counted, never returned.
func (s *MediaService) Discard(ctx context.Context, webPath string) {
	if webPath == "" {
		return
	}
	if err := s.store.Remove(ctx, webPath); err != nil {
		metrics.AssetCleanupFailuresTotal.WithLabelValues("file").Inc()
		s.log.Warn().Err(err).Str("path", webPath).Msg("asset cleanup failed")
	}
}

// DiscardDir is best-effort like Discard; the result lets callers fall
// back to removing files one by one.
func (s *MediaService) DiscardDir(ctx context.Context, webDir string) bool {
	if webDir == "" {
		return false
	}
	if err := s.store.RemoveDir(ctx, webDir); err != nil {
		metrics.AssetCleanupFailuresTotal.WithLabelValues("dir").Inc()
		s.log.Warn().Err(err).Str("path", webDir).Msg("asset folder cleanup failed")
		return false
	}
	return true
}

func (s *MediaService) encode(ctx context.Context, data []byte, opts imaging.Options) (*imaging.Result, error) {
	if s.quality > 0 {
		opts = opts.WithQuality(s.quality)
	}
	res, err := s.encoder.Encode(ctx, imaging.Job{Data: data, Options: opts})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("encoder returned no result")
	}
	return res, nil
}
