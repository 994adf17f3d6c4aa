package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/media/fetcher"
	"github.com/mammothos/mamoart-backend/internal/media/rasterizer"
	"github.com/mammothos/mamoart-backend/internal/media/transcoder"
	"github.com/mammothos/mamoart-backend/internal/store"
)

// CONTENT_TYPE_WEBP is the content type of every delivered image
const CONTENT_TYPE_WEBP = "image/webp"

// Image is a grid thumbnail ready to be served
type Image struct {
	Data        []byte
	ContentType string
	CacheHit    bool
}

// Pipeline serves compressed grid images, compressing each source at most once at a time
//
//go:generate mockgen -source=pipeline.go -destination=../../mocks/pipeline.go -package=mocks -mock_names=Pipeline=MockPipeline
type Pipeline interface {
	// Get returns the compressed image of a grid tile.
	// version, when not empty, must match the hash of the current source URL.
	Get(ctx context.Context, gridID int, version string) (*Image, error)
}

// Config holds configuration for the pipeline
type Config struct {
	// TaskTimeout bounds a whole fetch and transcode task
	TaskTimeout time.Duration
}

type pipeline struct {
	config     Config
	images     store.ImageStore
	fetcher    fetcher.Fetcher
	rasterizer rasterizer.Rasterizer
	transcoder transcoder.Transcoder
	inflight   singleflight.Group
}

// NewPipeline creates a new image delivery pipeline.
// rasterizer may be nil, in which case SVG sources fail to compress.
func NewPipeline(
	cfg *Config,
	images store.ImageStore,
	fetcher fetcher.Fetcher,
	rasterizer rasterizer.Rasterizer,
	transcoder transcoder.Transcoder,
) Pipeline {
	return &pipeline{
		config:     *cfg,
		images:     images,
		fetcher:    fetcher,
		rasterizer: rasterizer,
		transcoder: transcoder,
	}
}

// Get returns the compressed image of gridID
func (p *pipeline) Get(ctx context.Context, gridID int, version string) (*Image, error) {
	sourceURL, ok := p.images.SourceURL(gridID)
	if !ok || sourceURL == "" || sourceURL == domain.UNKNOWN {
		return nil, domain.ErrNotFound
	}

	if version != "" && version != domain.HashURL(sourceURL) {
		return nil, domain.ErrVersionMismatch
	}

	if data, ok := p.images.Compressed(gridID, sourceURL); ok {
		return &Image{Data: data, ContentType: CONTENT_TYPE_WEBP, CacheHit: true}, nil
	}

	// Callers for the same source share one task. The key is released once the task finishes
	// whether it succeeded or not, so a failure is retried by the next request.
	key := store.CacheKey(gridID, sourceURL)
	ch := p.inflight.DoChan(key, func() (any, error) {
		return p.compress(ctx, gridID, sourceURL)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return &Image{Data: res.Val.([]byte), ContentType: CONTENT_TYPE_WEBP}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// compress fetches and transcodes sourceURL and fills the cache
func (p *pipeline) compress(ctx context.Context, gridID int, sourceURL string) ([]byte, error) {
	// A task that finished just before this one registered already filled the cache
	if data, ok := p.images.Compressed(gridID, sourceURL); ok {
		return data, nil
	}

	// The task outlives the caller that started it so the other waiters are not failed by its disconnect
	ctx = context.WithoutCancel(ctx)
	if p.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.TaskTimeout)
		defer cancel()
	}

	data, err := p.fetchAndTranscode(ctx, sourceURL)
	if err != nil {
		logger.WarnCtx(ctx, "Image compression failed",
			zap.Int("gridId", gridID),
			zap.String("sourceURL", sourceURL),
			zap.String("error", logger.Truncate(err)),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrCompressionFailed, err)
	}

	// Skip the fill when the tile moved to another source meanwhile, the key would be unreachable
	if current, ok := p.images.SourceURL(gridID); ok && current == sourceURL {
		p.images.SetCompressed(gridID, sourceURL, data)
	}

	logger.InfoCtx(ctx, "Image compressed",
		zap.Int("gridId", gridID),
		zap.String("sourceURL", sourceURL),
		zap.Int("size", len(data)),
	)

	return data, nil
}

func (p *pipeline) fetchAndTranscode(ctx context.Context, sourceURL string) ([]byte, error) {
	src, err := p.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	data := src.Data
	if src.IsSVG() {
		if p.rasterizer == nil {
			return nil, errors.New("SVG sources are not supported")
		}
		data, err = p.rasterizer.Rasterize(ctx, src.Data)
		if err != nil {
			return nil, err
		}
	}

	return p.transcoder.Transcode(ctx, data)
}
