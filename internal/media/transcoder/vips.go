//go:build cgo

package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/alitto/pond/v2"
	"github.com/cshum/vipsgen/vips"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

// vipsTranscoder implements Transcoder with libvips
type vipsTranscoder struct {
	config     Config
	pool       pond.ResultPool[[]byte]
	vipsClient adapter.VipsClient
}

// NewTranscoder creates a new transcoder with a bounded worker pool
func NewTranscoder(cfg *Config, vipsClient adapter.VipsClient) Transcoder {
	c := *cfg
	if c.WorkerConcurrency <= 0 {
		c.WorkerConcurrency = 1
	}

	// Initialize vips once
	vipsClient.Startup(&vips.Config{
		ConcurrencyLevel: c.WorkerConcurrency,
		MaxCacheMem:      100 * 1024 * 1024, // 100MB cache
		MaxCacheSize:     500,
	})

	return &vipsTranscoder{
		config:     c,
		pool:       pond.NewResultPool[[]byte](c.WorkerConcurrency),
		vipsClient: vipsClient,
	}
}

// Transcode queues data on the worker pool and waits for the result or the timeout
func (t *vipsTranscoder) Transcode(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("input cannot be empty")
	}

	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	task := t.pool.SubmitErr(func() ([]byte, error) {
		// Skip work whose caller already gave up while queued
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return t.transcode(ctx, data)
	})

	select {
	case <-task.Done():
		return task.Wait()
	case <-ctx.Done():
		return nil, fmt.Errorf("transcode aborted: %w", ctx.Err())
	}
}

// Close gracefully shuts down the transcoder
func (t *vipsTranscoder) Close() error {
	t.pool.StopAndWait()
	t.vipsClient.Shutdown()
	return nil
}

func (t *vipsTranscoder) transcode(ctx context.Context, data []byte) ([]byte, error) {
	source := t.vipsClient.NewSource(io.NopCloser(bytes.NewReader(data)))
	defer source.Close()

	loadOpts := vips.DefaultLoadOptions()
	// Use random access to allow resize operations without "out of order read" errors
	loadOpts.Access = vips.AccessRandom

	img, err := t.vipsClient.NewImageFromSource(source, loadOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	defer img.Close()

	width, height := img.Width(), img.Height()
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	// Cover: the shorter edge lands on Size, the longer edge is cropped
	size := t.config.Size
	scale := math.Max(float64(size)/float64(width), float64(size)/float64(height))
	if err := img.Resize(scale, vips.DefaultResizeOptions()); err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}

	resizedWidth, resizedHeight := img.Width(), img.Height()
	cropWidth := min(size, resizedWidth)
	cropHeight := min(size, resizedHeight)
	left := (resizedWidth - cropWidth) / 2
	top := (resizedHeight - cropHeight) / 2
	if err := img.ExtractArea(left, top, cropWidth, cropHeight); err != nil {
		return nil, fmt.Errorf("failed to crop image: %w", err)
	}

	opts := vips.DefaultWebpsaveBufferOptions()
	opts.Q = t.config.Quality
	opts.Keep = vips.KeepNone // Strip metadata
	out, err := img.WebpsaveBuffer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	logger.DebugCtx(ctx, "Image transcoded",
		zap.Int("originalWidth", width),
		zap.Int("originalHeight", height),
		zap.Int("inputSize", len(data)),
		zap.Int("outputSize", len(out)),
	)

	return out, nil
}
