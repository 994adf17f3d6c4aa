//go:build cgo

package rasterizer

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

type resvgRasterizer struct {
	resvgClient  adapter.ResvgClient
	imageEncoder adapter.ImageEncoder
	width        int
}

// NewRasterizer creates a new SVG rasterizer backed by resvg
func NewRasterizer(resvgClient adapter.ResvgClient, imageEncoder adapter.ImageEncoder, cfg *Config) Rasterizer {
	if cfg == nil {
		cfg = &Config{}
	}

	return &resvgRasterizer{
		resvgClient:  resvgClient,
		imageEncoder: imageEncoder,
		width:        cfg.Width,
	}
}

// Rasterize converts SVG data to PNG format
func (r *resvgRasterizer) Rasterize(ctx context.Context, svgData []byte) ([]byte, error) {
	img, err := r.resvgClient.Render(svgData, r.width)
	if err != nil {
		return nil, fmt.Errorf("failed to render SVG: %w", err)
	}

	var buf bytes.Buffer
	if err := r.imageEncoder.EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	bounds := img.Bounds()
	logger.DebugCtx(ctx, "SVG rasterized",
		zap.Int("svgSize", len(svgData)),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Int("pngSize", buf.Len()),
	)

	return buf.Bytes(), nil
}
