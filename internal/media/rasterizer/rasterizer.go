package rasterizer

import "context"

// Rasterizer renders vector NFT images to PNG so they can be transcoded like any bitmap
//
//go:generate mockgen -source=rasterizer.go -destination=../../mocks/media_rasterizer.go -package=mocks -mock_names=Rasterizer=MockRasterizer
type Rasterizer interface {
	// Rasterize converts an SVG to a PNG image
	Rasterize(ctx context.Context, svgData []byte) ([]byte, error)
}

// Config holds configuration for the rasterizer
type Config struct {
	// Width is the target width for rasterization (0 = use SVG natural size)
	// Height follows from the SVG aspect ratio
	Width int
}
