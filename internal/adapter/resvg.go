//go:build cgo

package adapter

import (
	"image"

	"github.com/xo/resvg"
)

// ResvgClient renders SVG tile images into bitmaps
//
//go:generate mockgen -source=resvg.go -destination=../mocks/resvg.go -package=mocks -mock_names=ResvgClient=MockResvgClient
type ResvgClient interface {
	// Render draws svg scaled to width, keeping its aspect ratio.
	// A width of 0 keeps the document's own size.
	Render(svg []byte, width int) (image.Image, error)
}

// RealResvgClient renders with libresvg
type RealResvgClient struct{}

// NewResvgClient creates a new resvg client
func NewResvgClient() ResvgClient {
	return &RealResvgClient{}
}

func (c *RealResvgClient) Render(svg []byte, width int) (image.Image, error) {
	if width <= 0 {
		return resvg.Render(svg, resvg.WithScaleMode(resvg.ScaleBestFit))
	}
	return resvg.Render(svg, resvg.WithScaleMode(resvg.ScaleBestFit), resvg.WithWidth(width))
}
