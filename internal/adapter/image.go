package adapter

import (
	"image"
	"image/png"
	"io"
)

// ImageEncoder serializes rasterized tiles so they can be handed to the transcoder
//
//go:generate mockgen -source=image.go -destination=../mocks/image.go -package=mocks -mock_names=ImageEncoder=MockImageEncoder
type ImageEncoder interface {
	EncodePNG(w io.Writer, img image.Image) error
}

// RealImageEncoder writes PNG with the fastest compression.
// The output is decoded again right away, so size does not matter.
type RealImageEncoder struct {
	encoder png.Encoder
}

// NewImageEncoder creates a new image encoder
func NewImageEncoder() ImageEncoder {
	return &RealImageEncoder{
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

func (e *RealImageEncoder) EncodePNG(w io.Writer, img image.Image) error {
	return e.encoder.Encode(w, img)
}
