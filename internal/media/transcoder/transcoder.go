package transcoder

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidDimensions is returned when a decoded image has no pixels
var ErrInvalidDimensions = errors.New("image has invalid dimensions")

// Config holds configuration for the transcoder
type Config struct {
	// Size is the edge of the square output in pixels
	Size int
	// Quality is the WebP quality, 1 to 100
	Quality int
	// WorkerConcurrency bounds the number of images transcoded at once
	WorkerConcurrency int
	// Timeout bounds a single transcode including time spent queued
	Timeout time.Duration
}

// Transcoder converts fetched NFT images into grid thumbnails
//
//go:generate mockgen -source=transcoder.go -destination=../../mocks/transcoder.go -package=mocks -mock_names=Transcoder=MockTranscoder
type Transcoder interface {
	// Transcode resizes data to cover a Size x Size square, center crops it and encodes it as WebP.
	// It is safe for concurrent use and enforces the configured worker concurrency.
	Transcode(ctx context.Context, data []byte) ([]byte, error)

	// Close gracefully shuts down the transcoder and its worker pool
	Close() error
}
