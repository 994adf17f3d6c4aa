package domain

import "errors"

var (
	// ErrNotFound is returned when no image mapping exists for a grid
	ErrNotFound = errors.New("not found")

	// ErrVersionMismatch is returned when a requested image version does not match the current source
	ErrVersionMismatch = errors.New("image version mismatch")

	// ErrUpstreamFetchFailed is returned when the image source answers with a non-success status
	ErrUpstreamFetchFailed = errors.New("upstream fetch failed")

	// ErrCompressionFailed is returned when an image could not be fetched or transcoded
	ErrCompressionFailed = errors.New("compression failed")

	// ErrTooManyConnections is returned when an origin exceeds its connection limit
	ErrTooManyConnections = errors.New("too many connections from same IP")

	// ErrRateLimitExceeded is returned when an origin sends too many messages
	ErrRateLimitExceeded = errors.New("too many messages in short time")

	// ErrInvalidSignature is returned when a signature does not recover to the expected address
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrNotAvailable is returned when painting is currently disabled
	ErrNotAvailable = errors.New("painting is not available")

	// ErrMalformedResponse is returned when the indexer answers with an unexpected payload
	ErrMalformedResponse = errors.New("malformed upstream response")
)
