package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/uri"
)

// browserUserAgent is sent with every upstream image request.
// Several NFT image hosts reject clients that do not look like a browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Source is a fetched image source with its sniffed content type
type Source struct {
	Data     []byte
	MimeType string
}

// IsSVG reports whether the source is a vector image that must be rasterized before transcoding
func (s *Source) IsSVG() bool {
	return strings.HasPrefix(s.MimeType, "image/svg")
}

// Fetcher downloads NFT image sources
//
//go:generate mockgen -source=fetcher.go -destination=../../mocks/fetcher.go -package=mocks -mock_names=Fetcher=MockFetcher
type Fetcher interface {
	// Fetch returns the bytes behind sourceURL. HTTP(S) URLs are downloaded,
	// data URIs are decoded inline. A non-success upstream status fails with domain.ErrUpstreamFetchFailed.
	Fetch(ctx context.Context, sourceURL string) (*Source, error)
}

// Config holds configuration for the fetcher
type Config struct {
	// MaxInputBytes bounds the size of a downloaded source, 0 disables the limit
	MaxInputBytes int64
	// Referer is sent with upstream requests
	Referer string
}

type fetcher struct {
	httpClient     adapter.HTTPClient
	dataURIChecker uri.DataURIChecker
	config         Config
}

// NewFetcher creates a new image fetcher
func NewFetcher(httpClient adapter.HTTPClient, dataURIChecker uri.DataURIChecker, cfg *Config) Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}

	return &fetcher{
		httpClient:     httpClient,
		dataURIChecker: dataURIChecker,
		config:         *cfg,
	}
}

// Fetch downloads or decodes the image behind sourceURL
func (f *fetcher) Fetch(ctx context.Context, sourceURL string) (*Source, error) {
	if uri.IsDataURI(sourceURL) {
		return f.decodeDataURI(sourceURL)
	}

	data, err := f.httpClient.GetBytes(ctx, sourceURL, f.headers(), f.config.MaxInputBytes)
	if err != nil {
		var statusErr *adapter.StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFetchFailed, statusErr.StatusCode)
		}
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body")
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("unsupported content type: %s", mime.String())
	}

	logger.DebugCtx(ctx, "Image source downloaded",
		zap.String("sourceURL", sourceURL),
		zap.String("mimeType", mime.String()),
		zap.Int("size", len(data)),
	)

	return &Source{Data: data, MimeType: mime.String()}, nil
}

func (f *fetcher) decodeDataURI(sourceURL string) (*Source, error) {
	result := f.dataURIChecker.Check(sourceURL)
	if !result.Valid {
		reason := "unknown reason"
		if result.Error != nil {
			reason = *result.Error
		}
		return nil, fmt.Errorf("invalid data URI: %s", reason)
	}

	return &Source{Data: result.Data, MimeType: result.MimeType}, nil
}

func (f *fetcher) headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", browserUserAgent)
	h.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Cache-Control", "no-cache")
	if f.config.Referer != "" {
		h.Set("Referer", f.config.Referer)
	}
	return h
}
