package uri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DataURI is a parsed RFC 2397 data URI
type DataURI struct {
	MimeType    string
	Base64      bool
	DecodedData []byte
}

// IsDataURI reports whether s looks like a data URI
func IsDataURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// ParseDataURI parses a data URI of the form data:[<mediatype>][;base64],<data>
func ParseDataURI(dataURI string) (*DataURI, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURI), "data:")
	if !ok {
		return nil, errors.New("invalid data URI: must start with 'data:'")
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("invalid data URI format: missing comma separator")
	}

	parsed := &DataURI{MimeType: "text/plain"}
	params := strings.Split(header, ";")
	if params[0] != "" {
		parsed.MimeType = strings.ToLower(strings.TrimSpace(params[0]))
	}
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			parsed.Base64 = true
		}
	}

	if parsed.Base64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some minters drop the padding
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return nil, fmt.Errorf("failed to decode base64: %w", err)
			}
		}
		parsed.DecodedData = data
		return parsed, nil
	}

	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape data: %w", err)
	}
	parsed.DecodedData = []byte(data)
	return parsed, nil
}

// DataURICheckResult represents the result of validating a data URI
type DataURICheckResult struct {
	Valid            bool
	Error            *string
	Data             []byte
	MimeType         string // Detected mime type from content
	DeclaredMimeType string // Declared mime type in URI
}

// DataURIChecker defines the interface for checking inline NFT images
//
//go:generate mockgen -source=data_uri.go -destination=../mocks/data_uri_checker.go -package=mocks -mock_names=DataURIChecker=MockDataURIChecker
type DataURIChecker interface {
	// Check validates a data URI according to RFC 2397
	// It checks:
	// 1. Format follows RFC 2397
	// 2. Mime type is image/*
	// 3. Content matches declared mime type using magic numbers
	Check(dataURI string) DataURICheckResult
}

type dataURIChecker struct{}

// NewDataURIChecker creates a new data URI checker
func NewDataURIChecker() DataURIChecker {
	return &dataURIChecker{}
}

// Check validates a data URI
func (c *dataURIChecker) Check(dataURI string) DataURICheckResult {
	parsed, err := ParseDataURI(dataURI)
	if err != nil {
		errMsg := err.Error()
		return DataURICheckResult{
			Valid: false,
			Error: &errMsg,
		}
	}

	if !isImageMimeType(parsed.MimeType) {
		errMsg := fmt.Sprintf("unsupported mime type: %s (only image/* is supported)", parsed.MimeType)
		return DataURICheckResult{
			Valid:            false,
			Error:            &errMsg,
			DeclaredMimeType: parsed.MimeType,
		}
	}

	if len(parsed.DecodedData) == 0 {
		errMsg := "invalid data URI: empty data"
		return DataURICheckResult{
			Valid:            false,
			Error:            &errMsg,
			DeclaredMimeType: parsed.MimeType,
		}
	}

	detectedMimeType := mimetype.Detect(parsed.DecodedData).String()
	if !mimeTypesMatch(parsed.MimeType, detectedMimeType) {
		errMsg := fmt.Sprintf("mime type mismatch: declared %s but detected %s", parsed.MimeType, detectedMimeType)
		return DataURICheckResult{
			Valid:            false,
			Error:            &errMsg,
			DeclaredMimeType: parsed.MimeType,
			MimeType:         detectedMimeType,
		}
	}

	return DataURICheckResult{
		Valid:            true,
		Data:             parsed.DecodedData,
		MimeType:         detectedMimeType,
		DeclaredMimeType: parsed.MimeType,
	}
}

func isImageMimeType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// mimeTypesMatch compares mime types ignoring case and parameters.
// image/svg and image/svg+xml are treated as equivalent.
func mimeTypesMatch(declared, detected string) bool {
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	detected = strings.ToLower(strings.TrimSpace(strings.Split(detected, ";")[0]))

	if declared == detected {
		return true
	}

	return (declared == "image/svg" && detected == "image/svg+xml") ||
		(declared == "image/svg+xml" && detected == "image/svg")
}
