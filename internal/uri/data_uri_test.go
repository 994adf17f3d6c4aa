package uri_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/uri"
)

// 1x1 red pixel
var pngData = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52, // IHDR chunk
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
	0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
	0x54, 0x08, 0xD7, 0x63, 0xF8, 0xCF, 0xC0, 0x00,
	0x00, 0x03, 0x01, 0x01, 0x00, 0x18, 0xDD, 0x8D,
	0xB4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
	0x44, 0xAE, 0x42, 0x60, 0x82,
}

const svgData = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><circle cx="50" cy="50" r="40" fill="red"/></svg>`

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name         string
		dataURI      string
		expectMime   string
		expectBase64 bool
		expectData   []byte
		expectErr    bool
	}{
		{
			name:         "base64 png",
			dataURI:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData),
			expectMime:   "image/png",
			expectBase64: true,
			expectData:   pngData,
		},
		{
			name:       "url-encoded svg",
			dataURI:    "data:image/svg+xml,%3Csvg%3E%3C%2Fsvg%3E",
			expectMime: "image/svg+xml",
			expectData: []byte("<svg></svg>"),
		},
		{
			name:       "default mime type",
			dataURI:    "data:,hello",
			expectMime: "text/plain",
			expectData: []byte("hello"),
		},
		{
			name:         "unpadded base64",
			dataURI:      "data:text/plain;base64,aGk",
			expectMime:   "text/plain",
			expectBase64: true,
			expectData:   []byte("hi"),
		},
		{
			name:      "missing prefix",
			dataURI:   "image/png;base64,AAAA",
			expectErr: true,
		},
		{
			name:      "missing comma",
			dataURI:   "data:image/png;base64",
			expectErr: true,
		},
		{
			name:      "invalid base64",
			dataURI:   "data:image/png;base64,!!!invalid!!!",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := uri.ParseDataURI(tt.dataURI)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectMime, parsed.MimeType)
			assert.Equal(t, tt.expectBase64, parsed.Base64)
			assert.Equal(t, tt.expectData, parsed.DecodedData)
		})
	}
}

func TestDataURIChecker_Check(t *testing.T) {
	checker := uri.NewDataURIChecker()
	validPNGBase64 := base64.StdEncoding.EncodeToString(pngData)
	validSVGBase64 := base64.StdEncoding.EncodeToString([]byte(svgData))

	tests := []struct {
		name           string
		dataURI        string
		expectValid    bool
		expectMimeType string
	}{
		{
			name:           "valid PNG",
			dataURI:        "data:image/png;base64," + validPNGBase64,
			expectValid:    true,
			expectMimeType: "image/png",
		},
		{
			name:           "valid SVG",
			dataURI:        "data:image/svg+xml;base64," + validSVGBase64,
			expectValid:    true,
			expectMimeType: "image/svg+xml",
		},
		{
			name:           "SVG declared without +xml",
			dataURI:        "data:image/svg;base64," + validSVGBase64,
			expectValid:    true,
			expectMimeType: "image/svg+xml",
		},
		{
			name:           "case insensitive mime type",
			dataURI:        "data:IMAGE/PNG;base64," + validPNGBase64,
			expectValid:    true,
			expectMimeType: "image/png",
		},
		{
			name:        "text is not an image",
			dataURI:     "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
			expectValid: false,
		},
		{
			name:           "declared PNG but content is text",
			dataURI:        "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
			expectValid:    false,
			expectMimeType: "text/plain; charset=utf-8",
		},
		{
			name:        "empty data",
			dataURI:     "data:image/png;base64,",
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checker.Check(tt.dataURI)
			assert.Equal(t, tt.expectValid, result.Valid, "Valid mismatch")
			if tt.expectValid {
				assert.Nil(t, result.Error)
				assert.NotEmpty(t, result.Data)
			} else {
				assert.NotNil(t, result.Error)
			}
			if tt.expectMimeType != "" {
				assert.Equal(t, tt.expectMimeType, result.MimeType)
			}
		})
	}
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, uri.IsDataURI("data:image/png;base64,AAAA"))
	assert.False(t, uri.IsDataURI("https://example.com/a.png"))
	assert.False(t, uri.IsDataURI("unknown"))
}
