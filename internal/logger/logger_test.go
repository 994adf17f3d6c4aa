package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/logger"
)

func TestInitialize(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))
	assert.NotNil(t, logger.Default())

	require.NoError(t, logger.Initialize(logger.Config{Debug: false}))
	assert.NotNil(t, logger.Default())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "Unknown error",
		},
		{
			name:     "single line",
			err:      errors.New("indexer unreachable"),
			expected: "indexer unreachable",
		},
		{
			name:     "multi line collapsed",
			err:      errors.New("failed to decode\n  unexpected token\tat 12"),
			expected: "failed to decode unexpected token at 12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logger.Truncate(tt.err))
		})
	}
}

func TestTruncate_LongMessage(t *testing.T) {
	msg := logger.Truncate(errors.New(strings.Repeat("x", 1000)))
	assert.Len(t, msg, 300)
}
