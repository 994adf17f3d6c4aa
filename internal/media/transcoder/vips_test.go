//go:build cgo

package transcoder_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/cshum/vipsgen/vips"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/media/transcoder"
	"github.com/mammothos/mamoart-backend/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testTranscoder struct {
	ctrl       *gomock.Controller
	vipsClient *mocks.MockVipsClient
	source     *mocks.MockVipsSource
	image      *mocks.MockVipsImage
	transcoder transcoder.Transcoder
}

func setupTestTranscoder(t *testing.T) *testTranscoder {
	ctrl := gomock.NewController(t)
	tt := &testTranscoder{
		ctrl:       ctrl,
		vipsClient: mocks.NewMockVipsClient(ctrl),
		source:     mocks.NewMockVipsSource(ctrl),
		image:      mocks.NewMockVipsImage(ctrl),
	}

	tt.vipsClient.EXPECT().Startup(gomock.Any())
	tt.transcoder = transcoder.NewTranscoder(&transcoder.Config{
		Size:              300,
		Quality:           100,
		WorkerConcurrency: 2,
		Timeout:           5 * time.Second,
	}, tt.vipsClient)

	t.Cleanup(func() {
		tt.vipsClient.EXPECT().Shutdown()
		_ = tt.transcoder.Close()
		ctrl.Finish()
	})
	return tt
}

func (tt *testTranscoder) expectLoad() {
	tt.vipsClient.EXPECT().NewSource(gomock.Any()).Return(tt.source)
	tt.source.EXPECT().Close()
	tt.vipsClient.EXPECT().NewImageFromSource(tt.source, gomock.Any()).Return(tt.image, nil)
	tt.image.EXPECT().Close()
}

func TestTranscode_LandscapeCoverCrop(t *testing.T) {
	tt := setupTestTranscoder(t)
	tt.expectLoad()

	gomock.InOrder(
		tt.image.EXPECT().Width().Return(600),
		tt.image.EXPECT().Height().Return(400),
		tt.image.EXPECT().Resize(0.75, gomock.Any()).Return(nil),
		tt.image.EXPECT().Width().Return(450),
		tt.image.EXPECT().Height().Return(300),
		tt.image.EXPECT().ExtractArea(75, 0, 300, 300).Return(nil),
		tt.image.EXPECT().WebpsaveBuffer(gomock.Any()).DoAndReturn(func(opts *vips.WebpsaveBufferOptions) ([]byte, error) {
			assert.Equal(t, 100, opts.Q)
			assert.Equal(t, vips.KeepNone, opts.Keep)
			return []byte("webp"), nil
		}),
	)

	out, err := tt.transcoder.Transcode(context.Background(), []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("webp"), out)
}

func TestTranscode_PortraitUpscale(t *testing.T) {
	tt := setupTestTranscoder(t)
	tt.expectLoad()

	gomock.InOrder(
		tt.image.EXPECT().Width().Return(100),
		tt.image.EXPECT().Height().Return(200),
		tt.image.EXPECT().Resize(3.0, gomock.Any()).Return(nil),
		tt.image.EXPECT().Width().Return(300),
		tt.image.EXPECT().Height().Return(600),
		tt.image.EXPECT().ExtractArea(0, 150, 300, 300).Return(nil),
		tt.image.EXPECT().WebpsaveBuffer(gomock.Any()).Return([]byte("webp"), nil),
	)

	_, err := tt.transcoder.Transcode(context.Background(), []byte("png"))
	require.NoError(t, err)
}

func TestTranscode_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		tt := setupTestTranscoder(t)
		_, err := tt.transcoder.Transcode(context.Background(), nil)
		require.Error(t, err)
	})

	t.Run("load failure", func(t *testing.T) {
		tt := setupTestTranscoder(t)
		tt.vipsClient.EXPECT().NewSource(gomock.Any()).Return(tt.source)
		tt.source.EXPECT().Close()
		tt.vipsClient.EXPECT().NewImageFromSource(tt.source, gomock.Any()).Return(nil, errors.New("corrupt"))

		_, err := tt.transcoder.Transcode(context.Background(), []byte("png"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load image")
	})

	t.Run("zero dimensions", func(t *testing.T) {
		tt := setupTestTranscoder(t)
		tt.expectLoad()
		tt.image.EXPECT().Width().Return(0)
		tt.image.EXPECT().Height().Return(0)

		_, err := tt.transcoder.Transcode(context.Background(), []byte("png"))
		assert.ErrorIs(t, err, transcoder.ErrInvalidDimensions)
	})

	t.Run("encode failure", func(t *testing.T) {
		tt := setupTestTranscoder(t)
		tt.expectLoad()
		tt.image.EXPECT().Width().Return(300).Times(2)
		tt.image.EXPECT().Height().Return(300).Times(2)
		tt.image.EXPECT().Resize(1.0, gomock.Any()).Return(nil)
		tt.image.EXPECT().ExtractArea(0, 0, 300, 300).Return(nil)
		tt.image.EXPECT().WebpsaveBuffer(gomock.Any()).Return(nil, errors.New("boom"))

		_, err := tt.transcoder.Transcode(context.Background(), []byte("png"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encode WebP")
	})

	t.Run("canceled before start", func(t *testing.T) {
		tt := setupTestTranscoder(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tt.transcoder.Transcode(ctx, []byte("png"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
