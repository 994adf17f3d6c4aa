package pipeline_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/media/fetcher"
	"github.com/mammothos/mamoart-backend/internal/media/pipeline"
	"github.com/mammothos/mamoart-backend/internal/mocks"
	"github.com/mammothos/mamoart-backend/internal/store"
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

const (
	gridID    = 42
	sourceURL = "https://img.example/42.png"
)

type testPipeline struct {
	ctrl       *gomock.Controller
	images     store.ImageStore
	fetcher    *mocks.MockFetcher
	rasterizer *mocks.MockRasterizer
	transcoder *mocks.MockTranscoder
	pipeline   pipeline.Pipeline
}

func setupTestPipeline(t *testing.T) *testPipeline {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	images, err := store.NewImageStore(16)
	require.NoError(t, err)

	tp := &testPipeline{
		ctrl:       ctrl,
		images:     images,
		fetcher:    mocks.NewMockFetcher(ctrl),
		rasterizer: mocks.NewMockRasterizer(ctrl),
		transcoder: mocks.NewMockTranscoder(ctrl),
	}
	tp.pipeline = pipeline.NewPipeline(&pipeline.Config{TaskTimeout: 5 * time.Second},
		images, tp.fetcher, tp.rasterizer, tp.transcoder)
	return tp
}

func pngSource() *fetcher.Source {
	return &fetcher.Source{Data: []byte("png"), MimeType: "image/png"}
}

func TestGet_NotFound(t *testing.T) {
	tp := setupTestPipeline(t)

	_, err := tp.pipeline.Get(context.Background(), gridID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tp.images.SetSourceURL(gridID, domain.UNKNOWN)
	_, err = tp.pipeline.Get(context.Background(), gridID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_CompressesAndCaches(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)

	tp.fetcher.EXPECT().Fetch(gomock.Any(), sourceURL).Return(pngSource(), nil)
	tp.transcoder.EXPECT().Transcode(gomock.Any(), []byte("png")).Return([]byte("webp"), nil)

	img, err := tp.pipeline.Get(context.Background(), gridID, domain.HashURL(sourceURL))
	require.NoError(t, err)
	assert.Equal(t, []byte("webp"), img.Data)
	assert.Equal(t, pipeline.CONTENT_TYPE_WEBP, img.ContentType)
	assert.False(t, img.CacheHit)

	// Served from cache, no second fetch
	img, err = tp.pipeline.Get(context.Background(), gridID, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("webp"), img.Data)
	assert.True(t, img.CacheHit)
}

func TestGet_VersionMismatchAfterURLChange(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)
	oldVersion := domain.HashURL(sourceURL)

	newURL := "https://img.example/42-new.png"
	tp.images.InvalidateCompressed(gridID)
	tp.images.SetSourceURL(gridID, newURL)

	_, err := tp.pipeline.Get(context.Background(), gridID, oldVersion)
	assert.ErrorIs(t, err, domain.ErrVersionMismatch)

	tp.fetcher.EXPECT().Fetch(gomock.Any(), newURL).Return(pngSource(), nil)
	tp.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any()).Return([]byte("webp-new"), nil)

	img, err := tp.pipeline.Get(context.Background(), gridID, domain.HashURL(newURL))
	require.NoError(t, err)
	assert.Equal(t, []byte("webp-new"), img.Data)
}

func TestGet_ConcurrentRequestsShareOneTask(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)

	release := make(chan struct{})
	tp.fetcher.EXPECT().
		Fetch(gomock.Any(), sourceURL).
		DoAndReturn(func(ctx context.Context, _ string) (*fetcher.Source, error) {
			<-release
			return pngSource(), nil
		}).
		Times(1)
	tp.transcoder.EXPECT().Transcode(gomock.Any(), []byte("png")).Return([]byte("webp"), nil).Times(1)

	const k = 8
	results := make([][]byte, k)
	errs := make([]error, k)
	var wg sync.WaitGroup
	for i := range k {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := tp.pipeline.Get(context.Background(), gridID, "")
			errs[i] = err
			if err == nil {
				results[i] = img.Data
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range k {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("webp"), results[i])
	}
	assert.Equal(t, 1, tp.images.CompressedLen())
}

func TestGet_FailureIsNotCached(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)

	upstreamErr := errors.Join(domain.ErrUpstreamFetchFailed, errors.New("status 404"))
	tp.fetcher.EXPECT().Fetch(gomock.Any(), sourceURL).Return(nil, upstreamErr).Times(2)

	for range 2 {
		_, err := tp.pipeline.Get(context.Background(), gridID, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCompressionFailed)
		assert.ErrorIs(t, err, domain.ErrUpstreamFetchFailed)
	}
	assert.False(t, tp.images.HasCompressed(gridID, sourceURL))
}

func TestGet_TranscodeFailure(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)

	tp.fetcher.EXPECT().Fetch(gomock.Any(), sourceURL).Return(pngSource(), nil)
	tp.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any()).Return(nil, errors.New("corrupt image"))

	_, err := tp.pipeline.Get(context.Background(), gridID, "")
	assert.ErrorIs(t, err, domain.ErrCompressionFailed)
	assert.Equal(t, 0, tp.images.CompressedLen())
}

func TestGet_RasterizesSVG(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	gomock.InOrder(
		tp.fetcher.EXPECT().Fetch(gomock.Any(), sourceURL).Return(&fetcher.Source{Data: svg, MimeType: "image/svg+xml"}, nil),
		tp.rasterizer.EXPECT().Rasterize(gomock.Any(), svg).Return([]byte("png"), nil),
		tp.transcoder.EXPECT().Transcode(gomock.Any(), []byte("png")).Return([]byte("webp"), nil),
	)

	img, err := tp.pipeline.Get(context.Background(), gridID, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("webp"), img.Data)
}

func TestGet_SVGWithoutRasterizer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	images, err := store.NewImageStore(16)
	require.NoError(t, err)
	images.SetSourceURL(gridID, sourceURL)

	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().Fetch(gomock.Any(), sourceURL).Return(&fetcher.Source{Data: []byte("<svg/>"), MimeType: "image/svg+xml"}, nil)

	p := pipeline.NewPipeline(&pipeline.Config{}, images, f, nil, mocks.NewMockTranscoder(ctrl))
	_, err = p.Get(context.Background(), gridID, "")
	assert.ErrorIs(t, err, domain.ErrCompressionFailed)
}

func TestGet_CallerCancelDoesNotAbortTask(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)

	started := make(chan struct{})
	release := make(chan struct{})
	tp.fetcher.EXPECT().
		Fetch(gomock.Any(), sourceURL).
		DoAndReturn(func(ctx context.Context, _ string) (*fetcher.Source, error) {
			close(started)
			<-release
			// The task context is detached from the first caller
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return pngSource(), nil
		})
	tp.transcoder.EXPECT().Transcode(gomock.Any(), gomock.Any()).Return([]byte("webp"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := tp.pipeline.Get(ctx, gridID, "")
		done <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		return tp.images.HasCompressed(gridID, sourceURL)
	}, time.Second, 10*time.Millisecond)

	img, err := tp.pipeline.Get(context.Background(), gridID, "")
	require.NoError(t, err)
	assert.True(t, img.CacheHit)
}

func TestGet_URLChangeWhileTaskRunning(t *testing.T) {
	tp := setupTestPipeline(t)
	tp.images.SetSourceURL(gridID, sourceURL)
	newURL := "https://img.example/42-new.png"

	started := make(chan struct{})
	release := make(chan struct{})
	tp.fetcher.EXPECT().
		Fetch(gomock.Any(), sourceURL).
		DoAndReturn(func(ctx context.Context, _ string) (*fetcher.Source, error) {
			close(started)
			<-release
			return &fetcher.Source{Data: []byte("png-old"), MimeType: "image/png"}, nil
		})
	tp.transcoder.EXPECT().Transcode(gomock.Any(), []byte("png-old")).Return([]byte("webp-old"), nil)
	tp.fetcher.EXPECT().Fetch(gomock.Any(), newURL).
		Return(&fetcher.Source{Data: []byte("png-new"), MimeType: "image/png"}, nil)
	tp.transcoder.EXPECT().Transcode(gomock.Any(), []byte("png-new")).Return([]byte("webp-new"), nil)

	oldDone := make(chan *pipeline.Image, 1)
	go func() {
		img, err := tp.pipeline.Get(context.Background(), gridID, domain.HashURL(sourceURL))
		assert.NoError(t, err)
		oldDone <- img
	}()
	<-started

	// The tile moves to a new image while the old task is still fetching
	tp.images.InvalidateCompressed(gridID)
	tp.images.SetSourceURL(gridID, newURL)

	// The new source gets its own task instead of joining the running one
	img, err := tp.pipeline.Get(context.Background(), gridID, domain.HashURL(newURL))
	require.NoError(t, err)
	assert.Equal(t, []byte("webp-new"), img.Data)

	close(release)
	old := <-oldDone
	require.NotNil(t, old)
	assert.Equal(t, []byte("webp-old"), old.Data)

	// The finished old task did not fill the cache for the stale source
	_, ok := tp.images.Compressed(gridID, sourceURL)
	assert.False(t, ok)

	img, err = tp.pipeline.Get(context.Background(), gridID, "")
	require.NoError(t, err)
	assert.True(t, img.CacheHit)
	assert.Equal(t, []byte("webp-new"), img.Data)
}
