package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/api/rest"
	"github.com/mammothos/mamoart-backend/internal/api/server"
	"github.com/mammothos/mamoart-backend/internal/config"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/indexer"
	"github.com/mammothos/mamoart-backend/internal/inventory"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/media/fetcher"
	"github.com/mammothos/mamoart-backend/internal/media/pipeline"
	"github.com/mammothos/mamoart-backend/internal/media/rasterizer"
	"github.com/mammothos/mamoart-backend/internal/media/transcoder"
	"github.com/mammothos/mamoart-backend/internal/metadata"
	"github.com/mammothos/mamoart-backend/internal/price"
	"github.com/mammothos/mamoart-backend/internal/reconciler"
	"github.com/mammothos/mamoart-backend/internal/signer"
	"github.com/mammothos/mamoart-backend/internal/store"
	"github.com/mammothos/mamoart-backend/internal/sweeper"
	"github.com/mammothos/mamoart-backend/internal/uri"
	"github.com/mammothos/mamoart-backend/internal/ws"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAppConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "mamoart-backend",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Mamoart Backend")

	if cfg.Ethereum.AdminPrivateKey == "" {
		logger.FatalCtx(ctx, "ethereum.admin_private_key is required")
	}

	// Initialize adapters
	clock := adapter.NewClock()
	indexerHTTPClient := adapter.NewHTTPClient(cfg.Indexer.Timeout, adapter.WithMaxRetryElapsed(cfg.Indexer.MaxRetryElapsed))
	imageHTTPClient := adapter.NewHTTPClient(cfg.Image.FetchTimeout)

	// Initialize stores
	grids := store.NewGridStore()
	paints := store.NewPaintStore(domain.RECENT_PAINTS_CAP)
	stats := store.NewStatsStore()
	images, err := store.NewImageStore(cfg.Image.CacheEntries)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create image store", zap.Error(err))
	}

	// Real-time hub
	hub := ws.NewHub(&ws.Config{
		MaxConnectionsPerOrigin: cfg.WebSocket.MaxConnectionsPerOrigin,
		MaxMessagesPerMinute:    cfg.WebSocket.MaxMessagesPerMinute,
		HeartbeatInterval:       cfg.WebSocket.HeartbeatInterval,
		SendQueueSize:           cfg.WebSocket.SendQueueSize,
		WriteTimeout:            cfg.WebSocket.WriteTimeout,
	}, ws.NewStoreSnapshot(grids, paints, stats), clock)

	// Reconciliation loop
	indexerClient := indexer.NewClient(indexerHTTPClient, cfg.Indexer.URL)
	normalizer := uri.NewNormalizer(&uri.Config{
		IPFSGateway:    cfg.URI.IPFSGateway,
		ArweaveGateway: cfg.URI.ArweaveGateway,
	})
	gridReconciler := reconciler.New(
		&reconciler.Config{
			Interval: cfg.Poll.Interval,
			GridSize: cfg.Grid.Size,
		},
		indexerClient,
		reconciler.NewDeriver(normalizer, cfg.Server.PublicURL),
		reconciler.Stores{
			Grids:  grids,
			Paints: paints,
			Stats:  stats,
			Images: images,
		},
		hub,
		clock,
	)

	// Paint authorization
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()

	paintSigner, err := signer.NewSigner(ethClient, &signer.Config{
		PaintContract: cfg.Ethereum.PaintContract,
		PrivateKey:    cfg.Ethereum.AdminPrivateKey,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create signer", zap.Error(err))
	}

	pricePoller := price.NewPoller(&price.Config{
		URL:      cfg.Price.URL,
		Interval: cfg.Price.Interval,
		Fallback: cfg.Price.Fallback,
	}, adapter.NewHTTPClient(cfg.Price.Interval, adapter.WithMaxRetryElapsed(cfg.Price.Interval/2)), clock)

	// NFT listing across the user's wallets
	wallets := store.NewWalletStore()
	metadataResolver, err := metadata.NewResolver(&metadata.Config{
		StargazeGraphQLURL: cfg.Metadata.StargazeGraphQLURL,
		CacheEntries:       cfg.Metadata.CacheEntries,
	}, ethClient, adapter.NewHTTPClient(cfg.Metadata.Timeout, adapter.WithMaxRetryElapsed(cfg.Metadata.Timeout)), normalizer)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create metadata resolver", zap.Error(err))
	}
	nftLister := inventory.NewLister(&inventory.Config{
		Concurrency: cfg.Metadata.Concurrency,
	}, indexerClient, wallets, metadataResolver, normalizer)

	// Image pipeline
	imageTranscoder := transcoder.NewTranscoder(&transcoder.Config{
		Size:              cfg.Image.Size,
		Quality:           cfg.Image.Quality,
		WorkerConcurrency: cfg.Image.WorkerConcurrency,
		Timeout:           cfg.Image.TranscodeTimeout,
	}, adapter.NewVipsClient())

	imagePipeline := pipeline.NewPipeline(
		&pipeline.Config{TaskTimeout: cfg.Image.TranscodeTimeout + cfg.Image.FetchTimeout},
		images,
		fetcher.NewFetcher(imageHTTPClient, uri.NewDataURIChecker(), &fetcher.Config{
			MaxInputBytes: cfg.Image.MaxInputBytes,
			Referer:       cfg.Image.Referer,
		}),
		rasterizer.NewRasterizer(adapter.NewResvgClient(), adapter.NewImageEncoder(), &rasterizer.Config{
			Width: cfg.Image.RasterWidth,
		}),
		imageTranscoder,
	)

	// HTTP surface
	handler := rest.NewHandler(&rest.Config{
		GridSize:        cfg.Grid.Size,
		PaintingStopped: cfg.Painting.Stopped(),
		PaintFeeUSD:     cfg.Painting.PaintFeeUSD,
		RepaintFeeUSD:   cfg.Painting.RepaintFeeUSD,
	}, imagePipeline, indexerClient, paintSigner, pricePoller, hub, wallets, nftLister)

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, handler, hub)

	// Start background loops and the server
	errCh := make(chan error, 3)
	sweepers := []sweeper.Sweeper{gridReconciler, pricePoller}
	var wg sync.WaitGroup
	for _, s := range sweepers {
		wg.Add(1)
		go func(s sweeper.Sweeper) {
			defer wg.Done()
			if err := s.Start(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", s.Name(), err)
			}
		}(s)
	}

	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	for _, s := range sweepers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.WarnCtx(shutdownCtx, "Failed to stop sweeper", zap.String("name", s.Name()), zap.Error(err))
		}
	}
	cancel()
	wg.Wait()

	if err := imageTranscoder.Close(); err != nil {
		logger.WarnCtx(shutdownCtx, "Failed to close transcoder", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Mamoart Backend stopped")
}
