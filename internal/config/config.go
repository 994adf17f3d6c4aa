package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// PublicURL is the externally reachable base URL used for rehosted image links
	PublicURL string `mapstructure:"public_url"`
}

// IndexerConfig holds the external indexer configuration
type IndexerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetryElapsed bounds retries of a failed request, it must stay below poll.interval
	MaxRetryElapsed time.Duration `mapstructure:"max_retry_elapsed"`
}

// GridConfig holds canvas configuration
type GridConfig struct {
	// Size is the number of tiles, ids are in [0, Size)
	Size int `mapstructure:"size"`
}

// PollConfig holds reconciliation loop configuration
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// WebSocketConfig holds real-time connection configuration
type WebSocketConfig struct {
	MaxConnectionsPerOrigin int           `mapstructure:"max_connections_per_origin"`
	MaxMessagesPerMinute    int           `mapstructure:"max_messages_per_minute"`
	HeartbeatInterval       time.Duration `mapstructure:"heartbeat_interval"`
	SendQueueSize           int           `mapstructure:"send_queue_size"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout"`
}

// ImageConfig holds image delivery configuration
type ImageConfig struct {
	Size              int           `mapstructure:"size"`
	Quality           int           `mapstructure:"quality"`
	CacheEntries      int           `mapstructure:"cache_entries"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	TranscodeTimeout  time.Duration `mapstructure:"transcode_timeout"`
	WorkerConcurrency int           `mapstructure:"worker_concurrency"`
	MaxInputBytes     int64         `mapstructure:"max_input_bytes"`
	Referer           string        `mapstructure:"referer"`
	// RasterWidth is the width SVG sources are rendered at before transcoding
	RasterWidth int `mapstructure:"raster_width"`
}

// URIConfig holds gateway configuration for decentralized storage schemes
type URIConfig struct {
	IPFSGateway    string `mapstructure:"ipfs_gateway"`
	ArweaveGateway string `mapstructure:"arweave_gateway"`
}

// EthereumConfig holds the paint contract configuration
type EthereumConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	PaintContract   string `mapstructure:"paint_contract"`
	AdminPrivateKey string `mapstructure:"admin_private_key"`
}

// PaintingConfig holds paint authorization configuration
type PaintingConfig struct {
	// Status disables signing when set to "stopped"
	Status        string  `mapstructure:"status"`
	PaintFeeUSD   float64 `mapstructure:"paint_fee_usd"`
	RepaintFeeUSD float64 `mapstructure:"repaint_fee_usd"`
}

// Stopped reports whether painting is currently disabled
func (c PaintingConfig) Stopped() bool {
	return strings.EqualFold(c.Status, "stopped")
}

// PriceConfig holds price feed configuration
type PriceConfig struct {
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
	Fallback float64       `mapstructure:"fallback"`
}

// MetadataConfig holds NFT metadata resolution configuration
type MetadataConfig struct {
	StargazeGraphQLURL string        `mapstructure:"stargaze_graphql_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	CacheEntries       int           `mapstructure:"cache_entries"`
	Concurrency        int           `mapstructure:"concurrency"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AppConfig holds configuration for the backend server
type AppConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Indexer    IndexerConfig   `mapstructure:"indexer"`
	Grid       GridConfig      `mapstructure:"grid"`
	Poll       PollConfig      `mapstructure:"poll"`
	WebSocket  WebSocketConfig `mapstructure:"ws"`
	Image      ImageConfig     `mapstructure:"image"`
	URI        URIConfig       `mapstructure:"uri"`
	Ethereum   EthereumConfig  `mapstructure:"ethereum"`
	Painting   PaintingConfig  `mapstructure:"painting"`
	Price      PriceConfig     `mapstructure:"price"`
	Metadata   MetadataConfig  `mapstructure:"metadata"`
	CORS       CORSConfig      `mapstructure:"cors"`
}

// LoadAppConfig loads configuration for the backend server
func LoadAppConfig(configFile string, envPath string) (*AppConfig, error) {
	v := configureViper("server", configFile, envPath)

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4444)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.public_url", "http://localhost:4444")
	v.SetDefault("indexer.timeout", "10s")
	v.SetDefault("indexer.max_retry_elapsed", "2s")
	v.SetDefault("grid.size", 1500)
	v.SetDefault("poll.interval", "2500ms")
	v.SetDefault("ws.max_connections_per_origin", 5)
	v.SetDefault("ws.max_messages_per_minute", 15)
	v.SetDefault("ws.heartbeat_interval", "30s")
	v.SetDefault("ws.send_queue_size", 16)
	v.SetDefault("ws.write_timeout", "10s")
	v.SetDefault("image.size", 300)
	v.SetDefault("image.quality", 100)
	v.SetDefault("image.cache_entries", 4096)
	v.SetDefault("image.fetch_timeout", "20s")
	v.SetDefault("image.transcode_timeout", "30s")
	v.SetDefault("image.worker_concurrency", 4)
	v.SetDefault("image.max_input_bytes", 50*1024*1024) // 50MB
	v.SetDefault("image.referer", "https://art.mammothos.xyz")
	v.SetDefault("image.raster_width", 600)
	v.SetDefault("uri.ipfs_gateway", "https://ipfs.io")
	v.SetDefault("uri.arweave_gateway", "https://arweave.net")
	v.SetDefault("ethereum.rpc_url", "https://rpc.forma.art")
	v.SetDefault("ethereum.paint_contract", "0xE8c4B5f422B5B227A76Be53a1b82a8Df2263Fa8E")
	v.SetDefault("painting.status", "active")
	v.SetDefault("painting.paint_fee_usd", 0.10)
	v.SetDefault("painting.repaint_fee_usd", 0.15)
	v.SetDefault("price.url", "https://api.coinlore.net/api/ticker/?id=136105")
	v.SetDefault("price.interval", "10s")
	v.SetDefault("price.fallback", 3)
	v.SetDefault("metadata.stargaze_graphql_url", "https://graphql.mainnet.stargaze-apis.com/graphql")
	v.SetDefault("metadata.timeout", "10s")
	v.SetDefault("metadata.cache_entries", 8192)
	v.SetDefault("metadata.concurrency", 8)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and value ranges
func (c *AppConfig) Validate() error {
	if c.Indexer.URL == "" {
		return errors.New("indexer.url is required")
	}
	if c.Grid.Size <= 0 {
		return errors.New("grid.size must be positive")
	}
	if c.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if c.Indexer.MaxRetryElapsed >= c.Poll.Interval {
		return errors.New("indexer.max_retry_elapsed must be below poll.interval")
	}
	if c.WebSocket.MaxConnectionsPerOrigin <= 0 {
		return errors.New("ws.max_connections_per_origin must be positive")
	}
	if c.WebSocket.HeartbeatInterval <= 0 {
		return errors.New("ws.heartbeat_interval must be positive")
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return errors.New("image.quality must be between 1 and 100")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("MAMOART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.public_url",
		// Indexer
		"indexer.url",
		"indexer.timeout",
		"indexer.max_retry_elapsed",
		// Grid & polling
		"grid.size",
		"poll.interval",
		// WebSocket
		"ws.max_connections_per_origin",
		"ws.max_messages_per_minute",
		"ws.heartbeat_interval",
		"ws.send_queue_size",
		"ws.write_timeout",
		// Image
		"image.size",
		"image.quality",
		"image.cache_entries",
		"image.fetch_timeout",
		"image.transcode_timeout",
		"image.worker_concurrency",
		"image.max_input_bytes",
		"image.referer",
		"image.raster_width",
		// URI
		"uri.ipfs_gateway",
		"uri.arweave_gateway",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.paint_contract",
		"ethereum.admin_private_key",
		// Painting
		"painting.status",
		"painting.paint_fee_usd",
		"painting.repaint_fee_usd",
		// Price
		"price.url",
		"price.interval",
		"price.fallback",
		// Metadata
		"metadata.stargaze_graphql_url",
		"metadata.timeout",
		"metadata.cache_entries",
		"metadata.concurrency",
		// CORS
		"cors.allowed_origins",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
