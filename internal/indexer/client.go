package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

// OwnedResponse is the indexer answer to an ownership lookup
type OwnedResponse struct {
	Owner string `json:"owner"`
}

// Client defines the interface for indexer operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../mocks/indexer_client.go -package=mocks -mock_names=Client=MockIndexerClient
type Client interface {
	// Grids fetches the current state of every tile
	Grids(ctx context.Context) ([]domain.RawTile, error)

	// LastPainted fetches the most recently painted tiles, most recent first
	LastPainted(ctx context.Context) ([]domain.RawTile, error)

	// Stats fetches the global paint counters
	Stats(ctx context.Context) (domain.Stats, error)

	// Grid fetches the current state of a single tile
	Grid(ctx context.Context, gridID int) (domain.RawTile, error)

	// Owner fetches the current owner of an NFT
	Owner(ctx context.Context, contract string, tokenID string) (string, error)

	// IsOnGrid reports whether an NFT is already displayed on a tile
	IsOnGrid(ctx context.Context, contract string, tokenID string) (bool, error)

	// OwnedBy fetches the NFTs held by wallet on the chain named by source
	OwnedBy(ctx context.Context, wallet string, source string) ([]domain.OwnedNFT, error)
}

// MAX_OWNED_RESPONSE_BYTES caps the owned NFT listing of a single wallet
const MAX_OWNED_RESPONSE_BYTES = 8 * 1024 * 1024

// IndexerClient implements Client over the indexer HTTP API
type IndexerClient struct {
	httpClient adapter.HTTPClient
	baseURL    string
}

// NewClient creates a new indexer client
func NewClient(httpClient adapter.HTTPClient, baseURL string) Client {
	return &IndexerClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Grids fetches the current state of every tile
func (c *IndexerClient) Grids(ctx context.Context) ([]domain.RawTile, error) {
	var items []json.RawMessage
	if err := c.httpClient.Get(ctx, c.baseURL+"/api/grids", &items); err != nil {
		return nil, fmt.Errorf("failed to fetch grids: %w", err)
	}
	return decodeTiles(ctx, items), nil
}

// LastPainted fetches the most recently painted tiles
func (c *IndexerClient) LastPainted(ctx context.Context) ([]domain.RawTile, error) {
	var items []json.RawMessage
	if err := c.httpClient.Get(ctx, c.baseURL+"/api/last-painted", &items); err != nil {
		return nil, fmt.Errorf("failed to fetch last painted: %w", err)
	}
	return decodeTiles(ctx, items), nil
}

// Stats fetches the global paint counters
func (c *IndexerClient) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	if err := c.httpClient.Get(ctx, c.baseURL+"/api/stats", &stats); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to fetch stats: %w", err)
	}
	return stats, nil
}

// Grid fetches the current state of a single tile
func (c *IndexerClient) Grid(ctx context.Context, gridID int) (domain.RawTile, error) {
	var tile domain.RawTile
	if err := c.httpClient.Get(ctx, fmt.Sprintf("%s/api/grid/%d", c.baseURL, gridID), &tile); err != nil {
		return domain.RawTile{}, fmt.Errorf("failed to fetch grid %d: %w", gridID, err)
	}
	return tile.Sanitize(), nil
}

// Owner fetches the current owner of an NFT, lowercased
func (c *IndexerClient) Owner(ctx context.Context, contract string, tokenID string) (string, error) {
	var resp OwnedResponse
	endpoint := fmt.Sprintf("%s/api/owned/%s/%s", c.baseURL, url.PathEscape(contract), url.PathEscape(tokenID))
	if err := c.httpClient.Get(ctx, endpoint, &resp); err != nil {
		return "", fmt.Errorf("failed to fetch owner: %w", err)
	}
	return strings.ToLower(resp.Owner), nil
}

// IsOnGrid reports whether an NFT is already displayed on a tile
func (c *IndexerClient) IsOnGrid(ctx context.Context, contract string, tokenID string) (bool, error) {
	var onGrid any
	endpoint := fmt.Sprintf("%s/api/grids/with-nft/%s/%s", c.baseURL, url.PathEscape(contract), url.PathEscape(tokenID))
	if err := c.httpClient.Get(ctx, endpoint, &onGrid); err != nil {
		return false, fmt.Errorf("failed to fetch grid usage: %w", err)
	}
	return truthy(onGrid), nil
}

// OwnedBy fetches the NFTs held by wallet. Entries without a contract or a
// usable token id are skipped.
func (c *IndexerClient) OwnedBy(ctx context.Context, wallet string, source string) ([]domain.OwnedNFT, error) {
	headers := http.Header{}
	headers.Set("x-source", source)

	endpoint := fmt.Sprintf("%s/api/owned-by/%s", c.baseURL, url.PathEscape(wallet))
	body, err := c.httpClient.GetBytes(ctx, endpoint, headers, MAX_OWNED_RESPONSE_BYTES)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owned NFTs: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode owned NFTs: %w", err)
	}

	nfts := make([]domain.OwnedNFT, 0, len(items))
	for i, item := range items {
		var nft domain.OwnedNFT
		if err := json.Unmarshal(item, &nft); err != nil || nft.Contract == "" || nft.TokenID == "" {
			logger.WarnCtx(ctx, "Skipping unusable owned NFT",
				zap.String("wallet", wallet),
				zap.Int("index", i))
			continue
		}
		nfts = append(nfts, nft)
	}
	return nfts, nil
}

// decodeTiles decodes each tile on its own so one malformed entry only drops itself
func decodeTiles(ctx context.Context, items []json.RawMessage) []domain.RawTile {
	tiles := make([]domain.RawTile, 0, len(items))
	for i, item := range items {
		var tile domain.RawTile
		if err := json.Unmarshal(item, &tile); err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable tile",
				zap.Int("index", i),
				zap.String("error", logger.Truncate(err)))
			continue
		}
		tiles = append(tiles, tile.Sanitize())
	}
	return tiles
}

// truthy mirrors how the indexer encodes presence: a boolean, or any non-empty value
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
