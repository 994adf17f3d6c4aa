package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/uri"
)

// erc721ABI is the ERC-721 fragment used to read the metadata URI of a token
const erc721ABI = `[{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`

// stargazeTokenQuery selects the metadata of the token at an offset of a collection.
// Stargaze ids start at 1 so token n sits at offset n-1.
const stargazeTokenQuery = `query($collectionAddr: String!, $offset: Int!) {
  tokens(collectionAddr: $collectionAddr, limit: 1, offset: $offset) {
    tokens {
      metadata
    }
  }
}`

const (
	// DefaultCacheEntries bounds the metadata cache when no size is configured
	DefaultCacheEntries = 8192

	// MAX_DOCUMENT_BYTES caps a metadata document fetched over HTTP
	MAX_DOCUMENT_BYTES = 2 * 1024 * 1024
)

// ErrUnresolvable is returned when no usable metadata document exists for a token
var ErrUnresolvable = errors.New("metadata unresolvable")

// Resolver resolves the metadata document of an NFT from its origin chain
//
//go:generate mockgen -source=resolver.go -destination=../mocks/metadata_resolver.go -package=mocks -mock_names=Resolver=MockMetadataResolver
type Resolver interface {
	// Resolve returns the metadata of contract's tokenID. Stargaze collections
	// are read from the Stargaze API, anything else from the ERC-721 tokenURI.
	Resolve(ctx context.Context, contract string, tokenID domain.TokenID) (domain.Metadata, error)
}

// Config holds configuration for the resolver
type Config struct {
	StargazeGraphQLURL string
	CacheEntries       int
}

type resolver struct {
	config     Config
	eth        adapter.EthClient
	httpClient adapter.HTTPClient
	normalizer uri.Normalizer
	abi        abi.ABI
	cache      *lru.Cache[string, domain.Metadata]
	inflight   singleflight.Group
}

// NewResolver creates a resolver. Resolved documents are cached, failures are retried on the next call.
func NewResolver(cfg *Config, eth adapter.EthClient, httpClient adapter.HTTPClient, normalizer uri.Normalizer) (Resolver, error) {
	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	if _, err := parser.ParseQuery(&ast.Source{Name: "stargaze", Input: stargazeTokenQuery}); err != nil {
		return nil, fmt.Errorf("invalid Stargaze query: %w", err)
	}

	entries := cfg.CacheEntries
	if entries <= 0 {
		entries = DefaultCacheEntries
	}
	cache, err := lru.New[string, domain.Metadata](entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	return &resolver{
		config:     *cfg,
		eth:        eth,
		httpClient: httpClient,
		normalizer: normalizer,
		abi:        parsed,
		cache:      cache,
	}, nil
}

// CacheKey returns the cache key of a token's metadata
func CacheKey(contract string, tokenID domain.TokenID) string {
	return strings.ToLower(contract) + ":" + tokenID.String()
}

func (r *resolver) Resolve(ctx context.Context, contract string, tokenID domain.TokenID) (domain.Metadata, error) {
	key := CacheKey(contract, tokenID)
	if m, ok := r.cache.Get(key); ok {
		return m, nil
	}

	v, err, _ := r.inflight.Do(key, func() (any, error) {
		var m domain.Metadata
		var err error
		if strings.HasPrefix(contract, domain.STARGAZE_ADDRESS_PREFIX) {
			m, err = r.fromStargaze(ctx, contract, tokenID)
		} else {
			m, err = r.fromTokenURI(ctx, contract, tokenID)
		}
		if err != nil {
			return domain.Metadata(""), err
		}
		r.cache.Add(key, m)
		return m, nil
	})
	if err != nil {
		logger.WarnCtx(ctx, "Failed to resolve NFT metadata",
			zap.String("contract", contract),
			zap.String("tokenId", tokenID.String()),
			zap.String("error", logger.Truncate(err)),
		)
		return "", err
	}
	return v.(domain.Metadata), nil
}

// fromTokenURI reads tokenURI from the contract and loads the document it points to
func (r *resolver) fromTokenURI(ctx context.Context, contract string, tokenID domain.TokenID) (domain.Metadata, error) {
	if !common.IsHexAddress(contract) {
		return "", fmt.Errorf("%w: invalid contract address %q", ErrUnresolvable, contract)
	}
	id, ok := new(big.Int).SetString(tokenID.String(), 10)
	if !ok {
		return "", fmt.Errorf("%w: invalid token id %q", ErrUnresolvable, tokenID)
	}

	data, err := r.abi.Pack("tokenURI", id)
	if err != nil {
		return "", fmt.Errorf("failed to pack tokenURI call: %w", err)
	}

	to := common.HexToAddress(contract)
	result, err := r.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call tokenURI: %w", err)
	}

	out, err := r.abi.Unpack("tokenURI", result)
	if err != nil || len(out) == 0 {
		return "", fmt.Errorf("%w: undecodable tokenURI result", ErrUnresolvable)
	}
	tokenURI, _ := out[0].(string)

	doc, err := r.loadDocument(ctx, tokenURI)
	if err != nil {
		return "", err
	}
	return decodeDocument(doc)
}

// loadDocument returns the bytes tokenURI refers to, inline data URIs included
func (r *resolver) loadDocument(ctx context.Context, tokenURI string) ([]byte, error) {
	tokenURI = strings.TrimSpace(tokenURI)
	if tokenURI == "" {
		return nil, fmt.Errorf("%w: empty tokenURI", ErrUnresolvable)
	}

	if uri.IsDataURI(tokenURI) {
		parsed, err := uri.ParseDataURI(tokenURI)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnresolvable, err)
		}
		return parsed.DecodedData, nil
	}

	target := r.normalizer.Normalize(tokenURI)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return nil, fmt.Errorf("%w: unsupported tokenURI scheme", ErrUnresolvable)
	}

	body, err := r.httpClient.GetBytes(ctx, target, nil, MAX_DOCUMENT_BYTES)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata document: %w", err)
	}
	return body, nil
}

type stargazeResponse struct {
	Data struct {
		Tokens struct {
			Tokens []struct {
				Metadata json.RawMessage `json:"metadata"`
			} `json:"tokens"`
		} `json:"tokens"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// fromStargaze queries the Stargaze API for the token's metadata
func (r *resolver) fromStargaze(ctx context.Context, contract string, tokenID domain.TokenID) (domain.Metadata, error) {
	id, ok := new(big.Int).SetString(tokenID.String(), 10)
	if !ok || id.Sign() <= 0 || id.Cmp(big.NewInt(math.MaxInt32)) > 0 {
		return "", fmt.Errorf("%w: token id %q has no Stargaze offset", ErrUnresolvable, tokenID)
	}

	request := map[string]any{
		"query": stargazeTokenQuery,
		"variables": map[string]any{
			"collectionAddr": contract,
			"offset":         id.Int64() - 1,
		},
	}

	var resp stargazeResponse
	if err := r.httpClient.PostJSON(ctx, r.config.StargazeGraphQLURL, request, &resp); err != nil {
		return "", fmt.Errorf("failed to query Stargaze: %w", err)
	}
	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("stargaze query failed: %s", resp.Errors[0].Message)
	}

	tokens := resp.Data.Tokens.Tokens
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: token not found on Stargaze", ErrUnresolvable)
	}
	return decodeDocument(tokens[0].Metadata)
}

// decodeDocument turns a metadata document, object or JSON string, into canonical Metadata
func decodeDocument(doc []byte) (domain.Metadata, error) {
	var m domain.Metadata
	if err := json.Unmarshal(doc, &m); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnresolvable, err)
	}
	if _, _, err := m.Document(); err != nil {
		return "", fmt.Errorf("%w: document is not a JSON object", ErrUnresolvable)
	}
	return m, nil
}
