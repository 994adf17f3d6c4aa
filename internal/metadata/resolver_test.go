package metadata_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/metadata"
	"github.com/mammothos/mamoart-backend/internal/mocks"
	"github.com/mammothos/mamoart-backend/internal/uri"
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
	nftAddress  = "0x1111111111111111111111111111111111111111"
	stargazeURL = "https://graphql.stargaze.example/graphql"
	collection  = "stars1collection"
)

var tokenURISelector = crypto.Keccak256([]byte("tokenURI(uint256)"))[:4]

type testResolver struct {
	eth      *mocks.MockEthClient
	http     *mocks.MockHTTPClient
	resolver metadata.Resolver
}

func setupTestResolver(t *testing.T) *testResolver {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tr := &testResolver{
		eth:  mocks.NewMockEthClient(ctrl),
		http: mocks.NewMockHTTPClient(ctrl),
	}
	r, err := metadata.NewResolver(&metadata.Config{StargazeGraphQLURL: stargazeURL, CacheEntries: 16},
		tr.eth, tr.http, uri.NewNormalizer(nil))
	require.NoError(t, err)
	tr.resolver = r
	return tr
}

// tokenURIResult ABI-encodes the string returned by tokenURI
func tokenURIResult(t *testing.T, value string) []byte {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	out, err := abi.Arguments{{Type: stringType}}.Pack(value)
	require.NoError(t, err)
	return out
}

func (tr *testResolver) expectTokenURI(t *testing.T, tokenID int64, value string) {
	tr.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.NotNil(t, msg.To)
			assert.Equal(t, common.HexToAddress(nftAddress), *msg.To)
			want := append(append([]byte{}, tokenURISelector...), common.LeftPadBytes(big.NewInt(tokenID).Bytes(), 32)...)
			assert.Equal(t, want, msg.Data)
			return tokenURIResult(t, value), nil
		})
}

func TestResolve_TokenURIOverHTTPIsCached(t *testing.T) {
	tr := setupTestResolver(t)
	ctx := context.Background()

	tr.expectTokenURI(t, 5, "ipfs://QmMeta/5.json")
	tr.http.EXPECT().
		GetBytes(gomock.Any(), "https://ipfs.io/ipfs/QmMeta/5.json", gomock.Nil(), int64(metadata.MAX_DOCUMENT_BYTES)).
		Return([]byte(`{"name":"Cat #5","image":"ipfs://QmImg/5.png"}`), nil).
		Times(1)

	m, err := tr.resolver.Resolve(ctx, nftAddress, "5")
	require.NoError(t, err)
	name, image, err := m.Document()
	require.NoError(t, err)
	assert.Equal(t, "Cat #5", name)
	assert.Equal(t, "ipfs://QmImg/5.png", image)

	// Differently cased contract hits the same entry
	again, err := tr.resolver.Resolve(ctx, "0x1111111111111111111111111111111111111111", "5")
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestResolve_InlineDataURI(t *testing.T) {
	tr := setupTestResolver(t)

	doc := base64.StdEncoding.EncodeToString([]byte(`{"name":"Onchain","image":"data:image/svg+xml;base64,PHN2Zy8+"}`))
	tr.expectTokenURI(t, 1, "data:application/json;base64,"+doc)

	m, err := tr.resolver.Resolve(context.Background(), nftAddress, "1")
	require.NoError(t, err)
	name, _, err := m.Document()
	require.NoError(t, err)
	assert.Equal(t, "Onchain", name)
}

func TestResolve_FailuresAreNotCached(t *testing.T) {
	tr := setupTestResolver(t)
	ctx := context.Background()

	tr.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("execution reverted"))

	_, err := tr.resolver.Resolve(ctx, nftAddress, "2")
	require.Error(t, err)

	tr.expectTokenURI(t, 2, "https://meta.example/2")
	tr.http.EXPECT().
		GetBytes(gomock.Any(), "https://meta.example/2", gomock.Nil(), gomock.Any()).
		Return([]byte(`{"name":"Two"}`), nil)

	m, err := tr.resolver.Resolve(ctx, nftAddress, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.Metadata(`{"name":"Two"}`), m)
}

func TestResolve_Unresolvable(t *testing.T) {
	tests := []struct {
		name     string
		contract string
		tokenID  domain.TokenID
		setup    func(t *testing.T, tr *testResolver)
	}{
		{
			name:     "not an address",
			contract: "0xnope",
			tokenID:  "1",
		},
		{
			name:     "unknown token id",
			contract: nftAddress,
			tokenID:  "",
			setup: func(t *testing.T, tr *testResolver) {
				// An unknown id reads as token 0
				tr.expectTokenURI(t, 0, "")
			},
		},
		{
			name:     "unsupported scheme",
			contract: nftAddress,
			tokenID:  "3",
			setup: func(t *testing.T, tr *testResolver) {
				tr.expectTokenURI(t, 3, "ftp://meta.example/3")
			},
		},
		{
			name:     "document is not an object",
			contract: nftAddress,
			tokenID:  "4",
			setup: func(t *testing.T, tr *testResolver) {
				tr.expectTokenURI(t, 4, "https://meta.example/4")
				tr.http.EXPECT().GetBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte(`[1,2]`), nil)
			},
		},
		{
			name:     "stargaze token zero has no offset",
			contract: collection,
			tokenID:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := setupTestResolver(t)
			if tt.setup != nil {
				tt.setup(t, tr)
			}

			_, err := tr.resolver.Resolve(context.Background(), tt.contract, tt.tokenID)
			assert.ErrorIs(t, err, metadata.ErrUnresolvable)
		})
	}
}

func TestResolve_Stargaze(t *testing.T) {
	tr := setupTestResolver(t)

	tr.http.EXPECT().
		PostJSON(gomock.Any(), stargazeURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body interface{}, result interface{}) error {
			payload, err := json.Marshal(body)
			require.NoError(t, err)

			var req struct {
				Query     string `json:"query"`
				Variables struct {
					CollectionAddr string `json:"collectionAddr"`
					Offset         int64  `json:"offset"`
				} `json:"variables"`
			}
			require.NoError(t, json.Unmarshal(payload, &req))
			assert.Contains(t, req.Query, "tokens(collectionAddr: $collectionAddr, limit: 1, offset: $offset)")
			assert.Equal(t, collection, req.Variables.CollectionAddr)
			assert.Equal(t, int64(41), req.Variables.Offset)

			return json.Unmarshal([]byte(`{"data":{"tokens":{"tokens":[{"metadata":{"name":"Star","image":"ipfs://QmStar"}}]}}}`), result)
		})

	m, err := tr.resolver.Resolve(context.Background(), collection, "42")
	require.NoError(t, err)
	assert.Equal(t, domain.Metadata(`{"image":"ipfs://QmStar","name":"Star"}`), m)
}

func TestResolve_StargazeErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "graphql error", response: `{"errors":[{"message":"collection not found"}]}`},
		{name: "no token", response: `{"data":{"tokens":{"tokens":[]}}}`},
		{name: "null metadata", response: `{"data":{"tokens":{"tokens":[{"metadata":null}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := setupTestResolver(t)
			tr.http.EXPECT().
				PostJSON(gomock.Any(), stargazeURL, gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, _ interface{}, result interface{}) error {
					return json.Unmarshal([]byte(tt.response), result)
				})

			_, err := tr.resolver.Resolve(context.Background(), collection, "1")
			assert.Error(t, err)
		})
	}
}
