package domain

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/gowebpki/jcs"
)

// Metadata is the NFT metadata document attached to a tile, kept as a JSON string.
// The indexer sends it either as a string or as an embedded object; objects are
// canonicalized (RFC 8785) so equal documents always produce equal strings.
type Metadata string

// UnmarshalJSON implements json.Unmarshaler
func (m *Metadata) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode metadata string: %w", err)
		}
		*m = Metadata(s)
		return nil
	}

	canonical, err := jcs.Transform(data)
	if err != nil {
		// Unusable documents degrade to empty metadata, names fall back to UNKNOWN
		*m = ""
		return nil //nolint:nilerr
	}
	*m = Metadata(canonical)
	return nil
}

// String returns the string representation of the metadata
func (m Metadata) String() string {
	return string(m)
}

// Document parses the metadata and returns its name and image fields.
// Missing or non-string fields are returned as empty strings.
func (m Metadata) Document() (name string, image string, err error) {
	var doc struct {
		Name  any `json:"name"`
		Image any `json:"image"`
	}
	if err := json.Unmarshal([]byte(m), &doc); err != nil {
		return "", "", err
	}
	name, _ = doc.Name.(string)
	image, _ = doc.Image.(string)
	return name, image, nil
}

// maxSafeJSONInteger is the largest integer JavaScript clients read back exactly
const maxSafeJSONInteger = 1<<53 - 1

// TokenID is an NFT token id kept as a decimal string so uint256 ids survive.
// The indexer sends it as a JSON number or a string; anything that is not a
// non-negative integer decodes to the empty sentinel instead of failing.
type TokenID string

// UnmarshalJSON implements json.Unmarshaler
func (t *TokenID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = ""
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil //nolint:nilerr
		}
		raw = strings.TrimSpace(raw)
	}

	n, ok := new(big.Int).SetString(raw, 10)
	if !ok || n.Sign() < 0 {
		return nil
	}
	*t = TokenID(n.String())
	return nil
}

// MarshalJSON emits a number while it stays exact for JavaScript, a string beyond that
func (t TokenID) MarshalJSON() ([]byte, error) {
	n, ok := new(big.Int).SetString(t.String(), 10)
	if !ok {
		return []byte("0"), nil
	}
	if n.IsInt64() && n.Int64() <= maxSafeJSONInteger {
		return []byte(strconv.FormatInt(n.Int64(), 10)), nil
	}
	return json.Marshal(n.String())
}

// String returns the decimal token id, "0" when unknown
func (t TokenID) String() string {
	if t == "" {
		return "0"
	}
	return string(t)
}

// RawTile is a tile as reported by the indexer
type RawTile struct {
	GridID     int      `json:"gridId"`
	NFTAddress string   `json:"nftAddress"`
	TokenID    TokenID  `json:"tokenId"`
	Metadata   Metadata `json:"metadata"`
	Painter    string   `json:"painter"`
	Block      int64    `json:"block"`
	TxHash     string   `json:"txHash"`
	PaintedAt  string   `json:"paintedAt"`
}

// Sanitize fills missing fields with their sentinels
func (r RawTile) Sanitize() RawTile {
	if strings.TrimSpace(r.Painter) == "" {
		r.Painter = ETHEREUM_ZERO_ADDRESS
	}
	return r
}

// Painted reports whether the tile has been painted by a non-zero address
func (r RawTile) Painted() bool {
	return !IsZeroAddress(r.Painter)
}

// Tile is a grid cell with the fields derived from its raw indexer state.
// It only carries comparable fields so two tiles can be compared with ==.
type Tile struct {
	GridID          int     `json:"gridId"`
	IsOwned         bool    `json:"isOwned"`
	NFTName         string  `json:"nftName"`
	NFTImage        string  `json:"nftImage"`
	NFTImageFromMOS string  `json:"nftImageFromMOS"`
	NFTAddress      string  `json:"nftAddress"`
	TokenID         TokenID `json:"tokenId"`
	Metadata        string  `json:"metadata"`
	NFTLink         string  `json:"nftLink"`
	Painter         string  `json:"painter"`
	Block           int64   `json:"block"`
	TxHash          string  `json:"txHash"`
	PaintedAt       string  `json:"paintedAt"`
}

// OwnedNFT is an NFT the indexer reports as held by a wallet
type OwnedNFT struct {
	Contract string  `json:"contract"`
	TokenID  TokenID `json:"tokenId"`
}

// Stats holds the global paint counters
type Stats struct {
	TotalPaints      int64 `json:"totalPaints"`
	TotalUniqueUsers int64 `json:"totalUniqueUsers"`
}

// IsZeroAddress reports whether address is the zero address
func IsZeroAddress(address string) bool {
	return strings.EqualFold(strings.TrimSpace(address), ETHEREUM_ZERO_ADDRESS)
}

// NFTLink returns the marketplace or explorer page of an NFT
func NFTLink(nftAddress string, tokenID TokenID) string {
	if strings.HasPrefix(nftAddress, STARGAZE_ADDRESS_PREFIX) {
		return fmt.Sprintf("%s/%s/%s", STARGAZE_NFT_URL, nftAddress, tokenID)
	}
	return fmt.Sprintf("%s/%s/instance/%s", FORMA_EXPLORER_URL, nftAddress, tokenID)
}

// HashURL returns a short deterministic version token for url.
// It is used to version cache keys and image links, not for security.
func HashURL(url string) string {
	sum := sha1.Sum([]byte(url)) //nolint:gosec
	return hex.EncodeToString(sum[:])[:10]
}
