package rest

import (
	"encoding/json"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

// CreateSignatureRequest is the body of POST /createTx/signature
type CreateSignatureRequest struct {
	// User is the wallet that will send the paint transaction
	User string `json:"user" binding:"required"`

	// OwnershipSignature is User's personal signature of the ownership message
	OwnershipSignature string `json:"ownershipSignature" binding:"required"`

	GridID json.Number `json:"gridId" binding:"required"`

	// NFTAddress is the contract the tile will display
	NFTAddress string `json:"nftAddress" binding:"required"`

	// RealNFTAddress is the contract ownership is checked against. It differs
	// from NFTAddress for bridged collections.
	RealNFTAddress string `json:"realNFTAddres" binding:"required"`

	TokenID json.Number `json:"tokenId" binding:"required"`
}

// CreateSignatureResponse is returned when a paint is authorized
type CreateSignatureResponse struct {
	Signature string `json:"signature"`
	// RequiredAmount is the fee in token base units, as a decimal string
	RequiredAmount string `json:"requiredAmount"`
}

// ConnectKeplrRequest is the body of POST /connectKeplr
type ConnectKeplrRequest struct {
	KeplrAddress string `json:"keplrAddress" binding:"required"`
	User         string `json:"user" binding:"required"`
	// Message must be the link message for User
	Message string `json:"message" binding:"required"`
	// Signature is the base64 ADR-036 signature of Message
	Signature string `json:"signature" binding:"required"`
	// PubKey is the base64 compressed secp256k1 key of KeplrAddress
	PubKey string `json:"pubKey" binding:"required"`
}

// KeplrConnectionResponse reports the Keplr wallet linked to a user
type KeplrConnectionResponse struct {
	HasConnected bool   `json:"hasConnected"`
	Address      string `json:"address,omitempty"`
}

// NFTResponse is one entry of GET /getNFTs/:user
type NFTResponse struct {
	Owner  string  `json:"owner"`
	NFT    NFTInfo `json:"nft"`
	InGrid bool    `json:"inGrid"`
}

// NFTInfo describes an owned NFT
type NFTInfo struct {
	Address string         `json:"address"`
	Name    string         `json:"name"`
	TokenID domain.TokenID `json:"tokenId"`
	Image   string         `json:"image"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Clients int    `json:"clients"`
}
