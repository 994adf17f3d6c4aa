package rest

import (
	"encoding/base64"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/indexer"
	"github.com/mammothos/mamoart-backend/internal/inventory"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/media/pipeline"
	"github.com/mammothos/mamoart-backend/internal/price"
	"github.com/mammothos/mamoart-backend/internal/signer"
	"github.com/mammothos/mamoart-backend/internal/store"
)

const (
	// ALIVE_MESSAGE is the body of the root endpoint
	ALIVE_MESSAGE = "Mamoart Backend is alive"

	// IMAGE_CACHE_CONTROL marks tile thumbnails immutable, a new image always has a new URL
	IMAGE_CACHE_CONTROL = "public, max-age=31536000, immutable"

	msgSignFailed      = "Failed to verify ownership or sign transaction."
	msgInvalidSig      = "Invalid signature."
	msgNFTNotAvailable = "NFT is not available!"
	msgAlreadyLinked   = "User already has wallet."
	msgNFTsFailed      = "Failed to fetch NFT data."
)

// ClientCounter reports the number of connected real-time clients
//
//go:generate mockgen -source=handler.go -destination=../../mocks/client_counter.go -package=mocks -mock_names=ClientCounter=MockClientCounter
type ClientCounter interface {
	Count() int
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// Alive answers liveness checks
	// GET /
	Alive(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// GridImage returns the compressed thumbnail of a tile
	// GET /gridNFT/:id?v=<hash>
	GridImage(c *gin.Context)

	// CreateSignature authorizes a paint transaction
	// POST /createTx/signature
	CreateSignature(c *gin.Context)

	// GetNFTs lists the NFTs a user can paint with
	// GET /getNFTs/:user
	GetNFTs(c *gin.Context)

	// ConnectKeplr links a Keplr wallet to a user after checking its ADR-036 signature
	// POST /connectKeplr
	ConnectKeplr(c *gin.Context)

	// KeplrConnection reports the Keplr wallet linked to a user
	// GET /connectKeplr/checkIfConnected/:user
	KeplrConnection(c *gin.Context)
}

// Config holds configuration for the handlers
type Config struct {
	// GridSize is the number of tiles, ids are in [0, GridSize)
	GridSize int
	// PaintingStopped disables paint authorization
	PaintingStopped bool
	PaintFeeUSD     float64
	RepaintFeeUSD   float64
}

// handler implements the Handler interface
type handler struct {
	config    Config
	images    pipeline.Pipeline
	indexer   indexer.Client
	signer    signer.Signer
	price     price.Provider
	counter   ClientCounter
	wallets   store.WalletStore
	inventory inventory.Lister
}

// NewHandler creates a new REST API handler
func NewHandler(
	cfg *Config,
	images pipeline.Pipeline,
	indexerClient indexer.Client,
	s signer.Signer,
	priceProvider price.Provider,
	counter ClientCounter,
	wallets store.WalletStore,
	nfts inventory.Lister,
) Handler {
	return &handler{
		config:    *cfg,
		images:    images,
		indexer:   indexerClient,
		signer:    s,
		price:     priceProvider,
		counter:   counter,
		wallets:   wallets,
		inventory: nfts,
	}
}

// Alive answers liveness checks
func (h *handler) Alive(c *gin.Context) {
	c.String(http.StatusOK, ALIVE_MESSAGE)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "mamoart-backend",
		Clients: h.counter.Count(),
	})
}

// GridImage returns the compressed thumbnail of a tile.
// The "<id>-<hash>" path suffix only busts client caches, the version is checked from ?v= alone.
func (h *handler) GridImage(c *gin.Context) {
	idPart, _, _ := strings.Cut(c.Param("id"), "-")
	gridID, err := strconv.Atoi(idPart)
	if err != nil {
		respondNotFound(c, "Image not found in mapping")
		return
	}

	img, err := h.images.Get(c.Request.Context(), gridID, c.Query("v"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondNotFound(c, "Image not found in mapping")
		case errors.Is(err, domain.ErrVersionMismatch):
			respondBadRequest(c, "Invalid image version")
		default:
			logger.WarnCtx(c.Request.Context(), "Failed to serve grid image",
				zap.Int("gridId", gridID),
				zap.String("error", logger.Truncate(err)),
			)
			respondInternalError(c, "Internal error")
		}
		return
	}

	c.Header("Cache-Control", IMAGE_CACHE_CONTROL)
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// CreateSignature verifies that the caller owns the NFT and returns the admin signature
// together with the fee the paint transaction must carry
func (h *handler) CreateSignature(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	gridID, err := strconv.Atoi(req.GridID.String())
	if err != nil || gridID < 0 || gridID >= h.config.GridSize {
		respondBadRequest(c, "Invalid grid id")
		return
	}

	tokenID, ok := new(big.Int).SetString(req.TokenID.String(), 10)
	if !ok || tokenID.Sign() < 0 {
		respondBadRequest(c, "Invalid token id")
		return
	}

	if h.config.PaintingStopped {
		respondUnauthorized(c, msgInvalidSig)
		return
	}

	if err := signer.VerifyOwnership(req.User, req.NFTAddress, req.TokenID.String(), req.OwnershipSignature); err != nil {
		logger.InfoCtx(ctx, "Ownership signature rejected", zap.String("user", req.User), zap.String("error", logger.Truncate(err)))
		respondUnauthorized(c, msgInvalidSig)
		return
	}

	owner, err := h.indexer.Owner(ctx, req.RealNFTAddress, tokenID.String())
	if err != nil {
		h.signFailed(c, err)
		return
	}

	onGrid, err := h.indexer.IsOnGrid(ctx, req.NFTAddress, tokenID.String())
	if err != nil {
		h.signFailed(c, err)
		return
	}

	if onGrid || !h.heldBy(owner, req.User) {
		respondUnauthorized(c, msgNFTNotAvailable)
		return
	}

	tile, err := h.indexer.Grid(ctx, gridID)
	if err != nil {
		h.signFailed(c, err)
		return
	}

	// Painting over someone else's paint costs more
	fee := h.config.PaintFeeUSD
	if tile.Painted() {
		fee = h.config.RepaintFeeUSD
	}

	amount, err := signer.RequiredAmount(fee, h.price.Price())
	if err != nil {
		h.signFailed(c, err)
		return
	}

	signature, err := h.signer.Sign(ctx, gridID, req.NFTAddress, tokenID, amount)
	if err != nil {
		h.signFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateSignatureResponse{
		Signature:      signature,
		RequiredAmount: amount.String(),
	})
}

// heldBy reports whether owner is user or the Keplr wallet linked to user
func (h *handler) heldBy(owner string, user string) bool {
	if strings.EqualFold(owner, user) {
		return true
	}
	keplr, ok := h.wallets.Linked(user)
	return ok && strings.EqualFold(owner, keplr)
}

// GetNFTs lists the NFTs of a user and of their linked Keplr wallet
func (h *handler) GetNFTs(c *gin.Context) {
	user := c.Param("user")

	items, err := h.inventory.List(c.Request.Context(), user)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), errors.New(logger.Truncate(err)),
			zap.String("path", c.FullPath()),
			zap.String("user", user),
		)
		respondInternalError(c, msgNFTsFailed)
		return
	}

	nfts := make([]NFTResponse, 0, len(items))
	for _, item := range items {
		nfts = append(nfts, NFTResponse{
			Owner: item.Owner,
			NFT: NFTInfo{
				Address: item.Address,
				Name:    item.Name,
				TokenID: item.TokenID,
				Image:   item.Image,
			},
			InGrid: item.InGrid,
		})
	}
	c.JSON(http.StatusOK, nfts)
}

// ConnectKeplr links a Keplr wallet to a user. The signed message must name the user
// so a signature cannot be replayed to link the wallet to someone else.
func (h *handler) ConnectKeplr(c *gin.Context) {
	ctx := c.Request.Context()

	var req ConnectKeplrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if !common.IsHexAddress(req.User) {
		respondBadRequest(c, "Invalid user address")
		return
	}
	if req.Message != signer.KeplrLinkMessage(req.User) {
		respondUnauthorized(c, msgInvalidSig)
		return
	}

	signature, sigErr := base64.StdEncoding.DecodeString(req.Signature)
	pubKey, keyErr := base64.StdEncoding.DecodeString(req.PubKey)
	if sigErr != nil || keyErr != nil {
		respondUnauthorized(c, msgInvalidSig)
		return
	}

	if err := signer.VerifyADR36(domain.STARGAZE_ADDRESS_PREFIX, req.KeplrAddress, req.Message, pubKey, signature); err != nil {
		logger.InfoCtx(ctx, "Keplr signature rejected", zap.String("user", req.User), zap.String("error", logger.Truncate(err)))
		respondUnauthorized(c, msgInvalidSig)
		return
	}

	if !h.wallets.Link(req.User, req.KeplrAddress) {
		respondNotAcceptable(c, msgAlreadyLinked)
		return
	}

	logger.InfoCtx(ctx, "Keplr wallet linked", zap.String("user", req.User), zap.String("keplr", req.KeplrAddress))
	c.JSON(http.StatusOK, KeplrConnectionResponse{HasConnected: true, Address: req.KeplrAddress})
}

// KeplrConnection reports the Keplr wallet linked to a user
func (h *handler) KeplrConnection(c *gin.Context) {
	address, ok := h.wallets.Linked(c.Param("user"))
	c.JSON(http.StatusOK, KeplrConnectionResponse{HasConnected: ok, Address: address})
}

func (h *handler) signFailed(c *gin.Context, err error) {
	logger.ErrorCtx(c.Request.Context(), errors.New(logger.Truncate(err)),
		zap.String("path", c.FullPath()),
	)
	respondInternalError(c, msgSignFailed)
}
