package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

// noncesABI is the paint contract fragment used to read the replay protection nonce of a tile
const noncesABI = `[{"inputs":[{"name":"","type":"uint256"}],"name":"nonces","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// weiPerToken is the number of base units in one whole token
const weiPerToken = 1e18

// Signer authorizes paint transactions on behalf of the contract admin
//
//go:generate mockgen -source=signer.go -destination=../mocks/signer.go -package=mocks -mock_names=Signer=MockSigner
type Signer interface {
	// Sign returns the admin signature allowing gridID to be painted with the NFT
	// for amount. The signature commits to the current on-chain nonce of the tile.
	Sign(ctx context.Context, gridID int, nftAddress string, tokenID *big.Int, amount *big.Int) (string, error)
}

// Config holds configuration for the signer
type Config struct {
	PaintContract string
	PrivateKey    string
}

type signer struct {
	client   adapter.EthClient
	contract common.Address
	key      *ecdsa.PrivateKey
	abi      abi.ABI
}

// NewSigner creates a new signer using client to read nonces from the paint contract
func NewSigner(client adapter.EthClient, cfg *Config) (Signer, error) {
	if !common.IsHexAddress(cfg.PaintContract) {
		return nil, fmt.Errorf("invalid paint contract address: %q", cfg.PaintContract)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid admin private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(noncesABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	return &signer{
		client:   client,
		contract: common.HexToAddress(cfg.PaintContract),
		key:      key,
		abi:      parsed,
	}, nil
}

// Sign signs the paint authorization of gridID
func (s *signer) Sign(ctx context.Context, gridID int, nftAddress string, tokenID *big.Int, amount *big.Int) (string, error) {
	if !common.IsHexAddress(nftAddress) {
		return "", fmt.Errorf("invalid NFT address: %q", nftAddress)
	}
	if tokenID == nil || tokenID.Sign() < 0 {
		return "", fmt.Errorf("invalid token id")
	}
	if amount == nil || amount.Sign() < 0 {
		return "", fmt.Errorf("invalid amount")
	}

	grid := big.NewInt(int64(gridID))
	nonce := s.nonce(ctx, grid)
	hash := PaintHash(grid, common.HexToAddress(nftAddress), tokenID, amount, nonce)

	sig, err := SignMessage(s.key, hash.Bytes())
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}

// nonce reads the current nonce of gridID. A failed read is treated as nonce 0,
// the contract rejects the signature if that was wrong.
func (s *signer) nonce(ctx context.Context, gridID *big.Int) *big.Int {
	data, err := s.abi.Pack("nonces", gridID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to pack nonce call", zap.String("error", logger.Truncate(err)))
		return new(big.Int)
	}

	result, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &s.contract,
		Data: data,
	}, nil)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read grid nonce",
			zap.String("gridId", gridID.String()),
			zap.String("error", logger.Truncate(err)),
		)
		return new(big.Int)
	}

	out, err := s.abi.Unpack("nonces", result)
	if err != nil || len(out) == 0 {
		logger.WarnCtx(ctx, "Failed to unpack grid nonce",
			zap.String("gridId", gridID.String()),
			zap.String("error", logger.Truncate(err)),
		)
		return new(big.Int)
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int)
}

// PaintHash returns keccak256(abi.encodePacked(uint256 gridId, address nft, uint256 tokenId, uint256 amount, uint256 nonce))
func PaintHash(gridID *big.Int, nft common.Address, tokenID *big.Int, amount *big.Int, nonce *big.Int) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(gridID.Bytes(), 32),
		nft.Bytes(),
		common.LeftPadBytes(tokenID.Bytes(), 32),
		common.LeftPadBytes(amount.Bytes(), 32),
		common.LeftPadBytes(nonce.Bytes(), 32),
	)
}

// SignMessage signs data as an EIP-191 personal message.
// The recovery id is returned in the 27/28 form wallets and contracts expect.
func SignMessage(key *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(data), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverAddress returns the address that signed message as an EIP-191 personal message
func RecoverAddress(message []byte, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrInvalidSignature, crypto.SignatureLength, len(sig))
	}

	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("%w: bad recovery id", domain.ErrInvalidSignature)
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// OwnershipMessage is the message a user signs to prove control of an NFT
func OwnershipMessage(nftAddress string, tokenID string) string {
	return fmt.Sprintf("Verify ownership for %s #%s", nftAddress, tokenID)
}

// VerifyOwnership checks that signature is user's signature of the ownership message
func VerifyOwnership(user string, nftAddress string, tokenID string, signature string) error {
	if !common.IsHexAddress(user) {
		return fmt.Errorf("%w: invalid user address", domain.ErrInvalidSignature)
	}

	addr, err := RecoverAddress([]byte(OwnershipMessage(nftAddress, tokenID)), signature)
	if err != nil {
		return err
	}
	if addr != common.HexToAddress(user) {
		return fmt.Errorf("%w: signed by %s", domain.ErrInvalidSignature, addr.Hex())
	}
	return nil
}

// RequiredAmount converts a USD fee into token base units at price USD per token, rounding up
func RequiredAmount(feeUSD float64, price float64) (*big.Int, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, errors.New("price must be positive")
	}

	amount, _ := big.NewFloat(math.Ceil(feeUSD * weiPerToken / price)).Int(nil)
	return amount, nil
}
