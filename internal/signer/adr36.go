package signer

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cosmos/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gowebpki/jcs"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck

	"github.com/mammothos/mamoart-backend/internal/domain"
)

// compressedPubKeyLength is the size of a compressed secp256k1 public key
const compressedPubKeyLength = 33

// adr36SignDoc is the amino sign document wallets sign for arbitrary data (ADR-036)
type adr36SignDoc struct {
	AccountNumber string     `json:"account_number"`
	ChainID       string     `json:"chain_id"`
	Fee           adr36Fee   `json:"fee"`
	Memo          string     `json:"memo"`
	Msgs          []adr36Msg `json:"msgs"`
	Sequence      string     `json:"sequence"`
}

type adr36Fee struct {
	Amount []struct{} `json:"amount"`
	Gas    string     `json:"gas"`
}

type adr36Msg struct {
	Type  string `json:"type"`
	Value struct {
		Data   string `json:"data"`
		Signer string `json:"signer"`
	} `json:"value"`
}

// KeplrLinkMessage is the message a user signs with Keplr to link it to their wallet
func KeplrLinkMessage(user string) string {
	return "Link your Keplr wallet to " + user
}

// CosmosAddress returns the bech32 account address of a compressed secp256k1 public key
func CosmosAddress(prefix string, pubKey []byte) (string, error) {
	if len(pubKey) != compressedPubKeyLength {
		return "", fmt.Errorf("expected %d byte public key, got %d", compressedPubKeyLength, len(pubKey))
	}

	sha := sha256.Sum256(pubKey)
	hasher := ripemd160.New()
	hasher.Write(sha[:])

	return bech32.EncodeFromBase256(prefix, hasher.Sum(nil))
}

// ADR36SignBytes returns the canonical bytes a wallet signs for data on behalf of signerAddress
func ADR36SignBytes(signerAddress string, data []byte) ([]byte, error) {
	msg := adr36Msg{Type: "sign/MsgSignData"}
	msg.Value.Data = base64.StdEncoding.EncodeToString(data)
	msg.Value.Signer = signerAddress

	doc, err := json.Marshal(adr36SignDoc{
		AccountNumber: "0",
		Fee:           adr36Fee{Amount: []struct{}{}, Gas: "0"},
		Msgs:          []adr36Msg{msg},
		Sequence:      "0",
	})
	if err != nil {
		return nil, err
	}
	return jcs.Transform(doc)
}

// VerifyADR36 checks that signature is a valid ADR-036 signature of message by address.
// The address must derive from pubKey under prefix, signature is the 64 byte [R || S] form.
func VerifyADR36(prefix string, address string, message string, pubKey []byte, signature []byte) error {
	if !strings.HasPrefix(address, prefix+"1") {
		return fmt.Errorf("%w: address is not a %s address", domain.ErrInvalidSignature, prefix)
	}

	derived, err := CosmosAddress(prefix, pubKey)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	if derived != address {
		return fmt.Errorf("%w: public key belongs to %s", domain.ErrInvalidSignature, derived)
	}

	if len(signature) != crypto.SignatureLength-1 {
		return fmt.Errorf("%w: expected %d byte signature, got %d", domain.ErrInvalidSignature, crypto.SignatureLength-1, len(signature))
	}

	signBytes, err := ADR36SignBytes(address, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to build sign document: %w", err)
	}
	hash := sha256.Sum256(signBytes)

	// Rejects high-S signatures, wallets always produce the low-S form
	if !crypto.VerifySignature(pubKey, hash[:], signature) {
		return fmt.Errorf("%w: signature does not match", domain.ErrInvalidSignature)
	}
	return nil
}

// SignADR36 signs message for address the way wallets answer a signArbitrary request.
// It returns the 64 byte [R || S] signature.
func SignADR36(key *ecdsa.PrivateKey, address string, message string) ([]byte, error) {
	signBytes, err := ADR36SignBytes(address, []byte(message))
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(signBytes)

	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig[:crypto.RecoveryIDOffset], nil
}
