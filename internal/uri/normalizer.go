package uri

import (
	"strings"

	"github.com/mammothos/mamoart-backend/internal/domain"
)

// Config holds configuration for the URI normalizer
type Config struct {
	// IPFSGateway is the gateway ipfs:// URIs are rewritten to
	IPFSGateway string
	// ArweaveGateway is the gateway ar:// URIs are rewritten to
	ArweaveGateway string
}

// Normalizer defines the interface for turning NFT image URIs into fetchable URLs
//
//go:generate mockgen -source=normalizer.go -destination=../mocks/uri_normalizer.go -package=mocks -mock_names=Normalizer=MockURINormalizer
type Normalizer interface {
	// Normalize rewrites decentralized storage schemes (ipfs://, ar://) to their HTTP gateway.
	// Any other value, including data URIs and the unknown sentinel, is returned unchanged.
	Normalize(uri string) string
}

type normalizer struct {
	ipfsGateway    string
	arweaveGateway string
}

// NewNormalizer creates a new URI normalizer. Empty gateways fall back to the public defaults.
func NewNormalizer(config *Config) Normalizer {
	n := &normalizer{
		ipfsGateway:    domain.DEFAULT_IPFS_GATEWAY,
		arweaveGateway: domain.DEFAULT_ARWEAVE_GATEWAY,
	}
	if config != nil {
		if config.IPFSGateway != "" {
			n.ipfsGateway = config.IPFSGateway
		}
		if config.ArweaveGateway != "" {
			n.arweaveGateway = config.ArweaveGateway
		}
	}
	n.ipfsGateway = strings.TrimSuffix(n.ipfsGateway, "/")
	n.arweaveGateway = strings.TrimSuffix(n.arweaveGateway, "/")
	return n
}

func (n *normalizer) Normalize(uri string) string {
	uri = strings.TrimSpace(uri)

	// Handle IPFS URLs, ipfs://ipfs/<cid> is a common malformed variant
	if cid, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		cid = strings.TrimPrefix(cid, "ipfs/")
		return n.ipfsGateway + "/ipfs/" + cid
	}

	// Handle Arweave URLs
	if txID, ok := strings.CutPrefix(uri, "ar://"); ok {
		return n.arweaveGateway + "/" + txID
	}

	return uri
}
