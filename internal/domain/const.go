package domain

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY    = "https://ipfs.io"
	DEFAULT_ARWEAVE_GATEWAY = "https://arweave.net"

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// UNKNOWN is the sentinel used for NFT names and images that could not be resolved
	UNKNOWN = "unknown"

	// Link constants
	STARGAZE_ADDRESS_PREFIX = "stars"
	STARGAZE_NFT_URL        = "https://www.stargaze.zone/m"
	FORMA_EXPLORER_URL      = "https://explorer.forma.art/token"

	// Chains an owned NFT lookup can target, sent as the indexer's x-source header
	OWNERSHIP_SOURCE_FORMA = "forma"
	OWNERSHIP_SOURCE_KEPLR = "keplr"

	// Cap of the recent paints list
	RECENT_PAINTS_CAP = 10
)
