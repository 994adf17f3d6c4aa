package reconciler

import (
	"fmt"
	"strings"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/uri"
)

// Deriver computes the derived fields of a tile from its raw indexer state
type Deriver struct {
	normalizer uri.Normalizer
	publicURL  string
}

// NewDeriver creates a deriver. publicURL is the externally reachable base URL
// of this server, used to build rehosted image links.
func NewDeriver(normalizer uri.Normalizer, publicURL string) *Deriver {
	return &Deriver{
		normalizer: normalizer,
		publicURL:  strings.TrimSuffix(publicURL, "/"),
	}
}

// Derive returns the tile for raw. It is a pure function of raw.
func (d *Deriver) Derive(raw domain.RawTile) domain.Tile {
	raw = raw.Sanitize()

	name, image := domain.UNKNOWN, domain.UNKNOWN
	if docName, docImage, err := raw.Metadata.Document(); err == nil {
		if docName != "" {
			name = docName
		}
		if docImage != "" {
			image = d.normalizer.Normalize(docImage)
		}
	}

	return domain.Tile{
		GridID:          raw.GridID,
		IsOwned:         raw.Painted(),
		NFTName:         name,
		NFTImage:        image,
		NFTImageFromMOS: d.ImageURL(raw.GridID, image),
		NFTAddress:      raw.NFTAddress,
		TokenID:         raw.TokenID,
		Metadata:        raw.Metadata.String(),
		NFTLink:         domain.NFTLink(raw.NFTAddress, raw.TokenID),
		Painter:         raw.Painter,
		Block:           raw.Block,
		TxHash:          raw.TxHash,
		PaintedAt:       raw.PaintedAt,
	}
}

// ImageURL returns the versioned link to the compressed rendition of sourceURL
func (d *Deriver) ImageURL(gridID int, sourceURL string) string {
	return fmt.Sprintf("%s/gridNFT/%d-%s", d.publicURL, gridID, domain.HashURL(sourceURL))
}
