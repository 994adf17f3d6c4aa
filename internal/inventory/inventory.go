package inventory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/indexer"
	"github.com/mammothos/mamoart-backend/internal/metadata"
	"github.com/mammothos/mamoart-backend/internal/store"
	"github.com/mammothos/mamoart-backend/internal/uri"
)

// DefaultConcurrency bounds the NFTs enriched at once when no limit is configured
const DefaultConcurrency = 8

// Item is an NFT a user can paint with
type Item struct {
	// Owner is the user the listing was requested for, also for NFTs held by their Keplr wallet
	Owner   string
	Address string
	Name    string
	TokenID domain.TokenID
	Image   string
	// InGrid reports whether the NFT is already displayed on a tile
	InGrid bool
}

// Lister lists the NFTs of a user across their wallets
//
//go:generate mockgen -source=inventory.go -destination=../mocks/inventory.go -package=mocks -mock_names=Lister=MockInventoryLister
type Lister interface {
	// List returns the NFTs held by the linked Keplr wallet of user, if any,
	// followed by the ones held by user itself
	List(ctx context.Context, user string) ([]Item, error)
}

// Config holds configuration for the lister
type Config struct {
	Concurrency int
}

type lister struct {
	config     Config
	indexer    indexer.Client
	wallets    store.WalletStore
	resolver   metadata.Resolver
	normalizer uri.Normalizer
}

// NewLister creates a new lister
func NewLister(
	cfg *Config,
	indexerClient indexer.Client,
	wallets store.WalletStore,
	resolver metadata.Resolver,
	normalizer uri.Normalizer,
) Lister {
	config := *cfg
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	return &lister{
		config:     config,
		indexer:    indexerClient,
		wallets:    wallets,
		resolver:   resolver,
		normalizer: normalizer,
	}
}

func (l *lister) List(ctx context.Context, user string) ([]Item, error) {
	var owned []domain.OwnedNFT

	if keplr, ok := l.wallets.Linked(user); ok {
		nfts, err := l.indexer.OwnedBy(ctx, keplr, domain.OWNERSHIP_SOURCE_KEPLR)
		if err != nil {
			return nil, fmt.Errorf("failed to list Keplr NFTs: %w", err)
		}
		owned = append(owned, nfts...)
	}

	nfts, err := l.indexer.OwnedBy(ctx, user, domain.OWNERSHIP_SOURCE_FORMA)
	if err != nil {
		return nil, fmt.Errorf("failed to list Forma NFTs: %w", err)
	}
	owned = append(owned, nfts...)

	items := make([]Item, len(owned))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.config.Concurrency)
	for i, nft := range owned {
		g.Go(func() error {
			inGrid, err := l.indexer.IsOnGrid(gctx, nft.Contract, nft.TokenID.String())
			if err != nil {
				return err
			}

			name, image := l.describe(gctx, nft)
			items[i] = Item{
				Owner:   user,
				Address: nft.Contract,
				Name:    name,
				TokenID: nft.TokenID,
				Image:   image,
				InGrid:  inGrid,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to check grid usage: %w", err)
	}
	return items, nil
}

// describe returns the display name and image of nft, UNKNOWN for what cannot be resolved
func (l *lister) describe(ctx context.Context, nft domain.OwnedNFT) (string, string) {
	name, image := domain.UNKNOWN, domain.UNKNOWN

	m, err := l.resolver.Resolve(ctx, nft.Contract, nft.TokenID)
	if err != nil {
		return name, image
	}
	if docName, docImage, err := m.Document(); err == nil {
		if docName != "" {
			name = docName
		}
		if docImage != "" {
			image = l.normalizer.Normalize(docImage)
		}
	}
	return name, image
}
