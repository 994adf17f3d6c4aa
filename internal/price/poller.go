package price

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/sweeper"
)

// DEFAULT_PRICE_USD is used until a price has been fetched
const DEFAULT_PRICE_USD = 3.0

// Provider returns the latest known token price in USD
//
//go:generate mockgen -source=poller.go -destination=../mocks/price_provider.go -package=mocks -mock_names=Provider=MockPriceProvider
type Provider interface {
	Price() float64
}

// Config holds configuration for the price poller
type Config struct {
	URL      string
	Interval time.Duration
	Fallback float64
}

// ticker is one entry of the Coinlore ticker response
type ticker struct {
	// PriceUSD is served as a quoted decimal, plain numbers are accepted too
	PriceUSD json.RawMessage `json:"price_usd"`
}

// Poller refreshes the token price on a fixed interval
type Poller struct {
	sweeper.Sweeper

	config     Config
	httpClient adapter.HTTPClient
	price      atomic.Uint64
}

// NewPoller creates a new price poller
func NewPoller(cfg *Config, httpClient adapter.HTTPClient, clock adapter.Clock) *Poller {
	p := &Poller{
		config:     *cfg,
		httpClient: httpClient,
	}
	if p.config.Fallback <= 0 {
		p.config.Fallback = DEFAULT_PRICE_USD
	}

	p.Sweeper = sweeper.NewPeriodicSweeper(&sweeper.PeriodicConfig{
		Name:           "price-poller",
		Interval:       cfg.Interval,
		RunImmediately: true,
	}, clock, p.Refresh)
	return p
}

// Price returns the last fetched price, or the fallback when none is known
func (p *Poller) Price() float64 {
	bits := p.price.Load()
	if bits == 0 {
		return p.config.Fallback
	}
	return math.Float64frombits(bits)
}

// Refresh fetches the current price. A response without a usable price resets
// the price to the fallback, a failed request keeps the last known value.
func (p *Poller) Refresh(ctx context.Context) error {
	var tickers []ticker
	if err := p.httpClient.Get(ctx, p.config.URL, &tickers); err != nil {
		return fmt.Errorf("failed to fetch price: %w", err)
	}

	price, err := parsePrice(tickers)
	if err != nil {
		p.price.Store(0)
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	p.price.Store(math.Float64bits(price))
	logger.DebugCtx(ctx, "Token price fetched", zap.Float64("priceUSD", price))
	return nil
}

func parsePrice(tickers []ticker) (float64, error) {
	if len(tickers) == 0 {
		return 0, fmt.Errorf("empty ticker list")
	}

	raw := strings.Trim(string(tickers[0].PriceUSD), `"`)
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("invalid price %v", price)
	}
	return price, nil
}
