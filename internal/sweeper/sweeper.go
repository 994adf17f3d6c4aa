package sweeper

import (
	"context"
)

// Sweeper is a background loop owned by the server process,
// such as the grid reconciler or the price poller
type Sweeper interface {
	// Start runs the loop and blocks until ctx is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop ends the loop and waits for the run in progress, bounded by ctx
	Stop(ctx context.Context) error

	// Name identifies the loop in logs
	Name() string
}
