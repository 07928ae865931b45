package settings

import "context"

// Default values used when no settings row exists yet.
const (
	DefaultCapacityLimit = 10
	DefaultDailyFeeCents = int64(3500)
)

// Settings holds the facility-wide boarding parameters. The core only ever
// consumes the kennel capacity and the daily rate; everything else about
// settings storage belongs to collaborators.
type Settings struct {
	CapacityLimit int
	DailyFeeCents int64
}

// Provider supplies the current settings. Implementations must read fresh
// on every call: capacity and rate may change concurrently and the core
// holds no cached state.
type Provider interface {
	// FindOrCreateDefault returns the current settings, creating the
	// default row on first use.
	FindOrCreateDefault(ctx context.Context) (Settings, error)
}
