package rooms

import (
	"context"
	"log"
	"time"
)

// LockSweeper periodically frees temp locks that were never confirmed
// or released, so an abandoned allocation cannot park a room forever.
type LockSweeper struct {
	service Service
	config  *SweeperConfig
	done    chan struct{}
}

// SweeperConfig contains configuration for the lock sweeper
type SweeperConfig struct {
	Interval time.Duration
	LockTTL  time.Duration
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		Interval: 1 * time.Minute,  // Check for expired locks every minute
		LockTTL:  10 * time.Minute, // Locks older than this are considered abandoned
	}
}

// NewLockSweeper creates a new lock sweeper
func NewLockSweeper(service Service, config *SweeperConfig) *LockSweeper {
	if config == nil {
		config = DefaultSweeperConfig()
	}

	return &LockSweeper{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts the background sweep loop
func (ls *LockSweeper) Start(ctx context.Context) {
	log.Printf("Starting room lock sweeper with %v interval (TTL %v)", ls.config.Interval, ls.config.LockTTL)
	go ls.run(ctx)
}

// Stop stops the background sweep loop
func (ls *LockSweeper) Stop() {
	log.Println("Stopping room lock sweeper...")
	close(ls.done)
}

func (ls *LockSweeper) run(ctx context.Context) {
	ticker := time.NewTicker(ls.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ls.sweep(ctx)
		case <-ls.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (ls *LockSweeper) sweep(ctx context.Context) {
	if _, err := ls.service.ReleaseExpiredLocks(ctx, ls.config.LockTTL); err != nil {
		log.Printf("Error releasing expired room locks: %v", err)
	}
}
