package constants

import "time"

// Redis cache keys and TTLs, centralized.
// Pattern: roomly:{module}:{operation}

const CACHE_PREFIX = "roomly"

const (
	// Occupancy aggregates change only when rooms or hotels change
	CACHE_KEY_ROOMS_OCCUPANCY = CACHE_PREFIX + ":rooms:occupancy"
)

const (
	TTL_ROOMS_OCCUPANCY = 5 * time.Minute
)
