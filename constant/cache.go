package constant

import "time"

// Cache configuration constants
const (
	// CacheTTL bounds how long a processed project is remembered within a run
	CacheTTL = 6 * time.Hour
	// CacheNumCounters is the number of keys to track frequency (1M)
	CacheNumCounters = 1e6
	// CacheMaxCost is the maximum number of cached projects. Every entry
	// costs 1 and internal cost is ignored, so this is a count.
	CacheMaxCost = 1 << 20
	// CacheBufferItems is the number of keys per Get buffer
	CacheBufferItems = 64
)
