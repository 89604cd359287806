// File: utils/constants.go
package utils

import "time"

// CandidateCachePrefix is the prefix used for Redis scored-candidate cache keys.
const CandidateCachePrefix = "candidates:"

// CandidateCacheTTL is the time-to-live for scored-candidate cache entries.
const CandidateCacheTTL = 10 * time.Minute
