// shared/redis/constants.go
package redis

const (
	// TableCacheKey holds the JSON-encoded standings table. The hash tag keeps it on one slot.
	TableCacheKey = "standings:{table}:"
	// TableVersionKey counts invalidations of TableCacheKey.
	TableVersionKey = "standings:{table}:version"
)
