package redis

import "fmt"

// Key prefix for all fleetwatch keys, configurable so multiple
// deployments can share one Redis instance.
var keyPrefix = "fleetwatch"

// InitKeys sets the global key prefix
func InitKeys(prefix string) {
	if prefix != "" {
		keyPrefix = prefix
	}
}

// RateLimitKey returns the rate limit counter key for an identifier
func RateLimitKey(identifier, bucket string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", keyPrefix, bucket, identifier)
}
