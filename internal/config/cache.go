package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache in front of the public
// catalog reads (halls, plays, performances).  Caching is skipped entirely
// when Enabled is false or no Redis client could be built.  Methods lists
// the HTTP methods worth caching; KeyStrategy picks which request parts feed
// the cache key.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from CACHE_* environment variables,
// with defaults tuned for catalog listings.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "stagebook"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

// parseMethods splits a comma separated method list into a lookup set,
// normalizing case and dropping empty entries.
func parseMethods(s string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range strings.Split(s, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			set[m] = true
		}
	}
	return set
}
