package config

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs two optional features: the catalog response cache and the
// token-bucket rate limiter.  When the server cannot reach Redis at startup
// NewRedisClient returns nil and both middleware constructors degrade to
// pass-through, so the booking API keeps working without it.

// NewRedisClient builds a client from REDIS_* environment variables and
// verifies connectivity with a short ping.
//
//	REDIS_ADDR              – host:port (default localhost:6379)
//	REDIS_HOST / REDIS_PORT – together they override REDIS_ADDR
//	REDIS_PASSWORD          – optional
//	REDIS_DB                – database number
//	REDIS_TLS               – truthy value enables TLS
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}

	opts := &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		opts.DB = n
	}
	if on, _ := strconv.ParseBool(os.Getenv("REDIS_TLS")); on {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
