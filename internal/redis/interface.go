package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is what repositories and scripts depend on. Single-node and
// cluster clients both satisfy it, so tests can pass a miniredis-backed
// client.
type Client interface {
	redis.UniversalClient
}
