package cache

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute)
	defer c.Close()

	assert.NotNil(t, c.client)
	assert.Equal(t, time.Minute, c.flightsTTL)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "cache:flights:active", flightsKey())
	assert.Equal(t, "auth:revoked:abc", revokedKey("abc"))
}
