package cache

import (
	"context"
	"testing"

	"inventory_api/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis_DisabledWithoutAddr(t *testing.T) {
	config.AppConfig = &config.Config{RedisAddr: ""}
	RDB = nil

	require.NoError(t, ConnectRedis(context.Background()))
	assert.Nil(t, RDB)
	CloseRedis()
}

func TestConnectRedis_UnreachableFails(t *testing.T) {
	config.AppConfig = &config.Config{RedisAddr: "127.0.0.1:1"}
	RDB = nil

	err := ConnectRedis(context.Background())
	assert.Error(t, err)
	assert.Nil(t, RDB)
}
