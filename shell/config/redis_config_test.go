package config_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation-go/shell/config"
)

func Test_RedisConfig_ConnectsToServer(t *testing.T) {
	// arrange
	server := miniredis.RunT(t)

	// act
	client := config.RedisConfig(server.Addr(), "", 0)
	defer func() { _ = client.Close() }()

	// assert
	assert.NoError(t, client.Ping(context.Background()).Err())
}
