package monitoring

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisHook_TimesCommands(t *testing.T) {
	hook := RedisHook{}

	t.Run("process hook observes per command name", func(t *testing.T) {
		called := false
		process := hook.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error {
			called = true
			return nil
		})

		cmd := redis.NewStatusCmd(context.Background(), "set")
		require.NoError(t, process(context.Background(), cmd))

		assert.True(t, called)
		assert.GreaterOrEqual(t, testutil.CollectAndCount(RedisCommandDuration), 1)
	})

	t.Run("pipeline hook observes under one label", func(t *testing.T) {
		pipeline := hook.ProcessPipelineHook(func(ctx context.Context, cmds []redis.Cmder) error {
			return nil
		})

		require.NoError(t, pipeline(context.Background(), []redis.Cmder{
			redis.NewStatusCmd(context.Background(), "get"),
		}))

		assert.GreaterOrEqual(t, testutil.CollectAndCount(RedisCommandDuration), 1)
	})
}

func TestInstrumentRedisClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	assert.Same(t, client, InstrumentRedisClient(client))
}
