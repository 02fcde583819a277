package app

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKeyNamespace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  redis.Cmder
		want string
	}{
		{"trip lock", redis.NewBoolCmd(ctx, "set", "lock:trip:trip-1", "token", "nx", "px", 10000), "lock:trip"},
		{"draft", redis.NewStringCmd(ctx, "get", "draft:trip:driver-1"), "draft:trip"},
		{"assumptions cache", redis.NewStatusCmd(ctx, "set", "cache:assumptions", "{}", "ex", 300), "cache:assumptions"},
		{"idempotent replay", redis.NewStringCmd(ctx, "get", "idempotency:POST:/v1/trips/trip-1/start:key-1"), "idempotency:POST"},
		{"lock release script", redis.NewCmd(ctx, "evalsha", "abc123", 1, "lock:trip:trip-1", "token"), "lock:trip"},
		{"bare key", redis.NewStringCmd(ctx, "get", "plain"), "plain"},
		{"no key", redis.NewStatusCmd(ctx, "ping"), "ping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyNamespace(tt.cmd))
		})
	}
}

func TestKeyspaceSegmentHook_PassesThroughWithoutTransaction(t *testing.T) {
	ctx := context.Background()
	hook := &keyspaceSegmentHook{}

	var seen []string
	process := hook.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error {
		seen = append(seen, cmd.Name())
		return nil
	})
	pipeline := hook.ProcessPipelineHook(func(ctx context.Context, cmds []redis.Cmder) error {
		seen = append(seen, "pipeline")
		return nil
	})

	assert.NoError(t, process(ctx, redis.NewDurationCmd(ctx, time.Second, "pttl", "lock:trip:trip-1")))
	assert.NoError(t, pipeline(ctx, nil))
	assert.Equal(t, []string{"pttl", "pipeline"}, seen)
}
