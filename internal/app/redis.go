package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"cupo/internal/config"
)

// NewRedisClient connects the store behind trip locks, drafts, the assumptions cache
// and idempotent replays. Commands are reported to New Relic when nrApp is set.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(&keyspaceSegmentHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// keyspaceSegmentHook records each command as a datastore segment named after the
// key namespace it touches, e.g. "lock:trip" or "cache:assumptions".
type keyspaceSegmentHook struct{}

func (h *keyspaceSegmentHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *keyspaceSegmentHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			defer datastoreSegment(txn, cmd.Name(), keyNamespace(cmd)).End()
		}
		return next(ctx, cmd)
	}
}

func (h *keyspaceSegmentHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			namespace := "pipeline"
			if len(cmds) > 0 {
				namespace = keyNamespace(cmds[0])
			}
			defer datastoreSegment(txn, "pipeline", namespace).End()
		}
		return next(ctx, cmds)
	}
}

func datastoreSegment(txn *newrelic.Transaction, operation, collection string) *newrelic.DatastoreSegment {
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  operation,
		Collection: collection,
	}
}

// keyNamespace returns the first two colon-separated parts of the command's key.
// Scripts carry their first key after the script and key count.
func keyNamespace(cmd redis.Cmder) string {
	args := cmd.Args()

	pos := 1
	switch cmd.Name() {
	case "eval", "evalsha", "eval_ro", "evalsha_ro":
		pos = 3
	}
	if len(args) <= pos {
		return cmd.Name()
	}

	key, ok := args[pos].(string)
	if !ok || key == "" {
		return cmd.Name()
	}

	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[0] + ":" + parts[1]
}
