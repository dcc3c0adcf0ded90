package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// RedisFlowStore is a FlowStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>flow:<taskID> => wire-format JSON of the whole document
type RedisFlowStore struct {
	client *redis.Client
	prefix string
}

var _ FlowStore = (*RedisFlowStore)(nil)

// NewRedisFlowStore creates a RedisFlowStore.
// prefix is optional but recommended (e.g. "flowkit:").
func NewRedisFlowStore(client *redis.Client, prefix string) *RedisFlowStore {
	if prefix == "" {
		prefix = "flowkit:"
	}
	return &RedisFlowStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisFlowStore) keyFlow(taskID string) string {
	return s.prefix + "flow:" + taskID
}

func (s *RedisFlowStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	data, err := s.client.Get(ctx, s.keyFlow(taskID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrFlowNotFound
		}
		return nil, err
	}
	return DecodeFlow(data)
}

func (s *RedisFlowStore) PutFlow(ctx context.Context, f *api.Flow) error {
	data, err := EncodeFlow(f)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keyFlow(f.ID), data, 0).Err()
}
