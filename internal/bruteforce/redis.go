package bruteforce

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "bruteforce:"

// RedisStore comparte los contadores de intentos entre instancias
// mediante claves con TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore crea el store respaldado en Redis.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Registro, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var reg Registro
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, reg Registro, ttl time.Duration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+id, payload, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}
