package props

import (
	"context"

	"github.com/go-redis/redis/v9"
)

// Redis is the durable Backend for hosted deployments. Slots live as plain
// strings under the lootRush: prefix with no expiry.
type Redis struct {
	client *redis.Client
}

type RedisSettings struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func NewRedis(settings RedisSettings) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     settings.Address,
			Password: settings.Password,
			DB:       settings.DB,
		}),
	}
}

func (r *Redis) Load(ctx context.Context, key string) (Value, error) {
	encoded, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeValue(encoded)
}

func (r *Redis) Store(ctx context.Context, key string, value Value) error {
	encoded, err := encodeValue(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, encoded, 0).Err()
}

func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)

	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}
