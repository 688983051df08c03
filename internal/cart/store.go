package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Store keeps one cart per session token.
type Store interface {
	Get(ctx context.Context, token string) (Cart, error)
	Save(ctx context.Context, token string, c Cart) error
	Delete(ctx context.Context, token string) error
}

var ErrNoSession = errors.New("missing session token")

// RedisStore menyimpan cart sebagai JSON di cart:{token} dengan TTL yang diperpanjang tiap Save.
type RedisStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (s *RedisStore) Get(ctx context.Context, token string) (Cart, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	v, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeyCart, token)).Result()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func (s *RedisStore) Save(ctx context.Context, token string, c Cart) error {
	if token == "" {
		return ErrNoSession
	}
	if len(c) == 0 {
		return s.Delete(ctx, token)
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = redisx.TTLCart
	}
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyCart, token), c.Encode(), ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoSession
	}
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCart, token)).Err()
}
