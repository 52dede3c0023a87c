package cache

import (
	"context"
	"encoding/json"
	"time"

	"soulgate/config"
	"soulgate/internal/domain/entity"
	"soulgate/internal/domain/service"
	"soulgate/internal/errors"

	"github.com/redis/go-redis/v9"
)

// codeKeyPrefix namespaces authorization codes within the shared Redis database.
const codeKeyPrefix = "authcode:"

// redisCodeStore implements service.AuthCodeStore on Redis. GETDEL makes the
// read-and-delete of Take a single atomic command, which is what gives
// authorization codes their exactly-once exchange semantics under
// concurrent requests.
type redisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeStore is the constructor for redisCodeStore.
func NewCodeStore(client *redis.Client, cfg *config.Config) service.AuthCodeStore {
	return &redisCodeStore{
		client: client,
		ttl:    cfg.Auth.CodeTTL,
	}
}

// Save stores the code payload under the opaque code with the configured TTL.
func (s *redisCodeStore) Save(ctx context.Context, code string, value *entity.AuthCode) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to marshal authorization code payload")
	}

	if err := s.client.Set(ctx, codeKeyPrefix+code, payload, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store authorization code")
	}

	return nil
}

// Take retrieves and deletes the payload in one atomic step.
func (s *redisCodeStore) Take(ctx context.Context, code string) (*entity.AuthCode, error) {
	payload, err := s.client.GetDel(ctx, codeKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrCodeNotFound
		}

		return nil, errors.Wrap(err, "failed to take authorization code")
	}

	value := &entity.AuthCode{}
	if err := json.Unmarshal(payload, value); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal authorization code payload")
	}

	return value, nil
}
