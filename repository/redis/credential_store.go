package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/repository"
)

type credentialStore struct {
	client *redislib.Client
	prefix string
}

// NewCredentialStore creates a Redis-backed opaque secret store. Values are
// stored without TTL; API keys live until explicitly replaced or deleted.
func NewCredentialStore(client *redislib.Client) repository.CredentialStore {
	return &credentialStore{
		client: client,
		prefix: "credential:",
	}
}

func (s *credentialStore) Get(ctx context.Context, name string) (string, error) {
	result, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrCredentialNotFound
		}
		return "", err
	}
	return result, nil
}

func (s *credentialStore) Set(ctx context.Context, name, value string) error {
	if name == "" || value == "" {
		return domain.ErrInvalidPayload
	}
	return s.client.Set(ctx, s.key(name), value, 0).Err()
}

func (s *credentialStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.key(name)).Err()
}

func (s *credentialStore) key(name string) string {
	return fmt.Sprintf("%s%s", s.prefix, name)
}
