package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// SessionStore keeps login sessions in Redis.
// Key format: session:<session_id>
// Each user's session ids are also indexed in user-sessions:<username> so
// they can be revoked together.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save stores identity under id. The entry expires after ttl.
func (s *SessionStore) Save(ctx context.Context, id string, identity domain.SessionIdentity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(id), payload, ttl)
		pipe.SAdd(ctx, userSessionsKey(identity.Username), id)
		pipe.Expire(ctx, userSessionsKey(identity.Username), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the identity stored under id, or domain.ErrSessionNotFound
// once it has expired or been deleted.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.SessionIdentity, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var identity domain.SessionIdentity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &identity, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUsername deletes every session opened by username.
func (s *SessionStore) DeleteByUsername(ctx context.Context, username string) error {
	ids, err := s.client.SMembers(ctx, userSessionsKey(username)).Result()
	if err != nil {
		return fmt.Errorf("list sessions of %s: %w", username, err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(username))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions of %s: %w", username, err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func userSessionsKey(username string) string {
	return "user-sessions:" + username
}
