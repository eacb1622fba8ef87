package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixelcraft/booking-service/internal/wizard"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
)

const keyPrefix = "wizard:"

// SessionStore implements repository.SessionStore using Redis. Sessions are
// transient and expire after the configured TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a new Redis-backed wizard session store.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

// Save persists the session, resetting its TTL.
func (s *SessionStore) Save(ctx context.Context, session *wizard.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal wizard session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set wizard session: %w", err)
	}

	return nil
}

// Get retrieves a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("wizard session", id)
		}
		return nil, fmt.Errorf("redis get wizard session: %w", err)
	}

	var session wizard.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal wizard session: %w", err)
	}

	return &session, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del wizard session: %w", err)
	}

	return nil
}
