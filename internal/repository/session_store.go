package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/model"
)

// ErrSessionNotFound is returned when no session exists for the given ID.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps in-flight survey sessions in Redis as JSON blobs.
// Sessions are ephemeral: they expire after the configured TTL and the
// durable record lives in PostgreSQL once a submission is created.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore creates a SessionStore with the given session TTL.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Get loads a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*model.SurveySession, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.SurveySessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	sess := &model.SurveySession{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save stores a session, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, sess *model.SurveySession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, config.CacheKey.SurveySessionKey(sess.ID.String()), data, s.ttl).Err()
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, config.CacheKey.SurveySessionKey(id)).Err()
}
