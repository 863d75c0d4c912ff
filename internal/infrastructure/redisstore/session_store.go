package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/a3lachi/servauth/internal/domain/entity"
)

func sessionKey(id string) string { return "session:" + id }

// SessionStore keeps one redis hash per session with a TTL equal to the
// session expiry, so expired sessions vanish without a sweeper.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Create(ctx context.Context, sess *entity.Session) error {
	key := sessionKey(sess.ID)
	fields := map[string]any{
		"user_id":    sess.UserID,
		"token":      sess.Token,
		"ip_address": sess.IPAddress,
		"user_agent": sess.UserAgent,
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": sess.UpdatedAt.UTC().Format(time.RFC3339Nano),
		"expires_at": sess.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, sess.ExpiresAt)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	sess := &entity.Session{
		ID:        id,
		UserID:    data["user_id"],
		Token:     data["token"],
		IPAddress: data["ip_address"],
		UserAgent: data["user_agent"],
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, data["created_at"])
	sess.UpdatedAt, _ = time.Parse(time.RFC3339Nano, data["updated_at"])
	sess.ExpiresAt, _ = time.Parse(time.RFC3339Nano, data["expires_at"])
	return sess, nil
}

func (s *SessionStore) Refresh(ctx context.Context, id, token string, expiresAt, updatedAt time.Time) error {
	key := sessionKey(id)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339Nano),
		"updated_at": updatedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.ExpireAt(ctx, key, expiresAt)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}
