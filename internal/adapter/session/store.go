// Package session stores HTTP sessions as Redis hashes with an idle TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// CookieName is the cookie carrying the session id
	CookieName = "SESSION"
	// ContextKey is the gin context key holding the current *Session
	ContextKey = "session"
	// PendingKey is the gin context key holding attributes to save after the handler
	PendingKey = "session.pending"

	keyPrefix      = "commerce:session:"
	fieldCreated   = "createdAt"
	fieldAccessed  = "lastAccessedAt"
	attributeField = "attr:"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// touchScript refreshes an existing session and returns its fields. A missing
// key stays missing.
var touchScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return redis.call('HGETALL', KEYS[1])
`)

// setScript writes one field of an existing session.
var setScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// Session is one client session.
type Session struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"createdAt"`
	LastAccessedAt time.Time         `json:"lastAccessedAt"`
	Attributes     map[string]string `json:"attributes"`
}

// Store persists sessions in Redis.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *zap.Logger
	now func() time.Time
}

// NewStore creates a Store whose sessions expire after ttl without access.
func NewStore(rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// TTL returns the idle timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create starts a new empty session.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		LastAccessedAt: now,
		Attributes:     map[string]string{},
	}

	key := sessionKey(sess.ID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldCreated, now.UnixMilli(), fieldAccessed, now.UnixMilli())
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Debug("session created", zap.String("session_id", sess.ID))
	return sess, nil
}

// Touch loads a session, records the access and extends its TTL in one step.
func (s *Store) Touch(ctx context.Context, id string) (*Session, error) {
	now := s.now()
	res, err := touchScript.Run(ctx, s.rdb, []string{sessionKey(id)},
		fieldAccessed, now.UnixMilli(), s.ttl.Milliseconds()).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		fields[res[i]] = res[i+1]
	}
	return decode(id, fields), nil
}

// SetAttribute stores a named value on an existing session.
func (s *Store) SetAttribute(ctx context.Context, id, name, value string) error {
	set, err := setScript.Run(ctx, s.rdb, []string{sessionKey(id)}, attributeField+name, value).Int()
	if err != nil {
		return fmt.Errorf("failed to set session attribute: %w", err)
	}
	if set == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete invalidates a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.log.Debug("session invalidated", zap.String("session_id", id))
	return nil
}

func decode(id string, fields map[string]string) *Session {
	sess := &Session{ID: id, Attributes: map[string]string{}}
	for k, v := range fields {
		switch {
		case k == fieldCreated:
			sess.CreatedAt = fromMillis(v)
		case k == fieldAccessed:
			sess.LastAccessedAt = fromMillis(v)
		case strings.HasPrefix(k, attributeField):
			sess.Attributes[strings.TrimPrefix(k, attributeField)] = v
		}
	}
	return sess
}

func fromMillis(v string) time.Time {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
