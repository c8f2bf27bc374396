package caching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session id has no live record,
// either because it expired or because the operator logged out.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps live operator sessions. A session record maps the
// session id minted at login to the operator name; logout deletes it, and
// Redis TTL expires abandoned sessions.
type SessionStore interface {
	SetSession(ctx context.Context, sessionID, operator string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(addr, password string, db int) SessionStore {
	// Accept redis:// style addresses as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisSessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("slg:session:%s", sessionID)
}

func (r *redisSessionStore) SetSession(ctx context.Context, sessionID, operator string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(sessionID), operator, ttl).Err()
}

func (r *redisSessionStore) GetSession(ctx context.Context, sessionID string) (string, error) {
	operator, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return operator, nil
}

func (r *redisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

func (r *redisSessionStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
