package otp

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is used when NewRedisStore receives an empty prefix.
const DefaultKeyPrefix = "otp:"

// redisRecord is the wire form of the code entry.
type redisRecord struct {
	CodeHMAC  string `json:"code_hmac"`
	ExpiresAt int64  `json:"expires_at"`
}

// RedisStore implements Store on a Redis TTL cache.
//
// Each mobile number owns three independently expiring entries under a
// common prefix: <prefix>code:<m>, <prefix>attempts:<m> and <prefix>lock:<m>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisStore{client: client, prefix: prefix}
}

// Put replaces the code entry, resets the attempt counter and drops any
// previous lock in one transactional pipeline, so a half-written record is
// never observable.
func (s *RedisStore) Put(ctx context.Context, mobile, codeHash string, expiresAt time.Time) error {
	payload, err := json.Marshal(redisRecord{
		CodeHMAC:  codeHash,
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return err
	}

	ttl := ttlUntil(time.Now(), expiresAt)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.codeKey(mobile), payload, ttl)
	pipe.Set(ctx, s.attemptsKey(mobile), "0", ttl)
	pipe.Del(ctx, s.lockKey(mobile))
	_, err = pipe.Exec(ctx)

	return err
}

func (s *RedisStore) Get(ctx context.Context, mobile string) (*Record, error) {
	pipe := s.client.Pipeline()
	codeCmd := pipe.Get(ctx, s.codeKey(mobile))
	attemptsCmd := pipe.Get(ctx, s.attemptsKey(mobile))
	lockCmd := pipe.Get(ctx, s.lockKey(mobile))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	var lockedUntil time.Time
	if raw, err := lockCmd.Result(); err == nil {
		if sec, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			lockedUntil = time.Unix(sec, 0)
		}
	}

	attempts := 0
	if raw, err := attemptsCmd.Result(); err == nil {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			attempts = n
		}
	}

	raw, err := codeCmd.Result()
	if errors.Is(err, redis.Nil) {
		if lockedUntil.IsZero() {
			return nil, nil
		}

		// Locked with no live code: still a meaningful state.
		return &Record{
			Mobile:      NormalizeMobile(mobile),
			Attempts:    attempts,
			LockedUntil: lockedUntil,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var rec redisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		// Undecodable entries cannot be verified against; drop them.
		if clearErr := s.Clear(ctx, mobile); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}

	return &Record{
		Mobile:      NormalizeMobile(mobile),
		CodeHash:    rec.CodeHMAC,
		ExpiresAt:   time.Unix(rec.ExpiresAt, 0),
		Attempts:    attempts,
		LockedUntil: lockedUntil,
	}, nil
}

// Clear removes the code entry and its attempt counter. The lock entry is
// left to decay by its own TTL.
func (s *RedisStore) Clear(ctx context.Context, mobile string) error {
	return s.client.Del(ctx, s.codeKey(mobile), s.attemptsKey(mobile)).Err()
}

// IncrementAttempts relies on Redis INCR for linearizability and re-pins the
// counter's TTL to the code entry's remaining TTL. When the code entry is
// already gone the counter is dropped, so it never outlives the code.
func (s *RedisStore) IncrementAttempts(ctx context.Context, mobile string) (int, error) {
	attempts, err := s.client.Incr(ctx, s.attemptsKey(mobile)).Result()
	if err != nil {
		return 0, err
	}

	ttl, err := s.client.TTL(ctx, s.codeKey(mobile)).Result()
	if err != nil {
		return 0, err
	}

	if ttl <= 0 {
		// INCR recreated the counter without an expiry.
		if err := s.client.Del(ctx, s.attemptsKey(mobile)).Err(); err != nil {
			return 0, err
		}

		return int(attempts), nil
	}

	if err := s.client.Expire(ctx, s.attemptsKey(mobile), ttl).Err(); err != nil {
		return 0, err
	}

	return int(attempts), nil
}

func (s *RedisStore) Lock(ctx context.Context, mobile string, until time.Time) error {
	value := strconv.FormatInt(until.Unix(), 10)

	return s.client.Set(ctx, s.lockKey(mobile), value, ttlUntil(time.Now(), until)).Err()
}

func (s *RedisStore) codeKey(mobile string) string {
	return s.prefix + "code:" + NormalizeMobile(mobile)
}

func (s *RedisStore) attemptsKey(mobile string) string {
	return s.prefix + "attempts:" + NormalizeMobile(mobile)
}

func (s *RedisStore) lockKey(mobile string) string {
	return s.prefix + "lock:" + NormalizeMobile(mobile)
}
