// Package drafts keeps one in-progress wizard session per account.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"cinegrok-backend/internal/wizard"
)

var (
	// ErrNoDraft is returned by Load when the account has no stored session.
	ErrNoDraft = errors.New("no draft")
	// ErrConflict is returned by Save when the stored draft changed since
	// the state being saved was loaded.
	ErrConflict = errors.New("draft changed concurrently")
)

const keyPrefix = "cinegrok:draft:"

// Key is the storage key of a user's draft.
func Key(userID string) string {
	return keyPrefix + userID
}

// Store persists drafts. Save is a compare-and-set on State.Version: it
// fails with ErrConflict unless the stored version (zero when absent)
// equals s.Version, and stores the draft with the version incremented.
type Store interface {
	Load(ctx context.Context, userID string) (wizard.State, error)
	Save(ctx context.Context, userID string, s wizard.State) error
	Delete(ctx context.Context, userID string) error
}

// RedisStore keeps drafts as JSON values that expire after ttl of
// inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreFromURL parses a redis:// URL and checks the server answers.
func NewRedisStoreFromURL(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

// Ping checks the redis server answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context, userID string) (wizard.State, error) {
	data, err := s.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.State{}, ErrNoDraft
	}
	if err != nil {
		return wizard.State{}, fmt.Errorf("failed to load draft: %w", err)
	}

	var st wizard.State
	if err := json.Unmarshal(data, &st); err != nil {
		return wizard.State{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, st wizard.State) error {
	key := Key(userID)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		version, err := storedVersion(current)
		if err != nil {
			return err
		}
		if version != st.Version {
			return ErrConflict
		}

		data, err := encodeNext(st)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConflict), errors.Is(err, redis.TxFailedErr):
		return ErrConflict
	default:
		return fmt.Errorf("failed to save draft: %w", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is the single-process store used when no Redis is
// configured. Values are stored encoded so callers never share state.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: map[string][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, userID string) (wizard.State, error) {
	m.mu.Lock()
	data, ok := m.drafts[Key(userID)]
	m.mu.Unlock()
	if !ok {
		return wizard.State{}, ErrNoDraft
	}
	var st wizard.State
	if err := json.Unmarshal(data, &st); err != nil {
		return wizard.State{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return st, nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, st wizard.State) error {
	data, err := encodeNext(st)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	version, err := storedVersion(m.drafts[Key(userID)])
	if err != nil {
		return err
	}
	if version != st.Version {
		return ErrConflict
	}
	m.drafts[Key(userID)] = data
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.drafts, Key(userID))
	m.mu.Unlock()
	return nil
}

// storedVersion reads the version of an encoded draft; nil means no draft.
func storedVersion(data []byte) (int64, error) {
	if data == nil {
		return 0, nil
	}
	var v struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("failed to decode draft: %w", err)
	}
	return v.Version, nil
}

func encodeNext(st wizard.State) ([]byte, error) {
	st.Version++
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	return data, nil
}
