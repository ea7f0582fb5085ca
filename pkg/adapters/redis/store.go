package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/TilepMony-Project/flowcore/internal/xjson"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Store implements ports.ExecutionStore using Redis. Durable enough for
// resumable runs: a waiting execution survives process restarts and is
// reloaded by the worker when the awaited confirmation arrives.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for execution records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for execution records.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "flowcore:execution:",
		ttl:    0, // no expiration by default; retention policy is external
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(executionID string) string {
	return s.prefix + executionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) activeKey(workflowID string) string {
	return s.prefix + "active:" + workflowID
}

// Save persists the record to Redis.
func (s *Store) Save(ctx context.Context, record *domain.ExecutionRecord) error {
	data, err := xjson.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal execution record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(record.ID), data, s.ttl)

	// Index (ZSET). Score = Now + TTL; infinite retention gets a far-future
	// score so lazy cleanup leaves it alone.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: record.ID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record from Redis.
func (s *Store) Load(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	val, err := s.client.Get(ctx, s.key(executionID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var record domain.ExecutionRecord
	if err := xjson.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution record: %w", err)
	}
	return &record, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, executionID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(executionID))
	pipe.ZRem(ctx, s.indexKey(), executionID)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns known execution ids, pruning expired index entries lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired executions: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return ids, nil
}

// ActiveRun returns the workflow's active execution id, shared across every
// replica pointing at this Redis.
func (s *Store) ActiveRun(ctx context.Context, workflowID string) (string, error) {
	val, err := s.client.Get(ctx, s.activeKey(workflowID)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to read active run marker: %w", err)
	}
	return val, nil
}

// SetActiveRun records or clears the workflow's active run marker. The marker
// shares the store TTL so it never outlives the record it points at.
func (s *Store) SetActiveRun(ctx context.Context, workflowID, executionID string) error {
	if executionID == "" {
		if err := s.client.Del(ctx, s.activeKey(workflowID)).Err(); err != nil {
			return fmt.Errorf("failed to clear active run marker: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, s.activeKey(workflowID), executionID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set active run marker: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
