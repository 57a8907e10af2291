package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// RedisStore persists workflows in Redis, one key per document plus a set
// index for listing. Suitable for multi-process deployments sharing a
// canvas store.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisTTL sets an expiration for stored workflows. Zero means no
// expiration.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// WithRedisPrefix sets the key prefix for workflow documents.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a Redis-backed store with options.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient creates a Redis-backed store from an existing
// client. The caller keeps ownership of the client lifecycle when using
// this constructor for tests.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "flowboard:workflow:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) indexKey() string { return s.prefix + "index" }

// Get retrieves a workflow by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (wf workflow.Workflow, err error) {
	start := time.Now()
	defer func() { observeGet(ctx, "redis", id, start, err) }()

	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == backend.Nil {
		err = fmt.Errorf("workflow %s: %w", id, ErrNotFound)
		return workflow.Workflow{}, err
	}
	if err != nil {
		return workflow.Workflow{}, fmt.Errorf("redis get %s: %w", id, err)
	}

	wf, err = workflow.Unmarshal(val)
	if err != nil {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", id, err)
	}
	return wf, nil
}

// Put creates or replaces a workflow. The document write and the index
// update go through one pipeline so the index never references a document
// that was not written.
func (s *RedisStore) Put(ctx context.Context, wf workflow.Workflow) (err error) {
	start := time.Now()
	var size int
	defer func() { observePut(ctx, "redis", wf.ID, size, start, err) }()

	data, err := workflow.Marshal(wf)
	if err != nil {
		return fmt.Errorf("workflow %s: %w", wf.ID, err)
	}
	size = len(data)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(wf.ID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), wf.ID)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put %s: %w", wf.ID, err)
	}
	return nil
}

// Delete removes a workflow and its index entry; absent IDs are ignored.
func (s *RedisStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observeDelete(ctx, "redis", id, start, err) }()

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

// List returns the IDs of all stored workflows, sorted. Index entries whose
// document has expired are dropped lazily.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	live := ids[:0]
	for _, id := range ids {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis list: %w", err)
		}
		if n == 0 {
			// Document expired; prune the stale index entry.
			_ = s.client.SRem(ctx, s.indexKey(), id).Err()
			continue
		}
		live = append(live, id)
	}

	sort.Strings(live)
	return live, nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
