package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/acadplan/timetable-api/internal/models"
)

// RunStore persists generation run records. Records expire after a TTL; the
// generated assignments themselves live in the database.
type RunStore interface {
	Save(ctx context.Context, run *models.GenerationRun) error
	Find(ctx context.Context, runID string) (*models.GenerationRun, error)
}

const runKeyPrefix = "timetable:run:"

// RedisRunStore keeps run records in Redis as JSON with a TTL.
type RedisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRunStore builds a Redis-backed run store.
func NewRedisRunStore(client *redis.Client, ttl time.Duration) *RedisRunStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRunStore{client: client, ttl: ttl}
}

// Save writes the run record, refreshing its TTL.
func (s *RedisRunStore) Save(ctx context.Context, run *models.GenerationRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := s.client.Set(ctx, runKeyPrefix+run.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// Find loads a run record; sql.ErrNoRows signals an unknown or expired run.
func (s *RedisRunStore) Find(ctx context.Context, runID string) (*models.GenerationRun, error) {
	payload, err := s.client.Get(ctx, runKeyPrefix+runID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find run: %w", err)
	}
	var run models.GenerationRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &run, nil
}

// MemoryRunStore is a map-backed RunStore used when Redis is not configured.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]models.GenerationRun
}

// NewMemoryRunStore builds an in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]models.GenerationRun)}
}

// Save stores a copy of the run record.
func (s *MemoryRunStore) Save(_ context.Context, run *models.GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// Find loads a run record; sql.ErrNoRows signals an unknown run.
func (s *MemoryRunStore) Find(_ context.Context, runID string) (*models.GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &run, nil
}
