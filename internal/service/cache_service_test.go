package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/seatplan-api/pkg/errors"
)

type cacheRepoStub struct {
	values      map[string][]byte
	getErr      error
	deleteErr   error
	setTTL      time.Duration
	invalidated []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	s.setTTL = ttl
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(_ context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for key := range s.values {
		if matched, _ := path.Match(pattern, key); matched {
			delete(s.values, key)
		}
	}
	return nil
}

func TestCacheServiceLookupAndStore(t *testing.T) {
	repo := newCacheRepoStub()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out int
	assert.False(t, svc.Lookup(ctx, violationsKey("s1"), &out))

	svc.Store(ctx, violationsKey("s1"), 7)
	assert.Equal(t, time.Minute, repo.setTTL)

	assert.True(t, svc.Lookup(ctx, violationsKey("s1"), &out))
	assert.Equal(t, 7, out)

	snap := metrics.Snapshot()
	assert.EqualValues(t, 1, snap.CacheHits)
	assert.EqualValues(t, 1, snap.CacheMisses)
}

func TestCacheServiceBackendErrorIsMiss(t *testing.T) {
	repo := newCacheRepoStub()
	repo.getErr = errors.New("connection refused")
	svc := NewCacheService(repo, nil, 0, nil, true)

	var out int
	assert.False(t, svc.Lookup(context.Background(), "k", &out))
}

func TestCacheServiceDropSession(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)
	ctx := context.Background()

	svc.Store(ctx, violationsKey("s1"), 1)
	svc.Store(ctx, swapsKey("s1", "seat-a"), 2)
	svc.Store(ctx, swapsKey("s2", "seat-a"), 3)

	require.NoError(t, svc.DropSession(ctx, "s1"))
	assert.Equal(t, []string{"seatplan:violations:s1", "seatplan:swaps:s1:*"}, repo.invalidated)
	assert.Len(t, repo.values, 1)
	assert.Contains(t, repo.values, "seatplan:swaps:s2:seat-a")

	repo.deleteErr = errors.New("redis down")
	assert.EqualError(t, svc.DropSession(ctx, "s2"), "redis down")
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), false)
	ctx := context.Background()

	svc.Store(ctx, "k", 1)
	require.NoError(t, svc.DropSession(ctx, "s1"))

	assert.Empty(t, repo.values)
	assert.Empty(t, repo.invalidated)
	assert.False(t, svc.Enabled())
}
