package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/sabdamanthan/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := NewClientFrom(db, logging.NewNopLogger())
	s.cache = NewRedisCache(client, logging.NewNopLogger(), WithPrefix("test:"), WithJitter(0), WithDefaultTTL(time.Minute))
}

func (s *CacheTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

type spans struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := []spans{{Text: "रामले", Type: "B-PER"}}
	raw, _ := json.Marshal(val)
	s.mock.ExpectGet("test:ner:abc").SetVal(string(raw))

	var dest []spans
	s.Require().NoError(s.cache.Get(context.Background(), "ner:abc", &dest))
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:ner:abc").RedisNil()

	var dest []spans
	err := s.cache.Get(context.Background(), "ner:abc", &dest)
	s.ErrorIs(err, ErrCacheMiss)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheTestSuite) TestGet_BackendError() {
	s.mock.ExpectGet("test:k").SetErr(fmt.Errorf("connection reset"))

	var dest string
	err := s.cache.Get(context.Background(), "k", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestGet_CorruptValue() {
	s.mock.ExpectGet("test:k").SetVal("{not json")

	var dest []spans
	err := s.cache.Get(context.Background(), "k", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestSet_UsesDefaultTTL() {
	s.mock.ExpectSet("test:k", []byte(`"v"`), time.Minute).SetVal("OK")
	s.NoError(s.cache.Set(context.Background(), "k", "v", 0))
}

func (s *CacheTestSuite) TestSet_Error() {
	s.mock.ExpectSet("test:k", []byte(`"v"`), time.Second).SetErr(fmt.Errorf("oom"))
	err := s.cache.Set(context.Background(), "k", "v", time.Second)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestDeleteAndExists() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
	s.NoError(s.cache.Delete(context.Background()))

	s.mock.ExpectExists("test:a").SetVal(1)
	ok, err := s.cache.Exists(context.Background(), "a")
	s.NoError(err)
	s.True(ok)
}

func (s *CacheTestSuite) TestGetOrSet_LoadsOnMiss() {
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", []byte(`[{"text":"क","type":"NN"}]`), time.Minute).SetVal("OK")

	var dest []spans
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return []spans{{Text: "क", Type: "NN"}}, nil
	})
	s.NoError(err)
	s.Equal([]spans{{Text: "क", Type: "NN"}}, dest)
}

func (s *CacheTestSuite) TestGetOrSet_LoaderErrorIsReturned() {
	s.mock.ExpectGet("test:k").RedisNil()

	var dest []spans
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return nil, pkgerrors.NewTransport(503, nil)
	})
	s.True(pkgerrors.IsTransport(err))
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func newMiniredisCache(t *testing.T) (*miniredis.Miniredis, Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := NewClientFrom(rdb, nil)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCache(client, nil, WithPrefix("sabda:"))
}

func TestGetOrSet_CollapsesConcurrentLoads(t *testing.T) {
	_, cache := newMiniredisCache(t)

	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "राम्रो", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, cache.GetOrSet(context.Background(), "fill", &results[i], time.Minute, loader))
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	for _, r := range results {
		assert.Equal(t, "राम्रो", r)
	}

	// Now cached.
	var again string
	require.NoError(t, cache.GetOrSet(context.Background(), "fill", &again, time.Minute, func(context.Context) (interface{}, error) {
		t.Fatal("loader must not run on a hit")
		return nil, nil
	}))
	assert.Equal(t, "राम्रो", again)
}

func TestSet_AppliesJitteredTTL(t *testing.T) {
	mr, cache := newMiniredisCache(t)

	require.NoError(t, cache.Set(context.Background(), "k", 1, 100*time.Second))
	ttl := mr.TTL("sabda:k")
	assert.GreaterOrEqual(t, ttl, 90*time.Second)
	assert.LessOrEqual(t, ttl, 110*time.Second)
}

func TestCache_ExpiresWithMiniredisClock(t *testing.T) {
	mr, cache := newMiniredisCache(t)

	require.NoError(t, cache.Set(context.Background(), "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var dest string
	assert.ErrorIs(t, cache.Get(context.Background(), "k", &dest), ErrCacheMiss)
}
