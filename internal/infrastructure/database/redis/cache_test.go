package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/dnaenc/edesigner/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	cache  Cache
	log    logging.Logger
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.log = logging.NewNopLogger()

	// Create a Client wrapper with the mock rdb
	s.client = &Client{
		rdb:    db,
		config: &RedisConfig{},
		logger: s.log,
	}

	s.cache = NewRedisCache(s.client, s.log, WithPrefix("test:"))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

type testStruct struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (s *CacheTestSuite) TestGet_CacheHit() {
	val := testStruct{Name: "John", Age: 30}
	bytes, _ := json.Marshal(val)

	s.mock.ExpectGet("test:key1").SetVal(string(bytes))

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestGet_CacheMiss() {
	s.mock.ExpectGet("test:key1").RedisNil()

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)

	assert.Error(s.T(), err)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.CodeCacheError))
	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestGet_NullCacheMarker() {
	s.mock.ExpectGet("test:key1").SetVal("__null__")

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)

	// Distinct from a true miss so GetOrSet can skip re-running the loader.
	assert.Equal(s.T(), errNullCached, err)
}

func (s *CacheTestSuite) TestDelete_Success() {
	s.mock.ExpectDel("test:k1", "test:k2").SetVal(2)

	err := s.cache.Delete(context.Background(), "k1", "k2")
	assert.NoError(s.T(), err)
}

func (s *CacheTestSuite) TestExists_True() {
	s.mock.ExpectExists("test:k1").SetVal(1)

	exists, err := s.cache.Exists(context.Background(), "k1")
	assert.NoError(s.T(), err)
	assert.True(s.T(), exists)
}

func (s *CacheTestSuite) TestGetOrSet_Hit() {
	val := testStruct{Name: "John", Age: 30}
	bytes, _ := json.Marshal(val)

	s.mock.ExpectGet("test:key1").SetVal(string(bytes))

	var dest testStruct
	loader := func(ctx context.Context) (interface{}, error) {
		return &val, nil
	}

	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, loader)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestGetOrSet_NullCachedSkipsLoader() {
	s.mock.ExpectGet("test:key1").SetVal("__null__")

	called := false
	loader := func(ctx context.Context) (interface{}, error) {
		called = true
		return &testStruct{}, nil
	}

	var dest testStruct
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, loader)

	assert.Equal(s.T(), ErrCacheMiss, err)
	assert.False(s.T(), called, "loader must not re-run for a key already known to resolve to nil")
}

func (s *CacheTestSuite) TestClaim_FirstCallerWins() {
	s.mock.ExpectSetNX("test:smi1", "1", time.Hour).SetVal(true)

	ok, err := s.cache.Claim(context.Background(), "smi1", time.Hour)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)
}

func (s *CacheTestSuite) TestClaim_SecondCallerLoses() {
	s.mock.ExpectSetNX("test:smi1", "1", time.Hour).SetVal(false)

	ok, err := s.cache.Claim(context.Background(), "smi1", time.Hour)
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}