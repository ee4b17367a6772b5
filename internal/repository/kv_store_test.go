package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/floating-cart/internal/port"
	"github.com/nikolayk812/floating-cart/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type kvStoreSuite struct {
	suite.Suite

	store   port.KeyValueStore
	cleanup []func()
}

// entry points to run the shared suite against every backend
func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &memoryStoreSuite{})
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	suite.Run(t, &postgresStoreSuite{})
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	suite.Run(t, &redisStoreSuite{})
}

type memoryStoreSuite struct {
	kvStoreSuite
}

func (suite *memoryStoreSuite) SetupSuite() {
	suite.store = repository.NewMemory()
}

type postgresStoreSuite struct {
	kvStoreSuite
}

// before all tests in the suite
func (suite *postgresStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)
	suite.cleanup = append(suite.cleanup, func() {
		_ = testcontainers.TerminateContainer(container)
	})

	pool, err := pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)
	suite.cleanup = append(suite.cleanup, pool.Close)

	suite.store, err = repository.NewPostgres(pool)
	suite.Require().NoError(err)
}

type redisStoreSuite struct {
	kvStoreSuite
}

func (suite *redisStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startRedis(ctx)
	suite.Require().NoError(err)
	suite.cleanup = append(suite.cleanup, func() {
		_ = testcontainers.TerminateContainer(container)
	})

	opts, err := redis.ParseURL(connStr)
	suite.Require().NoError(err)

	client := redis.NewClient(opts)
	suite.cleanup = append(suite.cleanup, func() {
		_ = client.Close()
	})

	suite.store, err = repository.NewRedis(client)
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *kvStoreSuite) TearDownSuite() {
	for i := len(suite.cleanup) - 1; i >= 0; i-- {
		suite.cleanup[i]()
	}
}

func (suite *kvStoreSuite) TestGet() {
	existingKey := "@cart:" + gofakeit.UUID()
	existingValue := []byte(`[{"id":"a","title":"Mug","image_url":"","price":1,"quantity":1}]`)

	err := suite.store.Set(suite.T().Context(), existingKey, existingValue)
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		key       string
		wantValue []byte
		wantErr   error
		wantError string
	}{
		{
			name:      "get existing key: ok",
			key:       existingKey,
			wantValue: existingValue,
		},
		{
			name:    "get missing key: not found",
			key:     "@cart:" + gofakeit.UUID(),
			wantErr: port.ErrNotFound,
		},
		{
			name:      "get empty key: error",
			key:       "",
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			value, err := suite.store.Get(t.Context(), tt.key)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				return
			case tt.wantError != "":
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func (suite *kvStoreSuite) TestSet() {
	tests := []struct {
		name      string
		key       string
		values    [][]byte
		wantError string
	}{
		{
			name:   "set new key: ok",
			key:    "@cart:" + gofakeit.UUID(),
			values: [][]byte{[]byte(`[]`)},
		},
		{
			name: "overwrite key: last value wins",
			key:  "@cart:" + gofakeit.UUID(),
			values: [][]byte{
				[]byte(`[]`),
				[]byte(`[{"id":"a","title":"Mug","image_url":"","price":1,"quantity":2}]`),
			},
		},
		{
			name:      "set empty key: error",
			key:       "",
			values:    [][]byte{[]byte(`[]`)},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			var err error
			for _, value := range tt.values {
				err = suite.store.Set(ctx, tt.key, value)
				if err != nil {
					break
				}
			}
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := suite.store.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.values[len(tt.values)-1], got)
		})
	}
}
