package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func newRedisBackend(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStorage(client, 0), mr
}

// Every backend must behave the same way behind cart.Storage.
func TestBackendContract(t *testing.T) {
	backends := []struct {
		name  string
		setup func(t *testing.T) Backend
	}{
		{
			name:  "memory",
			setup: func(t *testing.T) Backend { return NewMemoryStorage() },
		},
		{
			name: "file",
			setup: func(t *testing.T) Backend {
				fs, err := NewFileStorage(filepath.Join(t.TempDir(), "nested", "storage.json"))
				require.NoError(t, err)
				return fs
			},
		},
		{
			name: "redis",
			setup: func(t *testing.T) Backend {
				rs, _ := newRedisBackend(t)
				return rs
			},
		},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.setup(t)

			require.NoError(t, s.Ping(ctx))

			_, err := s.Get(ctx, "cart-storage")
			assert.ErrorIs(t, err, cart.ErrNotFound)

			require.NoError(t, s.Set(ctx, "cart-storage", []byte(`{"items":[]}`)))
			require.NoError(t, s.Set(ctx, "other", []byte(`x`)))

			got, err := s.Get(ctx, "cart-storage")
			require.NoError(t, err)
			assert.Equal(t, `{"items":[]}`, string(got))

			require.NoError(t, s.Set(ctx, "cart-storage", []byte(`{"items":[1]}`)))
			got, err = s.Get(ctx, "cart-storage")
			require.NoError(t, err)
			assert.Equal(t, `{"items":[1]}`, string(got))

			require.NoError(t, s.Clear(ctx, "cart-storage"))
			_, err = s.Get(ctx, "cart-storage")
			assert.ErrorIs(t, err, cart.ErrNotFound)

			require.NoError(t, s.Clear(ctx, "cart-storage"), "clearing a missing key is not an error")

			got, err = s.Get(ctx, "other")
			require.NoError(t, err)
			assert.Equal(t, "x", string(got))

			assert.NoError(t, s.Close())
		})
	}
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	value := []byte("abc")

	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "storage.json")
		first, err := NewFileStorage(path)
		require.NoError(t, err)
		require.NoError(t, first.Set(ctx, "cart-storage", []byte(`{"items":[{"id":1}]}`)))

		second, err := NewFileStorage(path)
		require.NoError(t, err)
		got, err := second.Get(ctx, "cart-storage")
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[{"id":1}]}`, string(got))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp files must not be left behind")
	})

	t.Run("rejects binary values", func(t *testing.T) {
		s, err := NewFileStorage(filepath.Join(t.TempDir(), "storage.json"))
		require.NoError(t, err)

		err = s.Set(ctx, "k", []byte{0xff, 0xfe})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("corrupt document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "storage.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
		s, err := NewFileStorage(path)
		require.NoError(t, err)

		_, err = s.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCorruptDocument)
		assert.ErrorIs(t, s.Ping(ctx), ErrCorruptDocument)
	})

	t.Run("set replaces a corrupt document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "storage.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		s, err := NewFileStorage(path)
		require.NoError(t, err)

		require.NoError(t, s.Set(ctx, "cart-storage", []byte(`{"items":[]}`)))

		got, err := s.Get(ctx, "cart-storage")
		require.NoError(t, err)
		assert.Equal(t, `{"items":[]}`, string(got))
		assert.NoError(t, s.Ping(ctx))

		aside, err := os.ReadFile(path + ".corrupt")
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(aside))
	})

	t.Run("clear replaces a corrupt document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "storage.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		s, err := NewFileStorage(path)
		require.NoError(t, err)

		require.NoError(t, s.Clear(ctx, "cart-storage"))

		_, err = s.Get(ctx, "cart-storage")
		assert.ErrorIs(t, err, cart.ErrNotFound)
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("ttl is applied", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()
		s := NewRedisStorage(client, time.Hour)

		require.NoError(t, s.Set(ctx, "cart-storage", []byte("v")))
		assert.Equal(t, time.Hour, mr.TTL("cart-storage"))

		mr.FastForward(2 * time.Hour)
		_, err := s.Get(ctx, "cart-storage")
		assert.ErrorIs(t, err, cart.ErrNotFound)
	})

	t.Run("server down", func(t *testing.T) {
		s, mr := newRedisBackend(t)
		mr.Close()

		_, err := s.Get(ctx, "cart-storage")
		require.Error(t, err)
		assert.NotErrorIs(t, err, cart.ErrNotFound)
		assert.Error(t, s.Ping(ctx))
	})
}

func TestOpen(t *testing.T) {
	log := logger.Discard()

	t.Run("memory", func(t *testing.T) {
		b, err := Open(&config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}, log)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, b)
	})

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{
			Driver:   config.StorageFile,
			FilePath: filepath.Join(t.TempDir(), "data", "storage.json"),
		}}
		b, err := Open(cfg, log)
		require.NoError(t, err)
		assert.IsType(t, &FileStorage{}, b)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Storage: config.StorageConfig{Driver: config.StorageRedis},
			Redis:   config.RedisConfig{Host: mr.Host(), Port: mr.Port(), PoolSize: 2},
		}
		b, err := Open(cfg, log)
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &RedisStorage{}, b)
		assert.NoError(t, b.Ping(context.Background()))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(&config.Config{Storage: config.StorageConfig{Driver: "etcd"}}, log)
		assert.Error(t, err)
	})
}

func TestCartRecoversFromCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStorage(path)
	require.NoError(t, err)
	svc := cart.NewService(s, config.CartConfig{StorageKey: "cart-storage"}, logger.Discard())

	// Arrange
	require.ErrorIs(t, svc.Load(ctx), ErrCorruptDocument)

	// Act
	_, err = svc.Add(ctx, product.Product{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("10")})
	require.NoError(t, err)
	c, err := svc.Clear(ctx)

	// Assert
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = s.Get(ctx, "cart-storage")
	assert.ErrorIs(t, err, cart.ErrNotFound)
}
