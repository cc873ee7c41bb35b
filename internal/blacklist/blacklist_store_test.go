package blacklist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-staff/internal/blacklist"
	blacklistMock "go-staff/internal/blacklist/mock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestStore_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := blacklistMock.NewMockRepository(ctrl)
	mr, rdb := newTestRedis(t)
	store := blacklist.NewStore(repo, rdb)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	repo.EXPECT().
		Add(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e *blacklist.BlacklistedToken) error {
			assert.Equal(t, "jti-1", e.JTI)
			assert.Equal(t, uint(3), e.UserID)
			assert.True(t, e.ExpiresAt.Equal(expiresAt))
			return nil
		})

	err := store.Add(ctx, "jti-1", 3, expiresAt)

	assert.NoError(t, err)
	assert.True(t, mr.Exists("token:blacklist:jti-1"))
	ttl := mr.TTL("token:blacklist:jti-1")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl follows token expiry, got %s", ttl)
}

func TestStore_AddRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := blacklistMock.NewMockRepository(ctrl)
	mr, rdb := newTestRedis(t)
	store := blacklist.NewStore(repo, rdb)

	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := store.Add(context.Background(), "jti-2", 3, time.Now().Add(time.Hour))

	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("token:blacklist:jti-2"))
}

func TestStore_IsBlacklisted(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := blacklistMock.NewMockRepository(ctrl)
		mr, rdb := newTestRedis(t)
		_ = mr.Set("token:blacklist:cached", "1")
		store := blacklist.NewStore(repo, rdb)

		ok, err := store.IsBlacklisted(ctx, "cached")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cache miss falls back to database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := blacklistMock.NewMockRepository(ctrl)
		_, rdb := newTestRedis(t)
		store := blacklist.NewStore(repo, rdb)

		repo.EXPECT().Exists(ctx, "evicted").Return(true, nil)

		ok, err := store.IsBlacklisted(ctx, "evicted")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("redis down falls back to database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := blacklistMock.NewMockRepository(ctrl)
		mr, rdb := newTestRedis(t)
		mr.Close()
		store := blacklist.NewStore(repo, rdb)

		repo.EXPECT().Exists(ctx, "fresh").Return(false, nil)

		ok, err := store.IsBlacklisted(ctx, "fresh")

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no redis configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := blacklistMock.NewMockRepository(ctrl)
		store := blacklist.NewStore(repo, nil)

		repo.EXPECT().Exists(ctx, "x").Return(false, nil)

		ok, err := store.IsBlacklisted(ctx, "x")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStore_PurgeExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := blacklistMock.NewMockRepository(ctrl)
	store := blacklist.NewStore(repo, nil)

	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(4), nil)

	n, err := store.PurgeExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
