package blacklist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "token:blacklist:"

func cacheKey(jti string) string {
	return keyPrefix + jti
}

// Store is the blacklist as seen by the auth flow. The database is the
// source of truth; Redis only short-circuits lookups.
//
//go:generate mockgen -source=blacklist_store.go -destination=mock/blacklist_store_mock.go -package=mock
type Store interface {
	Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type store struct {
	repo   Repository
	rdb    *redis.Client
	now    func() time.Time
	logger *zap.Logger
}

// NewStore builds a Store. rdb may be nil, in which case every lookup goes
// to the database.
func NewStore(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Store {
	l := zap.L().Named("blacklist.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("blacklist.store")
	}
	return &store{repo: repo, rdb: rdb, now: time.Now, logger: l}
}

func (s *store) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	if err := s.repo.Add(ctx, &BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return err
	}

	s.cache(ctx, jti, expiresAt)
	s.logger.Debug("token blacklisted", zap.String("jti", jti), zap.Uint("user_id", userID))
	return nil
}

func (s *store) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if s.rdb != nil {
		err := s.rdb.Get(ctx, cacheKey(jti)).Err()
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, redis.Nil):
		default:
			s.logger.Warn("blacklist cache lookup failed", zap.String("jti", jti), zap.Error(err))
		}
	}

	return s.repo.Exists(ctx, jti)
}

func (s *store) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("purge expired blacklist entries failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("purged expired blacklist entries", zap.Int64("count", n))
	return n, nil
}

func (s *store) cache(ctx context.Context, jti string, expiresAt time.Time) {
	if s.rdb == nil {
		return
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(jti), "1", ttl).Err(); err != nil {
		s.logger.Warn("blacklist cache write failed", zap.String("jti", jti), zap.Error(err))
	}
}
