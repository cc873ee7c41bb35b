package blacklist

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=blacklist_repo.go -destination=mock/blacklist_repo_mock.go -package=mock
type Repository interface {
	Add(ctx context.Context, entry *BlacklistedToken) error
	Exists(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add is idempotent on jti.
func (r *repository) Add(ctx context.Context, entry *BlacklistedToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(entry).Error
}

func (r *repository) Exists(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BlacklistedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&BlacklistedToken{})
	return res.RowsAffected, res.Error
}
