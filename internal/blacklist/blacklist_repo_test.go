package blacklist_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-staff/internal/blacklist"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) (blacklist.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return blacklist.NewRepository(gormDB), mock
}

func TestRepository_DeleteExpired(t *testing.T) {
	repo, mock := setupRepo(t)
	cutoff := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "blacklisted_tokens" WHERE expires_at < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exists(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "blacklisted_tokens" WHERE jti = $1`)).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.Exists(context.Background(), "jti-1")

	assert.NoError(t, err)
	assert.False(t, ok)
}
