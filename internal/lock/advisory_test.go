package lock

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func TestKey_StableAndScoped(t *testing.T) {
	assert.Equal(t, Key("booking", 1, 2), Key("booking", 1, 2))
	assert.NotEqual(t, Key("booking", 1, 2), Key("booking", 2, 1))
	assert.NotEqual(t, Key("booking", 1), Key("payment", 1))
}

func TestAdvisoryXact_Postgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	key := Key("booking", 7)
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(key).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = db.Transaction(func(tx *gorm.DB) error {
		return AdvisoryXact(context.Background(), tx, key)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvisoryXact_SQLiteIsNoop(t *testing.T) {
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return AdvisoryXact(context.Background(), tx, 42)
	})
	assert.NoError(t, err)
}
