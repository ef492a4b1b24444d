package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

const (
	pgUniqueViolation        = "23505"
	sqliteUniqueViolationMsg = "UNIQUE constraint failed"
)

// Connect opens PostgreSQL for postgres:// DSNs and SQLite otherwise.
func Connect(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	if IsPostgresDSN(dsn) {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.WithField("dsn", dsn).Info("using SQLite for local development")
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection keeps transactions from
	// failing with SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenMemory opens a named in-memory SQLite database shared by one connection.
func OpenMemory(name string) (*gorm.DB, error) {
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// IsPostgres reports whether db talks to PostgreSQL.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), sqliteUniqueViolationMsg)
}

// Ping checks connectivity with a bounded wait.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// SQLX exposes the pool behind db to sqlx for hand-written reporting queries.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	driver := "sqlite3"
	if IsPostgres(db) {
		driver = "pgx"
	}
	return sqlx.NewDb(sqlDB, driver), nil
}
