// Package database はデータベース接続とスキーマを扱います。
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// schema は MySQL と SQLite の両方で通る DDL です。
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		username VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) UNIQUE,
		password_hash VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(50) NOT NULL DEFAULT 'user'
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id VARCHAR(64) PRIMARY KEY,
		owner_id VARCHAR(64) NOT NULL,
		task TEXT NOT NULL,
		checked BOOLEAN NOT NULL DEFAULT FALSE,
		seq BIGINT NOT NULL
	)`,
	`CREATE INDEX idx_items_owner_seq ON items (owner_id, seq)`,
}

// Open は driver ("mysql" / "sqlite") でデータベースに接続し、疎通を確認します。
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// SQLite は単一ライターなので接続を1本に絞る
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma: %w", err)
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// InitDB はデータベースに接続し、テーブルを作成します。
func InitDB(driver, dsn string) (*sql.DB, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database_connected", "driver", driver)
	return db, nil
}

// EnsureSchema はテーブルが無ければ作成します。
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("could not apply schema: %w", err)
		}
	}
	return nil
}
