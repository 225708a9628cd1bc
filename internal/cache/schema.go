package cache

import (
	"context"
	"database/sql"
)

// The cache schema mirrors the remote document shapes field for field.
// It is created on startup because the cache is disposable local state:
// dropping the database only costs a resync.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS spaces (
		id          VARCHAR(64) PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		type        VARCHAR(16) NOT NULL,
		description TEXT NOT NULL,
		capacity    INT NOT NULL DEFAULT 0,
		is_active   TINYINT(1) NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		id               VARCHAR(128) PRIMARY KEY,
		space_id         VARCHAR(64) NOT NULL,
		date             CHAR(10) NOT NULL,
		start_time       CHAR(5) NOT NULL,
		end_time         CHAR(5) NOT NULL,
		status           VARCHAR(24) NOT NULL,
		reserved_by      VARCHAR(64) NULL,
		reserved_by_name VARCHAR(255) NULL,
		description      TEXT NULL,
		KEY idx_slots_space_date (space_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id               VARCHAR(64) PRIMARY KEY,
		space_id         VARCHAR(64) NOT NULL,
		space_name       VARCHAR(255) NOT NULL,
		space_type       VARCHAR(16) NOT NULL,
		user_id          VARCHAR(64) NOT NULL,
		user_name        VARCHAR(255) NOT NULL,
		user_email       VARCHAR(255) NOT NULL,
		date             CHAR(10) NOT NULL,
		start_time       CHAR(5) NOT NULL,
		end_time         CHAR(5) NOT NULL,
		description      TEXT NOT NULL,
		status           VARCHAR(16) NOT NULL,
		created_at       BIGINT NOT NULL,
		approved_by      VARCHAR(64) NULL,
		rejection_reason TEXT NULL,
		KEY idx_reservations_user (user_id, created_at),
		KEY idx_reservations_status_date (status, date)
	)`,
	`CREATE TABLE IF NOT EXISTS user_cache (
		id    VARCHAR(64) PRIMARY KEY,
		name  VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		role  VARCHAR(16) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id    VARCHAR(64) NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id)
	)`,
}

// EnsureSchema creates the cache tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
