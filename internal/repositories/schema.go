package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "ticketbooking/internal/db"
)

var schema = []struct {
	table string
	ddl   string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(50) NOT NULL,
	email VARCHAR(100) NOT NULL,
	password_hash VARCHAR(100) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'user',
	reset_token VARCHAR(100) NULL,
	reset_expires_at DATETIME NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email),
	UNIQUE KEY uniq_username (username),
	KEY idx_reset_token (reset_token)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	reference VARCHAR(64) NOT NULL,
	user_id BIGINT NOT NULL,
	starts_from VARCHAR(100) NOT NULL,
	destination VARCHAR(100) NOT NULL,
	travel_date DATE NOT NULL,
	booking_date DATETIME NOT NULL,
	adults INT NOT NULL,
	children INT NOT NULL,
	total_price BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	UNIQUE KEY uniq_reference (reference),
	KEY idx_user (user_id),
	KEY idx_route (starts_from, destination)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
	{"passengers", `
CREATE TABLE IF NOT EXISTS passengers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	name VARCHAR(100) NOT NULL,
	age INT NOT NULL,
	is_adult TINYINT(1) NOT NULL,
	id_type VARCHAR(20) NOT NULL,
	id_number VARCHAR(32) NOT NULL DEFAULT '',
	KEY idx_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`},
}

// EnsureSchema creates missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, t := range schema {
		if intdb.HasTable(ctx, db, t.table) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.table, err)
		}
	}
	return nil
}
