package store

import "context"

// Bootstrap DDL. The UNIQUE key on users.username is load-bearing: it
// closes the register/register race that a lookup-before-insert check
// alone cannot, so keep it even if the tables are created out of band.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(190) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'user',
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS cyber_incidents (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		date VARCHAR(10) NOT NULL,
		incident_type VARCHAR(64) NOT NULL,
		severity VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		description TEXT NOT NULL,
		reported_by VARCHAR(190) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS datasets_metadata (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		dataset_name VARCHAR(190) NOT NULL,
		file_size_mb DOUBLE NOT NULL DEFAULT 0,
		record_count BIGINT NOT NULL DEFAULT 0,
		source VARCHAR(190) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS it_tickets (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		subject VARCHAR(255) NOT NULL,
		priority VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		assigned_to VARCHAR(190) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the console's tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
