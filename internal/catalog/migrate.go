package catalog

import (
	"context"
	"fmt"
)

// schema is portable between SQLite and Postgres; tags hold a JSON array.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	grade       TEXT NOT NULL,
	subject     TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	file_name   TEXT NOT NULL,
	file_size   TEXT NOT NULL DEFAULT '',
	pages       INTEGER NOT NULL DEFAULT 0,
	thumbnail   TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '[]',
	downloads   INTEGER NOT NULL DEFAULT 0,
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMP NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS products_file_name ON products (file_name)`,
	`CREATE INDEX IF NOT EXISTS products_grade_subject ON products (grade, subject)`,
}

// Migrate creates the catalog tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			s.logger.Error("catalog migration failed", "error", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	s.logger.Debug("catalog schema ready", "dialect", s.Dialect())
	return nil
}
