package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL CHECK (length(name) > 0),
  parent_id  UUID        NULL REFERENCES folders (id) ON DELETE CASCADE,
  owner_id   TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (parent_id IS NULL OR parent_id <> id)
);`,
	},
	{
		// NULL parents compare equal through the nil UUID so root-level siblings are unique too.
		Name: "create_unique_index_folders_sibling_name",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_folders_owner_parent_name
  ON folders (owner_id, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid), name);`,
	},
	{
		Name: "create_index_folders_owner_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_folders_owner_parent ON folders (owner_id, parent_id);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name         TEXT        NOT NULL CHECK (length(name) > 0),
  folder_id    UUID        NULL REFERENCES folders (id) ON DELETE CASCADE,
  owner_id     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size_bytes   BIGINT      NOT NULL CHECK (size_bytes >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_files_owner_folder",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_owner_folder ON files (owner_id, folder_id);`,
	},
	{
		Name: "create_table_shared_links",
		SQL: `CREATE TABLE IF NOT EXISTS shared_links (
  token       TEXT        PRIMARY KEY,
  folder_id   UUID        NOT NULL REFERENCES folders (id) ON DELETE CASCADE,
  owner_id    TEXT        NOT NULL,
  owner_email TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  expires_at  TIMESTAMPTZ NULL
);`,
	},
	{
		Name: "create_unique_index_shared_links_owner_folder",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_shared_links_owner_folder ON shared_links (owner_id, folder_id);`,
	},
	{
		Name: "create_index_shared_links_folder",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_shared_links_folder ON shared_links (folder_id);`,
	},
}

// EnsureMigrated checks if the 'shared_links' table exists and runs migrations if it doesn't.
// shared_links is created last, so its presence means every step has already run.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.shared_links') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
