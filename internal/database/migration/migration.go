package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
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
		Name: "create_table_properties",
		SQL: `CREATE TABLE IF NOT EXISTS properties (
  id             UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  name           TEXT             NOT NULL,
  address        TEXT             NOT NULL,
  location       TEXT             NOT NULL DEFAULT '',
  price          DOUBLE PRECISION NOT NULL CHECK (price >= 0),
  size           DOUBLE PRECISION NOT NULL CHECK (size >= 0),
  bhk            INTEGER          CHECK (bhk IS NULL OR bhk >= 0),
  type           TEXT,
  description    TEXT             NOT NULL DEFAULT '',
  image          JSONB            NOT NULL DEFAULT '[]'::jsonb,
  video          JSONB            NOT NULL DEFAULT '[]'::jsonb,
  is_recommended BOOLEAN          NOT NULL DEFAULT false,
  created_at     TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_properties_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties (created_at DESC);`,
	},
	{
		Name: "create_index_properties_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_properties_type ON properties (type);`,
	},
	{
		Name: "create_index_properties_price",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_properties_price ON properties (price);`,
	},
	{
		Name: "create_index_properties_size",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_properties_size ON properties (size);`,
	},
	{
		Name: "create_index_properties_location",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_properties_location ON properties (location);`,
	},
}

// EnsureMigrated checks if the 'properties' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.properties') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
