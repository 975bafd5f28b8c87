package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/worksite/dowgen/internal/models"
)

// SQLiteStore implements VariableStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS variables (
		id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT 'string',
		position INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (project_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_variables_project ON variables(project_id, position);
	`
	_, err := db.Exec(schema)
	return err
}

// FetchVariables returns the stored variable set for a project in saved order.
// An unknown project yields an empty set.
func (s *SQLiteStore) FetchVariables(ctx context.Context, projectID string) ([]models.Variable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, value, kind, created_at, updated_at
		 FROM variables WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch variables: %w", err)
	}
	defer rows.Close()

	var vars []models.Variable
	for rows.Next() {
		var v models.Variable
		var kind string
		if err := rows.Scan(&v.ID, &v.Name, &v.Value, &kind, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("fetch variables: %w", err)
		}
		v.Kind = models.Kind(kind)
		vars = append(vars, v)
	}
	return vars, rows.Err()
}

// SaveVariables replaces the whole variable set for a project in one
// transaction. The editor pushes its full working copy; the stored set always
// matches the last save exactly.
func (s *SQLiteStore) SaveVariables(ctx context.Context, projectID string, vars []models.Variable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save variables: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM variables WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("save variables: clear: %w", err)
	}

	now := time.Now()
	for i, v := range vars {
		created := v.CreatedAt
		if created.IsZero() {
			created = now
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO variables (id, project_id, name, value, kind, position, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, projectID, v.Name, v.Value, string(v.Kind), i, created, now,
		)
		if err != nil {
			return fmt.Errorf("save variables: insert %s: %w", v.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save variables: commit: %w", err)
	}
	return nil
}

// CountVariables returns the number of stored variables for a project.
func (s *SQLiteStore) CountVariables(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM variables WHERE project_id = ?`, projectID).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
