package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/enrollment/internal/schema"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Record is one row of the history table
type Record struct {
	Version   string
	Name      string
	Batch     int
	AppliedAt time.Time
}

// History reads and writes the table that tracks applied units.
type History struct {
	table string
	sb    squirrel.StatementBuilderType
}

// NewHistory creates a History over the named table
func NewHistory(table string) *History {
	if table == "" {
		table = "schema_migrations"
	}
	return &History{
		table: table,
		sb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Table returns the unquoted history table name
func (h *History) Table() string {
	return h.table
}

func (h *History) quoted() string {
	return pgx.Identifier{h.table}.Sanitize()
}

// Ensure creates the history table if it doesn't exist
func (h *History) Ensure(ctx context.Context, exec Execer) error {
	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		version VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		batch INTEGER NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`, h.quoted())

	if _, err := exec.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// Drop removes the history table
func (h *History) Drop(ctx context.Context, exec Execer) error {
	if _, err := exec.Exec(ctx, "DROP TABLE IF EXISTS "+h.quoted()); err != nil {
		return fmt.Errorf("failed to drop migration tracking table: %w", err)
	}
	return nil
}

// Applied returns every recorded unit keyed by version
func (h *History) Applied(ctx context.Context, q schema.Querier) (map[string]Record, error) {
	sql, args, err := h.sb.Select("version", "name", "batch", "applied_at").
		From(h.quoted()).
		OrderBy("batch", "version").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applied migrations query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]Record)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Version, &r.Name, &r.Batch, &r.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan applied migration: %w", err)
		}
		applied[r.Version] = r
	}
	return applied, rows.Err()
}

// LastBatch returns the highest recorded batch number, 0 when empty
func (h *History) LastBatch(ctx context.Context, q schema.Querier) (int, error) {
	sql, args, err := h.sb.Select("COALESCE(MAX(batch), 0)").
		From(h.quoted()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build last batch query: %w", err)
	}

	var batch int
	if err := q.QueryRow(ctx, sql, args...).Scan(&batch); err != nil {
		return 0, fmt.Errorf("failed to read last batch: %w", err)
	}
	return batch, nil
}

// Record marks a unit as applied in batch
func (h *History) Record(ctx context.Context, exec Execer, unit Unit, batch int) error {
	sql, args, err := h.sb.Insert(h.quoted()).
		Columns("version", "name", "batch", "applied_at").
		Values(unit.Version(), unit.Name(), batch, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build record migration query: %w", err)
	}

	if _, err := exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// Remove deletes the record of version; a missing record is not an error
func (h *History) Remove(ctx context.Context, exec Execer, version string) error {
	sql, args, err := h.sb.Delete(h.quoted()).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove migration query: %w", err)
	}

	if _, err := exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	return nil
}
