package schema

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Inspector reads table structure from the PostgreSQL catalog.
type Inspector struct {
	q      Querier
	schema string
	sb     squirrel.StatementBuilderType
}

// NewInspector creates an Inspector over the given schema ("public" when empty)
func NewInspector(q Querier, schema string) *Inspector {
	if schema == "" {
		schema = "public"
	}
	return &Inspector{
		q:      q,
		schema: schema,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ColumnInfo is a column as the catalog reports it
type ColumnInfo struct {
	Name       string
	DataType   string
	MaxLength  *int32
	Nullable   bool
	Default    string
	IsIdentity bool
}

// ConstraintInfo is a constraint as the catalog reports it
type ConstraintInfo struct {
	Name       string
	Type       string
	Definition string
}

// TableInfo is one table of a Snapshot
type TableInfo struct {
	Name        string
	Columns     []ColumnInfo
	Constraints []ConstraintInfo
}

// Snapshot maps table name to its catalog description
type Snapshot map[string]TableInfo

// TableExists reports whether table exists in the inspected schema
func (i *Inspector) TableExists(ctx context.Context, table string) (bool, error) {
	sql, args, err := i.sb.Select("1").
		From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": i.schema, "table_name": table}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build table exists query: %w", err)
	}

	var exists bool
	if err := i.q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// ReferencingTables returns the tables holding a foreign key to table,
// excluding table itself
func (i *Inspector) ReferencingTables(ctx context.Context, table string) ([]string, error) {
	sql, args, err := i.sb.Select("src.relname::text").
		Distinct().
		From("pg_constraint c").
		Join("pg_class src ON src.oid = c.conrelid").
		Join("pg_class dst ON dst.oid = c.confrelid").
		Join("pg_namespace n ON n.oid = dst.relnamespace").
		Where("c.contype = 'f'").
		Where(squirrel.Eq{"n.nspname": i.schema, "dst.relname": table}).
		Where("src.oid <> dst.oid").
		OrderBy("src.relname::text").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build referencing tables query: %w", err)
	}
	return i.strings(ctx, sql, args)
}

// Columns returns the columns of table in ordinal order
func (i *Inspector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	sql, args, err := i.sb.Select(
		"column_name::text",
		"data_type::text",
		"character_maximum_length::int",
		"is_nullable = 'YES'",
		"COALESCE(column_default::text, '')",
		"is_identity = 'YES'",
	).
		From("information_schema.columns").
		Where(squirrel.Eq{"table_schema": i.schema, "table_name": table}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build columns query: %w", err)
	}

	rows, err := i.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.Name, &col.DataType, &col.MaxLength, &col.Nullable, &col.Default, &col.IsIdentity); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// Constraints returns the constraints of table ordered by name
func (i *Inspector) Constraints(ctx context.Context, table string) ([]ConstraintInfo, error) {
	sql, args, err := i.sb.Select("c.conname::text", "c.contype::text", "pg_get_constraintdef(c.oid)").
		From("pg_constraint c").
		Join("pg_class t ON t.oid = c.conrelid").
		Join("pg_namespace n ON n.oid = t.relnamespace").
		Where(squirrel.Eq{"n.nspname": i.schema, "t.relname": table}).
		OrderBy("c.conname").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build constraints query: %w", err)
	}

	rows, err := i.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query constraints of %s: %w", table, err)
	}
	defer rows.Close()

	var constraints []ConstraintInfo
	for rows.Next() {
		var c ConstraintInfo
		if err := rows.Scan(&c.Name, &c.Type, &c.Definition); err != nil {
			return nil, fmt.Errorf("failed to scan constraint of %s: %w", table, err)
		}
		constraints = append(constraints, c)
	}
	return constraints, rows.Err()
}

// Snapshot describes the given tables; absent tables are left out
func (i *Inspector) Snapshot(ctx context.Context, tables ...string) (Snapshot, error) {
	snap := make(Snapshot, len(tables))
	for _, name := range tables {
		exists, err := i.TableExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}

		info := TableInfo{Name: name}
		if info.Columns, err = i.Columns(ctx, name); err != nil {
			return nil, err
		}
		if info.Constraints, err = i.Constraints(ctx, name); err != nil {
			return nil, err
		}
		snap[name] = info
	}
	return snap, nil
}

func (i *Inspector) strings(ctx context.Context, sql string, args []interface{}) ([]string, error) {
	rows, err := i.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
