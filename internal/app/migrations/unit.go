package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
	"github.com/yigit/enrollment/internal/schema"
)

// Tx is the transaction a unit runs in, with catalog access scoped to the
// migration schema.
type Tx struct {
	pgx.Tx
	Inspect *schema.Inspector
}

// Unit is one forward/backward pair of schema operations.
type Unit interface {
	Version() string
	Name() string
	Apply(ctx context.Context, tx *Tx) error
	Revert(ctx context.Context, tx *Tx) error
}

// TableUnit creates one declared table on Apply and drops it on Revert.
type TableUnit struct {
	version string
	table   schema.Table
}

// CreateTable returns the unit that creates table t
func CreateTable(version string, t schema.Table) *TableUnit {
	return &TableUnit{version: version, table: t}
}

// Version returns the unit version
func (u *TableUnit) Version() string { return u.version }

// Name returns the unit name, e.g. create_students_table
func (u *TableUnit) Name() string { return "create_" + u.table.Name + "_table" }

// Table returns the table definition
func (u *TableUnit) Table() schema.Table { return u.table }

// Apply creates the table. It fails with ErrSchemaConflict when the table
// exists and with ErrMissingReference when a referenced table does not.
func (u *TableUnit) Apply(ctx context.Context, tx *Tx) error {
	if err := u.table.Validate(); err != nil {
		return err
	}

	exists, err := tx.Inspect.TableExists(ctx, u.table.Name)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewSchemaConflictError(u.table.Name)
	}

	for _, ref := range u.table.References() {
		exists, err := tx.Inspect.TableExists(ctx, ref)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NewMissingReferenceError(u.table.Name, u.referencingColumn(ref), ref)
		}
	}

	if _, err := tx.Exec(ctx, u.table.CreateSQL()); err != nil {
		return classifyApplyError(u.table.Name, err)
	}
	return nil
}

// Revert drops the table. A missing table is a no-op; a table other tables
// still reference fails with ErrDependency.
func (u *TableUnit) Revert(ctx context.Context, tx *Tx) error {
	exists, err := tx.Inspect.TableExists(ctx, u.table.Name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	dependents, err := tx.Inspect.ReferencingTables(ctx, u.table.Name)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		return apperrors.NewDependencyError(u.table.Name, dependents)
	}

	if _, err := tx.Exec(ctx, u.table.DropSQL()); err != nil {
		return classifyRevertError(u.table.Name, err)
	}
	return nil
}

// Script returns the DDL Apply runs, or Revert's when down is set
func (u *TableUnit) Script(down bool) string {
	if down {
		return u.table.DropSQL() + ";"
	}
	return u.table.CreateSQL() + ";"
}

func (u *TableUnit) referencingColumn(table string) string {
	for _, c := range u.table.Columns {
		if c.References != nil && c.References.Table == table {
			return c.Name
		}
	}
	return ""
}

// classifyApplyError maps store errors raised by CREATE onto schema errors.
// They only surface when the catalog changed between check and execution.
func classifyApplyError(table string, err error) error {
	switch {
	case dberrors.IsDuplicateTable(err):
		return fmt.Errorf("%w: %v", apperrors.NewSchemaConflictError(table), err)
	case dberrors.IsUndefinedTable(err):
		return fmt.Errorf("%w: %v", apperrors.NewMissingReferenceError(table, "", ""), err)
	default:
		return fmt.Errorf("failed to create %s: %w", table, err)
	}
}

func classifyRevertError(table string, err error) error {
	if dberrors.IsDependentObjects(err) {
		return fmt.Errorf("%w: %v", apperrors.NewDependencyError(table, nil), err)
	}
	return fmt.Errorf("failed to drop %s: %w", table, err)
}
