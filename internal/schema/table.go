// Package schema describes relational tables as plain data and renders them
// as PostgreSQL DDL.
package schema

import (
	"fmt"

	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// ColumnType is the semantic type of a column; the DDL renderer maps it onto a
// concrete PostgreSQL type.
type ColumnType string

const (
	TypeID        ColumnType = "id"
	TypeForeignID ColumnType = "foreign_id"
	TypeString    ColumnType = "string"
	TypeText      ColumnType = "text"
	TypeDate      ColumnType = "date"
	TypeTimestamp ColumnType = "timestamp"
	TypeEnum      ColumnType = "enum"
)

// DeleteAction is the ON DELETE rule of a foreign key.
type DeleteAction string

const (
	NoAction DeleteAction = ""
	Cascade  DeleteAction = "CASCADE"
	SetNull  DeleteAction = "SET NULL"
	Restrict DeleteAction = "RESTRICT"
)

// DefaultStringLength is used for string and enum columns without a Length.
const DefaultStringLength = 255

// ForeignKey points a column at another table's key.
type ForeignKey struct {
	Table    string
	Column   string // defaults to "id"
	OnDelete DeleteAction
}

// Column describes one column of a table.
type Column struct {
	Name       string
	Type       ColumnType
	Length     int
	Nullable   bool
	Default    *string // literal value, rendered as a quoted constant
	Unique     bool
	Values     []string // allowed values of an enum column
	References *ForeignKey
}

// Table is a table definition.
type Table struct {
	Name    string
	Columns []Column
}

// Default returns a pointer to v, for use in Column.Default.
func Default(v string) *string {
	return &v
}

// Timestamps returns the nullable created_at and updated_at pair.
func Timestamps() []Column {
	return []Column{
		{Name: "created_at", Type: TypeTimestamp, Nullable: true},
		{Name: "updated_at", Type: TypeTimestamp, Nullable: true},
	}
}

// Column returns the column called name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// References returns the distinct tables this table points at, in column
// order. Self references are left out.
func (t Table) References() []string {
	var refs []string
	seen := map[string]bool{t.Name: true}
	for _, c := range t.Columns {
		if c.References == nil || seen[c.References.Table] {
			continue
		}
		seen[c.References.Table] = true
		refs = append(refs, c.References.Table)
	}
	return refs
}

// Validate checks the definition for mistakes the database would otherwise
// report halfway through a migration.
func (t Table) Validate() error {
	if t.Name == "" {
		return apperrors.NewInvalidDefinitionError(t.Name, "table name is required")
	}
	if !validation.IsIdentifier(t.Name) {
		return apperrors.NewInvalidDefinitionError(t.Name, "table name is not a valid identifier")
	}
	if len(t.Columns) == 0 {
		return apperrors.NewInvalidDefinitionError(t.Name, "at least one column is required")
	}

	seen := make(map[string]bool, len(t.Columns))
	primary := 0
	for _, c := range t.Columns {
		if c.Name == "" {
			return apperrors.NewInvalidDefinitionError(t.Name, "column name is required")
		}
		if !validation.IsIdentifier(c.Name) {
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("column %q is not a valid identifier", c.Name))
		}
		if seen[c.Name] {
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("duplicate column %q", c.Name))
		}
		seen[c.Name] = true

		if err := t.validateColumn(c); err != nil {
			return err
		}
		if c.Type == TypeID {
			primary++
		}
	}

	if primary > 1 {
		return apperrors.NewInvalidDefinitionError(t.Name, "more than one id column")
	}
	return nil
}

func (t Table) validateColumn(c Column) error {
	switch c.Type {
	case TypeID, TypeForeignID, TypeString, TypeText, TypeDate, TypeTimestamp:
	case TypeEnum:
		if len(c.Values) == 0 {
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("enum column %q has no values", c.Name))
		}
		if c.Default != nil && !contains(c.Values, *c.Default) {
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("enum column %q default %q is not an allowed value", c.Name, *c.Default))
		}
	default:
		return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("column %q has unknown type %q", c.Name, c.Type))
	}

	if c.Type == TypeID && (c.Nullable || c.References != nil) {
		return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("id column %q cannot be nullable or a foreign key", c.Name))
	}

	if c.Length != 0 && !validation.IsVarcharLength(c.Length) {
		return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("column %q has invalid length %d", c.Name, c.Length))
	}

	if fk := c.References; fk != nil {
		if fk.Table == "" {
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("foreign key %q has no target table", c.Name))
		}
		if !validation.IsIdentifier(fk.Table) {
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("foreign key %q targets invalid table name %q", c.Name, fk.Table))
		}
		switch fk.OnDelete {
		case NoAction, Cascade, Restrict:
		case SetNull:
			if !c.Nullable {
				return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("foreign key %q uses SET NULL but is not nullable", c.Name))
			}
		default:
			return apperrors.NewInvalidDefinitionError(t.Name, fmt.Sprintf("foreign key %q has unknown delete action %q", c.Name, fk.OnDelete))
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
