package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// UniqueConstraintName is the name given to a column's unique constraint.
func UniqueConstraintName(table, column string) string {
	return table + "_" + column + "_unique"
}

// ForeignConstraintName is the name given to a column's foreign key.
func ForeignConstraintName(table, column string) string {
	return table + "_" + column + "_foreign"
}

// CheckConstraintName is the name given to an enum column's value check.
func CheckConstraintName(table, column string) string {
	return table + "_" + column + "_check"
}

// CreateSQL renders the CREATE TABLE statement for t. Constraints are named so
// that violations can be matched by name.
func (t Table) CreateSQL() string {
	var defs []string
	for _, c := range t.Columns {
		defs = append(defs, columnSQL(c))
	}
	for _, c := range t.Columns {
		if c.Unique {
			defs = append(defs, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)",
				ident(UniqueConstraintName(t.Name, c.Name)), ident(c.Name)))
		}
	}
	for _, c := range t.Columns {
		if c.Type == TypeEnum {
			values := make([]string, len(c.Values))
			for i, v := range c.Values {
				values[i] = literal(v)
			}
			defs = append(defs, fmt.Sprintf("CONSTRAINT %s CHECK (%s IN (%s))",
				ident(CheckConstraintName(t.Name, c.Name)), ident(c.Name), strings.Join(values, ", ")))
		}
	}
	for _, c := range t.Columns {
		if fk := c.References; fk != nil {
			stmt := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
				ident(ForeignConstraintName(t.Name, c.Name)), ident(c.Name), ident(fk.Table), ident(fk.column()))
			if fk.OnDelete != NoAction {
				stmt += " ON DELETE " + string(fk.OnDelete)
			}
			defs = append(defs, stmt)
		}
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(ident(t.Name))
	sb.WriteString(" (\n")
	for i, d := range defs {
		sb.WriteString("    ")
		sb.WriteString(d)
		if i < len(defs)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(")")
	return sb.String()
}

// DropSQL renders the DROP statement for t. It never cascades, so a table
// that is still referenced cannot be dropped.
func (t Table) DropSQL() string {
	return "DROP TABLE IF EXISTS " + ident(t.Name)
}

func columnSQL(c Column) string {
	var sb strings.Builder
	sb.WriteString(ident(c.Name))
	sb.WriteString(" ")
	sb.WriteString(SQLType(c))

	if c.Type == TypeID {
		sb.WriteString(" GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY")
		return sb.String()
	}
	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(literal(*c.Default))
	}
	return sb.String()
}

// SQLType returns the PostgreSQL type a column is created with.
func SQLType(c Column) string {
	switch c.Type {
	case TypeID, TypeForeignID:
		return "BIGINT"
	case TypeString, TypeEnum:
		length := c.Length
		if length == 0 {
			length = DefaultStringLength
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case TypeText:
		return "TEXT"
	case TypeDate:
		return "DATE"
	case TypeTimestamp:
		return "TIMESTAMP(0) WITHOUT TIME ZONE"
	default:
		return strings.ToUpper(string(c.Type))
	}
}

func (fk ForeignKey) column() string {
	if fk.Column == "" {
		return "id"
	}
	return fk.Column
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func literal(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
