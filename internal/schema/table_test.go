package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func studentsTable() Table {
	return Table{
		Name: "students",
		Columns: append([]Column{
			{Name: "id", Type: TypeID},
			{Name: "user_id", Type: TypeForeignID, Unique: true, References: &ForeignKey{Table: "users", OnDelete: Cascade}},
			{Name: "department_id", Type: TypeForeignID, Nullable: true, References: &ForeignKey{Table: "departments", OnDelete: SetNull}},
			{Name: "enrollment_number", Type: TypeString, Unique: true},
			{Name: "admission_date", Type: TypeDate, Nullable: true},
		}, Timestamps()...),
	}
}

func applicationsTable() Table {
	return Table{
		Name: "applications",
		Columns: append([]Column{
			{Name: "id", Type: TypeID},
			{Name: "student_id", Type: TypeForeignID, References: &ForeignKey{Table: "students", OnDelete: Cascade}},
			{Name: "application_status", Type: TypeEnum, Values: []string{"pending", "approved", "rejected"}, Default: Default("pending")},
		}, Timestamps()...),
	}
}

func TestValidateAcceptsWellFormedTables(t *testing.T) {
	assert.NoError(t, studentsTable().Validate())
	assert.NoError(t, applicationsTable().Validate())
}

func TestValidateRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{"no name", Table{Columns: []Column{{Name: "id", Type: TypeID}}}},
		{"no columns", Table{Name: "t"}},
		{"unnamed column", Table{Name: "t", Columns: []Column{{Type: TypeString}}}},
		{"duplicate column", Table{Name: "t", Columns: []Column{{Name: "a", Type: TypeString}, {Name: "a", Type: TypeText}}}},
		{"unknown type", Table{Name: "t", Columns: []Column{{Name: "a", Type: "blob"}}}},
		{"two ids", Table{Name: "t", Columns: []Column{{Name: "id", Type: TypeID}, {Name: "id2", Type: TypeID}}}},
		{"nullable id", Table{Name: "t", Columns: []Column{{Name: "id", Type: TypeID, Nullable: true}}}},
		{"enum without values", Table{Name: "t", Columns: []Column{{Name: "s", Type: TypeEnum}}}},
		{"enum default outside values", Table{Name: "t", Columns: []Column{{Name: "s", Type: TypeEnum, Values: []string{"a"}, Default: Default("b")}}}},
		{"table name with space", Table{Name: "bad name", Columns: []Column{{Name: "id", Type: TypeID}}}},
		{"column name with quote", Table{Name: "t", Columns: []Column{{Name: `a"b`, Type: TypeString}}}},
		{"oversized length", Table{Name: "t", Columns: []Column{{Name: "s", Type: TypeString, Length: 10485761}}}},
		{"fk to invalid table name", Table{Name: "t", Columns: []Column{{Name: "x_id", Type: TypeForeignID, References: &ForeignKey{Table: "x;y"}}}}},
		{"negative length", Table{Name: "t", Columns: []Column{{Name: "s", Type: TypeString, Length: -1}}}},
		{"fk without table", Table{Name: "t", Columns: []Column{{Name: "x_id", Type: TypeForeignID, References: &ForeignKey{}}}}},
		{"set null on required column", Table{Name: "t", Columns: []Column{{Name: "x_id", Type: TypeForeignID, References: &ForeignKey{Table: "x", OnDelete: SetNull}}}}},
		{"unknown delete action", Table{Name: "t", Columns: []Column{{Name: "x_id", Type: TypeForeignID, References: &ForeignKey{Table: "x", OnDelete: "EXPLODE"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.table.Validate(), apperrors.ErrInvalidDefinition)
		})
	}
}

func TestReferencesAreDistinctAndSkipSelf(t *testing.T) {
	table := Table{
		Name: "documents",
		Columns: []Column{
			{Name: "id", Type: TypeID},
			{Name: "student_id", Type: TypeForeignID, References: &ForeignKey{Table: "students"}},
			{Name: "user_id", Type: TypeForeignID, References: &ForeignKey{Table: "users"}},
			{Name: "reviewer_id", Type: TypeForeignID, Nullable: true, References: &ForeignKey{Table: "users"}},
			{Name: "parent_id", Type: TypeForeignID, Nullable: true, References: &ForeignKey{Table: "documents"}},
		},
	}

	assert.Equal(t, []string{"students", "users"}, table.References())
}

func TestColumnLookup(t *testing.T) {
	col, ok := studentsTable().Column("enrollment_number")
	assert.True(t, ok)
	assert.True(t, col.Unique)

	_, ok = studentsTable().Column("missing")
	assert.False(t, ok)
}
