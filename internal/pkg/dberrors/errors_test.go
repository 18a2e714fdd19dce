package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		check func(error) bool
	}{
		{"unique", CodeUniqueViolation, IsUniqueViolation},
		{"foreign key", CodeForeignKeyViolation, IsForeignKeyViolation},
		{"check", CodeCheckViolation, IsCheckViolation},
		{"duplicate table", CodeDuplicateTable, IsDuplicateTable},
		{"undefined table", CodeUndefinedTable, IsUndefinedTable},
		{"dependent objects", CodeDependentObjectsStillExist, IsDependentObjects},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: tt.code})
			assert.True(t, tt.check(err))
			assert.Equal(t, tt.code, Code(err))
			assert.False(t, tt.check(errors.New(tt.code)))
		})
	}
}

func TestConstraintName(t *testing.T) {
	err := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "students_enrollment_number_unique"}

	assert.Equal(t, "students_enrollment_number_unique", ConstraintName(err))
	assert.Empty(t, ConstraintName(errors.New("plain")))
	assert.Empty(t, Code(nil))
}
