package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL SQLSTATE codes used by the migrator and its tests.
const (
	CodeUniqueViolation            = "23505"
	CodeForeignKeyViolation        = "23503"
	CodeCheckViolation             = "23514"
	CodeDuplicateTable             = "42P07"
	CodeUndefinedTable             = "42P01"
	CodeDependentObjectsStillExist = "2BP01"
)

// Code returns the SQLSTATE of err, or "" if err is not a PostgreSQL error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// ConstraintName returns the name of the violated constraint, if any.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsUniqueViolation reports a unique_violation (23505).
func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

// IsForeignKeyViolation reports a foreign_key_violation (23503).
func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}

// IsCheckViolation reports a check_violation (23514).
func IsCheckViolation(err error) bool {
	return Code(err) == CodeCheckViolation
}

// IsDuplicateTable reports duplicate_table (42P07).
func IsDuplicateTable(err error) bool {
	return Code(err) == CodeDuplicateTable
}

// IsUndefinedTable reports undefined_table (42P01).
func IsUndefinedTable(err error) bool {
	return Code(err) == CodeUndefinedTable
}

// IsDependentObjects reports dependent_objects_still_exist (2BP01), raised by DROP
// without CASCADE when foreign keys still point at the table.
func IsDependentObjects(err error) bool {
	return Code(err) == CodeDependentObjectsStillExist
}
