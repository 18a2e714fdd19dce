package apperrors

import "errors"

// Schema errors
var (
	// ErrSchemaConflict is returned when a unit tries to create a table that already exists
	ErrSchemaConflict = errors.New("schema conflict")
	// ErrMissingReference is returned when a foreign key targets a table that does not exist
	ErrMissingReference = errors.New("missing reference")
	// ErrDependency is returned when a table cannot be dropped because other tables reference it
	ErrDependency = errors.New("dependency error")
	// ErrInvalidDefinition is returned when a table definition is malformed
	ErrInvalidDefinition = errors.New("invalid table definition")
)

// Migration errors
var (
	ErrUnknownMigration   = errors.New("unknown migration")
	ErrDuplicateMigration = errors.New("duplicate migration version")
	ErrIrreversible       = errors.New("migration cannot be reverted")
)

// Error codes attached to CustomError
const (
	CodeSchemaConflict    = "SCHEMA_CONFLICT"
	CodeMissingReference  = "MISSING_REFERENCE"
	CodeDependency        = "DEPENDENCY_ERROR"
	CodeInvalidDefinition = "INVALID_DEFINITION"
)

// NewSchemaConflictError reports that table already exists
func NewSchemaConflictError(table string) *CustomError {
	return NewCustomError(ErrSchemaConflict, "table \""+table+"\" already exists").
		WithCode(CodeSchemaConflict).
		WithDetails(map[string]interface{}{"table": table})
}

// NewMissingReferenceError reports that table references a table that is absent
func NewMissingReferenceError(table, column, target string) *CustomError {
	msg := "table \"" + table + "\" references a missing table"
	if column != "" && target != "" {
		msg = "table \"" + table + "\" column \"" + column + "\" references missing table \"" + target + "\""
	}
	return NewCustomError(ErrMissingReference, msg).
		WithCode(CodeMissingReference).
		WithDetails(map[string]interface{}{"table": table, "column": column, "references": target})
}

// NewDependencyError reports that table is still referenced by dependents
func NewDependencyError(table string, dependents []string) *CustomError {
	msg := "table \"" + table + "\" is still referenced"
	if len(dependents) > 0 {
		msg += " by"
		for i, d := range dependents {
			if i > 0 {
				msg += ","
			}
			msg += " \"" + d + "\""
		}
	}
	return NewCustomError(ErrDependency, msg).
		WithCode(CodeDependency).
		WithDetails(map[string]interface{}{"table": table, "dependents": dependents})
}

// NewInvalidDefinitionError reports a malformed table definition
func NewInvalidDefinitionError(table, message string) *CustomError {
	return NewCustomError(ErrInvalidDefinition, "table \""+table+"\": "+message).
		WithCode(CodeInvalidDefinition).
		WithDetails(map[string]interface{}{"table": table})
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
