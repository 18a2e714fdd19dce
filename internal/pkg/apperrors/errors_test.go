package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	conflict := NewSchemaConflictError("students")
	assert.ErrorIs(t, conflict, ErrSchemaConflict)
	assert.Equal(t, CodeSchemaConflict, conflict.Code)
	assert.Equal(t, `table "students" already exists`, conflict.Error())

	missing := NewMissingReferenceError("applications", "course_id", "courses")
	assert.ErrorIs(t, missing, ErrMissingReference)
	assert.Equal(t, "courses", missing.Details["references"])

	dep := NewDependencyError("students", []string{"applications", "documents"})
	assert.ErrorIs(t, dep, ErrDependency)
	assert.Equal(t, `table "students" is still referenced by "applications", "documents"`, dep.Error())

	invalid := NewInvalidDefinitionError("students", "duplicate column \"id\"")
	assert.ErrorIs(t, invalid, ErrInvalidDefinition)
}

func TestIsMatchesAnyTarget(t *testing.T) {
	err := fmt.Errorf("revert 000006: %w", NewDependencyError("students", nil))

	assert.True(t, Is(err, ErrSchemaConflict, ErrDependency))
	assert.False(t, Is(err, ErrSchemaConflict, ErrMissingReference))

	var custom *CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, CodeDependency, custom.Code)
}

func TestCustomErrorFallbackMessage(t *testing.T) {
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
	assert.Equal(t, ErrUnknownMigration.Error(), NewCustomError(ErrUnknownMigration, "").Error())
}
