package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchPathKeepsCase(t *testing.T) {
	assert.Equal(t, `"public"`, SearchPath("public"))
	assert.Equal(t, `"Enrollment"`, SearchPath("Enrollment"))
}
