package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"students", true},
		{"_private", true},
		{"Schema_Migrations2", true},
		{"", false},
		{"2fast", false},
		{"has space", false},
		{`quo"te`, false},
		{"drop;table", false},
		{strings.Repeat("a", 63), true},
		{strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsIdentifier(tt.in), "%q", tt.in)
	}
}

func TestIsVarcharLength(t *testing.T) {
	assert.True(t, IsVarcharLength(1))
	assert.True(t, IsVarcharLength(255))
	assert.True(t, IsVarcharLength(VarcharMaxLength))
	assert.False(t, IsVarcharLength(0))
	assert.False(t, IsVarcharLength(-5))
	assert.False(t, IsVarcharLength(VarcharMaxLength+1))
}

func TestStringValidationOptional(t *testing.T) {
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("ab").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("").Validate())
}
