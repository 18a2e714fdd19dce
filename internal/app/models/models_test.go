package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusValid(t *testing.T) {
	for _, s := range ApplicationStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.Equal(t, ApplicationPending, ApplicationStatuses()[0])
	assert.False(t, ApplicationStatus("withdrawn").Valid())
	assert.False(t, ApplicationStatus("").Valid())
	assert.False(t, ApplicationStatus("Pending").Valid())
}
