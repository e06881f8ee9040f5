package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"Valid name", "Alice", false},
		{"Valid with spaces", "  Project Aurora  ", false},
		{"Empty", "", true},
		{"Whitespace only", "   ", true},
		{"Too long", strings.Repeat("x", MaxNameLength+1), true},
		{"Exactly max", strings.Repeat("x", MaxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Alice", "alice"))
	assert.True(t, SameName(" Aurora", "AURORA "))
	assert.False(t, SameName("Alice", "Alicia"))
}

func TestIsTimeOff(t *testing.T) {
	assert.True(t, IsTimeOff(TimeOffProjectID))
	assert.True(t, IsTimeOff("TIMEOFF"))
	assert.False(t, IsTimeOff("timeoff"))
	assert.False(t, IsTimeOff("j1"))
}
