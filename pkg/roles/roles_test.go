package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		expected bool
	}{
		{Admin, Operator, true},
		{Admin, Admin, true},
		{Operator, Admin, false},
		{Operator, Client, true},
		{Client, Operator, false},
		{Role("unknown"), Client, true},
		{Role("unknown"), Operator, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"->"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.HasPermission(tt.required))
		})
	}
}

func TestIsRestricted(t *testing.T) {
	assert.True(t, Client.IsRestricted())
	assert.False(t, Operator.IsRestricted())
	assert.False(t, Admin.IsRestricted())
	assert.False(t, Role("root").IsValid())
}
