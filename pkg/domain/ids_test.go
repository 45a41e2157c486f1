package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalID(t *testing.T) {
	t.Run("new IDs are unique and non-nil", func(t *testing.T) {
		a := NewPrincipalID()
		b := NewPrincipalID()
		assert.False(t, a.IsNil())
		assert.NotEqual(t, a, b)
	})

	t.Run("round-trips through string form", func(t *testing.T) {
		id := NewPrincipalID()
		parsed, err := ParsePrincipalID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParsePrincipalID("not-a-uuid")
		assert.Error(t, err)
	})

	t.Run("zero value is nil", func(t *testing.T) {
		var id PrincipalID
		assert.True(t, id.IsNil())
	})
}

func TestPrincipalNameIsNil(t *testing.T) {
	tests := []struct {
		name  string
		value PrincipalName
		isNil bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \t", true},
		{"normal UPN", "jsmith@corp.example", false},
		{"bare local part", "jsmith", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isNil, tt.value.IsNil())
		})
	}
}
