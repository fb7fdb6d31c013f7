package typeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewElementID()
		assert.False(t, seen[id], "id %s reused", id)
		seen[id] = true
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(NewSessionID(), PrefixSession))
	assert.Error(t, Validate(NewSessionID(), PrefixSketch))
	assert.Error(t, Validate("not-an-id", PrefixSession))
}
