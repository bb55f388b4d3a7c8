package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTables(t *testing.T) {
	assert.Len(t, Tables, 1)
	assert.Equal(t, "space_address", Tables[0].Name)
	assert.IsType(t, &SpaceAddress{}, Tables[0].Model)
}
