package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneration(t *testing.T) {
	var g Generation
	assert.Equal(t, uint64(0), g.Current())

	first := g.Next()
	assert.True(t, g.IsCurrent(first))

	second := g.Next()
	assert.False(t, g.IsCurrent(first))
	assert.True(t, g.IsCurrent(second))
	assert.Equal(t, second, g.Current())
}
