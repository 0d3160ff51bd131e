package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Cleanup(func() { Current = Default })

	assert.True(t, Set("nord"))
	assert.Equal(t, "nord", Current.Name)

	assert.False(t, Set("neon"))
	assert.Equal(t, "nord", Current.Name, "unknown theme keeps the current one")
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"default", "gruvbox", "light", "nord", "tokyonight"}, List())
}
